package http

import (
	"errors"
	"io/fs"
	"mime"
	stdhttp "net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// FileError is the 404 body returned when a static file cannot be read.
type FileError struct {
	Op    string `json:"op,omitempty"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error"`
}

// staticHandler serves files below root. The request path is cleaned
// before joining so it cannot climb out of root.
func staticHandler(root string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rel := path.Clean("/" + c.Request.URL.Path)
		full := filepath.Join(root, filepath.FromSlash(rel))

		data, err := os.ReadFile(full)
		if err != nil {
			c.JSON(stdhttp.StatusNotFound, fileError(rel, err))
			return
		}

		contentType := mime.TypeByExtension(filepath.Ext(full))
		if contentType == "" {
			contentType = stdhttp.DetectContentType(data)
		}
		c.Data(stdhttp.StatusOK, contentType, data)
	}
}

func fileError(rel string, err error) FileError {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return FileError{Op: pathErr.Op, Path: rel, Error: pathErr.Err.Error()}
	}
	return FileError{Path: rel, Error: err.Error()}
}
