package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat/internal/config"
	"github.com/vovakirdan/relaychat/internal/core"
	"github.com/vovakirdan/relaychat/internal/store"
)

// NewServer builds the HTTP server: websocket upgrades on any path, health
// probes, the read-only session API (when st is non-nil) and static files.
// Upgrades bypass gin entirely; its response writer cannot be hijacked once
// middleware has touched it.
func NewServer(hub *core.Hub, st store.SessionStore, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	ws := NewWSHandler(hub, WSOptions{
		Subprotocol: cfg.Subprotocol,
		ReadLimit:   cfg.MaxMessageBytes,
		SendBuffer:  cfg.SendBuffer,
	}, logger)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/ws", gin.WrapH(ws))
	if st != nil {
		sessions := NewSessionHandlers(st, logger)
		router.GET("/api/sessions", sessions.List)
	}
	for _, p := range healthRoutes(cfg.HealthPaths) {
		router.GET(p, healthHandler)
	}
	router.NoRoute(staticHandler(cfg.StaticDir))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           upgradeHandler(ws, router),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// healthRoutes maps configured paths onto router paths; "" and "/" both mean the root.
func healthRoutes(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	routes := make([]string, 0, len(paths))
	for _, p := range paths {
		p = "/" + strings.TrimLeft(strings.TrimSpace(p), "/")
		if p == "/ws" || strings.HasPrefix(p, "/api/") {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		routes = append(routes, p)
	}
	return routes
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"health": "ok"})
}
