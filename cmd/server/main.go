package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// flags collects command-line overrides; empty values leave config untouched.
type flags struct {
	configPath string
	addr       string
	logLevel   string
	staticDir  string
	dbPath     string
	origins    []string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:          "relaychat",
		Short:        "Realtime websocket chat relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to config.yaml (default ./config.yaml)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.dbPath, "db", "", "sqlite session journal path (empty disables)")

	root.Flags().StringVar(&f.addr, "addr", "", "HTTP listen address")
	root.Flags().StringVar(&f.staticDir, "static-dir", "", "directory served for non-websocket requests")
	root.Flags().StringSliceVar(&f.origins, "allowed-origin", nil, "allowed websocket origin (repeatable, * for any)")

	root.AddCommand(newSessionsCmd(f))
	return root
}
