package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/relaychat/internal/store/sqlite"
)

func newSessionsCmd(f *flags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recent sessions from the journal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(f)
			if err != nil {
				return err
			}
			if cfg.DatabasePath == "" {
				return errors.New("session journal disabled: set database_path or --db")
			}

			st, err := sqlite.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			list, err := st.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CLIENT\tUSERNAME\tORIGIN\tCONNECTED\tDISCONNECTED")
			for _, s := range list {
				ended := "-"
				if s.DisconnectedAt != nil {
					ended = s.DisconnectedAt.Local().Format(time.DateTime)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					s.ClientID, s.Username, s.Origin, s.ConnectedAt.Local().Format(time.DateTime), ended)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to show")
	return cmd
}
