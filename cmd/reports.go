package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vendamais/followup-cli/internal/report"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List stored reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := report.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		summaries, err := store.List(ctx)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no reports stored")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILE\tDEALS\tCREATED\tEXPIRES")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				s.ID, s.Filename, s.Deals,
				s.CreatedAt.Format("2006-01-02 15:04"),
				s.ExpiresAt.Format("2006-01-02 15:04"),
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
}
