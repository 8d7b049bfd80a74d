package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vendamais/followup-cli/internal/report"
)

var (
	analyzeOutput string
	analyzeJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <spreadsheet>",
	Short: "Process one pipeline spreadsheet and generate recommendations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "read %s", path)
		}

		result, err := env.Pipeline.Process(ctx, data, filepath.Base(path))
		if err != nil {
			return err
		}

		ttl := time.Duration(cfg.Report.TTLHours) * time.Hour
		rep := report.New(filepath.Base(path), result.Records, result.Skipped, ttl)
		if err := env.Store.Save(ctx, rep); err != nil {
			return err
		}

		zap.L().Info("analysis complete",
			zap.String("report_id", rep.ID),
			zap.Int("deals", len(rep.Records)),
			zap.Int("hidden_by_phase", result.Total-len(rep.Records)),
			zap.Int("skipped_rows", result.Skipped),
		)

		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(rep), "encode report")
		}

		out := analyzeOutput
		if out == "" {
			out = rep.ID + ".html"
		}
		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create %s", out)
		}
		defer f.Close()
		if err := report.RenderHTML(f, rep); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "report %s written to %s (%d deals)\n", rep.ID, out, len(rep.Records))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "HTML output path (default <report-id>.html)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the report as JSON instead of writing HTML")
	rootCmd.AddCommand(analyzeCmd)
}
