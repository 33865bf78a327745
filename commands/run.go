// commands/run.go
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Detects updated countries and publishes their datasets once.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.pipeline.Run(cmd.Context())
		if textfile := a.cfg.Metrics.Textfile; textfile != "" {
			if wErr := writeTextfile(a, textfile); wErr != nil {
				slog.Warn("failed to write metrics textfile", "path", textfile, "err", wErr)
			}
		}
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Country", "Result", "Detail"})
		for _, iso3 := range summary.Published {
			t.AppendRow(table.Row{iso3, "published", ""})
		}
		for _, s := range summary.Skipped {
			t.AppendRow(table.Row{s.Country, "skipped: " + s.Reason, s.Err.Error()})
		}
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d detected", len(summary.Detected)),
			summary.Finished.Sub(summary.Started).Round(time.Millisecond).String()})
		t.Render()
		return nil
	},
}

func writeTextfile(a *app, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return a.metrics.WriteTextfile(path)
}
