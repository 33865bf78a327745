// commands/state.go
package commands

import (
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(stateCmd)
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Prints the stored watermark of every location.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		state, err := a.store.Load(cmd.Context())
		if err != nil {
			return err
		}
		codes := make([]string, 0, len(state))
		for code := range state {
			codes = append(codes, code)
		}
		slices.Sort(codes)

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Location", "Watermark"})
		for _, code := range codes {
			t.AppendRow(table.Row{code, state[code].Format("2006-01-02 15:04:05")})
		}
		t.Render()
		return nil
	},
}
