package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/zjrosen/chaindemo/internal/app"
	"github.com/zjrosen/chaindemo/internal/ui/styles"
)

const tipsWidth = 72

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Print the presenter's walkthrough",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		step := lipgloss.NewStyle().Bold(true).Foreground(styles.HighlightColor)
		for i, tip := range app.PresenterTips() {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, step.Render(tip.Step))
			fmt.Fprintln(out, wordwrap.String(tip.Text, tipsWidth))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tipsCmd)
}
