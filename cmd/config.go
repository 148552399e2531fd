package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/chaindemo/internal/config"
	"github.com/zjrosen/chaindemo/internal/flags"
	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/ui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolved, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		data, err := config.Marshal(resolved)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if cfgPath != "" {
			fmt.Fprintf(out, "# %s\n", cfgPath)
		}
		_, err = out.Write(data)
		return err
	},
}

var configFlagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List feature flags and whether they are on",
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolved, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		registry := flags.New(resolved.Flags)

		on := lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
		off := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
		name := lipgloss.NewStyle().Width(16)

		out := cmd.OutOrStdout()
		for _, f := range flags.Known() {
			state := off.Render("off")
			if registry.Enabled(f) {
				state = on.Render("on ")
			}
			fmt.Fprintf(out, "%s %s %s\n", name.Render(f), state, flags.Descriptions[f])
		}
		for _, f := range registry.Unknown() {
			fmt.Fprintf(out, "%s %s\n", name.Render(f), styles.WarningStyle.Render("unknown"))
		}
		return nil
	},
}

var configPayloadsCmd = &cobra.Command{
	Use:   "payloads",
	Short: "List the result presets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		resolved, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, n := range flow.PayloadNames() {
			p, _ := flow.LookupPayload(n)
			marker := "  "
			if n == resolved.Demo.Payload {
				marker = "* "
			}
			fmt.Fprintf(out, "%s%-10s %s (%s)\n", marker, n, p.Network, p.Explorer)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configFlagsCmd, configPayloadsCmd)
	rootCmd.AddCommand(configCmd)
}
