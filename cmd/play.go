package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/chaindemo/internal/config"
	"github.com/zjrosen/chaindemo/internal/flags"
	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/log"
	"github.com/zjrosen/chaindemo/internal/surface"
	"github.com/zjrosen/chaindemo/internal/ui/styles"
)

var (
	playPrompt  string
	playNoColor bool
	playTimeout time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the demo headless, narrating every change",
	Long: `Run the whole demo without the TUI: generate, wait for the session key,
deploy, and print every region change as it happens. Useful for rehearsing
timings and as a smoke test in CI.

Examples:
  # Narrate a run at live speed
  chaindemo play

  # Start from a chat prompt and run ten times faster
  chaindemo play --prompt "Build me a token vault" --speed 10

  # Plain output for logs
  chaindemo play --no-color --payload sepolia`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playPrompt, "prompt", "",
		"submit this text as the chat message instead of pressing generate")
	playCmd.Flags().BoolVar(&playNoColor, "no-color", false, "disable colored output")
	playCmd.Flags().DurationVar(&playTimeout, "timeout", 2*time.Minute,
		"give up if the run has not finished after this long")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, _ []string) error {
	resolved, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	cleanupLog, _, err := initLogging("chaindemo-play")
	if err != nil {
		return err
	}
	defer cleanupLog()

	if playNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, playTimeout)
	defer cancel()

	svc := openServices(ctx, resolved)
	defer svc.Close()

	return play(ctx, cmd.OutOrStdout(), resolved, playPrompt, svc.Observers())
}

// play drives one complete run on a RealClock and prints a summary.
func play(ctx context.Context, out io.Writer, c config.Config, prompt string, observers []flow.Observer) error {
	payload, err := flow.LookupPayload(c.Demo.Payload)
	if err != nil {
		return err
	}
	registry := flags.New(c.Flags)
	timing := c.Demo.Timing()

	narrator := surface.NewNarrator(out)
	narrator.SetQuiet(true)
	runner := flow.NewRunner(narrator, flow.Config{
		Payload:           payload,
		Timing:            timing,
		KeepTimersOnReset: registry.Enabled(flags.FlagLegacyReset),
		Observers:         observers,
	}, flow.RealClock{})
	narrator.SetQuiet(false)

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.HighlightColor)
	muted := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	fmt.Fprintln(out, title.Render("chaindemo")+muted.Render(fmt.Sprintf(" · %s · speed %gx", payload.Network, c.Demo.Speed)))

	started := time.Now()
	log.Info(log.CatFlow, "Headless run starting", "payload", payload.Name, "speed", c.Demo.Speed)

	if prompt != "" {
		if !runner.Submit(prompt) {
			return fmt.Errorf("prompt was not accepted")
		}
	} else {
		runner.Generate()
	}

	if err := runner.WaitFor(ctx, flow.StepContractReady); err != nil {
		return fmt.Errorf("waiting for contract: %w", err)
	}
	if err := runner.WaitUntil(ctx, func(s flow.Session) bool { return s.SessionCreated }); err != nil {
		return fmt.Errorf("waiting for session key: %w", err)
	}
	if !runner.Deploy() {
		return fmt.Errorf("deploy was not accepted in step %s", runner.Session().Step)
	}
	if err := runner.WaitFor(ctx, flow.StepDeployed); err != nil {
		return fmt.Errorf("waiting for deployment: %w", err)
	}

	elapsed := time.Since(started)
	log.Info(log.CatFlow, "Headless run finished", "elapsed", elapsed)
	printSummary(out, runner.Payload(), elapsed)
	return nil
}

func printSummary(out io.Writer, p flow.Payload, elapsed time.Duration) {
	success := lipgloss.NewStyle().Bold(true).Foreground(styles.StatusSuccessColor)
	label := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Width(12)

	fmt.Fprintln(out)
	fmt.Fprintln(out, success.Render("Deployed")+fmt.Sprintf(" in %s", elapsed.Round(10*time.Millisecond)))
	for _, row := range [][2]string{
		{"Network", p.Network},
		{"Class hash", p.ClassHash},
		{"Contract", p.ContractAddress},
		{"Transaction", p.TxHash},
		{"Gas", p.GasUsed + " (" + p.GasCost + ")"},
		{"Explorer", p.TxURL},
	} {
		if row[1] == "" {
			continue
		}
		fmt.Fprintln(out, label.Render(row[0])+row[1])
	}
}
