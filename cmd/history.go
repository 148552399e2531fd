package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"

	"github.com/zjrosen/chaindemo/internal/history"
	"github.com/zjrosen/chaindemo/internal/presentation"
	"github.com/zjrosen/chaindemo/internal/ui/styles"
)

var (
	historyLimit int
	historyJSON  bool
	historyKeep  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the journal of past demo runs",
	Long: `Inspect the journal of past demo runs.

Every run from the first action to its deploy or restart is recorded when
history is enabled in the config.

Examples:
  # Most recent runs
  chaindemo history

  # One run and its events, by id prefix
  chaindemo history show 3f2a

  # Machine readable
  chaindemo history --json | jq '.[].outcome'`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run and its events",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the journal",
	RunE:  runHistoryStats,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent runs",
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output JSON")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to list")
	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 100, "number of runs to keep")

	historyCmd.AddCommand(historyShowCmd, historyStatsCmd, historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func withHistory(cmd *cobra.Command, fn func(*history.DB) error) error {
	resolved, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	db, err := openHistory(resolved)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = db.Close() }()
	return fn(db)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	return withHistory(cmd, func(db *history.DB) error {
		runs, err := db.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if historyJSON {
			return presentation.NewFormatter(out).FormatRuns(presentation.FromRuns(runs))
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded yet.")
			return nil
		}
		renderRuns(out, runs)
		return nil
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	return withHistory(cmd, func(db *history.DB) error {
		run, err := db.GetRun(cmd.Context(), args[0])
		switch {
		case errors.Is(err, history.ErrRunNotFound):
			return fmt.Errorf("no run matches %q", args[0])
		case errors.Is(err, history.ErrAmbiguousRun):
			return fmt.Errorf("%q matches several runs, use a longer prefix", args[0])
		case err != nil:
			return err
		}
		events, err := db.Events(cmd.Context(), run.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			return presentation.NewFormatter(out).FormatRun(presentation.FromRunWithEvents(run, events))
		}
		renderRun(out, run, events)
		return nil
	})
}

func runHistoryStats(cmd *cobra.Command, _ []string) error {
	return withHistory(cmd, func(db *history.DB) error {
		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if historyJSON {
			return presentation.NewFormatter(out).FormatStats(presentation.FromStats(stats))
		}
		label := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Width(14)
		for _, row := range [][2]string{
			{"Runs", strconv.Itoa(stats.Runs)},
			{"Deployed", strconv.Itoa(stats.Deployed)},
			{"Restarted", strconv.Itoa(stats.Reset)},
			{"In progress", strconv.Itoa(stats.Running)},
			{"Avg deploy", formatDuration(stats.AvgDeploy)},
		} {
			fmt.Fprintln(out, label.Render(row[0])+row[1])
		}
		return nil
	})
}

func runHistoryPrune(cmd *cobra.Command, _ []string) error {
	if historyKeep < 0 {
		return fmt.Errorf("--keep must not be negative")
	}
	return withHistory(cmd, func(db *history.DB) error {
		n, err := db.Prune(cmd.Context(), historyKeep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d run(s), kept the %d most recent.\n", n, historyKeep)
		return nil
	})
}

func renderRuns(out io.Writer, runs []history.Run) {
	header := lipgloss.NewStyle().Bold(true).Foreground(styles.HighlightColor).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)).
		Headers("ID", "STARTED", "NETWORK", "OUTCOME", "STEP", "EVENTS", "DURATION", "PROMPT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 3 && row >= 0 && row < len(runs) {
				return cell.Foreground(outcomeColor(runs[row].Outcome))
			}
			return cell
		})
	for _, r := range runs {
		t.Row(
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Network,
			string(r.Outcome),
			r.FinalStep,
			strconv.Itoa(r.EventCount),
			formatDuration(r.Duration()),
			truncateGraphemes(r.Prompt, promptColumnWidth),
		)
	}
	fmt.Fprintln(out, t.Render())
}

func renderRun(out io.Writer, run history.Run, events []history.EventRecord) {
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.HighlightColor)
	label := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Width(12)

	fmt.Fprintln(out, title.Render("Run "+run.ID))
	rows := [][2]string{
		{"Network", run.Network},
		{"Payload", run.Payload},
		{"Prompt", run.Prompt},
		{"Started", run.StartedAt.Local().Format(time.RFC3339)},
		{"Outcome", lipgloss.NewStyle().Foreground(outcomeColor(run.Outcome)).Render(string(run.Outcome))},
		{"Final step", run.FinalStep},
		{"Duration", formatDuration(run.Duration())},
		{"Tx hash", run.TxHash},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintln(out, label.Render(row[0])+row[1])
	}

	if len(events) == 0 {
		return
	}
	fmt.Fprintln(out)
	muted := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	for _, ev := range events {
		offset := ev.At.Sub(run.StartedAt).Round(time.Millisecond)
		line := fmt.Sprintf("%8s  %-16s %s", "+"+offset.String(), ev.Kind, muted.Render(ev.Step))
		if ev.Detail != "" {
			line += "  " + ev.Detail
		}
		fmt.Fprintln(out, line)
	}
}

func outcomeColor(o history.Outcome) lipgloss.TerminalColor {
	switch o {
	case history.OutcomeDeployed:
		return styles.StatusSuccessColor
	case history.OutcomeReset:
		return styles.StatusWarningColor
	default:
		return styles.TextMutedColor
	}
}

const promptColumnWidth = 24

// truncateGraphemes cuts s to at most n grapheme clusters, so emoji and
// combining marks in a prompt are never split.
func truncateGraphemes(s string, n int) string {
	if uniseg.GraphemeClusterCount(s) <= n {
		return s
	}
	var (
		out   string
		state = -1
	)
	for i := 0; i < n-1 && len(s) > 0; i++ {
		var cluster string
		cluster, s, _, state = uniseg.StepString(s, state)
		out += cluster
	}
	return out + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(100 * time.Millisecond).String()
}
