package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chaindemo/internal/config"
	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/presentation"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// writeConfig writes a fast config with history in dir and returns its path.
func writeConfig(t *testing.T, dir string, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`demo:
  payload: starknet
  speed: 100
history:
  enabled: true
  path: %s
tracing:
  enabled: false
%s`, filepath.Join(dir, "history.db"), extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// resetFlags restores every flag of c and its children to its default so
// one execution does not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CHAINDEMO_DEBUG", "")

	viper.Reset()
	resetFlags(rootCmd)
	cfg = config.Config{}
	cfgErr = nil
	cfgPath = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"play", "history", "tips", "config"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	sub := map[string]bool{}
	for _, c := range historyCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.True(t, sub["show"])
	assert.True(t, sub["stats"])
	assert.True(t, sub["prune"])
}

func TestRootCommand_Flags(t *testing.T) {
	for _, name := range []string{"config", "debug", "payload", "speed"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	for _, name := range []string{"autoplay", "legacy-reset", "tips", "no-mouse"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
}

func TestSetVersion(t *testing.T) {
	old := rootCmd.Version
	t.Cleanup(func() { SetVersion(old) })

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", rootCmd.Version)
}

func TestTips_PrintsEveryStep(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	out, err := execute(t, "tips", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Prompt")
	assert.Contains(t, out, "Generate")
}

func TestConfig_MissingFileIsCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	_, err := execute(t, "tips", "--config", path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written to the requested path")
}

func TestConfigShow_AppliesOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	out, err := execute(t, "config", "show", "--config", path, "--payload", "sepolia", "--speed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "payload: sepolia")
	assert.Contains(t, out, "speed: 3")
	assert.Contains(t, out, "# "+path)
}

func TestConfigShow_RejectsInvalidSpeed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	_, err := execute(t, "config", "show", "--config", path, "--speed", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demo.speed")
}

func TestConfigShow_RejectsUnknownPayload(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	_, err := execute(t, "config", "show", "--config", path, "--payload", "mainnet")
	require.Error(t, err)
}

func TestConfigFlags_ListsKnownAndUnknown(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "flags:\n  legacy-reset: true\n  mystery: true\n")

	out, err := execute(t, "config", "flags", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "legacy-reset")
	assert.Contains(t, out, "autoplay")
	assert.Contains(t, out, "mystery")
	assert.Contains(t, out, "unknown")
}

func TestConfigPayloads_MarksSelected(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	out, err := execute(t, "config", "payloads", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "* starknet")
	assert.Contains(t, out, "  sepolia")
	assert.Contains(t, out, "Etherscan")
}

func TestPlay_RunsToDeployment(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	out, err := execute(t, "play", "--config", path, "--no-color", "--timeout", "10s")
	require.NoError(t, err)

	p, _ := flow.LookupPayload("starknet")
	assert.Contains(t, out, "Deployed in")
	assert.Contains(t, out, p.ContractAddress)
	assert.Contains(t, out, p.TxHash)
	assert.Contains(t, out, p.TxURL)
}

func TestPlay_WithPromptAndPayload(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	out, err := execute(t, "play", "--config", path, "--no-color",
		"--prompt", "Build a vault", "--payload", "sepolia")
	require.NoError(t, err)

	p, _ := flow.LookupPayload("sepolia")
	assert.Contains(t, out, "Build a vault")
	assert.Contains(t, out, p.Network)
	assert.Contains(t, out, p.ContractAddress)
	assert.NotContains(t, out, "Class hash", "sepolia has no class hash")
}

func TestHistory_RecordsPlayedRuns(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "")

	_, err := execute(t, "play", "--config", path, "--no-color")
	require.NoError(t, err)

	out, err := execute(t, "history", "--config", path, "--json")
	require.NoError(t, err)

	var runs []presentation.RunDTO
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "deployed", runs[0].Outcome)
	assert.Equal(t, "starknet", runs[0].Payload)
	assert.NotZero(t, runs[0].EventCount)

	out, err = execute(t, "history", "show", runs[0].ID[:8], "--config", path, "--json")
	require.NoError(t, err)

	var run presentation.RunDTO
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, runs[0].ID, run.ID)
	require.NotEmpty(t, run.Events)
	assert.Equal(t, string(flow.EventGenerateStarted), run.Events[0].Kind)
	assert.Equal(t, string(flow.EventDeployed), run.Events[len(run.Events)-1].Kind)

	out, err = execute(t, "history", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, runs[0].ID[:8])
	assert.Contains(t, out, "deployed")
}

func TestHistory_EmptyJournal(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	out, err := execute(t, "history", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet.")

	out, err = execute(t, "history", "--config", path, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestHistoryShow_UnknownRun(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	_, err := execute(t, "history", "show", "deadbeef", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run matches")
}

func TestHistoryStatsAndPrune(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	for range 2 {
		_, err := execute(t, "play", "--config", path, "--no-color")
		require.NoError(t, err)
	}

	out, err := execute(t, "history", "stats", "--config", path, "--json")
	require.NoError(t, err)
	var stats presentation.StatsDTO
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.Runs)
	assert.Equal(t, 2, stats.Deployed)

	out, err = execute(t, "history", "prune", "--keep", "1", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Pruned 1 run(s)")

	out, err = execute(t, "history", "stats", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Runs")
	assert.Regexp(t, `Runs\s+1`, out)
}

func TestHistoryPrune_RejectsNegativeKeep(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	_, err := execute(t, "history", "prune", "--keep", "-1", "--config", path)
	require.Error(t, err)
}

func TestTruncateGraphemes(t *testing.T) {
	assert.Equal(t, "short", truncateGraphemes("short", 10))
	assert.Equal(t, "abcd…", truncateGraphemes("abcdefgh", 5))
	// The family emoji is a single cluster and must survive intact.
	family := "👨‍👩‍👧‍👦"
	assert.Equal(t, family+"x…", truncateGraphemes(family+"xyz", 3))
}
