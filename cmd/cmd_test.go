package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../scenario/testdata/monday.yaml"

func testConfigFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "strategies:\n  - type: segmented\n  - type: strict_priority\n" +
		"history:\n  type: jsonl\n  conf:\n    path: " + filepath.Join(dir, "history.jsonl") + "\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	pf = planFlags{format: "summary"}
	historyFlags.name, historyFlags.limit = "", 0
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlanCommand_Summary(t *testing.T) {
	cfg := testConfigFile(t)
	out, err := execute(t, "plan", fixture, "-c", cfg)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5, "header plus two strategies times two shifts")
	assert.True(t, strings.HasPrefix(lines[0], "strategy,title,shift"))
	assert.True(t, strings.HasPrefix(lines[1], "segmented,"))
}

func TestPlanCommand_CSVAndHistory(t *testing.T) {
	cfg := testConfigFile(t)
	out, err := execute(t, "plan", fixture, "-c", cfg, "-f", "csv", "--strategy", "segmented", "--shift", "morning", "--save")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "step,action,station"))

	out, err = execute(t, "history", "ls", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Monday rotation")

	_, err = execute(t, "history", "rm", "-c", cfg, "missing-id")
	assert.ErrorContains(t, err, "missing-id")
}

func TestPlanCommand_Errors(t *testing.T) {
	cfg := testConfigFile(t)
	_, err := execute(t, "plan", "-c", cfg)
	assert.ErrorContains(t, err, "scenario file or --remote")

	_, err = execute(t, "plan", fixture, "-c", cfg, "-f", "csv")
	assert.ErrorContains(t, err, "single plan")

	_, err = execute(t, "plan", fixture, "-c", cfg, "--strategy", "cargo_first")
	assert.ErrorContains(t, err, "no plan matches")

	_, err = execute(t, "plan", fixture, "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "load config")
}

func TestReplayCommand(t *testing.T) {
	out, err := execute(t, "replay", fixture, "-c", testConfigFile(t), "--strategy", "segmented", "--shift", "morning")
	require.NoError(t, err)
	assert.Contains(t, out, "morning: complete")
	assert.Contains(t, out, "PICKUP")
}

func TestStrategiesCommand(t *testing.T) {
	out, err := execute(t, "strategies")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "passenger_first\n"))
	assert.Contains(t, out, "strict_priority")
}

func TestHistoryBackfillCommand(t *testing.T) {
	cfg := testConfigFile(t)
	_, err := execute(t, "plan", fixture, "-c", cfg, "--save")
	require.NoError(t, err)

	db := filepath.Join(t.TempDir(), "kpi.db")
	out, err := execute(t, "history", "backfill", "-c", cfg, "--kpi-db", db)
	require.NoError(t, err)
	assert.Equal(t, "4 records from 1 scenarios\n", out)
}
