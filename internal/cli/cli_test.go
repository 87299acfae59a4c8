package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hanoi/pkg/errors"
)

type testEnv struct {
	configDir string
	cacheDir  string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	env := testEnv{configDir: t.TempDir(), cacheDir: t.TempDir()}
	t.Setenv("XDG_CONFIG_HOME", env.configDir)
	t.Setenv("XDG_CACHE_HOME", env.cacheDir)
	return env
}

func (e testEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := filepath.Join(e.configDir, appName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))
}

func (e testEnv) cacheEntries(t *testing.T) int {
	t.Helper()
	count := 0
	filepath.Walk(filepath.Join(e.cacheDir, appName), func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			count++
		}
		return nil
	})
	return count
}

// runCLI executes the root command with args and returns what it wrote to
// stdout and to the logger.
func runCLI(t *testing.T, args ...string) (out, logs string, err error) {
	t.Helper()
	var stdout, logBuf bytes.Buffer
	c := New(&logBuf, LogInfo)
	root := c.RootCommand()
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return stdout.String(), logBuf.String(), err
}

func TestRootSolvesLastArgument(t *testing.T) {
	newTestEnv(t)

	out, logs, err := runCLI(t, "3")
	require.NoError(t, err)
	assert.Equal(t, "6 5 3 3 0 1 1 0\n0 0 2 3 3 2 0 0\n0 1 1 0 3 3 5 6\n", out)
	assert.Contains(t, logs, "solved")
}

func TestSolveSubcommand(t *testing.T) {
	newTestEnv(t)

	out, _, err := runCLI(t, "solve", "-f", "csv", "1")
	require.NoError(t, err)
	assert.Equal(t, "step,peg0,peg1,peg2\n0,1,0,0\n1,0,0,1\n", out)
}

func TestSolveInvalidDiskCount(t *testing.T) {
	newTestEnv(t)

	for _, args := range [][]string{
		{"solve"},
		{"solve", "abc"},
		{"0"},
		{"solve", "99"},
	} {
		out, _, err := runCLI(t, args...)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument), "args %v: err = %v", args, err)
		assert.Empty(t, out, "args %v should print nothing", args)
	}
}

func TestSolveInvalidFormat(t *testing.T) {
	newTestEnv(t)

	_, _, err := runCLI(t, "solve", "-f", "xml", "2")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestSolveCachesTraces(t *testing.T) {
	env := newTestEnv(t)

	first, _, err := runCLI(t, "4")
	require.NoError(t, err)
	assert.Equal(t, 1, env.cacheEntries(t))

	second, logs, err := runCLI(t, "4")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, logs, "cached=true")

	_, _, err = runCLI(t, "--no-cache", "5")
	require.NoError(t, err)
	assert.Equal(t, 1, env.cacheEntries(t))
}

func TestSolveReadsConfig(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "format = \"json\"\nmax_disks = 4\n\n[cache]\nenabled = false\n")

	out, _, err := runCLI(t, "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"loads": [`)
	assert.Equal(t, 0, env.cacheEntries(t))

	_, _, err = runCLI(t, "5")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))

	out, _, err = runCLI(t, "-f", "text", "1")
	require.NoError(t, err)
	assert.Equal(t, "1 0\n0 0\n0 1\n", out)
}

func TestSolveInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, `max_disks = "many"`)

	_, _, err := runCLI(t, "2")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestSolveOutputFile(t *testing.T) {
	newTestEnv(t)
	path := filepath.Join(t.TempDir(), "trace.yaml")

	out, _, err := runCLI(t, "solve", "-f", "yaml", "-o", path, "2")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "disks: 2")
}

func TestSolveDebugAndVerify(t *testing.T) {
	newTestEnv(t)

	_, logs, err := runCLI(t, "--debug", "--verify", "2")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(logs, "move step="))
}

func TestSolveMetricsOut(t *testing.T) {
	newTestEnv(t)
	path := filepath.Join(t.TempDir(), "hanoi.prom")

	_, _, err := runCLI(t, "--no-cache", "--metrics-out", path, "3")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hanoi_solves_total{result="ok"} 1`)
	assert.Contains(t, string(data), "hanoi_moves_total 7")
}

func TestRenderDOT(t *testing.T) {
	newTestEnv(t)

	out, _, err := runCLI(t, "render", "-f", "dot", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph G {"))
	assert.Equal(t, 3, strings.Count(out, " -> "))
}

func TestRenderRejects(t *testing.T) {
	newTestEnv(t)

	_, _, err := runCLI(t, "render", "11")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))

	_, _, err = runCLI(t, "render", "-f", "gif", "2")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.configDir, appName, "config.toml")+"\n", out)

	out, _, err = runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `format = "text"`)
	assert.Contains(t, out, "max_disks = 20")

	custom := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(custom, []byte("max_disks = 7\n"), 0o644))
	out, _, err = runCLI(t, "--config", custom, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "max_disks = 7")
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := runCLI(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.cacheDir, appName)+"\n", out)

	for _, n := range []string{"2", "3"} {
		_, _, err := runCLI(t, n)
		require.NoError(t, err)
	}
	require.Equal(t, 2, env.cacheEntries(t))

	_, _, err = runCLI(t, "cache", "clear", "--disks", "2")
	require.NoError(t, err)
	assert.Equal(t, 1, env.cacheEntries(t))

	_, _, err = runCLI(t, "cache", "clear")
	require.NoError(t, err)
	assert.Equal(t, 0, env.cacheEntries(t))
}

func TestCompletion(t *testing.T) {
	newTestEnv(t)

	out, _, err := runCLI(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "hanoi")

	_, _, err = runCLI(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestStatsLine(t *testing.T) {
	assert.Contains(t, statsLine(5, 31, false), "31 moves")
	assert.Contains(t, statsLine(5, 31, true), iconCached)
	assert.Contains(t, statsLine(5, 31, false), iconFresh)
}
