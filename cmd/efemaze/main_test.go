package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeStranger-Fred/efemaze/agent"
	"github.com/CodeStranger-Fred/efemaze/config"
	"github.com/CodeStranger-Fred/efemaze/maze"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--config", filepath.Join(dir, "absent.yaml"),
		"--env", filepath.Join(dir, "absent.env"),
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    maze.Position
		wantErr bool
	}{
		{"1,1", maze.Position{Row: 1, Col: 1}, false},
		{" 3 , 12 ", maze.Position{Row: 3, Col: 12}, false},
		{"3", maze.Position{}, true},
		{"a,1", maze.Position{}, true},
		{"1,b", maze.Position{}, true},
	}
	for _, tt := range tests {
		got, err := parsePosition(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestRunCmd_GridFile(t *testing.T) {
	dir := t.TempDir()
	gridFile := filepath.Join(dir, "corridor.txt")
	require.NoError(t, os.WriteFile(gridFile, []byte("#####\n.....\n#####\n"), 0o644))

	out, err := execute(t, "run",
		"--grid-file", gridFile,
		"--start", "1,0",
		"--goal", "1,4",
		"--variant", "reveal",
		"--no-color")
	require.NoError(t, err)
	assert.Equal(t, "# # # # # \nS * * * @ \n# # # # # \nreached after 4 steps (4 moves)\n", out)
}

func TestRunCmd_WritesHTMLAndStore(t *testing.T) {
	dir := t.TempDir()
	html := filepath.Join(dir, "charts", "run.html")
	db := filepath.Join(dir, "runs.db")

	out, err := execute(t, "run",
		"--seed", "3",
		"--size", "9",
		"--max-steps", "80",
		"--html", html,
		"--frame-every", "20",
		"--no-color",
		"--store", "--store-dsn", db)
	require.NoError(t, err)
	assert.Regexp(t, `(reached|exhausted) after \d+ steps`, out)
	assert.FileExists(t, html)

	out, err = execute(t, "runs", "--store-dsn", db)
	require.NoError(t, err)
	assert.Contains(t, out, "VARIANT")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "prims")
}

func TestSweepCmd(t *testing.T) {
	out, err := execute(t, "sweep",
		"--variant", "reveal",
		"--size", "7",
		"--runs", "4",
		"--parallel", "2",
		"--max-steps", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "runs       4\n")
	assert.Contains(t, out, "mean steps")
}

func TestRunCmd_InvalidConfig(t *testing.T) {
	_, err := execute(t, "run", "--size", "3")
	assert.Error(t, err)

	_, err = execute(t, "run", "--variant", "reveal", "--start", "nope")
	assert.Error(t, err)

	_, err = execute(t, "run", "--variant", "reveal", "--start", "99,99")
	assert.ErrorIs(t, err, agent.ErrOutOfBounds)

	_, err = execute(t, "run", "--generator", "terrain", "--density", "1.5")
	assert.ErrorIs(t, err, config.ErrInvalid)
}
