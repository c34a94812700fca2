package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const vetoScenario = `
name: veto
steps:
  - action: push
    url: /a
  - action: push
    url: /b
  - action: guard
    dirty: true
  - action: back
`

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "navsim", cmd.Use)

	for _, name := range []string{"run", "compose"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "xml", "compose", "/")
	assert.ErrorContains(t, err, "invalid format")
}

func TestRun_Text(t *testing.T) {
	path := writeFile(t, "veto.yaml", vetoScenario)

	stdout, _, err := execute(t, "run", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "seeded / count=-\n")
	assert.Contains(t, stdout, "  confirm \"You have unsaved changes.\" -> stay\n  forward\n")
	assert.True(t, strings.HasSuffix(stdout, "= /b POP count=2\n"), stdout)
}

func TestRun_JSON(t *testing.T) {
	path := writeFile(t, "veto.yaml", vetoScenario)

	stdout, _, err := execute(t, "--format", "json", "run", path)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Name   string   `json:"name"`
			URL    string   `json:"url"`
			Method string   `json:"method"`
			Count  *int     `json:"count"`
			Trace  []string `json:"trace"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "veto", resp.Data.Name)
	assert.Equal(t, "/b", resp.Data.URL)
	assert.Equal(t, "POP", resp.Data.Method)
	require.NotNil(t, resp.Data.Count)
	assert.Equal(t, 2, *resp.Data.Count)
	assert.NotEmpty(t, resp.Data.Trace)
}

func TestRun_ConfigAnswersLeave(t *testing.T) {
	path := writeFile(t, "veto.yaml", `
name: leave
steps:
  - action: push
    url: /a
  - action: push
    url: /b
  - action: guard
    dirty: true
  - action: back
`)
	cfgPath := writeFile(t, "router.toml", "initial_url = \"/start\"\nconfirm_default = true\n")

	stdout, _, err := execute(t, "run", "--config", cfgPath, path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "seeded /start count=-")
	assert.Contains(t, stdout, "-> leave")
	assert.Contains(t, stdout, "= /a POP count=1")
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing scenario", func(t *testing.T) {
		_, stderr, err := execute(t, "run", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, stderr, ErrCodeScenario)
	})

	t.Run("bad config", func(t *testing.T) {
		path := writeFile(t, "veto.yaml", vetoScenario)
		cfgPath := writeFile(t, "router.ini", "x=1")
		_, _, err := execute(t, "run", "--config", cfgPath, path)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("failing step", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "name: bad\nsteps:\n  - action: push\n    url: /a?x=%zz\n")
		stdout, _, err := execute(t, "--format", "json", "run", path)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, stdout, `"status":"error"`)
		assert.Contains(t, stdout, ErrCodeRun)
	})
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"plain", []string{"users/42"}, "/users/42"},
		{"merge search", []string{"/users?page=1", "--search", "page=2", "--search", "q=go"}, "/users?page=2&q=go"},
		{"remove key", []string{"/users?page=1&q=go", "--search", "page"}, "/users?q=go"},
		{"repeated key", []string{"/tags", "--search", "t=a", "--search", "t=b"}, "/tags?t=a&t=b"},
		{"raw hash", []string{"/doc", "--raw-hash", "section=2"}, "/doc#section=2"},
		{"clear search", []string{"/doc?x=1", "--raw-search", ""}, "/doc"},
		{"raw then merge", []string{"/doc", "--raw-search", "a=1", "--search", "b=2"}, "/doc?a=1&b=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, append([]string{"compose"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", stdout)
		})
	}
}

func TestCompose_JSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "compose", "/users?page=1#tab=posts")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ComposeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "/users?page=1#tab=posts", resp.Data.URL)
	assert.Equal(t, "/users", resp.Data.Pathname)
	assert.Equal(t, "?page=1", resp.Data.Search)
	assert.Equal(t, "#tab=posts", resp.Data.Hash)
	assert.Equal(t, "1", resp.Data.SearchParams["page"])
	assert.Equal(t, "posts", resp.Data.HashParams["tab"])
}

func TestCompose_Errors(t *testing.T) {
	_, _, err := execute(t, "compose", "/a", "--search", "=x")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, stderr, err := execute(t, "compose", "/a?x=%zz")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, ErrCodeCompose)
}

func TestParseAssignments(t *testing.T) {
	v, err := parseAssignments([]string{"a=1", "b", "c=", "a=2", "a=3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, v["a"])
	assert.Nil(t, v["b"])
	assert.Contains(t, v, "b")
	assert.Equal(t, "", v["c"])
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", nil)))
}
