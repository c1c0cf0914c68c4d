package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := newApp(strings.NewReader(stdin), &stdout, &stderr)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"sidewinder"}, args...))
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	require.Error(t, err)
	exit, ok := err.(cli.ExitCoder)
	require.True(t, ok, "expected exit error, got %v", err)
	assert.Equal(t, code, exit.ExitCode())
}

func TestParseCommandJSON(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, ".", "ok.py", "x = 1\n")

	stdout, stderr, err := run(t, "", "--format", "json", "parse", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, `"kind": "Module"`)
	assert.Contains(t, stdout, `"role": "store"`)
}

func TestParseCommandReadsStdin(t *testing.T) {
	chdir(t, t.TempDir())

	stdout, _, err := run(t, "del a.b\n", "parse", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "DeleteStmt")
	assert.Contains(t, stdout, "Attribute b (del)")
}

func TestParseCommandReportsDiagnostics(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, ".", "bad.py", "f() = 1\n")

	stdout, stderr, err := run(t, "", "parse", path)
	requireExitCode(t, err, 1)
	assert.Contains(t, stderr, "cannot assign to function call")
	assert.Contains(t, stderr, "^^^ not a storage location")
	assert.Contains(t, stdout, "AssignStmt", "the tree is printed even with errors")
}

func TestParseCommandNeedsOneFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, _, err := run(t, "", "parse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse expects exactly one file, got 0")
}

func TestTargetsCommand(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, ".", "t.py", "a, b = b, a\n")

	stdout, _, err := run(t, "", "targets", path)
	require.NoError(t, err)

	want := "1:1\tstore\ttuple\ta, b\n" +
		"1:1\tstore\tname\ta\n" +
		"1:4\tstore\tname\tb\n"
	assert.Equal(t, want, stdout)
}

func TestCheckCommandWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, "pkg/good.py", "x = [y for y in z]\n")
	writeFile(t, dir, "pkg/bad.py", "del f()\n")
	writeFile(t, dir, "pkg/.cache/skipped.py", "1 = 1\n")
	writeFile(t, dir, "pkg/notes.txt", "not python\n")

	stdout, stderr, err := run(t, "", "check", "pkg")
	requireExitCode(t, err, 1)
	assert.Contains(t, stdout, "Checked 2 file(s): 1 error(s), 0 warning(s)")
	assert.Contains(t, stderr, "cannot delete function call")
	assert.NotContains(t, stderr, "skipped.py")
}

func TestCheckCommandPassesCleanFiles(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, "a.py", "a: int = 1\n")

	stdout, _, err := run(t, "", "check")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Checked 1 file(s): 0 error(s), 0 warning(s)")
}

func TestSettingsFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, ".sidewinder.yaml", "format: yaml\nlog_level: debug\n")
	path := writeFile(t, dir, "m.py", "x = 1\n")

	stdout, stderr, err := run(t, "", "parse", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "kind: Module")
	assert.Contains(t, stderr, "parsed")

	stdout, stderr, err = run(t, "", "--format", "text", "--log-level", "disabled", "parse", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Module "), stdout)
	assert.Empty(t, stderr)
}

func TestInvalidSettings(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := writeFile(t, dir, "m.py", "x = 1\n")

	_, _, err := run(t, "", "--format", "xml", "parse", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)

	bad := writeFile(t, dir, "bad.yaml", "colour: red\n")
	_, _, err = run(t, "", "--config", bad, "parse", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field colour not found")
}

func TestServeCommand(t *testing.T) {
	chdir(t, t.TempDir())

	initialize := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`
	exit := `{"jsonrpc":"2.0","method":"exit"}`
	stdin := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(initialize), initialize) +
		fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(exit), exit)

	stdout, _, err := run(t, stdin, "--log-level", "disabled", "serve")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Content-Length: "), stdout)
	assert.Contains(t, stdout, `"name":"sidewinder-lsp"`)
}
