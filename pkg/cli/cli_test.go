package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runEntry(args ...string) (int, string, string) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := Entry(args, stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// The body is type-agnostic, so the script only fails when the wrapper
// checks fire.
const violating = `fun scale(n: Int) -> Int {
	return n
}

fun main() {
	scale("oops")
}
`

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := runEntry("version")
	require.Zero(t, code)
	require.Equal(t, "beartype dev\n", stdout)
}

func TestHelpCommand(t *testing.T) {
	code, stdout, _ := runEntry("help")
	require.Zero(t, code)
	require.Contains(t, stdout, "Usage:")
}

func TestNoArguments(t *testing.T) {
	code, _, stderr := runEntry()
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "Usage:")
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := runEntry("frobnicate")
	require.Equal(t, 2, code)
	require.Contains(t, stderr, `unknown command "frobnicate"`)
}

func TestRunScript(t *testing.T) {
	path := writeScript(t, t.TempDir(), "app.bear", `fun main() {
	print("hi")
}
`)
	code, stdout, stderr := runEntry("run", path)
	require.Zero(t, code, "stderr: %s", stderr)
	require.Equal(t, "hi\n", stdout)
}

func TestRunViolationFails(t *testing.T) {
	path := writeScript(t, t.TempDir(), "app.bear", violating)
	code, _, stderr := runEntry("run", path, "--all")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "violates type hint")
}

func TestRunWithoutRegistrationPasses(t *testing.T) {
	path := writeScript(t, t.TempDir(), "app.bear", violating)
	code, _, stderr := runEntry("run", path)
	require.Zero(t, code, "stderr: %s", stderr)
}

func TestRunWarnOnly(t *testing.T) {
	path := writeScript(t, t.TempDir(), "app.bear", violating)
	code, _, stderr := runEntry("run", path, "--all", "--warn-only")
	require.Zero(t, code, "stderr: %s", stderr)
}

func TestRunPackagesFlag(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "geo.bear", `fun area(r: Float) -> Float {
	return r
}
`)
	path := writeScript(t, dir, "app.bear", `from geo import area

fun main() {
	area("nope")
}
`)
	code, _, stderr := runEntry("run", path, "--packages", "geo")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "violates type hint")
}

func TestRunUsesProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bear.yaml", "all: true\n")
	path := writeScript(t, dir, "app.bear", violating)

	code, _, stderr := runEntry("run", path)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "violates type hint")
}

func TestRunConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := writeScript(t, dir, "conf/bear.yaml", "all: true\npaths:\n  - ..\n")
	path := writeScript(t, dir, "app.bear", violating)

	code, _, stderr := runEntry("run", path, "--config", cfg)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "violates type hint")
}

func TestRunMissingFile(t *testing.T) {
	code, _, stderr := runEntry("run", filepath.Join(t.TempDir(), "ghost.bear"))
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "error:")
}

func TestExpandCommand(t *testing.T) {
	path := writeScript(t, t.TempDir(), "geo.bear", `fun area(r: Float) -> Float {
	return r
}
`)
	code, stdout, _ := runEntry("expand", path)
	require.Zero(t, code)
	require.Contains(t, stdout, "from beartype import __beartype_object__")
	require.Contains(t, stdout, "@__beartype_object__")
}

func TestExpandNeedsOneFile(t *testing.T) {
	code, _, _ := runEntry("expand")
	require.Equal(t, 2, code)
}

func TestParseRunArgs(t *testing.T) {
	opts, err := parseRunArgs([]string{"app.bear", "--packages", "geo, chaos.daemons", "--warn-only"})
	require.NoError(t, err)
	require.Equal(t, "app.bear", opts.file)
	require.Equal(t, []string{"geo", "chaos.daemons"}, opts.packages)
	require.True(t, opts.warnOnly)
	require.False(t, opts.all)

	_, err = parseRunArgs([]string{"app.bear", "--packages"})
	require.Error(t, err)

	_, err = parseRunArgs([]string{"--bogus"})
	require.Error(t, err)

	_, err = parseRunArgs(nil)
	require.Error(t, err)

	_, err = parseRunArgs([]string{"one.bear", "two.bear"})
	require.Error(t, err)
}
