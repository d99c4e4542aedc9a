package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with the given arguments inside the test's working
// directory.
func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := Root()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func chtmp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestInitScaffoldsStore(t *testing.T) {
	dir := chtmp(t)

	require.NoError(t, run(t, "init"))
	assert.FileExists(t, filepath.Join(dir, "gov", "config.yaml"))
	assert.DirExists(t, filepath.Join(dir, "gov", "rfc"))
	assert.DirExists(t, filepath.Join(dir, "gov", "adr"))
	assert.DirExists(t, filepath.Join(dir, "gov", "work"))

	// Running init twice fails.
	assert.Error(t, run(t, "init"))
}

func TestNewCheckTransitionFlow(t *testing.T) {
	chtmp(t)
	require.NoError(t, run(t, "init"))

	require.NoError(t, run(t, "new", "rfc", "Retry policy"))
	require.NoError(t, run(t, "new", "clause", "RFC-0001", "retry budget", "Retry budget",
		"--text", "Callers MUST respect the budget."))

	// Warnings only (no changelog entry yet): default check passes, strict
	// fails.
	require.NoError(t, run(t, "check"))
	assert.Error(t, run(t, "--strict", "check"))

	// A forbidden transition surfaces as a failure.
	assert.Error(t, run(t, "transition", "RFC-0001", "impl"))
	require.NoError(t, run(t, "transition", "RFC-0001", "normative"))

	require.NoError(t, run(t, "render", "--all"))
	require.NoError(t, run(t, "sign", "RFC-0001"))
}

func TestEditAndDeleteFlow(t *testing.T) {
	chtmp(t)
	require.NoError(t, run(t, "init"))
	require.NoError(t, run(t, "new", "work", "Ship it",
		"--criterion", "add: shipped the thing"))

	require.NoError(t, run(t, "edit", "WI-0001", "notes", "add", "waiting on review"))
	require.NoError(t, run(t, "move", "WI-0001", "0", "done"))
	require.NoError(t, run(t, "transition", "WI-0001", "active"))
	require.NoError(t, run(t, "transition", "WI-0001", "done"))

	// Done work items cannot be deleted.
	assert.Error(t, run(t, "delete", "WI-0001"))
}

func TestCheckReportsDanglingRefAsError(t *testing.T) {
	chtmp(t)
	require.NoError(t, run(t, "init"))
	require.NoError(t, run(t, "new", "adr", "Decision",
		"--context", "ctx", "--decision", "see [[RFC-9999]]"))

	assert.Error(t, run(t, "check"))
}

func TestListRunsOnEmptyStore(t *testing.T) {
	chtmp(t)
	require.NoError(t, run(t, "init"))
	require.NoError(t, run(t, "list"))
	require.NoError(t, run(t, "list", "rfc"))
}
