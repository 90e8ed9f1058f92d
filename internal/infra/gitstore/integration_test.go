//go:build integration

package gitstore

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/testutil"
)

// testRepoPath creates a temporary git repository with the git CLI.
func testRepoPath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run(t, dir, "git", "init")
	return dir
}

// run executes a command and fails the test if it errors.
func run(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "command failed: %s %v\noutput: %s", name, args, out)
	return string(out)
}

func TestIntegration_GitRefs_Visible(t *testing.T) {
	dir := testRepoPath(t)

	store, err := New(dir, "taskdag-test")
	require.NoError(t, err)
	require.NoError(t, store.Initialize())

	testutil.SeedProject(t, store, "p1", "a", "b")
	testutil.Link(t, store, "d1", "a", "b")

	out := run(t, dir, "git", "for-each-ref", "--format=%(refname)", "refs/taskdag-test/")
	assert.Contains(t, out, "refs/taskdag-test/initialized")
	assert.Contains(t, out, "refs/taskdag-test/projects/p1")
	assert.Contains(t, out, "refs/taskdag-test/tasks/a")
	assert.Contains(t, out, "refs/taskdag-test/deps/d1")
}

func TestIntegration_GitCatFile(t *testing.T) {
	dir := testRepoPath(t)

	store, err := New(dir, "taskdag-test")
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	testutil.SeedProject(t, store, "p1", "a", "b")
	testutil.Link(t, store, "d1", "a", "b")

	out := run(t, dir, "git", "cat-file", "-p", "refs/taskdag-test/deps/d1")
	assert.Contains(t, out, "taskID: a")
	assert.Contains(t, out, "dependsOnID: b")
}

func TestIntegration_WorkingTreeUntouched(t *testing.T) {
	dir := testRepoPath(t)

	store, err := New(dir, "taskdag-test")
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	testutil.SeedProject(t, store, "p1", "a")

	out := run(t, dir, "git", "status", "--porcelain")
	assert.Empty(t, strings.TrimSpace(out))
}
