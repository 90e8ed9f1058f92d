package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/infra/memstore"
	"github.com/runoshun/taskdag/internal/testutil"
)

// newTestContainer creates an app.Container over an in-memory store.
// Every id (project, task and edge) comes from one sequence: t1, t2, ...
func newTestContainer(t *testing.T) (*app.Container, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	c := app.NewWithDeps(
		app.Config{DataDir: t.TempDir()},
		store,
		testutil.FixedClock(),
		testutil.NewSequenceIDs("t"),
		nil,
		nil,
	)
	return c, store
}

// execute runs the root command with args and returns what it printed.
func execute(c *app.Container, args ...string) (stdout, stderr string, err error) {
	root := NewRootCommand(c, "test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

// mustExecute runs the root command and fails the test on error.
func mustExecute(t *testing.T, c *app.Container, args ...string) string {
	t.Helper()
	out, errOut, err := execute(c, args...)
	require.NoError(t, err, "stderr: %s", errOut)
	return out
}

// seedLaunch creates project t1 with Design (t2) and Build (t3),
// where Build depends on Design through edge t4.
func seedLaunch(t *testing.T, c *app.Container) {
	t.Helper()
	mustExecute(t, c, "project", "new", "--name", "Launch")
	mustExecute(t, c, "task", "new", "--project", "t1", "--title", "Design", "--estimate", "2")
	mustExecute(t, c, "task", "new", "--project", "t1", "--title", "Build", "--estimate", "3")
	mustExecute(t, c, "dep", "add", "t3", "t2")
}

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
