package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/domain"
)

func stubBoard(t *testing.T) *string {
	t.Helper()
	original := launchBoardFunc
	t.Cleanup(func() { launchBoardFunc = original })

	launched := new(string)
	launchBoardFunc = func(_ *app.Container, projectID string) error {
		*launched = projectID
		return nil
	}
	return launched
}

func TestBoard_LaunchesForProject(t *testing.T) {
	launched := stubBoard(t)
	c, _ := newTestContainer(t)
	seedLaunch(t, c)

	_, _, err := execute(c, "board", "t1")

	require.NoError(t, err)
	assert.Equal(t, "t1", *launched)
}

func TestBoard_UnknownProjectDoesNotLaunch(t *testing.T) {
	launched := stubBoard(t)
	c, _ := newTestContainer(t)

	_, _, err := execute(c, "board", "nope")

	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	assert.Empty(t, *launched)
}
