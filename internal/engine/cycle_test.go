package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/infra/memstore"
	"github.com/runoshun/taskdag/internal/testutil"
)

func TestCycleDetector_WouldCreateCycle(t *testing.T) {
	store := memstore.New()
	testutil.SeedProject(t, store, "p1", "A", "B", "C", "D")
	testutil.Link(t, store, "d1", "B", "A")
	testutil.Link(t, store, "d2", "C", "B")
	detector := engine.NewCycleDetector(engine.NewAccessor(store, store))

	tests := []struct {
		name      string
		task      string
		dependsOn string
		want      bool
	}{
		{name: "self", task: "D", dependsOn: "D", want: true},
		{name: "closes chain", task: "A", dependsOn: "C", want: true},
		{name: "reverse of existing", task: "A", dependsOn: "B", want: true},
		{name: "extends chain", task: "D", dependsOn: "C", want: false},
		{name: "unrelated", task: "D", dependsOn: "A", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detector.WouldCreateCycle(context.Background(), tt.task, tt.dependsOn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCycleDetector_SelfDependencySkipsStore(t *testing.T) {
	store := &testutil.FailingStore{Store: memstore.New(), GetTaskErr: assert.AnError}
	detector := engine.NewCycleDetector(engine.NewAccessor(store, store))

	got, err := detector.WouldCreateCycle(context.Background(), "x", "x")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCycleDetector_UnknownTask(t *testing.T) {
	store := memstore.New()
	detector := engine.NewCycleDetector(engine.NewAccessor(store, store))

	_, err := detector.WouldCreateCycle(context.Background(), "x", "y")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
