package usecase

import (
	"testing"

	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/infra/memstore"
	"github.com/runoshun/taskdag/internal/testutil"
)

// testEnv wires real engine components over an in-memory store.
type testEnv struct {
	store       *memstore.Store
	clock       *testutil.MockClock
	ids         *testutil.SequenceIDs
	logger      *testutil.RecordingLogger
	guard       *engine.Guard
	cp          *engine.CriticalPath
	coordinator *engine.Coordinator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	clock := testutil.FixedClock()
	ids := testutil.NewSequenceIDs("id")
	logger := &testutil.RecordingLogger{}
	opts := engine.DefaultOptions()
	accessor := engine.NewAccessor(store, store)
	return &testEnv{
		store:       store,
		clock:       clock,
		ids:         ids,
		logger:      logger,
		guard:       engine.NewGuard(store, store, logger, opts),
		cp:          engine.NewCriticalPath(accessor, logger),
		coordinator: engine.NewCoordinator(store, store, accessor, testutil.NewSequenceIDs("dep"), clock, logger, opts),
	}
}
