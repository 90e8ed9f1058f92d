package engine

import "context"

// CycleDetector decides whether a proposed edge would close a cycle.
type CycleDetector struct {
	accessor *Accessor
}

// NewCycleDetector creates a new CycleDetector.
func NewCycleDetector(accessor *Accessor) *CycleDetector {
	return &CycleDetector{accessor: accessor}
}

// WouldCreateCycle reports whether adding "taskID depends on dependsOnID"
// would create a cycle in the committed graph of taskID's project.
// A self-dependency is a cycle and is answered without reading the stores.
func (d *CycleDetector) WouldCreateCycle(ctx context.Context, taskID, dependsOnID string) (bool, error) {
	if taskID == dependsOnID {
		return true, nil
	}
	snap, err := d.accessor.LoadForTask(ctx, taskID)
	if err != nil {
		return false, err
	}
	return d.Check(snap, taskID, dependsOnID), nil
}

// Check answers the same question against an already loaded snapshot.
// The snapshot must not yet contain the proposed edge.
func (d *CycleDetector) Check(snap *Snapshot, taskID, dependsOnID string) bool {
	return snap.Graph.WouldCycle(taskID, dependsOnID)
}
