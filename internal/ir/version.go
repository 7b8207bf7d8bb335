package ir

// Version constants for snapshots and the runtime.
const (
	// SnapshotVersion is the snapshot schema version.
	SnapshotVersion = "1"

	// EngineVersion is the metaclass runtime version.
	EngineVersion = "0.1.0"
)
