package mlmd

// TypeID identifies a row in the Type table, regardless of kind.
type TypeID int64

// ArtifactID identifies a row in the Artifact table.
type ArtifactID int64

// ExecutionID identifies a row in the Execution table.
type ExecutionID int64

// ContextID identifies a row in the Context table.
type ContextID int64

// EventID identifies a row in the Event table.
type EventID int64
