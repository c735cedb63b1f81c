package mlmd

// Context is an instance of a ContextType: a grouping of artifacts and
// executions, for example a pipeline run or an experiment. Unlike
// Artifact and Execution, Name is required and unique within a type.
// Implements: spec §3 "Context".
type Context struct {
	ID       ContextID
	TypeID   TypeID
	TypeName string
	Name     string

	CreateTimeMillis int64
	UpdateTimeMillis int64

	Properties       map[string]PropertyValue
	CustomProperties map[string]PropertyValue
}
