package metadata

// This file defines the plain data-transfer shapes that cross the
// boundary between package mlmd and package metadata. They mirror the
// public types in pkg/mlmd one-for-one but use primitive int kinds
// instead of mlmd's named types, so this package does not need to import
// mlmd.

// PropertyValue mirrors mlmd.PropertyValue's internal representation.
type PropertyValue struct {
	Kind int // 1=int, 2=double, 3=string
	I    int64
	D    float64
	S    string
}

// TypeSpec is the input to PutType.
type TypeSpec struct {
	Kind          int
	Name          string
	Version       string
	Description   string
	InputType     string
	OutputType    string
	Properties    map[string]int
	CanAddFields  bool
	CanOmitFields bool
	ParentTypeIDs []int64
}

// TypeRecord is a stored Type row plus its declared properties and parents.
type TypeRecord struct {
	ID            int64
	Kind          int
	Name          string
	Version       string
	Description   string
	InputType     string
	OutputType    string
	Properties    map[string]int
	ParentTypeIDs []int64
}

// EntitySpec is the input to Post/Put for artifacts, executions and
// contexts. PropertiesSet/CustomPropertiesSet distinguish "caller didn't
// touch this map" (Put leaves the stored rows alone) from "caller wants
// exactly this set of properties, possibly empty" (Put replaces them).
// Post ignores both flags and always writes whatever map is given.
type EntitySpec struct {
	TypeID              int64
	TypeName            string
	Name                string
	Properties          map[string]PropertyValue
	PropertiesSet       bool
	CustomProperties    map[string]PropertyValue
	CustomPropertiesSet bool
}

type ArtifactRecord struct {
	ID               int64
	TypeID           int64
	TypeName         string
	Name             string
	URI              string
	State            int
	CreateTimeMillis int64
	UpdateTimeMillis int64
	Properties       map[string]PropertyValue
	CustomProperties map[string]PropertyValue
}

type ExecutionRecord struct {
	ID               int64
	TypeID           int64
	TypeName         string
	Name             string
	LastKnownState   int
	CreateTimeMillis int64
	UpdateTimeMillis int64
	Properties       map[string]PropertyValue
	CustomProperties map[string]PropertyValue
}

type ContextRecord struct {
	ID               int64
	TypeID           int64
	TypeName         string
	Name             string
	CreateTimeMillis int64
	UpdateTimeMillis int64
	Properties       map[string]PropertyValue
	CustomProperties map[string]PropertyValue
}

type EventStep struct {
	Key   string
	Index int64
	IsKey bool
}

type EventRecord struct {
	ID                     int64
	ArtifactID             int64
	ExecutionID            int64
	Type                   int
	Path                   []EventStep
	MillisecondsSinceEpoch int64
}

// TimeRange bounds a millisecond-epoch column.
type TimeRange struct {
	Since int64
	Until int64
}

// Filter mirrors mlmd.Filter's built state for consumption by the query
// builder.
type Filter struct {
	TypeIDs      []int64
	IDsSet       bool
	ArtifactIDs  []int64
	ExecutionIDs []int64
	ContextIDs   []int64

	TypeName string
	Name     string

	ContextID   *int64
	ArtifactID  *int64
	ExecutionID *int64

	CreateRange *TimeRange
	UpdateRange *TimeRange

	Limit  int
	Offset int

	OrderBy string
	Desc    bool
}
