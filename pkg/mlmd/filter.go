package mlmd

// TimeRange bounds a millisecond-epoch column, inclusive on both ends.
// A zero value means unbounded on that side.
type TimeRange struct {
	Since int64
	Until int64
}

// Filter narrows a Get* query. All set fields are AND-composed; an empty
// Filter matches every row of the queried kind. Implements: spec §4.6
// "Query builder".
//
// A Filter is built with functional options rather than populated
// directly so that the zero value ("no filter") stays indistinguishable
// from a caller who forgot to set anything, and so that an explicitly
// empty id set (WithArtifactIDs and its siblings with zero ids) is distinguishable from "ids not
// set at all" per spec §8's supplemented scenario.
type Filter struct {
	typeIDs   []TypeID
	idsSet    bool
	artifactIDs  []ArtifactID
	executionIDs []ExecutionID
	contextIDs   []ContextID

	typeName string
	name     string

	contextID   *ContextID
	artifactID  *ArtifactID
	executionID *ExecutionID

	createRange *TimeRange
	updateRange *TimeRange

	limit   int
	offset  int
	orderBy string
	desc    bool
}

// FilterOption configures a Filter. Implements: spec §6.5 concrete Go
// surface, functional-options style.
type FilterOption func(*Filter)

// WithArtifactIDs restricts the query to the given artifact ids. Passing
// a non-nil, zero-length slice matches nothing, as opposed to omitting
// the option entirely, which matches everything.
func WithArtifactIDs(ids []ArtifactID) FilterOption {
	return func(f *Filter) {
		f.artifactIDs = ids
		f.idsSet = true
	}
}

// WithExecutionIDs restricts the query to the given execution ids.
func WithExecutionIDs(ids []ExecutionID) FilterOption {
	return func(f *Filter) {
		f.executionIDs = ids
		f.idsSet = true
	}
}

// WithContextIDs restricts the query to the given context ids.
func WithContextIDs(ids []ContextID) FilterOption {
	return func(f *Filter) {
		f.contextIDs = ids
		f.idsSet = true
	}
}

// WithTypeIDs restricts the query to rows whose type is one of ids.
func WithTypeIDs(ids []TypeID) FilterOption {
	return func(f *Filter) { f.typeIDs = ids }
}

// WithTypeName restricts the query to rows of the named type.
func WithTypeName(name string) FilterOption {
	return func(f *Filter) { f.typeName = name }
}

// WithName restricts the query to rows with the given name.
func WithName(name string) FilterOption {
	return func(f *Filter) { f.name = name }
}

// WithContext restricts an artifact or execution query to entities
// attributed or associated with the given context.
func WithContext(id ContextID) FilterOption {
	return func(f *Filter) { f.contextID = &id }
}

// WithArtifact restricts an execution query to executions that have an
// event recorded against the given artifact. Artifact and context
// queries ignore it.
func WithArtifact(id ArtifactID) FilterOption {
	return func(f *Filter) { f.artifactID = &id }
}

// WithExecution restricts an artifact query to artifacts that have an
// event recorded against the given execution. Execution and context
// queries ignore it.
func WithExecution(id ExecutionID) FilterOption {
	return func(f *Filter) { f.executionID = &id }
}

// WithCreateTimeRange restricts the query to rows created within r.
func WithCreateTimeRange(r TimeRange) FilterOption {
	return func(f *Filter) { f.createRange = &r }
}

// WithUpdateTimeRange restricts the query to rows last updated within r.
func WithUpdateTimeRange(r TimeRange) FilterOption {
	return func(f *Filter) { f.updateRange = &r }
}

// WithLimit caps the number of returned rows. A limit of 0 means
// unbounded.
func WithLimit(n int) FilterOption {
	return func(f *Filter) { f.limit = n }
}

// WithOffset skips the first n matching rows.
func WithOffset(n int) FilterOption {
	return func(f *Filter) { f.offset = n }
}

// OrderBy is a column a query may be sorted by.
type OrderBy string

const (
	OrderByID         OrderBy = "id"
	OrderByCreateTime OrderBy = "create_time"
	OrderByUpdateTime OrderBy = "update_time"
)

// WithOrderBy sorts results by column, descending when desc is true.
func WithOrderBy(column OrderBy, desc bool) FilterOption {
	return func(f *Filter) { f.orderBy = string(column); f.desc = desc }
}

// NewFilter builds a Filter from options. Exported so internal/metadata's
// query builder can consume it without importing unexported fields;
// accessors below expose the built state.
func NewFilter(opts ...FilterOption) Filter {
	var f Filter
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// The accessors below let internal/metadata's query builder read a
// Filter's built state without exporting the fields themselves, keeping
// the functional-options construction the only way callers can populate
// one.

func (f Filter) TypeIDs() []TypeID            { return f.typeIDs }
func (f Filter) IDsSet() bool                 { return f.idsSet }
func (f Filter) ArtifactIDs() []ArtifactID    { return f.artifactIDs }
func (f Filter) ExecutionIDs() []ExecutionID  { return f.executionIDs }
func (f Filter) ContextIDs() []ContextID      { return f.contextIDs }
func (f Filter) TypeName() string             { return f.typeName }
func (f Filter) Name() string                 { return f.name }
func (f Filter) ContextFilter() *ContextID    { return f.contextID }
func (f Filter) ArtifactFilter() *ArtifactID  { return f.artifactID }
func (f Filter) ExecutionFilter() *ExecutionID { return f.executionID }
func (f Filter) CreateRange() *TimeRange      { return f.createRange }
func (f Filter) UpdateRange() *TimeRange      { return f.updateRange }
func (f Filter) Limit() int                   { return f.limit }
func (f Filter) Offset() int                  { return f.offset }
func (f Filter) OrderBy() (column string, desc bool) { return f.orderBy, f.desc }
