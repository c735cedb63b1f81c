package mlmd

// TypeSpec is the input to a PutXType call: a type definition plus the
// evolution rules to apply if a type of the same (kind, name, version)
// already exists. Implements: spec §4.2 "Type registry", §6.5.
type TypeSpec struct {
	Kind        TypeKind
	Name        string
	Version     string
	Description string
	InputType   string
	OutputType  string
	Properties  map[string]DataType

	canAddFields   bool
	canOmitFields  bool
	parentTypeIDs  []TypeID
}

// TypeOption configures a TypeSpec. Implements: spec §6.5, modeled on the
// reference implementation's builder-style PutXTypeRequest.
type TypeOption func(*TypeSpec)

// CanAddFields permits an existing type to gain new declared properties
// that the stored definition does not yet have.
func CanAddFields() TypeOption { return func(s *TypeSpec) { s.canAddFields = true } }

// CanOmitFields permits a put that leaves out declared properties the
// stored definition already has, keeping them unchanged rather than
// rejecting the request.
func CanOmitFields() TypeOption { return func(s *TypeSpec) { s.canOmitFields = true } }

// WithParentTypes records parent-type links from this type to the given
// type ids. Only the links are stored: the parents' declared properties
// are not merged into this type, and the ids are not checked for
// existence or kind.
func WithParentTypes(ids ...TypeID) TypeOption {
	return func(s *TypeSpec) { s.parentTypeIDs = append(s.parentTypeIDs, ids...) }
}

func (s TypeSpec) CanAddFields() bool     { return s.canAddFields }
func (s TypeSpec) CanOmitFields() bool    { return s.canOmitFields }
func (s TypeSpec) ParentTypeIDs() []TypeID { return s.parentTypeIDs }

// NewTypeSpec builds a TypeSpec from its required fields and options.
func NewTypeSpec(kind TypeKind, name string, properties map[string]DataType, opts ...TypeOption) TypeSpec {
	s := TypeSpec{Kind: kind, Name: name, Properties: properties}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// EntitySpec is the shared shape of a Post/Put call for artifacts,
// executions and contexts: a type reference, a name, and property values.
// The kind-specific extra fields (URI/State, LastKnownState, required
// Name) live on ArtifactSpec/ExecutionSpec/ContextSpec, which embed this.
//
// Properties/CustomProperties are each paired with a *Set flag, mirroring
// Filter's idsSet field: a Post always writes whatever map is given (nil
// meaning no properties of that kind), but on a Put an unset map leaves
// the entity's existing property rows untouched rather than deleting
// them, while a set map (possibly empty, to clear every property of that
// kind) replaces them in full. Implements: spec §4.4 step 3.
type EntitySpec struct {
	TypeID              TypeID
	TypeName            string
	Name                string
	Properties          map[string]PropertyValue
	PropertiesSet       bool
	CustomProperties    map[string]PropertyValue
	CustomPropertiesSet bool
}

// ArtifactSpec is the input to PostArtifact/PutArtifact.
type ArtifactSpec struct {
	EntitySpec
	URI   string
	State ArtifactState
}

// ExecutionSpec is the input to PostExecution/PutExecution.
type ExecutionSpec struct {
	EntitySpec
	LastKnownState ExecutionState
}

// ContextSpec is the input to PostContext/PutContext. Name is required
// and must be unique within the type.
type ContextSpec struct {
	EntitySpec
}
