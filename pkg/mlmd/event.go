package mlmd

// EventType classifies the role an artifact plays in an execution.
// Implements: spec §3 "Event type". PendingOutput has no analog in the
// reference implementation's 7-value enum; it is carried here because
// spec.md lists it explicitly as an 8th variant for outputs that are
// declared but not yet materialized.
type EventType int

const (
	EventTypeUnknown        EventType = 0
	EventTypeDeclaredOutput EventType = 1
	EventTypeDeclaredInput  EventType = 2
	EventTypeInput          EventType = 3
	EventTypeOutput         EventType = 4
	EventTypeInternalInput  EventType = 5
	EventTypeInternalOutput EventType = 6
	EventTypePendingOutput  EventType = 7
)

func (t EventType) String() string {
	switch t {
	case EventTypeDeclaredOutput:
		return "declared-output"
	case EventTypeDeclaredInput:
		return "declared-input"
	case EventTypeInput:
		return "input"
	case EventTypeOutput:
		return "output"
	case EventTypeInternalInput:
		return "internal-input"
	case EventTypeInternalOutput:
		return "internal-output"
	case EventTypePendingOutput:
		return "pending-output"
	default:
		return "unknown"
	}
}

func ValidEventType(t EventType) bool {
	switch t {
	case EventTypeDeclaredOutput, EventTypeDeclaredInput, EventTypeInput, EventTypeOutput,
		EventTypeInternalInput, EventTypeInternalOutput, EventTypePendingOutput:
		return true
	default:
		return false
	}
}

// EventStep is one element of an event's path: either an index into a
// list-valued artifact slot (e.g. the Nth element of a fan-out) or a
// string key into a map-valued slot. Exactly one of Index/Key applies;
// IsKey reports which. Implements: spec §3 "Event path".
type EventStep struct {
	key   string
	index int64
	isKey bool
}

// IndexStep builds a path step addressing a list element.
func IndexStep(i int64) EventStep { return EventStep{index: i} }

// KeyStep builds a path step addressing a map element.
func KeyStep(k string) EventStep { return EventStep{key: k, isKey: true} }

func (s EventStep) IsKey() bool      { return s.isKey }
func (s EventStep) Key() string      { return s.key }
func (s EventStep) Index() int64     { return s.index }

// Event records that an artifact played a given role in an execution at a
// point in time, with an optional ordered path describing its position
// within a multi-valued input/output slot. Implements: spec §3 "Event".
type Event struct {
	ID                 EventID
	ArtifactID          ArtifactID
	ExecutionID         ExecutionID
	Type                EventType
	Path                []EventStep
	MillisecondsSinceEpoch int64
}
