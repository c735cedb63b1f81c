package mlmd

// PropertyValue is the tagged union of values a declared or custom
// property can hold. Exactly one accessor returns a non-zero-ok result for
// any given value. Implements: spec §4.3 property codec, §9 "fourth
// property-value variant".
type PropertyValue struct {
	kind   DataType
	i      int64
	d      float64
	s      string
	isProp bool // true for the opaque-proto-as-text variant (see ProtoValue)
}

// IntValue builds an Int property value.
func IntValue(v int64) PropertyValue { return PropertyValue{kind: DataTypeInt, i: v} }

// DoubleValue builds a Double property value.
func DoubleValue(v float64) PropertyValue { return PropertyValue{kind: DataTypeDouble, d: v} }

// StringValue builds a String property value.
func StringValue(v string) PropertyValue { return PropertyValue{kind: DataTypeString, s: v} }

// ProtoValue builds the fourth, opaque-proto property value. Per spec §9
// this is stored as unframed text in the string column; callers own the
// framing. It reports DataTypeString for declared-property validation
// purposes since it occupies the string column.
func ProtoValue(opaque string) PropertyValue {
	return PropertyValue{kind: DataTypeString, s: opaque, isProp: true}
}

// DataType reports which column this value occupies.
func (v PropertyValue) DataType() DataType { return v.kind }

// IsProto reports whether this value was constructed via ProtoValue.
func (v PropertyValue) IsProto() bool { return v.isProp }

// Int returns the int value and whether this is an Int value.
func (v PropertyValue) Int() (int64, bool) { return v.i, v.kind == DataTypeInt }

// Double returns the double value and whether this is a Double value.
func (v PropertyValue) Double() (float64, bool) { return v.d, v.kind == DataTypeDouble }

// String returns the string value and whether this is a String value
// (true for both StringValue and ProtoValue).
func (v PropertyValue) String() (string, bool) { return v.s, v.kind == DataTypeString }

func (v PropertyValue) Equal(other PropertyValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case DataTypeInt:
		return v.i == other.i
	case DataTypeDouble:
		return v.d == other.d
	case DataTypeString:
		return v.s == other.s
	default:
		return false
	}
}
