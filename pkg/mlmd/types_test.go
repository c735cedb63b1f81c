package mlmd

import "testing"

func TestValidDataType(t *testing.T) {
	for _, dt := range []DataType{DataTypeInt, DataTypeDouble, DataTypeString} {
		if !ValidDataType(dt) {
			t.Errorf("ValidDataType(%v) = false, want true", dt)
		}
	}
	if ValidDataType(DataType(0)) {
		t.Error("ValidDataType(0) = true, want false")
	}
	if ValidDataType(DataType(99)) {
		t.Error("ValidDataType(99) = true, want false")
	}
}

func TestDataTypeString(t *testing.T) {
	cases := map[DataType]string{
		DataTypeInt:    "int",
		DataTypeDouble: "double",
		DataTypeString: "string",
		DataType(0):    "unknown",
	}
	for dt, want := range cases {
		if got := dt.String(); got != want {
			t.Errorf("DataType(%d).String() = %q, want %q", dt, got, want)
		}
	}
}

func TestTypeKindString(t *testing.T) {
	cases := map[TypeKind]string{
		TypeKindExecution: "execution",
		TypeKindArtifact:  "artifact",
		TypeKindContext:   "context",
		TypeKind(99):      "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("TypeKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
