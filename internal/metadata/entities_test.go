package metadata

import (
	"context"
	"testing"
)

func mustPutType(t *testing.T, b *Backend, kind int, name string) int64 {
	t.Helper()
	id, err := b.PutType(context.Background(), TypeSpec{Kind: kind, Name: name})
	if err != nil {
		t.Fatalf("PutType(%s): %v", name, err)
	}
	return id
}

func mustPutTypeWithProperties(t *testing.T, b *Backend, kind int, name string, props map[string]int) int64 {
	t.Helper()
	id, err := b.PutType(context.Background(), TypeSpec{Kind: kind, Name: name, Properties: props})
	if err != nil {
		t.Fatalf("PutType(%s): %v", name, err)
	}
	return id
}

func TestPostAndGetArtifact(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutTypeWithProperties(t, b, 1, "Model", map[string]int{"accuracy": 2})

	id, err := b.PostArtifact(ctx, EntitySpec{
		TypeID: typeID,
		Name:   "model-v1",
		Properties: map[string]PropertyValue{
			"accuracy": {Kind: 2, D: 0.95},
		},
		CustomProperties: map[string]PropertyValue{
			"owner": {Kind: 3, S: "alice"},
		},
	}, 2, "s3://bucket/model-v1")
	if err != nil {
		t.Fatalf("PostArtifact: %v", err)
	}

	got, err := b.GetArtifactByID(ctx, id)
	if err != nil {
		t.Fatalf("GetArtifactByID: %v", err)
	}
	if got.Name != "model-v1" || got.URI != "s3://bucket/model-v1" || got.State != 2 {
		t.Errorf("unexpected artifact: %+v", got)
	}
	if got.TypeName != "Model" {
		t.Errorf("TypeName = %q, want Model", got.TypeName)
	}
	if got.Properties["accuracy"].D != 0.95 {
		t.Errorf("Properties[accuracy] = %+v", got.Properties["accuracy"])
	}
	if got.CustomProperties["owner"].S != "alice" {
		t.Errorf("CustomProperties[owner] = %+v", got.CustomProperties["owner"])
	}
	if got.CreateTimeMillis == 0 || got.UpdateTimeMillis == 0 {
		t.Error("expected non-zero timestamps")
	}
}

func TestPutArtifactUpdatesAndReplacesProperties(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutTypeWithProperties(t, b, 1, "Model", map[string]int{"accuracy": 2})

	id, err := b.PostArtifact(ctx, EntitySpec{
		TypeID:     typeID,
		Name:       "model-v1",
		Properties: map[string]PropertyValue{"accuracy": {Kind: 2, D: 0.9}},
	}, 1, "s3://a")
	if err != nil {
		t.Fatalf("PostArtifact: %v", err)
	}

	err = b.PutArtifact(ctx, id, EntitySpec{
		TypeID:        typeID,
		Name:          "model-v1-renamed",
		Properties:    map[string]PropertyValue{"accuracy": {Kind: 2, D: 0.99}},
		PropertiesSet: true,
	}, 2, "s3://b")
	if err != nil {
		t.Fatalf("PutArtifact: %v", err)
	}

	got, err := b.GetArtifactByID(ctx, id)
	if err != nil {
		t.Fatalf("GetArtifactByID: %v", err)
	}
	if got.Name != "model-v1-renamed" || got.URI != "s3://b" || got.State != 2 {
		t.Errorf("unexpected artifact after update: %+v", got)
	}
	if got.Properties["accuracy"].D != 0.99 {
		t.Errorf("property was not replaced: %+v", got.Properties)
	}
}

func TestPutArtifactWithoutPropertiesSetLeavesPropertiesUnchanged(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutTypeWithProperties(t, b, 1, "Model", map[string]int{"accuracy": 2})

	id, err := b.PostArtifact(ctx, EntitySpec{
		TypeID:     typeID,
		Name:       "model-v1",
		Properties: map[string]PropertyValue{"accuracy": {Kind: 2, D: 0.9}},
		CustomProperties: map[string]PropertyValue{
			"owner": {Kind: 3, S: "alice"},
		},
	}, 1, "s3://a")
	if err != nil {
		t.Fatalf("PostArtifact: %v", err)
	}

	// A partial update that only touches the URI must not disturb either
	// property map, since neither *Set flag is set.
	if err := b.PutArtifact(ctx, id, EntitySpec{TypeID: typeID, Name: "model-v1"}, 1, "s3://b"); err != nil {
		t.Fatalf("PutArtifact: %v", err)
	}

	got, err := b.GetArtifactByID(ctx, id)
	if err != nil {
		t.Fatalf("GetArtifactByID: %v", err)
	}
	if got.URI != "s3://b" {
		t.Errorf("URI = %q, want s3://b", got.URI)
	}
	if got.Properties["accuracy"].D != 0.9 {
		t.Errorf("Properties[accuracy] was lost by an unset-flag Put: %+v", got.Properties)
	}
	if got.CustomProperties["owner"].S != "alice" {
		t.Errorf("CustomProperties[owner] was lost by an unset-flag Put: %+v", got.CustomProperties)
	}
}

func TestPutArtifactCustomPropertiesSetClearsToEmpty(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutType(t, b, 1, "Model")

	id, err := b.PostArtifact(ctx, EntitySpec{
		TypeID: typeID,
		Name:   "model-v1",
		CustomProperties: map[string]PropertyValue{
			"owner": {Kind: 3, S: "alice"},
		},
	}, 1, "s3://a")
	if err != nil {
		t.Fatalf("PostArtifact: %v", err)
	}

	err = b.PutArtifact(ctx, id, EntitySpec{
		TypeID:              typeID,
		Name:                "model-v1",
		CustomProperties:    map[string]PropertyValue{},
		CustomPropertiesSet: true,
	}, 1, "s3://a")
	if err != nil {
		t.Fatalf("PutArtifact: %v", err)
	}

	got, err := b.GetArtifactByID(ctx, id)
	if err != nil {
		t.Fatalf("GetArtifactByID: %v", err)
	}
	if len(got.CustomProperties) != 0 {
		t.Errorf("CustomProperties = %+v, want empty after an explicit empty-set Put", got.CustomProperties)
	}
}

func TestPutArtifactNotFound(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutType(t, b, 1, "Model")

	err := b.PutArtifact(ctx, 999, EntitySpec{TypeID: typeID, Name: "x"}, 0, "")
	if err == nil {
		t.Fatal("expected an error updating a nonexistent artifact")
	}
	me, ok := err.(*Error)
	if !ok || me.Kind != KindNotFound {
		t.Errorf("expected KindNotFound, got %v", err)
	}
}

func TestPostArtifactRejectsUndeclaredProperty(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutType(t, b, 1, "Model")

	_, err := b.PostArtifact(ctx, EntitySpec{
		TypeID:     typeID,
		Name:       "model-v1",
		Properties: map[string]PropertyValue{"rows": {Kind: 3, S: "x"}},
	}, 1, "")
	if err == nil {
		t.Fatal("expected an error posting an undeclared property")
	}
	me, ok := err.(*Error)
	if !ok || me.Kind != KindTypeConflict {
		t.Errorf("expected KindTypeConflict, got %v", err)
	}
}

func TestPostArtifactRejectsMismatchedDataType(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutTypeWithProperties(t, b, 1, "Model", map[string]int{"rows": 1})

	_, err := b.PostArtifact(ctx, EntitySpec{
		TypeID:     typeID,
		Name:       "model-v1",
		Properties: map[string]PropertyValue{"rows": {Kind: 3, S: "not-an-int"}},
	}, 1, "")
	if err == nil {
		t.Fatal("expected an error posting a property with a mismatched data type")
	}
	me, ok := err.(*Error)
	if !ok || me.Kind != KindTypeConflict {
		t.Errorf("expected KindTypeConflict, got %v", err)
	}
}

func TestPostArtifactRejectsTypeOfWrongKind(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutType(t, b, 0, "Trainer")

	_, err := b.PostArtifact(ctx, EntitySpec{TypeID: typeID, Name: "x"}, 1, "")
	if err == nil {
		t.Fatal("expected an error posting an artifact against an execution type")
	}
	me, ok := err.(*Error)
	if !ok || me.Kind != KindTypeConflict {
		t.Errorf("expected KindTypeConflict, got %v", err)
	}
}

func TestPostArtifactRejectsNonexistentType(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	_, err := b.PostArtifact(ctx, EntitySpec{TypeID: 9999, Name: "x"}, 1, "")
	if err == nil {
		t.Fatal("expected an error posting against a nonexistent type")
	}
	me, ok := err.(*Error)
	if !ok || me.Kind != KindInvalidArgument {
		t.Errorf("expected KindInvalidArgument, got %v", err)
	}
}

func TestPostAndGetExecution(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutType(t, b, 0, "Trainer")

	id, err := b.PostExecution(ctx, EntitySpec{TypeID: typeID, Name: "run-1"}, 2)
	if err != nil {
		t.Fatalf("PostExecution: %v", err)
	}

	got, err := b.GetExecutionByID(ctx, id)
	if err != nil {
		t.Fatalf("GetExecutionByID: %v", err)
	}
	if got.Name != "run-1" || got.LastKnownState != 2 {
		t.Errorf("unexpected execution: %+v", got)
	}
}

func TestPostContextRejectsDuplicateName(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutType(t, b, 2, "Experiment")

	// PostContext itself does not validate Name (that happens at the
	// pkg/mlmd boundary); an empty Name is still a legal SQL value here,
	// but a duplicate Name within the same type is rejected.
	id1, err := b.PostContext(ctx, EntitySpec{TypeID: typeID, Name: "exp-1"})
	if err != nil {
		t.Fatalf("PostContext: %v", err)
	}
	if id1 == 0 {
		t.Fatal("expected a non-zero context id")
	}

	_, err = b.PostContext(ctx, EntitySpec{TypeID: typeID, Name: "exp-1"})
	if err == nil {
		t.Fatal("expected an error creating a duplicate-named context within the same type")
	}
	me, ok := err.(*Error)
	if !ok || me.Kind != KindAlreadyExists {
		t.Errorf("expected KindAlreadyExists, got %v", err)
	}
}

func TestPutContextRejectsDuplicateName(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	typeID := mustPutType(t, b, 2, "Experiment")

	id1, err := b.PostContext(ctx, EntitySpec{TypeID: typeID, Name: "exp-1"})
	if err != nil {
		t.Fatalf("PostContext exp-1: %v", err)
	}
	if _, err := b.PostContext(ctx, EntitySpec{TypeID: typeID, Name: "exp-2"}); err != nil {
		t.Fatalf("PostContext exp-2: %v", err)
	}

	err = b.PutContext(ctx, id1, EntitySpec{TypeID: typeID, Name: "exp-2"})
	if err == nil {
		t.Fatal("expected an error renaming a context to a name already used by another context of the same type")
	}
	me, ok := err.(*Error)
	if !ok || me.Kind != KindAlreadyExists {
		t.Errorf("expected KindAlreadyExists, got %v", err)
	}
}

func TestGetContextByIDNotFound(t *testing.T) {
	b := openTestBackend(t)
	_, err := b.GetContextByID(context.Background(), 42)
	if err == nil {
		t.Fatal("expected an error looking up a nonexistent context")
	}
	me, ok := err.(*Error)
	if !ok || me.Kind != KindNotFound {
		t.Errorf("expected KindNotFound, got %v", err)
	}
}
