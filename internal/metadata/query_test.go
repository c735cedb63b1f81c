package metadata

import (
	"strings"
	"testing"
)

func TestBuildQueryEmptyFilterMatchesEverything(t *testing.T) {
	query, args, matched := buildQuery(artifactQuerySpec, Filter{}, nil)
	if !matched {
		t.Fatal("empty filter should match")
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
	want := "SELECT DISTINCT Artifact.id FROM Artifact ORDER BY Artifact.id"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
}

func TestBuildQueryIDsSetEmptyMatchesNothing(t *testing.T) {
	f := Filter{IDsSet: true}
	_, _, matched := buildQuery(artifactQuerySpec, f, nil)
	if matched {
		t.Error("IDsSet true with an empty id slice must match nothing")
	}
}

func TestBuildQueryIDsNotSetMatchesEverything(t *testing.T) {
	f := Filter{}
	_, _, matched := buildQuery(artifactQuerySpec, f, nil)
	if !matched {
		t.Error("IDsSet false must match everything regardless of the (nil) id slice")
	}
}

func TestBuildQueryWithIDs(t *testing.T) {
	f := Filter{IDsSet: true}
	query, args, matched := buildQuery(artifactQuerySpec, f, []int64{1, 2, 3})
	if !matched {
		t.Fatal("non-empty ids should match")
	}
	if !strings.Contains(query, "Artifact.id IN (?, ?, ?)") {
		t.Errorf("query missing IN clause: %q", query)
	}
	if len(args) != 3 || args[0] != int64(1) || args[2] != int64(3) {
		t.Errorf("args = %v, want [1 2 3]", args)
	}
}

func TestBuildQueryTypeIDsAndName(t *testing.T) {
	f := Filter{TypeIDs: []int64{5}, Name: "foo"}
	query, args, matched := buildQuery(artifactQuerySpec, f, nil)
	if !matched {
		t.Fatal("expected match")
	}
	if !strings.Contains(query, "Artifact.type_id IN (?)") {
		t.Errorf("missing type_id clause: %q", query)
	}
	if !strings.Contains(query, "Artifact.name = ?") {
		t.Errorf("missing name clause: %q", query)
	}
	if !strings.Contains(query, " AND ") {
		t.Errorf("expected clauses to be AND-joined: %q", query)
	}
	if len(args) != 2 || args[0] != int64(5) || args[1] != "foo" {
		t.Errorf("args = %v, want [5 foo]", args)
	}
}

func TestBuildQueryTypeNameJoinsType(t *testing.T) {
	f := Filter{TypeName: "MyType"}
	query, args, matched := buildQuery(artifactQuerySpec, f, nil)
	if !matched {
		t.Fatal("expected match")
	}
	if !strings.Contains(query, "JOIN Type ON Type.id = Artifact.type_id") {
		t.Errorf("missing Type join: %q", query)
	}
	if !strings.Contains(query, "Type.name = ?") {
		t.Errorf("missing Type.name clause: %q", query)
	}
	if len(args) != 1 || args[0] != "MyType" {
		t.Errorf("args = %v, want [MyType]", args)
	}
}

func TestBuildQueryContextJoinsRelTable(t *testing.T) {
	cid := int64(9)
	f := Filter{ContextID: &cid}
	query, args, matched := buildQuery(artifactQuerySpec, f, nil)
	if !matched {
		t.Fatal("expected match")
	}
	if !strings.Contains(query, "JOIN Attribution ON Attribution.artifact_id = Artifact.id") {
		t.Errorf("missing Attribution join: %q", query)
	}
	if !strings.Contains(query, "Attribution.context_id = ?") {
		t.Errorf("missing context_id clause: %q", query)
	}
	if len(args) != 1 || args[0] != int64(9) {
		t.Errorf("args = %v, want [9]", args)
	}
}

func TestBuildQueryContextFilterIgnoredWhenSpecHasNoRelTable(t *testing.T) {
	cid := int64(9)
	f := Filter{ContextID: &cid}
	query, _, matched := buildQuery(contextQuerySpec, f, nil)
	if !matched {
		t.Fatal("expected match")
	}
	if strings.Contains(query, "JOIN") {
		t.Errorf("contextQuerySpec has no relTable; query must not join one: %q", query)
	}
}

func TestBuildQueryExecutionQueryHonorsArtifactIDViaEvent(t *testing.T) {
	aid := int64(7)
	f := Filter{ArtifactID: &aid}
	query, args, matched := buildQuery(executionQuerySpec, f, nil)
	if !matched {
		t.Fatal("expected match")
	}
	if !strings.Contains(query, "JOIN Event ON Event.execution_id = Execution.id") {
		t.Errorf("missing Event join: %q", query)
	}
	if !strings.Contains(query, "Event.artifact_id = ?") {
		t.Errorf("missing artifact_id clause: %q", query)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Errorf("args = %v, want [7]", args)
	}
}

func TestBuildQueryArtifactQueryHonorsExecutionIDViaEvent(t *testing.T) {
	eid := int64(11)
	f := Filter{ExecutionID: &eid}
	query, args, matched := buildQuery(artifactQuerySpec, f, nil)
	if !matched {
		t.Fatal("expected match")
	}
	if !strings.Contains(query, "JOIN Event ON Event.artifact_id = Artifact.id") {
		t.Errorf("missing Event join: %q", query)
	}
	if !strings.Contains(query, "Event.execution_id = ?") {
		t.Errorf("missing execution_id clause: %q", query)
	}
	if len(args) != 1 || args[0] != int64(11) {
		t.Errorf("args = %v, want [11]", args)
	}
}

func TestBuildQueryContextQueryIgnoresArtifactAndExecutionID(t *testing.T) {
	aid, eid := int64(1), int64(2)
	query, _, matched := buildQuery(contextQuerySpec, Filter{ArtifactID: &aid, ExecutionID: &eid}, nil)
	if !matched {
		t.Fatal("expected match")
	}
	if strings.Contains(query, "JOIN") {
		t.Errorf("contextQuerySpec has no eventCol; query must not join Event: %q", query)
	}
}

func TestBuildQueryArtifactQueryIgnoresOwnKindArtifactID(t *testing.T) {
	aid := int64(1)
	query, _, matched := buildQuery(artifactQuerySpec, Filter{ArtifactID: &aid}, nil)
	if !matched {
		t.Fatal("expected match")
	}
	if strings.Contains(query, "JOIN Event") {
		t.Errorf("an artifact query's own-kind ArtifactID filter is meaningless and must not join Event: %q", query)
	}
}

func TestBuildQueryCreateAndUpdateRanges(t *testing.T) {
	f := Filter{
		CreateRange: &TimeRange{Since: 100, Until: 200},
		UpdateRange: &TimeRange{Since: 300},
	}
	query, args, matched := buildQuery(artifactQuerySpec, f, nil)
	if !matched {
		t.Fatal("expected match")
	}
	if !strings.Contains(query, "Artifact.create_time_since_epoch >= ?") || !strings.Contains(query, "Artifact.create_time_since_epoch <= ?") {
		t.Errorf("missing create_time bounds: %q", query)
	}
	if !strings.Contains(query, "Artifact.last_update_time_since_epoch >= ?") {
		t.Errorf("missing update_time lower bound: %q", query)
	}
	if strings.Contains(query, "last_update_time_since_epoch <= ?") {
		t.Errorf("UpdateRange.Until was zero; no upper bound should appear: %q", query)
	}
	if len(args) != 3 {
		t.Errorf("args = %v, want 3 values", args)
	}
}

func TestBuildQueryOrderByAndPaging(t *testing.T) {
	f := Filter{OrderBy: "create_time", Desc: true, Limit: 10, Offset: 5}
	query, _, matched := buildQuery(artifactQuerySpec, f, nil)
	if !matched {
		t.Fatal("expected match")
	}
	if !strings.HasSuffix(query, "ORDER BY Artifact.create_time_since_epoch DESC, Artifact.id DESC LIMIT 10 OFFSET 5") {
		t.Errorf("unexpected ordering/paging suffix: %q", query)
	}
}

func TestBuildQueryOrderByTiesBreakOnID(t *testing.T) {
	asc := Filter{OrderBy: "update_time"}
	query, _, _ := buildQuery(artifactQuerySpec, asc, nil)
	if !strings.HasSuffix(query, "ORDER BY Artifact.last_update_time_since_epoch, Artifact.id") {
		t.Errorf("ascending OrderBy missing id tie-break: %q", query)
	}

	// OrderBy "id" already resolves to the id column itself; the
	// tie-break term must not be duplicated.
	idOnly := Filter{OrderBy: "id", Desc: true}
	query, _, _ = buildQuery(artifactQuerySpec, idOnly, nil)
	if !strings.HasSuffix(query, "ORDER BY Artifact.id DESC") || strings.Count(query[strings.Index(query, "ORDER BY"):], "Artifact.id") != 1 {
		t.Errorf("OrderBy=id must not duplicate the id column: %q", query)
	}
}

func TestBuildQueryDefaultOrderIsByID(t *testing.T) {
	query, _, _ := buildQuery(executionQuerySpec, Filter{}, nil)
	if !strings.HasSuffix(query, "ORDER BY Execution.id") {
		t.Errorf("expected default ORDER BY Execution.id, got %q", query)
	}
}

func TestOrderColumn(t *testing.T) {
	cases := []struct {
		orderBy string
		want    string
	}{
		{"create_time", "Artifact.create_time_since_epoch"},
		{"update_time", "Artifact.last_update_time_since_epoch"},
		{"", "Artifact.id"},
		{"id", "Artifact.id"},
		{"garbage", "Artifact.id"},
	}
	for _, tc := range cases {
		if got := orderColumn("Artifact", tc.orderBy); got != tc.want {
			t.Errorf("orderColumn(Artifact, %q) = %q, want %q", tc.orderBy, got, tc.want)
		}
	}
}
