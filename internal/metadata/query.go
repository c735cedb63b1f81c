package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// entityQuerySpec names the table and join columns used to translate a
// Filter into SQL for one of the three entity kinds. Implements: spec
// §4.6 "Query builder".
type entityQuerySpec struct {
	table        string
	relTable     string // Attribution or Association, empty for none
	relEntityCol string // "artifact_id" or "execution_id" in relTable
	eventCol     string // this table's own column in Event, empty if not event-joinable (Context)
}

var (
	artifactQuerySpec  = entityQuerySpec{table: "Artifact", relTable: "Attribution", relEntityCol: "artifact_id", eventCol: "artifact_id"}
	executionQuerySpec = entityQuerySpec{table: "Execution", relTable: "Association", relEntityCol: "execution_id", eventCol: "execution_id"}
	contextQuerySpec   = entityQuerySpec{table: "Context"}
)

// buildQuery composes a SELECT id FROM ... WHERE ... statement for f
// against spec, returning the SQL and its positional arguments. A Filter
// with IDsSet true but an empty id slice for this entity kind matches no
// rows, per spec §8's supplemented scenario distinguishing "ids not set"
// from "ids set to empty".
func buildQuery(spec entityQuerySpec, f Filter, ids []int64) (string, []any, bool) {
	if f.IDsSet && len(ids) == 0 {
		return "", nil, false
	}

	var where []string
	var args []any

	if len(ids) > 0 {
		where = append(where, fmt.Sprintf("%s.id IN (%s)", spec.table, placeholders(len(ids))))
		for _, id := range ids {
			args = append(args, id)
		}
	}
	if len(f.TypeIDs) > 0 {
		where = append(where, fmt.Sprintf("%s.type_id IN (%s)", spec.table, placeholders(len(f.TypeIDs))))
		for _, id := range f.TypeIDs {
			args = append(args, id)
		}
	}
	if f.TypeName != "" {
		where = append(where, "Type.name = ?")
		args = append(args, f.TypeName)
	}
	if f.Name != "" {
		where = append(where, fmt.Sprintf("%s.name = ?", spec.table))
		args = append(args, f.Name)
	}
	if f.CreateRange != nil {
		if f.CreateRange.Since != 0 {
			where = append(where, fmt.Sprintf("%s.create_time_since_epoch >= ?", spec.table))
			args = append(args, f.CreateRange.Since)
		}
		if f.CreateRange.Until != 0 {
			where = append(where, fmt.Sprintf("%s.create_time_since_epoch <= ?", spec.table))
			args = append(args, f.CreateRange.Until)
		}
	}
	if f.UpdateRange != nil {
		if f.UpdateRange.Since != 0 {
			where = append(where, fmt.Sprintf("%s.last_update_time_since_epoch >= ?", spec.table))
			args = append(args, f.UpdateRange.Since)
		}
		if f.UpdateRange.Until != 0 {
			where = append(where, fmt.Sprintf("%s.last_update_time_since_epoch <= ?", spec.table))
			args = append(args, f.UpdateRange.Until)
		}
	}

	joins := ""
	if f.TypeName != "" {
		joins += fmt.Sprintf(" JOIN Type ON Type.id = %s.type_id", spec.table)
	}
	if f.ContextID != nil && spec.relTable != "" {
		joins += fmt.Sprintf(" JOIN %s ON %s.%s = %s.id", spec.relTable, spec.relTable, spec.relEntityCol, spec.table)
		where = append(where, fmt.Sprintf("%s.context_id = ?", spec.relTable))
		args = append(args, *f.ContextID)
	}
	// Event-relation filters: an artifact query honors f.ExecutionID
	// ("artifacts touched by this execution's events") and an execution
	// query honors f.ArtifactID ("executions touched by this artifact's
	// events"); each only applies to the opposite entity kind's query
	// spec. Implements: spec §4.6's artifact_id/execution_id filter row.
	if spec.eventCol != "" {
		if f.ArtifactID != nil && spec.eventCol != "artifact_id" {
			joins += fmt.Sprintf(" JOIN Event ON Event.%s = %s.id", spec.eventCol, spec.table)
			where = append(where, "Event.artifact_id = ?")
			args = append(args, *f.ArtifactID)
		}
		if f.ExecutionID != nil && spec.eventCol != "execution_id" {
			joins += fmt.Sprintf(" JOIN Event ON Event.%s = %s.id", spec.eventCol, spec.table)
			where = append(where, "Event.execution_id = ?")
			args = append(args, *f.ExecutionID)
		}
	}

	query := fmt.Sprintf("SELECT DISTINCT %s.id FROM %s%s", spec.table, spec.table, joins)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	idCol := spec.table + ".id"
	if f.OrderBy != "" {
		col := orderColumn(spec.table, f.OrderBy)
		query += " ORDER BY " + col
		if f.Desc {
			query += " DESC"
		}
		// Ties on col are broken by id, per spec §4.6 ("ties broken by
		// id"); skip the redundant term when col already is the id column.
		if col != idCol {
			query += ", " + idCol
			if f.Desc {
				query += " DESC"
			}
		}
	} else {
		query += " ORDER BY " + idCol
	}
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", f.Offset)
	}
	return query, args, true
}

func orderColumn(table, orderBy string) string {
	switch orderBy {
	case "create_time":
		return table + ".create_time_since_epoch"
	case "update_time":
		return table + ".last_update_time_since_epoch"
	default:
		return table + ".id"
	}
}

func queryIDs(ctx context.Context, q querier, query string, args []any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(KindIO, err, "run query")
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapErr(KindIO, err, "scan id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetArtifacts returns artifacts matching f, read inside a single
// transaction for a consistent view across the id query and each row
// fetch. Implements: spec §4.6, §4.7.
func (b *Backend) GetArtifacts(ctx context.Context, f Filter) ([]ArtifactRecord, error) {
	query, args, matched := buildQuery(artifactQuerySpec, f, f.ArtifactIDs)
	if !matched {
		return nil, nil
	}
	var out []ArtifactRecord
	err := b.withTx(ctx, "GetArtifacts", func(ctx context.Context, tx *sql.Tx) error {
		ids, err := queryIDs(ctx, tx, query, args)
		if err != nil {
			return err
		}
		out = make([]ArtifactRecord, 0, len(ids))
		for _, id := range ids {
			r, err := getArtifactByIDTx(ctx, tx, id)
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// GetExecutions returns executions matching f, read inside a single
// transaction for a consistent view.
func (b *Backend) GetExecutions(ctx context.Context, f Filter) ([]ExecutionRecord, error) {
	query, args, matched := buildQuery(executionQuerySpec, f, f.ExecutionIDs)
	if !matched {
		return nil, nil
	}
	var out []ExecutionRecord
	err := b.withTx(ctx, "GetExecutions", func(ctx context.Context, tx *sql.Tx) error {
		ids, err := queryIDs(ctx, tx, query, args)
		if err != nil {
			return err
		}
		out = make([]ExecutionRecord, 0, len(ids))
		for _, id := range ids {
			r, err := getExecutionByIDTx(ctx, tx, id)
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// GetArtifactsByExecution returns every artifact with an event recorded
// against executionID. Implements: spec §8 Scenario 4.
func (b *Backend) GetArtifactsByExecution(ctx context.Context, executionID int64) ([]ArtifactRecord, error) {
	return b.GetArtifacts(ctx, Filter{ExecutionID: &executionID})
}

// GetExecutionsByArtifact returns every execution with an event recorded
// against artifactID. Implements: spec §8 Scenario 4.
func (b *Backend) GetExecutionsByArtifact(ctx context.Context, artifactID int64) ([]ExecutionRecord, error) {
	return b.GetExecutions(ctx, Filter{ArtifactID: &artifactID})
}

// GetContexts returns contexts matching f, read inside a single
// transaction for a consistent view.
func (b *Backend) GetContexts(ctx context.Context, f Filter) ([]ContextRecord, error) {
	query, args, matched := buildQuery(contextQuerySpec, f, f.ContextIDs)
	if !matched {
		return nil, nil
	}
	var out []ContextRecord
	err := b.withTx(ctx, "GetContexts", func(ctx context.Context, tx *sql.Tx) error {
		ids, err := queryIDs(ctx, tx, query, args)
		if err != nil {
			return err
		}
		out = make([]ContextRecord, 0, len(ids))
		for _, id := range ids {
			r, err := getContextByIDTx(ctx, tx, id)
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}
