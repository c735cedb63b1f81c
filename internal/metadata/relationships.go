package metadata

import (
	"context"
	"database/sql"
)

// PutEvent records that artifactID played role typ in executionID, with
// an optional ordered path. Path steps are persisted to EventPath in
// order, each stamped with an auto-increment event_path_id that callers
// never see but that the read path sorts by to recover insertion order.
// Implements: spec §4.5 "Event", §3 "Event path ordering" (resolved open
// question).
func (b *Backend) PutEvent(ctx context.Context, artifactID, executionID int64, typ int, path []EventStep) (int64, error) {
	var id int64
	err := b.withTx(ctx, "PutEvent", func(ctx context.Context, tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM Artifact WHERE id = ?", artifactID).Scan(&n); err != nil {
			return wrapErr(KindIO, err, "check artifact exists")
		}
		if n == 0 {
			return newErr(KindInvalidArgument, "artifact %d does not exist", artifactID)
		}
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM Execution WHERE id = ?", executionID).Scan(&n); err != nil {
			return wrapErr(KindIO, err, "check execution exists")
		}
		if n == 0 {
			return newErr(KindInvalidArgument, "execution %d does not exist", executionID)
		}

		now := b.clock.NowMillis()
		res, err := tx.ExecContext(ctx,
			"INSERT INTO Event (artifact_id, execution_id, type, milliseconds_since_epoch) VALUES (?, ?, ?, ?)",
			artifactID, executionID, typ, now)
		if err != nil {
			return wrapErr(KindIO, err, "insert event")
		}
		id, err = res.LastInsertId()
		if err != nil {
			return wrapErr(KindIO, err, "read inserted event id")
		}
		for _, step := range path {
			isIndex := 0
			var idxVal any
			var keyVal any
			if step.IsKey {
				keyVal = step.Key
			} else {
				isIndex = 1
				idxVal = step.Index
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO EventPath (event_id, is_index_step, step_index, step_key) VALUES (?, ?, ?, ?)",
				id, isIndex, idxVal, keyVal); err != nil {
				return wrapErr(KindIO, err, "insert event path step")
			}
		}
		return nil
	})
	return id, err
}

func loadEventPath(ctx context.Context, q querier, eventID int64) ([]EventStep, error) {
	rows, err := q.QueryContext(ctx, "SELECT is_index_step, step_index, step_key FROM EventPath WHERE event_id = ? ORDER BY event_path_id", eventID)
	if err != nil {
		return nil, wrapErr(KindIO, err, "query event path")
	}
	defer rows.Close()
	var out []EventStep
	for rows.Next() {
		var isIndex int
		var idx sql.NullInt64
		var key sql.NullString
		if err := rows.Scan(&isIndex, &idx, &key); err != nil {
			return nil, wrapErr(KindIO, err, "scan event path step")
		}
		if isIndex != 0 {
			out = append(out, EventStep{Index: idx.Int64})
		} else {
			out = append(out, EventStep{Key: key.String, IsKey: true})
		}
	}
	return out, rows.Err()
}

func loadEvents(ctx context.Context, q querier, whereCol string, id int64) ([]EventRecord, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, artifact_id, execution_id, type, milliseconds_since_epoch FROM Event WHERE "+whereCol+" = ? ORDER BY id", id)
	if err != nil {
		return nil, wrapErr(KindIO, err, "query events")
	}
	var events []EventRecord
	for rows.Next() {
		var r EventRecord
		if err := rows.Scan(&r.ID, &r.ArtifactID, &r.ExecutionID, &r.Type, &r.MillisecondsSinceEpoch); err != nil {
			rows.Close()
			return nil, wrapErr(KindIO, err, "scan event")
		}
		events = append(events, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr(KindIO, err, "iterate events")
	}
	for i := range events {
		path, err := loadEventPath(ctx, q, events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].Path = path
	}
	return events, nil
}

// GetEventsByArtifact returns every event recorded against id, ordered
// by event id.
func (b *Backend) GetEventsByArtifact(ctx context.Context, id int64) ([]EventRecord, error) {
	return loadEvents(ctx, b.db, "artifact_id", id)
}

// GetEventsByExecution returns every event recorded against id, ordered
// by event id.
func (b *Backend) GetEventsByExecution(ctx context.Context, id int64) ([]EventRecord, error) {
	return loadEvents(ctx, b.db, "execution_id", id)
}

// PutAttribution links contextID to artifactID. Idempotent: inserting the
// same pair twice is not an error. Implements: spec §4.5 "Attribution".
func (b *Backend) PutAttribution(ctx context.Context, contextID, artifactID int64) error {
	return b.withTx(ctx, "PutAttribution", func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO Attribution (context_id, artifact_id) VALUES (?, ?)", contextID, artifactID)
		if err != nil && !isUniqueViolation(err) {
			return wrapErr(KindIO, err, "insert attribution")
		}
		return nil
	})
}

// PutAssociation links contextID to executionID. Idempotent.
// Implements: spec §4.5 "Association".
func (b *Backend) PutAssociation(ctx context.Context, contextID, executionID int64) error {
	return b.withTx(ctx, "PutAssociation", func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO Association (context_id, execution_id) VALUES (?, ?)", contextID, executionID)
		if err != nil && !isUniqueViolation(err) {
			return wrapErr(KindIO, err, "insert association")
		}
		return nil
	})
}

// PutParentContext declares contextID nested within parentID. Unlike
// PutAttribution/PutAssociation, a duplicate edge is rejected as
// KindAlreadyExists instead of silently accepted. Implements: spec §4.5
// "Parent context", §8 supplemented scenario.
func (b *Backend) PutParentContext(ctx context.Context, contextID, parentID int64) error {
	return b.withTx(ctx, "PutParentContext", func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO ParentContext (context_id, parent_context_id) VALUES (?, ?)", contextID, parentID)
		if err != nil {
			if isUniqueViolation(err) {
				return newErr(KindAlreadyExists, "context %d is already a child of context %d", contextID, parentID)
			}
			return wrapErr(KindIO, err, "insert parent context")
		}
		return nil
	})
}

// GetParentContexts returns the contexts id is directly nested within.
func (b *Backend) GetParentContexts(ctx context.Context, id int64) ([]ContextRecord, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT parent_context_id FROM ParentContext WHERE context_id = ?", id)
	if err != nil {
		return nil, wrapErr(KindIO, err, "query parent contexts")
	}
	var ids []int64
	for rows.Next() {
		var pid int64
		if err := rows.Scan(&pid); err != nil {
			rows.Close()
			return nil, wrapErr(KindIO, err, "scan parent context id")
		}
		ids = append(ids, pid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr(KindIO, err, "iterate parent contexts")
	}
	return b.contextsByIDs(ctx, ids)
}

// GetContextsByArtifact returns the contexts attributed to artifact id.
func (b *Backend) GetContextsByArtifact(ctx context.Context, id int64) ([]ContextRecord, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT context_id FROM Attribution WHERE artifact_id = ?", id)
	if err != nil {
		return nil, wrapErr(KindIO, err, "query attributions")
	}
	var ids []int64
	for rows.Next() {
		var cid int64
		if err := rows.Scan(&cid); err != nil {
			rows.Close()
			return nil, wrapErr(KindIO, err, "scan context id")
		}
		ids = append(ids, cid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr(KindIO, err, "iterate attributions")
	}
	return b.contextsByIDs(ctx, ids)
}

// GetContextsByExecution returns the contexts associated with execution id.
func (b *Backend) GetContextsByExecution(ctx context.Context, id int64) ([]ContextRecord, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT context_id FROM Association WHERE execution_id = ?", id)
	if err != nil {
		return nil, wrapErr(KindIO, err, "query associations")
	}
	var ids []int64
	for rows.Next() {
		var cid int64
		if err := rows.Scan(&cid); err != nil {
			rows.Close()
			return nil, wrapErr(KindIO, err, "scan context id")
		}
		ids = append(ids, cid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr(KindIO, err, "iterate associations")
	}
	return b.contextsByIDs(ctx, ids)
}

func (b *Backend) contextsByIDs(ctx context.Context, ids []int64) ([]ContextRecord, error) {
	out := make([]ContextRecord, 0, len(ids))
	for _, id := range ids {
		r, err := b.GetContextByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
