package metadata

import (
	"context"
	"database/sql"
)

// PostArtifact creates a new Artifact row plus its property rows.
// Implements: spec §4.4 "Entities".
func (b *Backend) PostArtifact(ctx context.Context, spec EntitySpec, state int, uri string) (int64, error) {
	var id int64
	err := b.withTx(ctx, "PostArtifact", func(ctx context.Context, tx *sql.Tx) error {
		if err := validateEntityAgainstType(ctx, tx, artifactKind, spec); err != nil {
			return err
		}
		now := b.clock.NowMillis()
		res, err := tx.ExecContext(ctx,
			"INSERT INTO Artifact (type_id, name, uri, state, create_time_since_epoch, last_update_time_since_epoch) VALUES (?, ?, ?, ?, ?, ?)",
			spec.TypeID, nullableString(spec.Name), nullableString(uri), state, now, now)
		if err != nil {
			if isUniqueViolation(err) {
				return newErr(KindAlreadyExists, "artifact %q already exists for this type", spec.Name)
			}
			return wrapErr(KindIO, err, "insert artifact")
		}
		id, err = res.LastInsertId()
		if err != nil {
			return wrapErr(KindIO, err, "read inserted artifact id")
		}
		return replacePropertiesTx(ctx, tx, artifactPropertyTable, id, spec.Properties, spec.CustomProperties)
	})
	return id, err
}

// PutArtifact updates an existing Artifact's mutable fields. Its property
// rows are replaced only when spec.PropertiesSet or
// spec.CustomPropertiesSet is true; the side whose flag is false keeps
// its stored rows.
func (b *Backend) PutArtifact(ctx context.Context, id int64, spec EntitySpec, state int, uri string) error {
	return b.withTx(ctx, "PutArtifact", func(ctx context.Context, tx *sql.Tx) error {
		if err := validateEntityAgainstType(ctx, tx, artifactKind, spec); err != nil {
			return err
		}
		now := b.clock.NowMillis()
		res, err := tx.ExecContext(ctx,
			"UPDATE Artifact SET name = ?, uri = ?, state = ?, last_update_time_since_epoch = ? WHERE id = ?",
			nullableString(spec.Name), nullableString(uri), state, now, id)
		if err != nil {
			return wrapErr(KindIO, err, "update artifact")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return newErr(KindNotFound, "artifact %d not found", id)
		}
		if !spec.PropertiesSet && !spec.CustomPropertiesSet {
			return nil
		}
		declared, custom, err := resolvePropertiesForPut(ctx, tx, artifactPropertyTable, id, spec)
		if err != nil {
			return err
		}
		return replacePropertiesTx(ctx, tx, artifactPropertyTable, id, declared, custom)
	})
}

func scanArtifact(row *sql.Row) (ArtifactRecord, error) {
	var r ArtifactRecord
	var name, uri sql.NullString
	var state sql.NullInt64
	if err := row.Scan(&r.ID, &r.TypeID, &name, &uri, &state, &r.CreateTimeMillis, &r.UpdateTimeMillis); err != nil {
		if err == sql.ErrNoRows {
			return ArtifactRecord{}, newErr(KindNotFound, "artifact not found")
		}
		return ArtifactRecord{}, wrapErr(KindIO, err, "query artifact")
	}
	r.Name = name.String
	r.URI = uri.String
	r.State = int(state.Int64)
	return r, nil
}

// GetArtifactByID looks up a single Artifact plus its properties, inside
// a single transaction for a consistent read view. Implements: spec §4.7.
func (b *Backend) GetArtifactByID(ctx context.Context, id int64) (ArtifactRecord, error) {
	var r ArtifactRecord
	err := b.withTx(ctx, "GetArtifactByID", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		r, err = getArtifactByIDTx(ctx, tx, id)
		return err
	})
	return r, err
}

// getArtifactByIDTx is the querier-generic core of GetArtifactByID,
// reusable from an in-flight transaction (e.g. the multi-row Get*
// loops in query.go) so each row is read against the same tx.
func getArtifactByIDTx(ctx context.Context, q querier, id int64) (ArtifactRecord, error) {
	row := q.QueryRowContext(ctx, "SELECT id, type_id, name, uri, state, create_time_since_epoch, last_update_time_since_epoch FROM Artifact WHERE id = ?", id)
	r, err := scanArtifact(row)
	if err != nil {
		return ArtifactRecord{}, err
	}
	declared, custom, err := loadPropertiesTx(ctx, q, artifactPropertyTable, id)
	if err != nil {
		return ArtifactRecord{}, err
	}
	r.Properties, r.CustomProperties = declared, custom
	t, err := loadTypeByIDTx(ctx, q, r.TypeID)
	if err == nil {
		r.TypeName = t.Name
	}
	return r, nil
}

// PostExecution creates a new Execution row plus its property rows.
func (b *Backend) PostExecution(ctx context.Context, spec EntitySpec, lastKnownState int) (int64, error) {
	var id int64
	err := b.withTx(ctx, "PostExecution", func(ctx context.Context, tx *sql.Tx) error {
		if err := validateEntityAgainstType(ctx, tx, executionKind, spec); err != nil {
			return err
		}
		now := b.clock.NowMillis()
		res, err := tx.ExecContext(ctx,
			"INSERT INTO Execution (type_id, name, last_known_state, create_time_since_epoch, last_update_time_since_epoch) VALUES (?, ?, ?, ?, ?)",
			spec.TypeID, nullableString(spec.Name), lastKnownState, now, now)
		if err != nil {
			if isUniqueViolation(err) {
				return newErr(KindAlreadyExists, "execution %q already exists for this type", spec.Name)
			}
			return wrapErr(KindIO, err, "insert execution")
		}
		id, err = res.LastInsertId()
		if err != nil {
			return wrapErr(KindIO, err, "read inserted execution id")
		}
		return replacePropertiesTx(ctx, tx, executionPropertyTable, id, spec.Properties, spec.CustomProperties)
	})
	return id, err
}

// PutExecution updates an existing Execution's mutable fields.
func (b *Backend) PutExecution(ctx context.Context, id int64, spec EntitySpec, lastKnownState int) error {
	return b.withTx(ctx, "PutExecution", func(ctx context.Context, tx *sql.Tx) error {
		if err := validateEntityAgainstType(ctx, tx, executionKind, spec); err != nil {
			return err
		}
		now := b.clock.NowMillis()
		res, err := tx.ExecContext(ctx,
			"UPDATE Execution SET name = ?, last_known_state = ?, last_update_time_since_epoch = ? WHERE id = ?",
			nullableString(spec.Name), lastKnownState, now, id)
		if err != nil {
			return wrapErr(KindIO, err, "update execution")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return newErr(KindNotFound, "execution %d not found", id)
		}
		if !spec.PropertiesSet && !spec.CustomPropertiesSet {
			return nil
		}
		declared, custom, err := resolvePropertiesForPut(ctx, tx, executionPropertyTable, id, spec)
		if err != nil {
			return err
		}
		return replacePropertiesTx(ctx, tx, executionPropertyTable, id, declared, custom)
	})
}

func scanExecution(row *sql.Row) (ExecutionRecord, error) {
	var r ExecutionRecord
	var name sql.NullString
	var state sql.NullInt64
	if err := row.Scan(&r.ID, &r.TypeID, &name, &state, &r.CreateTimeMillis, &r.UpdateTimeMillis); err != nil {
		if err == sql.ErrNoRows {
			return ExecutionRecord{}, newErr(KindNotFound, "execution not found")
		}
		return ExecutionRecord{}, wrapErr(KindIO, err, "query execution")
	}
	r.Name = name.String
	r.LastKnownState = int(state.Int64)
	return r, nil
}

// GetExecutionByID looks up a single Execution plus its properties,
// inside a single transaction for a consistent read view.
func (b *Backend) GetExecutionByID(ctx context.Context, id int64) (ExecutionRecord, error) {
	var r ExecutionRecord
	err := b.withTx(ctx, "GetExecutionByID", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		r, err = getExecutionByIDTx(ctx, tx, id)
		return err
	})
	return r, err
}

// getExecutionByIDTx is the querier-generic core of GetExecutionByID.
func getExecutionByIDTx(ctx context.Context, q querier, id int64) (ExecutionRecord, error) {
	row := q.QueryRowContext(ctx, "SELECT id, type_id, name, last_known_state, create_time_since_epoch, last_update_time_since_epoch FROM Execution WHERE id = ?", id)
	r, err := scanExecution(row)
	if err != nil {
		return ExecutionRecord{}, err
	}
	declared, custom, err := loadPropertiesTx(ctx, q, executionPropertyTable, id)
	if err != nil {
		return ExecutionRecord{}, err
	}
	r.Properties, r.CustomProperties = declared, custom
	t, err := loadTypeByIDTx(ctx, q, r.TypeID)
	if err == nil {
		r.TypeName = t.Name
	}
	return r, nil
}

// PostContext creates a new Context row. Name is required and unique
// within the type; a duplicate name surfaces as KindAlreadyExists via
// the UNIQUE(type_id, name) index.
func (b *Backend) PostContext(ctx context.Context, spec EntitySpec) (int64, error) {
	var id int64
	err := b.withTx(ctx, "PostContext", func(ctx context.Context, tx *sql.Tx) error {
		if err := validateEntityAgainstType(ctx, tx, contextKind, spec); err != nil {
			return err
		}
		now := b.clock.NowMillis()
		res, err := tx.ExecContext(ctx,
			"INSERT INTO Context (type_id, name, create_time_since_epoch, last_update_time_since_epoch) VALUES (?, ?, ?, ?)",
			spec.TypeID, spec.Name, now, now)
		if err != nil {
			if isUniqueViolation(err) {
				return newErr(KindAlreadyExists, "context %q already exists for this type", spec.Name)
			}
			return wrapErr(KindIO, err, "insert context")
		}
		id, err = res.LastInsertId()
		if err != nil {
			return wrapErr(KindIO, err, "read inserted context id")
		}
		return replacePropertiesTx(ctx, tx, contextPropertyTable, id, spec.Properties, spec.CustomProperties)
	})
	return id, err
}

// PutContext updates an existing Context's mutable fields.
func (b *Backend) PutContext(ctx context.Context, id int64, spec EntitySpec) error {
	return b.withTx(ctx, "PutContext", func(ctx context.Context, tx *sql.Tx) error {
		if err := validateEntityAgainstType(ctx, tx, contextKind, spec); err != nil {
			return err
		}
		now := b.clock.NowMillis()
		res, err := tx.ExecContext(ctx,
			"UPDATE Context SET name = ?, last_update_time_since_epoch = ? WHERE id = ?",
			spec.Name, now, id)
		if err != nil {
			if isUniqueViolation(err) {
				return newErr(KindAlreadyExists, "context %q already exists for this type", spec.Name)
			}
			return wrapErr(KindIO, err, "update context")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return newErr(KindNotFound, "context %d not found", id)
		}
		if !spec.PropertiesSet && !spec.CustomPropertiesSet {
			return nil
		}
		declared, custom, err := resolvePropertiesForPut(ctx, tx, contextPropertyTable, id, spec)
		if err != nil {
			return err
		}
		return replacePropertiesTx(ctx, tx, contextPropertyTable, id, declared, custom)
	})
}

func scanContext(row *sql.Row) (ContextRecord, error) {
	var r ContextRecord
	if err := row.Scan(&r.ID, &r.TypeID, &r.Name, &r.CreateTimeMillis, &r.UpdateTimeMillis); err != nil {
		if err == sql.ErrNoRows {
			return ContextRecord{}, newErr(KindNotFound, "context not found")
		}
		return ContextRecord{}, wrapErr(KindIO, err, "query context")
	}
	return r, nil
}

// GetContextByID looks up a single Context plus its properties, inside
// a single transaction for a consistent read view.
func (b *Backend) GetContextByID(ctx context.Context, id int64) (ContextRecord, error) {
	var r ContextRecord
	err := b.withTx(ctx, "GetContextByID", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		r, err = getContextByIDTx(ctx, tx, id)
		return err
	})
	return r, err
}

// getContextByIDTx is the querier-generic core of GetContextByID.
func getContextByIDTx(ctx context.Context, q querier, id int64) (ContextRecord, error) {
	row := q.QueryRowContext(ctx, "SELECT id, type_id, name, create_time_since_epoch, last_update_time_since_epoch FROM Context WHERE id = ?", id)
	r, err := scanContext(row)
	if err != nil {
		return ContextRecord{}, err
	}
	declared, custom, err := loadPropertiesTx(ctx, q, contextPropertyTable, id)
	if err != nil {
		return ContextRecord{}, err
	}
	r.Properties, r.CustomProperties = declared, custom
	t, err := loadTypeByIDTx(ctx, q, r.TypeID)
	if err == nil {
		r.TypeName = t.Name
	}
	return r, nil
}
