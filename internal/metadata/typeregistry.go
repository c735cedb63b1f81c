package metadata

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// typeGroup coalesces concurrent PutType calls racing on the same
// (kind, name, version) key so only one of them touches the database;
// the rest receive the winner's result. Implements: spec §5
// "Concurrency", singleflight-backed PUT-type coalescing.
var typeGroup singleflight.Group

func typeKey(kind int, name, version string) string {
	return fmt.Sprintf("%d/%s/%s", kind, name, version)
}

// PutType registers a new type or evolves an existing one of the same
// (kind, name, version). Implements: spec §4.2 "Type registry".
func (b *Backend) PutType(ctx context.Context, spec TypeSpec) (int64, error) {
	key := typeKey(spec.Kind, spec.Name, spec.Version)
	v, err, _ := typeGroup.Do(key, func() (any, error) {
		return b.putTypeWithRetry(ctx, spec)
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (b *Backend) putTypeWithRetry(ctx context.Context, spec TypeSpec) (int64, error) {
	var id int64
	var err error
	for attempt := 0; attempt <= b.retries; attempt++ {
		id, err = b.putTypeOnce(ctx, spec)
		if err == nil {
			return id, nil
		}
		me, ok := err.(*Error)
		if !ok || me.Kind != KindAlreadyExists {
			return 0, err
		}
		if attempt == b.retries {
			return 0, err
		}
	}
	return 0, err
}

func (b *Backend) putTypeOnce(ctx context.Context, spec TypeSpec) (int64, error) {
	var id int64
	err := b.withTx(ctx, "PutType", func(ctx context.Context, tx *sql.Tx) error {
		existing, err := findTypeTx(ctx, tx, b.dialect, spec.Kind, spec.Name, spec.Version)
		if err != nil && !isNotFound(err) {
			return err
		}
		if err != nil {
			// No existing type: insert fresh.
			res, err := tx.ExecContext(ctx,
				"INSERT INTO Type (kind, name, version, description, input_type, output_type) VALUES (?, ?, ?, ?, ?, ?)",
				spec.Kind, spec.Name, nullableString(spec.Version), nullableString(spec.Description), nullableString(spec.InputType), nullableString(spec.OutputType))
			if err != nil {
				if isUniqueViolation(err) {
					return newErr(KindAlreadyExists, "type %s/%s/%s was just created by a concurrent request", kindName(spec.Kind), spec.Name, spec.Version)
				}
				return wrapErr(KindIO, err, "insert type")
			}
			newID, err := res.LastInsertId()
			if err != nil {
				return wrapErr(KindIO, err, "read inserted type id")
			}
			id = newID
			if err := insertTypeProperties(ctx, tx, id, spec.Properties); err != nil {
				return err
			}
			if err := insertParentTypes(ctx, tx, id, spec.ParentTypeIDs); err != nil {
				return err
			}
			return nil
		}

		// Existing type: check evolution compatibility (can_add_fields /
		// can_omit_fields) before reconciling TypeProperty rows.
		if err := checkCompatibility(existing, spec); err != nil {
			return err
		}
		id = existing.ID
		if spec.Description != "" || spec.InputType != "" || spec.OutputType != "" {
			if _, err := tx.ExecContext(ctx,
				"UPDATE Type SET description = COALESCE(NULLIF(?, ''), description), input_type = COALESCE(NULLIF(?, ''), input_type), output_type = COALESCE(NULLIF(?, ''), output_type) WHERE id = ?",
				spec.Description, spec.InputType, spec.OutputType, id); err != nil {
				return wrapErr(KindIO, err, "update type %d", id)
			}
		}
		merged := mergeProperties(existing.Properties, spec.Properties, spec.CanAddFields, spec.CanOmitFields)
		if _, err := tx.ExecContext(ctx, "DELETE FROM TypeProperty WHERE type_id = ?", id); err != nil {
			return wrapErr(KindIO, err, "delete type properties")
		}
		if err := insertTypeProperties(ctx, tx, id, merged); err != nil {
			return err
		}
		if len(spec.ParentTypeIDs) > 0 {
			if err := insertParentTypes(ctx, tx, id, spec.ParentTypeIDs); err != nil {
				return err
			}
		}
		return nil
	})
	return id, err
}

// checkCompatibility enforces spec §4.2's can_add_fields/can_omit_fields
// rules: a property present in the stored type but absent from spec is
// only allowed when CanOmitFields is set; a property in spec absent from
// the stored type is only allowed when CanAddFields is set; a property
// present in both with a different data type is always rejected.
func checkCompatibility(existing TypeRecord, spec TypeSpec) error {
	for name, dt := range existing.Properties {
		newDT, ok := spec.Properties[name]
		if !ok {
			if !spec.CanOmitFields {
				return newErr(KindTypeConflict, "type %s is missing previously declared property %q; pass CanOmitFields to allow", spec.Name, name)
			}
			continue
		}
		if newDT != dt {
			return newErr(KindTypeConflict, "type %s redeclares property %q with a different data type", spec.Name, name)
		}
	}
	for name := range spec.Properties {
		if _, ok := existing.Properties[name]; !ok && !spec.CanAddFields {
			return newErr(KindTypeConflict, "type %s declares new property %q; pass CanAddFields to allow", spec.Name, name)
		}
	}
	return nil
}

func mergeProperties(existing, incoming map[string]int, canAdd, canOmit bool) map[string]int {
	merged := map[string]int{}
	for name, dt := range existing {
		merged[name] = dt
	}
	for name, dt := range incoming {
		merged[name] = dt
	}
	if canOmit {
		// Omitted fields stay from `existing`, already copied above;
		// nothing further to do since merged starts from existing.
	}
	return merged
}

func insertTypeProperties(ctx context.Context, tx *sql.Tx, typeID int64, props map[string]int) error {
	for name, dt := range props {
		if _, err := tx.ExecContext(ctx, "INSERT INTO TypeProperty (type_id, name, data_type) VALUES (?, ?, ?)", typeID, name, dt); err != nil {
			return wrapErr(KindIO, err, "insert type property %q", name)
		}
	}
	return nil
}

func insertParentTypes(ctx context.Context, tx *sql.Tx, typeID int64, parents []int64) error {
	for _, p := range parents {
		if p == typeID {
			return newErr(KindInvalidArgument, "a type cannot be its own parent")
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO ParentType (type_id, parent_type_id) VALUES (?, ?)", typeID, p); err != nil {
			if !isUniqueViolation(err) {
				return wrapErr(KindIO, err, "insert parent type")
			}
		}
	}
	return nil
}

// Type.kind values, mirroring pkg/mlmd.TypeKind numerically.
const (
	executionKind = 0
	artifactKind  = 1
	contextKind   = 2
)

func kindName(k int) string {
	switch k {
	case executionKind:
		return "execution"
	case artifactKind:
		return "artifact"
	case contextKind:
		return "context"
	default:
		return "unknown"
	}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isNotFound(err error) bool {
	me, ok := err.(*Error)
	return ok && me.Kind == KindNotFound
}

// findTypeTx looks up a type by (kind, name, version) using the dialect's
// NULL-safe equality for version, treating "" the same as NULL. Resolves
// spec §9's open question on NULL-vs-empty-version comparison.
func findTypeTx(ctx context.Context, q querier, d dialect, kind int, name, version string) (TypeRecord, error) {
	var v any
	if version != "" {
		v = version
	}
	query := fmt.Sprintf("SELECT id, kind, name, version, description, input_type, output_type FROM Type WHERE kind = ? AND name = ? AND %s", d.nullSafeEq("version", 3))
	row := q.QueryRowContext(ctx, query, kind, name, v, v)
	var r TypeRecord
	var version2, description, inputType, outputType sql.NullString
	if err := row.Scan(&r.ID, &r.Kind, &r.Name, &version2, &description, &inputType, &outputType); err != nil {
		if err == sql.ErrNoRows {
			return TypeRecord{}, newErr(KindNotFound, "type %s/%s/%s not found", kindName(kind), name, version)
		}
		return TypeRecord{}, wrapErr(KindIO, err, "query type")
	}
	r.Version = version2.String
	r.Description = description.String
	r.InputType = inputType.String
	r.OutputType = outputType.String

	props, err := loadTypeProperties(ctx, q, r.ID)
	if err != nil {
		return TypeRecord{}, err
	}
	r.Properties = props

	parents, err := loadParentTypes(ctx, q, r.ID)
	if err != nil {
		return TypeRecord{}, err
	}
	r.ParentTypeIDs = parents
	return r, nil
}

func loadTypeProperties(ctx context.Context, q querier, typeID int64) (map[string]int, error) {
	rows, err := q.QueryContext(ctx, "SELECT name, data_type FROM TypeProperty WHERE type_id = ?", typeID)
	if err != nil {
		return nil, wrapErr(KindIO, err, "query type properties")
	}
	defer rows.Close()
	props := map[string]int{}
	for rows.Next() {
		var name string
		var dt int
		if err := rows.Scan(&name, &dt); err != nil {
			return nil, wrapErr(KindIO, err, "scan type property")
		}
		props[name] = dt
	}
	return props, rows.Err()
}

func loadParentTypes(ctx context.Context, q querier, typeID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx, "SELECT parent_type_id FROM ParentType WHERE type_id = ?", typeID)
	if err != nil {
		return nil, wrapErr(KindIO, err, "query parent types")
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapErr(KindIO, err, "scan parent type")
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// GetTypesByKind returns every type of the given kind, read inside a
// single transaction for a consistent view. Implements: spec §4.7.
func (b *Backend) GetTypesByKind(ctx context.Context, kind int) ([]TypeRecord, error) {
	var out []TypeRecord
	err := b.withTx(ctx, "GetTypesByKind", func(ctx context.Context, tx *sql.Tx) error {
		ids, err := queryIDs(ctx, tx, "SELECT id FROM Type WHERE kind = ?", []any{kind})
		if err != nil {
			return err
		}
		out = make([]TypeRecord, 0, len(ids))
		for _, id := range ids {
			r, err := loadTypeByIDTx(ctx, tx, id)
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// GetTypeByName looks up a single type by (kind, name, version), inside
// a single transaction for a consistent read view.
func (b *Backend) GetTypeByName(ctx context.Context, kind int, name, version string) (TypeRecord, error) {
	var r TypeRecord
	err := b.withTx(ctx, "GetTypeByName", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		r, err = findTypeTx(ctx, tx, b.dialect, kind, name, version)
		return err
	})
	return r, err
}

// GetTypeByID looks up a single type by id regardless of kind, inside a
// single transaction for a consistent read view.
func (b *Backend) GetTypeByID(ctx context.Context, id int64) (TypeRecord, error) {
	var r TypeRecord
	err := b.withTx(ctx, "GetTypeByID", func(ctx context.Context, tx *sql.Tx) error {
		var err error
		r, err = loadTypeByIDTx(ctx, tx, id)
		return err
	})
	return r, err
}

// GetTypesByID looks up a batch of types by id, filtered to kind, inside
// a single transaction for a consistent read view. An id that does not
// exist, or that names a type of a different kind, is silently omitted
// from the result rather than failing the whole batch. Implements: spec
// §4.2 "GET types ... by id (batch)".
func (b *Backend) GetTypesByID(ctx context.Context, ids []int64, kind int) ([]TypeRecord, error) {
	out := make([]TypeRecord, 0, len(ids))
	err := b.withTx(ctx, "GetTypesByID", func(ctx context.Context, tx *sql.Tx) error {
		for _, id := range ids {
			r, err := loadTypeByIDTx(ctx, tx, id)
			if err != nil {
				if isNotFound(err) {
					continue
				}
				return err
			}
			if r.Kind != kind {
				continue
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// loadTypeByIDTx is the querier-generic core of GetTypeByID, reusable from
// inside an in-flight transaction (e.g. entity POST/PUT's type-conflict
// validation) where the pooled *sql.DB handle must not be used directly.
func loadTypeByIDTx(ctx context.Context, q querier, id int64) (TypeRecord, error) {
	row := q.QueryRowContext(ctx, "SELECT id, kind, name, version, description, input_type, output_type FROM Type WHERE id = ?", id)
	var r TypeRecord
	var version, description, inputType, outputType sql.NullString
	if err := row.Scan(&r.ID, &r.Kind, &r.Name, &version, &description, &inputType, &outputType); err != nil {
		if err == sql.ErrNoRows {
			return TypeRecord{}, newErr(KindNotFound, "type %d not found", id)
		}
		return TypeRecord{}, wrapErr(KindIO, err, "query type")
	}
	r.Version = version.String
	r.Description = description.String
	r.InputType = inputType.String
	r.OutputType = outputType.String

	props, err := loadTypeProperties(ctx, q, r.ID)
	if err != nil {
		return TypeRecord{}, err
	}
	r.Properties = props

	parents, err := loadParentTypes(ctx, q, r.ID)
	if err != nil {
		return TypeRecord{}, err
	}
	r.ParentTypeIDs = parents
	return r, nil
}

// validateEntityAgainstType loads the owning type inside tx, confirms it
// is of the expected kind, and rejects any declared property in spec that
// the type does not declare or declares with a different data type.
// Implements: spec §4.4 steps 1 and 3, §8 invariants 1/2.
func validateEntityAgainstType(ctx context.Context, tx querier, wantKind int, spec EntitySpec) error {
	t, err := loadTypeByIDTx(ctx, tx, spec.TypeID)
	if err != nil {
		if isNotFound(err) {
			return newErr(KindInvalidArgument, "type %d does not exist", spec.TypeID)
		}
		return err
	}
	if t.Kind != wantKind {
		return newErr(KindTypeConflict, "type %d is a %s type, not a %s type", spec.TypeID, kindName(t.Kind), kindName(wantKind))
	}
	for name, v := range spec.Properties {
		dt, ok := t.Properties[name]
		if !ok {
			return newErr(KindTypeConflict, "property %q is not declared on type %s", name, t.Name)
		}
		if dt != v.Kind {
			return newErr(KindTypeConflict, "property %q is declared as data type %d on type %s, got %d", name, dt, t.Name, v.Kind)
		}
	}
	return nil
}
