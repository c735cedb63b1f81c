package metadata

import (
	"context"
	"database/sql"
	"fmt"
)

// propertyColumns splits v across the three nullable columns a property
// row occupies. Implements: spec §4.3 "Property codec".
func propertyColumns(v PropertyValue) (intVal sql.NullInt64, doubleVal sql.NullFloat64, strVal sql.NullString) {
	return encodeColumns(v)
}

func encodeColumns(v PropertyValue) (intVal sql.NullInt64, doubleVal sql.NullFloat64, strVal sql.NullString) {
	switch v.Kind {
	case 1:
		return sql.NullInt64{Int64: v.I, Valid: true}, sql.NullFloat64{}, sql.NullString{}
	case 2:
		return sql.NullInt64{}, sql.NullFloat64{Float64: v.D, Valid: true}, sql.NullString{}
	case 3:
		return sql.NullInt64{}, sql.NullFloat64{}, sql.NullString{String: v.S, Valid: true}
	default:
		return sql.NullInt64{}, sql.NullFloat64{}, sql.NullString{}
	}
}

// decodeColumns rebuilds a PropertyValue from the first non-null column,
// checked in int, double, string order. All three columns null is a
// stored-data invariant violation: a property row always encodes exactly
// one value. Implements: spec §8 "property-codec all-null-columns".
func decodeColumns(intVal sql.NullInt64, doubleVal sql.NullFloat64, strVal sql.NullString) (PropertyValue, error) {
	switch {
	case intVal.Valid:
		return PropertyValue{Kind: 1, I: intVal.Int64}, nil
	case doubleVal.Valid:
		return PropertyValue{Kind: 2, D: doubleVal.Float64}, nil
	case strVal.Valid:
		return PropertyValue{Kind: 3, S: strVal.String}, nil
	default:
		return PropertyValue{}, newErr(KindDataCorruption, "property row has no non-null value column")
	}
}

// propertyTable names the per-kind property table and its owning
// foreign-key column, used to generalize property persistence across
// Artifact, Execution and Context. Implements: spec §4.3, §4.4.
type propertyTable struct {
	table  string
	idCol  string
}

var (
	artifactPropertyTable  = propertyTable{table: "ArtifactProperty", idCol: "artifact_id"}
	executionPropertyTable = propertyTable{table: "ExecutionProperty", idCol: "execution_id"}
	contextPropertyTable   = propertyTable{table: "ContextProperty", idCol: "context_id"}
)

// replacePropertiesTx deletes and reinserts every declared and custom
// property row for the given entity id, inside an existing transaction.
// Replacing rather than diffing keeps Put semantics simple: a Put always
// supplies the desired post-update property set in full.
func replacePropertiesTx(ctx context.Context, tx execer, pt propertyTable, id int64, declared, custom map[string]PropertyValue) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", pt.table, pt.idCol), id); err != nil {
		return wrapErr(KindIO, err, "delete %s rows", pt.table)
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s, name, is_custom_property, int_value, double_value, string_value) VALUES (?, ?, ?, ?, ?, ?)", pt.table, pt.idCol)
	for name, v := range declared {
		iv, dv, sv := encodeColumns(v)
		if _, err := tx.ExecContext(ctx, insert, id, name, 0, iv, dv, sv); err != nil {
			return wrapErr(KindIO, err, "insert %s property %q", pt.table, name)
		}
	}
	for name, v := range custom {
		iv, dv, sv := encodeColumns(v)
		if _, err := tx.ExecContext(ctx, insert, id, name, 1, iv, dv, sv); err != nil {
			return wrapErr(KindIO, err, "insert %s custom property %q", pt.table, name)
		}
	}
	return nil
}

// loadPropertiesTx reads every property row for id, splitting declared
// from custom by is_custom_property.
func loadPropertiesTx(ctx context.Context, q querier, pt propertyTable, id int64) (declared, custom map[string]PropertyValue, err error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("SELECT name, is_custom_property, int_value, double_value, string_value FROM %s WHERE %s = ?", pt.table, pt.idCol), id)
	if err != nil {
		return nil, nil, wrapErr(KindIO, err, "query %s", pt.table)
	}
	defer rows.Close()

	declared = map[string]PropertyValue{}
	custom = map[string]PropertyValue{}
	for rows.Next() {
		var name string
		var isCustom int
		var iv sql.NullInt64
		var dv sql.NullFloat64
		var sv sql.NullString
		if err := rows.Scan(&name, &isCustom, &iv, &dv, &sv); err != nil {
			return nil, nil, wrapErr(KindIO, err, "scan %s row", pt.table)
		}
		val, err := decodeColumns(iv, dv, sv)
		if err != nil {
			return nil, nil, err
		}
		if isCustom != 0 {
			custom[name] = val
		} else {
			declared[name] = val
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrapErr(KindIO, err, "iterate %s", pt.table)
	}
	return declared, custom, nil
}

// resolvePropertiesForPut decides what declared/custom maps a Put should
// write: spec's map for whichever of Properties/CustomProperties has its
// *Set flag, or the entity's current stored values for the other,
// independently. Implements: spec §4.4 step 3 ("an absent map means no
// change, a full map replaces").
func resolvePropertiesForPut(ctx context.Context, tx querier, pt propertyTable, id int64, spec EntitySpec) (declared, custom map[string]PropertyValue, err error) {
	declared, custom = spec.Properties, spec.CustomProperties
	if spec.PropertiesSet && spec.CustomPropertiesSet {
		return declared, custom, nil
	}
	existingDeclared, existingCustom, err := loadPropertiesTx(ctx, tx, pt, id)
	if err != nil {
		return nil, nil, err
	}
	if !spec.PropertiesSet {
		declared = existingDeclared
	}
	if !spec.CustomPropertiesSet {
		custom = existingCustom
	}
	return declared, custom, nil
}

// execer and querier narrow *sql.Tx and *sql.DB to the methods codec.go
// and its callers need, so the same helpers work whether called with a
// transaction or (for read-only paths that don't need one) the pooled DB.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
