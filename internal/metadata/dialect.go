package metadata

import (
	"fmt"
	"strings"
)

// dialect abstracts the SQL differences between SQLite and MySQL: DDL
// text, placeholder style and the NULL-safe equality idiom used to
// compare a possibly-NULL version column. Implements: spec §4.8
// "Dialect DDL".
type dialect interface {
	name() string
	schemaDDL() []string
	indexDDL() []string
	placeholder(n int) string
	lastInsertID(driverSupplied int64) int64
	// nullSafeEq returns a SQL fragment "(col = ? OR (col IS NULL AND ? IS
	// NULL))" using this dialect's placeholder style, consuming 2
	// placeholder slots starting at argPos (1-based).
	nullSafeEq(col string, argPos int) string
}

// sqliteDialect targets modernc.org/sqlite.
type sqliteDialect struct{}

func (sqliteDialect) name() string { return "sqlite" }

func (sqliteDialect) placeholder(n int) string { return "?" }

func (sqliteDialect) lastInsertID(id int64) int64 { return id }

func (sqliteDialect) nullSafeEq(col string, argPos int) string {
	return fmt.Sprintf("(%s = ? OR (%s IS NULL AND ? IS NULL))", col, col)
}

func (sqliteDialect) schemaDDL() []string { return sqliteSchemaDDL }

func (sqliteDialect) indexDDL() []string { return sqliteIndexDDL }

// mysqlDialect targets github.com/go-sql-driver/mysql.
type mysqlDialect struct{}

func (mysqlDialect) name() string { return "mysql" }

func (mysqlDialect) placeholder(n int) string { return "?" }

func (mysqlDialect) lastInsertID(id int64) int64 { return id }

func (mysqlDialect) nullSafeEq(col string, argPos int) string {
	return fmt.Sprintf("(%s = ? OR (%s IS NULL AND ? IS NULL))", col, col)
}

func (mysqlDialect) schemaDDL() []string { return mysqlSchemaDDL }

func (mysqlDialect) indexDDL() []string { return mysqlIndexDDL }

func dialectFor(name string) (dialect, error) {
	switch name {
	case "sqlite":
		return sqliteDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	default:
		return nil, NewInternalError(fmt.Sprintf("unsupported dialect %q", name))
	}
}

// placeholders returns "?, ?, ..." n times, used for IN clauses. Both
// supported dialects use "?" positional placeholders so this needs no
// dialect parameter, but it lives here next to the rest of the SQL
// construction helpers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}
