package main

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// ColumnDef is one column of a resolved table, in declaration order.
type ColumnDef struct {
	Name            string
	Type            string
	Index           int
	IsPrimaryKey    bool // INTEGER PRIMARY KEY [AUTOINCREMENT]: the rowid alias
	IsAutoIncrement bool
}

// isRowidAlias reports whether a column is the "INTEGER PRIMARY KEY" rowid
// alias. AUTOINCREMENT is not required: `id integer primary key` aliases the
// rowid just as much as `id integer primary key autoincrement` does, and so
// does a bare `id integer` column, per the declared-name special case.
func isRowidAlias(col *sqlparser.ColumnDefinition) bool {
	if !strings.EqualFold(col.Type.Type, "integer") {
		return false
	}
	if col.Type.KeyOpt != 0 {
		return true
	}
	return strings.EqualFold(col.Name.String(), "id")
}

// parseCreateTableColumns parses the column list out of a CREATE TABLE
// statement taken from sqlite_schema.sql. SQLite's DDL dialect isn't quite
// what xwb1989/sqlparser expects, so the statement is normalized to MySQL-ish
// syntax first and handed to the real parser rather than hand-rolling a
// second SQL grammar just for DDL.
func parseCreateTableColumns(schemaSQL string) ([]ColumnDef, error) {
	normalized := normalizeSQLiteToMySQL(schemaSQL)

	stmt, err := sqlparser.Parse(normalized)
	if err != nil {
		return nil, NewDatabaseError("parse_schema_sql", ErrSyntaxError, map[string]interface{}{
			"schema_sql":     schemaSQL,
			"normalized_sql": normalized,
			"cause":          err.Error(),
		})
	}

	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.Action != "create" || ddl.TableSpec == nil {
		return nil, NewDatabaseError("parse_schema_sql", ErrSyntaxError, map[string]interface{}{
			"reason": "not a CREATE TABLE statement",
		})
	}

	columns := make([]ColumnDef, len(ddl.TableSpec.Columns))
	for i, col := range ddl.TableSpec.Columns {
		columns[i] = ColumnDef{
			Name:            col.Name.String(),
			Type:            col.Type.Type,
			Index:           i,
			IsPrimaryKey:    isRowidAlias(col),
			IsAutoIncrement: bool(col.Type.Autoincrement),
		}
	}
	return columns, nil
}

// normalizeSQLiteToMySQL rewrites the handful of SQLite DDL idioms that trip
// up a MySQL-dialect parser: double-quoted identifiers and the
// "PRIMARY KEY AUTOINCREMENT" column suffix.
func normalizeSQLiteToMySQL(sql string) string {
	normalized := strings.ReplaceAll(sql, `"`, "")
	normalized = strings.ReplaceAll(normalized, "primary key autoincrement", "AUTO_INCREMENT PRIMARY KEY")
	normalized = strings.ReplaceAll(normalized, "PRIMARY KEY AUTOINCREMENT", "AUTO_INCREMENT PRIMARY KEY")
	return strings.TrimSpace(normalized)
}
