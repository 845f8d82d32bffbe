package main

import (
	"context"
	"strings"
)

// SchemaEntry is one row of sqlite_schema: a table, index, view, or trigger
// definition.
type SchemaEntry struct {
	Type     string
	Name     string
	TblName  string
	RootPage int64
	SQL      string
	Columns  []ColumnDef
}

// SchemaResolver finds table definitions by walking the B-tree rooted at
// page 1, where sqlite_schema itself lives.
type SchemaResolver struct {
	walker *BTreeWalker
}

// NewSchemaResolver builds a resolver over the given walker.
func NewSchemaResolver(walker *BTreeWalker) *SchemaResolver {
	return &SchemaResolver{walker: walker}
}

// All returns every schema entry, in the order sqlite_schema stores them.
func (sr *SchemaResolver) All(ctx context.Context) ([]SchemaEntry, error) {
	rows, err := sr.walker.Walk(ctx, 1)
	if err != nil {
		return nil, err
	}

	entries := make([]SchemaEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := schemaEntryFromRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Resolve finds the table entry matching name, case-insensitively, and
// parses its CREATE TABLE statement into column definitions.
func (sr *SchemaResolver) Resolve(ctx context.Context, name string) (*SchemaEntry, error) {
	entries, err := sr.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		e := &entries[i]
		if e.Type == "table" && strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return nil, NewDatabaseError("resolve_schema", ErrTableNotFound, map[string]interface{}{
		"table": name,
	})
}

// schemaEntryFromRow interprets an arity-5 sqlite_schema record. Column
// order is fixed: type, name, tbl_name, rootpage, sql.
func schemaEntryFromRow(row RowRecord) (SchemaEntry, error) {
	if len(row.Values) != 5 {
		return SchemaEntry{}, NewDatabaseError("parse_schema_row", ErrMalformedRecord, map[string]interface{}{
			"reason": "sqlite_schema row does not have 5 columns",
			"arity":  len(row.Values),
		})
	}

	entry := SchemaEntry{
		Type:    textOf(row.Values[0]),
		Name:    textOf(row.Values[1]),
		TblName: textOf(row.Values[2]),
	}

	// rootpage is NULL for the "id integer" rowid-alias case; fall back to
	// the row's own rowid, the convention sqlite_schema itself uses.
	if row.Values[3].IsNull() {
		diagLog.Printf("schema row %d (%s): NULL rootpage, using rowid", row.RowID, entry.Name)
		entry.RootPage = row.RowID
	} else {
		entry.RootPage = row.Values[3].Int
	}

	entry.SQL = textOf(row.Values[4])

	if entry.Type == "table" {
		cols, err := parseCreateTableColumns(entry.SQL)
		if err != nil {
			return SchemaEntry{}, err
		}
		entry.Columns = cols
	}
	return entry, nil
}

func textOf(v Value) string {
	if v.Kind == ValueText || v.Kind == ValueBlob {
		return string(v.Bytes)
	}
	return ""
}
