package main

import "strings"

// IndexMeta is the metadata sqlite_schema records for a CREATE INDEX
// statement. It is reporting-only: nothing in the query path resolves rows
// through an index B-tree, since a secondary index's own B-tree uses a
// different cell layout (key columns plus rowid, no payload envelope) that
// this reader never traverses.
type IndexMeta struct {
	Name      string
	TableName string
	Columns   []string
	RootPage  int64
}

// indexMetaFromEntry derives reporting metadata from a "type = index"
// sqlite_schema entry, without walking the index's own B-tree.
func indexMetaFromEntry(e SchemaEntry) IndexMeta {
	return IndexMeta{
		Name:      e.Name,
		TableName: parseIndexTableName(e.SQL),
		Columns:   parseIndexColumns(e.SQL),
		RootPage:  e.RootPage,
	}
}

// parseIndexColumns extracts the parenthesized column list of a
// CREATE INDEX statement by locating the outermost parentheses, not by
// fully parsing the expression grammar index columns can contain.
func parseIndexColumns(sql string) []string {
	clean := strings.TrimSpace(sql)
	start := strings.Index(clean, "(")
	end := strings.LastIndex(clean, ")")
	if start == -1 || end == -1 || start >= end {
		return nil
	}

	parts := strings.Split(clean[start+1:end], ",")
	columns := make([]string, 0, len(parts))
	for _, p := range parts {
		if col := strings.TrimSpace(p); col != "" {
			columns = append(columns, col)
		}
	}
	return columns
}

// parseIndexTableName extracts the table name following " ON " in a
// CREATE INDEX statement.
func parseIndexTableName(sql string) string {
	upper := strings.ToUpper(sql)
	onIdx := strings.Index(upper, " ON ")
	if onIdx == -1 {
		return ""
	}

	fields := strings.Fields(sql[onIdx+4:])
	if len(fields) == 0 {
		return ""
	}

	name := fields[0]
	if paren := strings.Index(name, "("); paren != -1 {
		name = name[:paren]
	}
	return name
}
