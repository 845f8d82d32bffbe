package main

import (
	"context"
	"fmt"
	"os"
	"strings"
)

func main() {
	if err := runProgram(os.Args); err != nil {
		diagLog.Println(err)
		os.Exit(1)
	}
}

// runProgram is the testable entrypoint: argv in, error out, with all
// command output written to stdout as a side effect. Splitting this out of
// main keeps the exit-code/stderr plumbing out of the part tests exercise.
func runProgram(args []string) error {
	if len(args) < 3 {
		return NewDatabaseError("run_program", ErrIO, map[string]interface{}{
			"reason": "usage: <program> <database file> <command>",
		})
	}

	dbPath := args[1]
	command := strings.Join(args[2:], " ")

	db, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	switch {
	case command == ".dbinfo":
		return runDBInfo(ctx, db)
	case command == ".tables":
		return runTables(ctx, db)
	case command == ".schema":
		return runSchema(ctx, db)
	case command == ".indexes":
		return runIndexes(ctx, db)
	case isSelect(command):
		return runSelect(ctx, db, command)
	default:
		// Operation/Err are chosen so DatabaseError.Error()'s no-context
		// form renders exactly "Invalid command: <command>".
		return NewDatabaseError("Invalid command", fmt.Errorf("%s", command), nil)
	}
}

func isSelect(command string) bool {
	trimmed := strings.TrimSpace(command)
	return len(trimmed) >= 6 && strings.EqualFold(trimmed[:6], "select")
}

func runDBInfo(ctx context.Context, db *Database) error {
	fmt.Printf("database page size: %v\n", db.PageSize())

	// "number of tables" reports the raw cell count from the B-tree header of
	// sqlite_schema's root page (page 1): every schema row on that page
	// counts, not just user tables, and no row is decoded.
	header, _, err := db.pages.ReadHeader(1)
	if err != nil {
		return err
	}
	fmt.Printf("number of tables: %v\n", header.CellCount)
	return nil
}

func runTables(ctx context.Context, db *Database) error {
	tables, err := db.Tables(ctx)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(tables, " "))
	return nil
}

func runSchema(ctx context.Context, db *Database) error {
	entries, err := db.Schema(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if isInternalTable(e.Name) {
			continue
		}
		fmt.Println(e.SQL)
	}
	return nil
}

func runIndexes(ctx context.Context, db *Database) error {
	indexes, err := db.Indexes(ctx)
	if err != nil {
		return err
	}
	names := make([]string, len(indexes))
	for i, idx := range indexes {
		names[i] = idx.Name
	}
	fmt.Println(strings.Join(names, " "))
	return nil
}

func runSelect(ctx context.Context, db *Database, command string) error {
	query, err := Parse(command)
	if err != nil {
		return err
	}

	entry, err := db.Table(ctx, query.Table)
	if err != nil {
		return err
	}
	query.ColTypes = make([]string, len(entry.Columns))
	for i, c := range entry.Columns {
		query.ColTypes[i] = c.Type
	}

	rows, err := db.Query(ctx, query)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Println(formatRow(row))
	}
	return nil
}
