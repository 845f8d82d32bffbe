package main

import (
	"context"
	"testing"
)

func TestBTreeWalkerSingleLeafPage(t *testing.T) {
	f := buildSampleDB()
	cursor := NewByteCursor(f)
	pages := NewPageReader(cursor, 4096)
	walker := NewBTreeWalker(pages, cursor, DefaultDatabaseConfig())

	rows, err := walker.Walk(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, row := range rows {
		if row.RowID != int64(i+1) {
			t.Errorf("row %d: rowid = %d, want %d", i, row.RowID, i+1)
		}
	}
	if string(rows[1].Values[1].Bytes) != "Fuji" {
		t.Errorf("row 1 name = %q, want Fuji", rows[1].Values[1].Bytes)
	}
}

func TestBTreeWalkerInteriorPageOrdering(t *testing.T) {
	const pageSize = 4096
	buf := make([]byte, pageSize*3)
	copy(buf[0:16], magicPrefix)

	// Page 1 is a table-interior root with two leaf children, left (page 2)
	// and right (page 3), preserving ascending rowid order across both.
	leftCells := [][]byte{
		buildLeafCell(1, buildRecord([]fixtureValue{int64(1), "a"})),
		buildLeafCell(2, buildRecord([]fixtureValue{int64(2), "b"})),
	}
	writePage(buf, 2, pageSize, pageKindTableLeaf, 0, leftCells)

	rightCells := [][]byte{
		buildLeafCell(3, buildRecord([]fixtureValue{int64(3), "c"})),
		buildLeafCell(4, buildRecord([]fixtureValue{int64(4), "d"})),
	}
	writePage(buf, 3, pageSize, pageKindTableLeaf, 0, rightCells)

	rootCells := [][]byte{buildInteriorCell(2, 2)}
	writePage(buf, 1, pageSize, pageKindTableInterior, 3, rootCells)

	f := &memFile{data: buf}
	cursor := NewByteCursor(f)
	pages := NewPageReader(cursor, pageSize)
	walker := NewBTreeWalker(pages, cursor, DefaultDatabaseConfig())

	rows, err := walker.Walk(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	for i, row := range rows {
		if row.RowID != int64(i+1) {
			t.Errorf("row %d: rowid = %d, want %d", i, row.RowID, i+1)
		}
	}
}

func TestBTreeWalkerRejectsIndexPage(t *testing.T) {
	const pageSize = 512
	buf := make([]byte, pageSize)
	writePage(buf, 1, pageSize, pageKindIndexLeaf, 0, nil)

	f := &memFile{data: buf}
	cursor := NewByteCursor(f)
	pages := NewPageReader(cursor, pageSize)
	walker := NewBTreeWalker(pages, cursor, DefaultDatabaseConfig())

	if _, err := walker.Walk(context.Background(), 1); err == nil {
		t.Fatal("expected an error walking an index page as a table, got nil")
	}
}
