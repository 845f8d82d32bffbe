package main

import (
	"context"
	"os"
)

// Database is a read-only handle on a single SQLite-format file: it owns
// the open file descriptor and exposes the resolved schema and page-size
// needed by every CLI command.
type Database struct {
	file      *os.File
	cursor    *ByteCursor
	pages     *PageReader
	walker    *BTreeWalker
	resolver  *SchemaResolver
	resources *ResourceManager
	header    *DatabaseHeader
	config    *DatabaseConfig
}

// Open reads the file header, validates it, and wires up the reader stack
// (cursor, page reader, B-tree walker, schema resolver) behind it.
func Open(path string, opts ...DatabaseOption) (*Database, error) {
	cfg := DefaultDatabaseConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, NewDatabaseError("open_database", ErrIO, map[string]interface{}{
			"path":  path,
			"cause": err.Error(),
		})
	}

	resources := NewResourceManager()
	resources.Add(f)

	raw := make([]byte, headerSize)
	if _, err := f.ReadAt(raw, 0); err != nil {
		resources.Close()
		return nil, NewDatabaseError("open_database", ErrIO, map[string]interface{}{
			"path":  path,
			"cause": err.Error(),
		})
	}

	header, err := parseDatabaseHeader(raw)
	if err != nil {
		resources.Close()
		return nil, err
	}

	if cfg.ValidationMode == ValidationStrict {
		if err := validateFileSize(f, header.PageSize); err != nil {
			resources.Close()
			return nil, err
		}
	}

	cursor := NewByteCursor(f)
	pages := NewPageReader(cursor, header.PageSize)
	walker := NewBTreeWalker(pages, cursor, cfg)
	resolver := NewSchemaResolver(walker)

	return &Database{
		file:      f,
		cursor:    cursor,
		pages:     pages,
		walker:    walker,
		resolver:  resolver,
		resources: resources,
		header:    header,
		config:    cfg,
	}, nil
}

// Close releases the underlying file, in LIFO order with anything else
// registered against the same resource manager.
func (db *Database) Close() error {
	return db.resources.Close()
}

// PageSize returns the database's page size.
func (db *Database) PageSize() uint32 {
	return db.header.PageSize
}

// Schema returns every sqlite_schema entry (tables, indexes, views,
// triggers).
func (db *Database) Schema(ctx context.Context) ([]SchemaEntry, error) {
	return db.resolver.All(ctx)
}

// Tables returns the table names in sqlite_schema, excluding any whose
// tbl_name is sqlite_sequence.
func (db *Database) Tables(ctx context.Context) ([]string, error) {
	entries, err := db.resolver.All(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type == "table" && e.TblName != "sqlite_sequence" {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// Indexes returns reporting-only metadata for every index in the schema.
func (db *Database) Indexes(ctx context.Context) ([]IndexMeta, error) {
	entries, err := db.resolver.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []IndexMeta
	for _, e := range entries {
		if e.Type == "index" {
			out = append(out, indexMetaFromEntry(e))
		}
	}
	return out, nil
}

// Table resolves a single table's schema entry by name.
func (db *Database) Table(ctx context.Context, name string) (*SchemaEntry, error) {
	return db.resolver.Resolve(ctx, name)
}

// TableLeafCellCount reports a table's row count. For a leaf root page it is
// the raw cell count off the page's own header, read without decoding any
// row; for an interior root the whole tree is walked and its rows counted.
func (db *Database) TableLeafCellCount(rootPage uint32) (int, error) {
	header, _, err := db.pages.ReadHeader(rootPage)
	if err != nil {
		return 0, err
	}
	if header.Kind == pageKindTableLeaf {
		return int(header.CellCount), nil
	}
	rows, err := db.walker.Walk(context.Background(), rootPage)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Query executes a parsed SELECT against its target table.
func (db *Database) Query(ctx context.Context, query *ParsedQuery) ([][]string, error) {
	entry, err := db.resolver.Resolve(ctx, query.Table)
	if err != nil {
		return nil, err
	}
	engine := NewQueryEngine(db.walker)
	return engine.Execute(ctx, query, entry)
}

func isInternalTable(name string) bool {
	return name == "sqlite_sequence" || name == "sqlite_master" || name == "sqlite_schema"
}

// validateFileSize enforces, under ValidationStrict, the one basic
// structural invariant ValidationBasic skips for speed: the file must be an
// exact whole number of pages. A short final page means the file was
// truncated mid-write, and every later page read would silently run past
// real data.
func validateFileSize(f *os.File, pageSize uint32) error {
	info, err := f.Stat()
	if err != nil {
		return NewDatabaseError("validate_file_size", ErrIO, map[string]interface{}{
			"cause": err.Error(),
		})
	}
	if info.Size()%int64(pageSize) != 0 {
		return NewDatabaseError("validate_file_size", ErrMalformedHeader, map[string]interface{}{
			"reason":    "file size is not a whole number of pages",
			"file_size": info.Size(),
			"page_size": pageSize,
		})
	}
	return nil
}
