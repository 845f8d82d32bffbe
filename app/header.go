package main

import (
	"bytes"
)

// headerSize is the fixed length of the database header at the start of
// the file.
const headerSize = 100

// magicPrefix is the expected first 16 bytes of every SQLite file.
var magicPrefix = []byte("SQLite format 3\x00")

// DatabaseHeader is the decoded form of the 100-byte file header.
type DatabaseHeader struct {
	PageSize uint32 // already expanded: the on-disk 1 means 65536
}

// parseDatabaseHeader decodes and validates the file header, returning the
// effective page size.
func parseDatabaseHeader(raw []byte) (*DatabaseHeader, error) {
	if len(raw) < headerSize {
		return nil, NewDatabaseError("parse_header", ErrIO, map[string]interface{}{
			"have_bytes": len(raw),
			"need_bytes": headerSize,
		})
	}

	if !bytes.Equal(raw[:16], magicPrefix) {
		return nil, NewDatabaseError("parse_header", ErrMalformedHeader, map[string]interface{}{
			"reason": "bad magic number",
		})
	}

	rawPageSize := uint32(raw[16])<<8 | uint32(raw[17])
	pageSize, err := expandPageSize(rawPageSize)
	if err != nil {
		return nil, err
	}

	return &DatabaseHeader{PageSize: pageSize}, nil
}

// expandPageSize maps the on-disk page-size field (where 1 denotes 65536)
// to its effective value, validating it is one of the legal powers of two.
func expandPageSize(raw uint32) (uint32, error) {
	pageSize := raw
	if raw == 1 {
		pageSize = 65536
	}

	if pageSize < 512 || pageSize > 65536 || (pageSize&(pageSize-1)) != 0 {
		return 0, NewDatabaseError("parse_header", ErrMalformedHeader, map[string]interface{}{
			"reason":        "page size not a valid power of two in [512, 65536]",
			"raw_field":     raw,
			"computed_size": pageSize,
		})
	}
	return pageSize, nil
}
