package main

import (
	"encoding/binary"
	"io"
	"math"
)

// memFile is an in-memory FileReader used to hand-build SQLite-format byte
// sequences for tests, since the toolchain that would normally produce a
// sample.db isn't available here.
type memFile struct {
	data []byte
}

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memFile) Close() error { return nil }

func encodeVarint(n uint64) []byte {
	if n < (1 << 7) {
		return []byte{byte(n)}
	}
	var buf []byte
	bytesNeeded := 0
	for v := n; v > 0; v >>= 7 {
		bytesNeeded++
	}
	if bytesNeeded > 9 {
		bytesNeeded = 9
	}
	for i := 0; i < bytesNeeded-1; i++ {
		shift := uint(7 * (bytesNeeded - 1 - i))
		b := byte((n >> shift) & 0x7F)
		buf = append(buf, b|0x80)
	}
	buf = append(buf, byte(n&0x7F))
	return buf
}

// fixtureValue is the test-side mirror of a column value: a nil, int64,
// float64, or string, encoded into the record format a real row would use.
type fixtureValue interface{}

func encodeIntBody(n int64) (serialType uint64, body []byte) {
	u := uint64(n)
	switch {
	case n >= -128 && n <= 127:
		return 1, []byte{byte(u)}
	case n >= -32768 && n <= 32767:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(u))
		return 2, b
	case n >= -8388608 && n <= 8388607:
		return 3, []byte{byte(u >> 16), byte(u >> 8), byte(u)}
	case n >= -2147483648 && n <= 2147483647:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(u))
		return 4, b
	default:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, u)
		return 6, b
	}
}

// buildRecord assembles the record format for a row: a varint header
// (itself length-prefixed) of per-column serial types, followed by the
// column payload bytes concatenated in order.
func buildRecord(values []fixtureValue) []byte {
	var serialTypeBytes []byte
	var body []byte

	for _, v := range values {
		switch val := v.(type) {
		case nil:
			serialTypeBytes = append(serialTypeBytes, encodeVarint(0)...)
		case int64:
			st, b := encodeIntBody(val)
			serialTypeBytes = append(serialTypeBytes, encodeVarint(st)...)
			body = append(body, b...)
		case float64:
			serialTypeBytes = append(serialTypeBytes, encodeVarint(7)...)
			b := make([]byte, 8)
			binary.BigEndian.PutUint64(b, math.Float64bits(val))
			body = append(body, b...)
		case string:
			st := uint64(len(val)*2 + 13)
			serialTypeBytes = append(serialTypeBytes, encodeVarint(st)...)
			body = append(body, []byte(val)...)
		default:
			panic("unsupported fixture value type")
		}
	}

	// Fixtures stay well under 128 bytes of serial-type header, so the
	// header-length varint is always a single byte.
	headerLen := 1 + len(serialTypeBytes)
	record := append(encodeVarint(uint64(headerLen)), serialTypeBytes...)
	record = append(record, body...)
	return record
}

func buildLeafCell(rowid int64, record []byte) []byte {
	cell := encodeVarint(uint64(len(record)))
	cell = append(cell, encodeVarint(uint64(rowid))...)
	cell = append(cell, record...)
	return cell
}

func buildInteriorCell(childPage uint32, key uint64) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, childPage)
	return append(b, encodeVarint(key)...)
}

// writePage lays out one B-tree page's header, cell-pointer array, and cell
// content (packed from the end of the page backward) into buf at the slot
// for pageNo.
func writePage(buf []byte, pageNo int, pageSize int, kind byte, rightChild uint32, cells [][]byte) {
	pageBase := (pageNo - 1) * pageSize
	headerBase := pageBase
	if pageNo == 1 {
		headerBase += headerSize
	}

	headerLen := 8
	if kind == pageKindTableInterior || kind == pageKindIndexInterior {
		headerLen = 12
	}

	contentCursor := pageSize // offset from pageBase, shrinks as cells are placed
	pointerOffsets := make([]int, len(cells))
	for i := len(cells) - 1; i >= 0; i-- {
		contentCursor -= len(cells[i])
		pointerOffsets[i] = contentCursor
		copy(buf[pageBase+contentCursor:], cells[i])
	}

	buf[headerBase] = kind
	binary.BigEndian.PutUint16(buf[headerBase+1:], 0) // first freeblock
	binary.BigEndian.PutUint16(buf[headerBase+3:], uint16(len(cells)))
	binary.BigEndian.PutUint16(buf[headerBase+5:], uint16(contentCursor))
	buf[headerBase+7] = 0 // fragmented free bytes
	if headerLen == 12 {
		binary.BigEndian.PutUint32(buf[headerBase+8:], rightChild)
	}

	pointerBase := headerBase + headerLen
	for i, off := range pointerOffsets {
		binary.BigEndian.PutUint16(buf[pointerBase+2*i:], uint16(off))
	}
}

// sampleSchemaSQL is the CREATE TABLE text stored in sqlite_schema for the
// "apples" fixture table used across the test files. This matches the
// boundary-case schema literally: an INTEGER PRIMARY KEY rowid alias with
// no AUTOINCREMENT, so the alias tests exercise that case rather than the
// AUTOINCREMENT case.
const sampleSchemaSQL = `CREATE TABLE apples (id integer primary key, name text, color text)`

// buildSampleDB constructs a two-page database: page 1 holds the schema (one
// "apples" table entry), page 2 is the apples table's leaf root holding
// three rows.
func buildSampleDB() *memFile {
	const pageSize = 4096
	buf := make([]byte, pageSize*2)

	copy(buf[0:16], magicPrefix)
	binary.BigEndian.PutUint16(buf[16:18], pageSize)

	schemaRecord := buildRecord([]fixtureValue{
		"table", "apples", "apples", int64(2), sampleSchemaSQL,
	})
	schemaCell := buildLeafCell(1, schemaRecord)
	writePage(buf, 1, pageSize, pageKindTableLeaf, 0, [][]byte{schemaCell})

	rows := [][]fixtureValue{
		{nil, "Granny Smith", "Light Green"},
		{nil, "Fuji", "Red"},
		{nil, "Honeycrisp", "Blush Red"},
	}
	var cells [][]byte
	for i, row := range rows {
		cells = append(cells, buildLeafCell(int64(i+1), buildRecord(row)))
	}
	writePage(buf, 2, pageSize, pageKindTableLeaf, 0, cells)

	return &memFile{data: buf}
}
