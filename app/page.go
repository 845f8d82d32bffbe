package main

// Page kind tags, taken directly from the single type byte at the start of
// every B-tree page header.
const (
	pageKindIndexInterior = 0x02
	pageKindTableInterior = 0x05
	pageKindIndexLeaf     = 0x0A
	pageKindTableLeaf     = 0x0D
)

// PageHeader is the decoded form of a B-tree page header.
type PageHeader struct {
	Kind               byte
	FirstFreeblock     uint16
	CellCount          uint16
	CellContentStart   uint32 // 0 on disk means 65536
	FragmentedFreeByte uint8
	RightmostPointer   uint32 // only set for interior pages
	HeaderLength       int    // 8 for leaf pages, 12 for interior pages
}

func (h *PageHeader) isInterior() bool {
	return h.Kind == pageKindTableInterior || h.Kind == pageKindIndexInterior
}

func (h *PageHeader) isTable() bool {
	return h.Kind == pageKindTableInterior || h.Kind == pageKindTableLeaf
}

// PageReader reads B-tree pages out of a database file at a fixed page size.
type PageReader struct {
	cursor   *ByteCursor
	pageSize uint32
}

// NewPageReader builds a reader bound to the given page size.
func NewPageReader(cursor *ByteCursor, pageSize uint32) *PageReader {
	return &PageReader{cursor: cursor, pageSize: pageSize}
}

// pageBase returns the absolute file offset of the start of page pageNo.
// Page numbers are 1-based, matching the file format.
func (pr *PageReader) pageBase(pageNo uint32) int64 {
	return int64(pageNo-1) * int64(pr.pageSize)
}

// ReadHeader decodes the B-tree page header for pageNo. Page 1 carries the
// 100-byte file header before its own page header, so its header base is
// offset by headerSize relative to the page base.
func (pr *PageReader) ReadHeader(pageNo uint32) (*PageHeader, int64, error) {
	base := pr.pageBase(pageNo)
	headerBase := base
	if pageNo == 1 {
		headerBase += headerSize
	}

	pr.cursor.Seek(headerBase)
	kindRaw, err := pr.cursor.ReadU8()
	if err != nil {
		return nil, 0, err
	}
	kind := byte(kindRaw)
	if kind != pageKindIndexInterior && kind != pageKindTableInterior &&
		kind != pageKindIndexLeaf && kind != pageKindTableLeaf {
		return nil, 0, NewDatabaseError("read_page_header", ErrUnknownPageKind, map[string]interface{}{
			"page_no": pageNo,
			"byte":    kindRaw,
		})
	}

	firstFreeblock, err := pr.cursor.ReadU16()
	if err != nil {
		return nil, 0, err
	}
	cellCount, err := pr.cursor.ReadU16()
	if err != nil {
		return nil, 0, err
	}
	cellContentStart, err := pr.cursor.ReadU16()
	if err != nil {
		return nil, 0, err
	}
	contentStart := uint32(cellContentStart)
	if contentStart == 0 {
		contentStart = 65536
	}
	fragFree, err := pr.cursor.ReadU8()
	if err != nil {
		return nil, 0, err
	}

	h := &PageHeader{
		Kind:               kind,
		FirstFreeblock:     uint16(firstFreeblock),
		CellCount:          uint16(cellCount),
		CellContentStart:   contentStart,
		FragmentedFreeByte: uint8(fragFree),
		HeaderLength:       8,
	}

	if h.isInterior() {
		h.HeaderLength = 12
		rightChild, err := pr.cursor.ReadU32()
		if err != nil {
			return nil, 0, err
		}
		h.RightmostPointer = uint32(rightChild)
	}

	return h, base, nil
}

// CellPointers reads the cell-pointer array that immediately follows the
// page header, returning each entry as an absolute file offset.
func (pr *PageReader) CellPointers(pageNo uint32, h *PageHeader, base int64) ([]int64, error) {
	headerBase := base
	if pageNo == 1 {
		headerBase += headerSize
	}
	pr.cursor.Seek(headerBase + int64(h.HeaderLength))

	offsets := make([]int64, h.CellCount)
	for i := 0; i < int(h.CellCount); i++ {
		raw, err := pr.cursor.ReadU16()
		if err != nil {
			return nil, NewDatabaseError("read_cell_pointer", ErrInvalidCellPointer, map[string]interface{}{
				"page_no": pageNo,
				"index":   i,
			})
		}
		if raw == 0 {
			return nil, NewDatabaseError("read_cell_pointer", ErrInvalidCellPointer, map[string]interface{}{
				"page_no": pageNo,
				"index":   i,
				"reason":  "zero offset",
			})
		}
		offsets[i] = base + int64(raw)
	}
	return offsets, nil
}
