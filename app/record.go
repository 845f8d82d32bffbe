package main

// RecordCodec decodes SQLite's record format: a varint header giving the
// header length and a serial type per column, followed by the column
// payload bytes back to back.
type RecordCodec struct {
	cursor *ByteCursor
}

// NewRecordCodec builds a codec reading through the given cursor.
func NewRecordCodec(cursor *ByteCursor) *RecordCodec {
	return &RecordCodec{cursor: cursor}
}

// Decode reads one record starting at the cursor's current position and
// returns its column values plus the total number of bytes the record
// occupied (header + body).
func (rc *RecordCodec) Decode() ([]Value, int, error) {
	start := rc.cursor.Pos()

	headerLength, err := rc.cursor.ReadVarint()
	if err != nil {
		return nil, 0, err
	}
	headerEnd := start + int64(headerLength)

	var serialTypes []uint64
	for rc.cursor.Pos() < headerEnd {
		st, err := rc.cursor.ReadVarint()
		if err != nil {
			return nil, 0, err
		}
		if _, ok := serialTypeLength(st); !ok {
			return nil, 0, NewDatabaseError("decode_record", ErrMalformedRecord, map[string]interface{}{
				"reason":      "reserved or unknown serial type",
				"serial_type": st,
			})
		}
		serialTypes = append(serialTypes, st)
	}
	if rc.cursor.Pos() != headerEnd {
		return nil, 0, NewDatabaseError("decode_record", ErrMalformedRecord, map[string]interface{}{
			"reason": "header length mismatch",
		})
	}

	values := make([]Value, len(serialTypes))
	for i, st := range serialTypes {
		n, _ := serialTypeLength(st)
		raw, err := rc.cursor.ReadBytes(n)
		if err != nil {
			return nil, 0, err
		}
		values[i] = decodeValue(st, raw)
	}

	total := int(rc.cursor.Pos() - start)
	return values, total, nil
}
