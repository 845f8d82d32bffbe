package main

import "io"

// FileReader is the minimal capability ByteCursor needs from the open
// database file: random-access reads plus the ability to release it.
type FileReader interface {
	io.ReaderAt
	io.Closer
}

// ByteCursor is a positioned reader over a file, supporting absolute seek,
// fixed-width big-endian integer reads, varint reads, and raw byte-range
// reads. It never buffers more than the bytes a single read asks for, so a
// page is re-seeked per field rather than slurped whole into memory.
type ByteCursor struct {
	r   FileReader
	pos int64
}

// NewByteCursor wraps a file reader at position 0.
func NewByteCursor(r FileReader) *ByteCursor {
	return &ByteCursor{r: r}
}

// Seek repositions the cursor to an absolute file offset.
func (c *ByteCursor) Seek(offset int64) {
	c.pos = offset
}

// Pos reports the current offset.
func (c *ByteCursor) Pos() int64 {
	return c.pos
}

// ReadBytes reads n raw bytes at the current position and advances past them.
func (c *ByteCursor) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := c.r.ReadAt(buf, c.pos)
	if err != nil && !(err == io.EOF && read == n) {
		return nil, NewDatabaseError("read_bytes", ErrIO, map[string]interface{}{
			"offset": c.pos,
			"length": n,
			"cause":  err.Error(),
		})
	}
	c.pos += int64(n)
	return buf, nil
}

func beUint(buf []byte) uint64 {
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v
}

// ReadU8 reads a 1-byte big-endian unsigned integer.
func (c *ByteCursor) ReadU8() (uint64, error) { return c.readFixed(1) }

// ReadU16 reads a 2-byte big-endian unsigned integer.
func (c *ByteCursor) ReadU16() (uint64, error) { return c.readFixed(2) }

// ReadU24 reads a 3-byte big-endian unsigned integer.
func (c *ByteCursor) ReadU24() (uint64, error) { return c.readFixed(3) }

// ReadU32 reads a 4-byte big-endian unsigned integer.
func (c *ByteCursor) ReadU32() (uint64, error) { return c.readFixed(4) }

// ReadU48 reads a 6-byte big-endian unsigned integer.
func (c *ByteCursor) ReadU48() (uint64, error) { return c.readFixed(6) }

// ReadU64 reads an 8-byte big-endian unsigned integer.
func (c *ByteCursor) ReadU64() (uint64, error) { return c.readFixed(8) }

func (c *ByteCursor) readFixed(n int) (uint64, error) {
	buf, err := c.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	return beUint(buf), nil
}

// ReadVarint decodes a SQLite varint: big-endian base-128, up to 9 bytes.
// The first 8 bytes contribute their low 7 bits each; if all 8 carry the
// continuation bit, a 9th byte contributes all 8 of its bits. The result is
// an unsigned 64-bit integer; signed interpretation is the caller's job.
func (c *ByteCursor) ReadVarint() (uint64, error) {
	var result uint64
	for i := 0; i < 9; i++ {
		b, err := c.ReadBytes(1)
		if err != nil {
			// Running out of bytes mid-varint is an I/O-truncation failure,
			// not a malformed-encoding one; ReadBytes already classifies it
			// as ErrIO, so propagate it as is rather than relabeling it.
			return 0, err
		}
		if i == 8 {
			result = result<<8 | uint64(b[0])
			return result, nil
		}
		result = result<<7 | uint64(b[0]&0x7F)
		if b[0]&0x80 == 0 {
			return result, nil
		}
	}
	return result, nil
}
