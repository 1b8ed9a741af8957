package ocd

import (
	"bytes"
	"encoding/binary"
	"math"
)

// recordWriter builds wire records in a growing buffer with explicit
// little-endian field writes. Positions returned by pos can be patched
// later, so size and offset fields are fixed up after the data they
// describe has been written.
type recordWriter struct {
	buf bytes.Buffer
}

func (w *recordWriter) pos() int { return w.buf.Len() }

func (w *recordWriter) bytes() []byte { return w.buf.Bytes() }

func (w *recordWriter) u8(v uint8) { w.buf.WriteByte(v) }

func (w *recordWriter) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *recordWriter) i16(v int16) { w.u16(uint16(v)) }

func (w *recordWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *recordWriter) i32(v int32) { w.u32(uint32(v)) }

func (w *recordWriter) f64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

func (w *recordWriter) raw(b []byte) { w.buf.Write(b) }

// zeros writes n zero bytes.
func (w *recordWriter) zeros(n int) {
	w.buf.Write(make([]byte, n))
}

// fixedBytes writes b truncated or zero-padded to exactly n bytes.
func (w *recordWriter) fixedBytes(b []byte, n int) {
	if len(b) > n {
		b = b[:n]
	}
	w.buf.Write(b)
	w.zeros(n - len(b))
}

// pascal writes a length-prefixed string field of n bytes total: one
// length byte followed by at most n-1 data bytes.
func (w *recordWriter) pascal(b []byte, n int) {
	if len(b) > n-1 {
		b = b[:n-1]
	}
	w.u8(uint8(len(b)))
	w.fixedBytes(b, n-1)
}

func (w *recordWriter) point(p ocdPoint) {
	w.i32(p.X)
	w.i32(p.Y)
}

func (w *recordWriter) points(ps []ocdPoint) {
	for _, p := range ps {
		w.point(p)
	}
}

// pad aligns the buffer to the 8-byte record boundary.
func (w *recordWriter) pad() {
	w.zeros(paddedSize(w.buf.Len()) - w.buf.Len())
}

func (w *recordWriter) patchU16(pos int, v uint16) {
	binary.LittleEndian.PutUint16(w.buf.Bytes()[pos:], v)
}

func (w *recordWriter) patchU32(pos int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf.Bytes()[pos:], v)
}

func (w *recordWriter) patchI32(pos int, v int32) {
	w.patchU32(pos, uint32(v))
}
