package scale

import (
	"math/big"
)

// Writer accumulates SCALE encoded bytes.
type Writer struct {
	buf []byte
}

// NewWriter creates a Writer that appends to buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf = append(w.buf, b)
}

// WriteBytes writes a byte slice as is.
func (w *Writer) WriteBytes(data []byte) {
	w.buf = append(w.buf, data...)
}

// WriteU32 writes a 4-byte little-endian integer.
func (w *Writer) WriteU32(v uint32) {
	w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// WriteUint writes n as a size-byte little-endian integer. n must be
// non-negative and fit.
func (w *Writer) WriteUint(n *big.Int, size int) {
	be := n.FillBytes(make([]byte, size))
	for i := size - 1; i >= 0; i-- {
		w.buf = append(w.buf, be[i])
	}
}

// WriteInt writes n as a size-byte little-endian two's complement integer.
func (w *Writer) WriteInt(n *big.Int, size int) {
	if n.Sign() >= 0 {
		w.WriteUint(n, size)
		return
	}
	u := new(big.Int).Lsh(big.NewInt(1), uint(size*8))
	w.WriteUint(u.Add(u, n), size)
}

// MaxCompact is the largest value the compact encoding can represent.
var MaxCompact = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 536), big.NewInt(1))

// WriteCompact writes n (0 <= n <= MaxCompact) in the compact encoding:
//
//	n < 2^6    1 byte   n<<2
//	n < 2^14   2 bytes  n<<2 | 0b01
//	n < 2^30   4 bytes  n<<2 | 0b10
//	otherwise  1 + m bytes, header (m-4)<<2 | 0b11, m = minimal byte length
func (w *Writer) WriteCompact(n *big.Int) {
	if n.IsUint64() && n.Uint64() < 1<<30 {
		w.WriteCompactUint(n.Uint64())
		return
	}
	m := (n.BitLen() + 7) / 8
	w.Byte(byte(m-4)<<2 | 0b11)
	w.WriteUint(n, m)
}

// WriteCompactUint writes v in the compact encoding.
func (w *Writer) WriteCompactUint(v uint64) {
	switch {
	case v < 1<<6:
		w.Byte(byte(v << 2))
	case v < 1<<14:
		x := uint16(v<<2) | 0b01
		w.buf = append(w.buf, byte(x), byte(x>>8))
	case v < 1<<30:
		w.WriteU32(uint32(v<<2) | 0b10)
	default:
		w.WriteCompact(new(big.Int).SetUint64(v))
	}
}
