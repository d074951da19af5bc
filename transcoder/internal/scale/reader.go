package scale

import (
	"fmt"
	"math/big"

	"github.com/baron-chain/bc-cargo-contract/errors"
)

// Reader is a cursor over SCALE encoded bytes with position tracking.
// Errors carry the absolute byte offset; callers add the value path.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Rest returns the unread bytes without consuming them.
func (r *Reader) Rest() []byte {
	return r.data[r.pos:]
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errors.UnexpectedEnd(nil, r.pos, 1, 0)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The returned slice aliases the input.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, errors.UnexpectedEnd(nil, r.pos, n, r.Remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadUint reads a size-byte little-endian unsigned integer.
func (r *Reader) ReadUint(size int) (*big.Int, error) {
	b, err := r.ReadBytes(size)
	if err != nil {
		return nil, err
	}
	return fromLE(b), nil
}

// ReadInt reads a size-byte little-endian two's complement integer.
func (r *Reader) ReadInt(size int) (*big.Int, error) {
	n, err := r.ReadUint(size)
	if err != nil {
		return nil, err
	}
	bits := uint(size * 8)
	if n.Bit(int(bits-1)) == 1 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), bits))
	}
	return n, nil
}

// ReadU32 reads a 4-byte little-endian unsigned integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// ReadCompact reads a compact integer and rejects non-canonical encodings.
func (r *Reader) ReadCompact() (*big.Int, error) {
	start := r.pos
	first, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch first & 0b11 {
	case 0b00:
		return big.NewInt(int64(first >> 2)), nil

	case 0b01:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		v := (uint64(first) | uint64(b)<<8) >> 2
		if v < 1<<6 {
			return nil, nonCanonical(start, v)
		}
		return new(big.Int).SetUint64(v), nil

	case 0b10:
		rest, err := r.ReadBytes(3)
		if err != nil {
			return nil, err
		}
		v := (uint64(first) | uint64(rest[0])<<8 | uint64(rest[1])<<16 | uint64(rest[2])<<24) >> 2
		if v < 1<<14 {
			return nil, nonCanonical(start, v)
		}
		return new(big.Int).SetUint64(v), nil
	}

	n := int(first>>2) + 4
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	if b[n-1] == 0 {
		return nil, nonCanonical(start, fromLE(b))
	}
	v := fromLE(b)
	if v.Cmp(big.NewInt(1<<30)) < 0 {
		return nil, nonCanonical(start, v)
	}
	return v, nil
}

// ReadCompactLen reads a compact length prefix that must fit an int.
func (r *Reader) ReadCompactLen() (int, error) {
	start := r.pos
	n, err := r.ReadCompact()
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() || n.Int64() > int64(maxLen) {
		e := errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("length prefix %s too large", n))
		e.Position = start
		return 0, e
	}
	return int(n.Int64()), nil
}

const maxLen = int(^uint32(0) >> 1)

func nonCanonical(pos int, v any) *errors.Error {
	e := errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("non-canonical compact encoding of %v", v))
	e.Position = pos
	return e
}

func fromLE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-1-i] = c
	}
	return new(big.Int).SetBytes(be)
}

func unexpectedEnd(r *Reader, need int) *errors.Error {
	return errors.UnexpectedEnd(nil, r.pos, need, r.Remaining())
}
