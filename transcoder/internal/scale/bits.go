package scale

import "math/big"

// PackBits packs bits into store words of wordSize bytes. With lsb0 the
// first bit of each word is its least significant bit; otherwise its most
// significant. Unused high positions of the last word are zero.
func PackBits(w *Writer, bits []bool, wordSize int, lsb0 bool) {
	width := wordSize * 8
	for start := 0; start < len(bits); start += width {
		word := new(big.Int)
		for i := 0; i < width && start+i < len(bits); i++ {
			if !bits[start+i] {
				continue
			}
			pos := i
			if !lsb0 {
				pos = width - 1 - i
			}
			word.SetBit(word, pos, 1)
		}
		w.WriteUint(word, wordSize)
	}
}

// WordCount returns the number of store words holding n bits.
func WordCount(n, wordSize int) int {
	width := wordSize * 8
	return (n + width - 1) / width
}

// UnpackBits reads n bits stored in words of wordSize bytes.
func UnpackBits(r *Reader, n, wordSize int, lsb0 bool) ([]bool, error) {
	words := WordCount(n, wordSize)
	if words*wordSize > r.Remaining() {
		return nil, unexpectedEnd(r, words*wordSize)
	}
	width := wordSize * 8
	bits := make([]bool, n)
	for wi := 0; wi < words; wi++ {
		word, err := r.ReadUint(wordSize)
		if err != nil {
			return nil, err
		}
		for i := 0; i < width && wi*width+i < n; i++ {
			pos := i
			if !lsb0 {
				pos = width - 1 - i
			}
			bits[wi*width+i] = word.Bit(pos) == 1
		}
	}
	return bits, nil
}
