// Package shortvec implements the compact-u16 length prefix used throughout
// the transaction wire format.
package shortvec

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// MaxLen is the largest length that can be encoded
const MaxLen = math.MaxUint16

const maxEncodedSize = 3

var (
	ErrLenOutOfRange = errors.New("shortvec: length out of range")
	ErrOverlong      = errors.New("shortvec: encoding exceeds 3 bytes")
)

// AppendLen appends the encoding of n to dst: seven bits per byte, least
// significant group first, with the high bit set on every byte but the last.
func AppendLen(dst []byte, n int) ([]byte, error) {
	if n < 0 || n > MaxLen {
		return dst, errors.Wrapf(ErrLenOutOfRange, "%d", n)
	}

	for n >= 0x80 {
		dst = append(dst, byte(n&0x7f)|0x80)
		n >>= 7
	}
	return append(dst, byte(n)), nil
}

// EncodeLen writes the encoding of n to w, returning the number of bytes
// written.
func EncodeLen(w io.Writer, n int) (int, error) {
	encoded, err := AppendLen(make([]byte, 0, maxEncodedSize), n)
	if err != nil {
		return 0, err
	}
	return w.Write(encoded)
}

// DecodeLen reads an encoded length from r.
func DecodeLen(r io.ByteReader) (int, error) {
	var n int
	for i := 0; i < maxEncodedSize; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}

		n |= int(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			if n > MaxLen {
				return 0, errors.Wrapf(ErrLenOutOfRange, "%d", n)
			}
			return n, nil
		}
	}
	return 0, ErrOverlong
}
