package shortvec

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLen_RoundTrip(t *testing.T) {
	var encoded []byte
	for n := 0; n <= MaxLen; n++ {
		var err error
		encoded, err = AppendLen(encoded[:0], n)
		require.NoError(t, err)

		decoded, err := DecodeLen(bytes.NewReader(encoded))
		require.NoError(t, err)
		require.Equal(t, n, decoded)
	}
}

// Encodings produced by the Solana SDK's ShortU16
func TestLen_Reference(t *testing.T) {
	for _, tc := range []struct {
		n       int
		encoded []byte
	}{
		{0x0, []byte{0x0}},
		{0x7f, []byte{0x7f}},
		{0x80, []byte{0x80, 0x01}},
		{0xff, []byte{0xff, 0x01}},
		{0x100, []byte{0x80, 0x02}},
		{0x7fff, []byte{0xff, 0xff, 0x01}},
		{0xffff, []byte{0xff, 0xff, 0x03}},
	} {
		var buf bytes.Buffer
		written, err := EncodeLen(&buf, tc.n)
		require.NoError(t, err)
		assert.Equal(t, len(tc.encoded), written)
		assert.Equal(t, tc.encoded, buf.Bytes())
	}
}

func TestLen_Invalid(t *testing.T) {
	_, err := AppendLen(nil, MaxLen+1)
	assert.True(t, errors.Is(err, ErrLenOutOfRange))
	_, err = EncodeLen(&bytes.Buffer{}, -1)
	assert.True(t, errors.Is(err, ErrLenOutOfRange))

	_, err = DecodeLen(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x01}))
	assert.Equal(t, ErrOverlong, err)

	_, err = DecodeLen(bytes.NewReader([]byte{0xff, 0xff, 0x04}))
	assert.True(t, errors.Is(err, ErrLenOutOfRange))

	_, err = DecodeLen(bytes.NewReader([]byte{0x80}))
	assert.Error(t, err)
}
