package binary

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrUnexpectedEOF indicates a read would run past the end of the source buffer.
var ErrUnexpectedEOF = errors.New("unexpected end of data")

// ErrInvalidBool indicates a boolean field held a byte other than 0 or 1.
var ErrInvalidBool = errors.New("invalid bool value")

// ErrInvalidOption indicates an option tag held a byte other than 0 or 1.
var ErrInvalidOption = errors.New("invalid option tag")

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst, src)
	*offset += ed25519.PublicKeySize
}

func PutOptionalKey32(dst []byte, src []byte, offset *int, optionSize int) {
	if len(src) > 0 {
		dst[0] = 1
		copy(dst[optionSize:], src)
	}

	*offset += optionSize + ed25519.PublicKeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func PutInt64(dst []byte, v int64, offset *int) {
	binary.LittleEndian.PutUint64(dst, uint64(v))
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst, v)
	*offset += 4
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[0] = v
	*offset += 1
}

func PutBool(dst []byte, v bool, offset *int) {
	dst[0] = 0
	if v {
		dst[0] = 1
	}
	*offset += 1
}

func PutOptionalUint64(dst []byte, v *uint64, offset *int, optionSize int) {
	if v != nil {
		dst[0] = 1
		binary.LittleEndian.PutUint64(dst[optionSize:], *v)
	}
	*offset += optionSize + 8
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src)
	*offset += ed25519.PublicKeySize
}

func GetOptionalKey32(src []byte, dst *ed25519.PublicKey, offset *int, optionSize int) {
	if src[0] == 1 {
		*dst = make([]byte, ed25519.PublicKeySize)
		copy(*dst, src[optionSize:])
	}
	*offset += optionSize + ed25519.PublicKeySize
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src)
	*offset += 8
}

func GetInt64(src []byte, dst *int64, offset *int) {
	*dst = int64(binary.LittleEndian.Uint64(src))
	*offset += 8
}

func GetUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src)
	*offset += 4
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[0]
	*offset += 1
}

func GetBool(src []byte, dst *bool, offset *int) error {
	switch src[0] {
	case 0:
		*dst = false
	case 1:
		*dst = true
	default:
		return ErrInvalidBool
	}
	*offset += 1
	return nil
}

func GetOptionalUint64(src []byte, dst **uint64, offset *int, optionSize int) {
	if src[0] == 1 {
		val := binary.LittleEndian.Uint64(src[optionSize:])
		*dst = &val
	}
	*offset += optionSize + 8
}

// The Borsh* variants encode Option<T> the way borsh does: a single tag byte,
// followed by the value only when the tag is 1. Unlike the COption layout above,
// the encoded size varies, so every read is bounds checked.

func BorshOptionSize(present bool, valueSize int) int {
	if present {
		return 1 + valueSize
	}
	return 1
}

func PutBorshOptionalUint64(dst []byte, v *uint64, offset *int) {
	if v == nil {
		dst[0] = 0
		*offset += 1
		return
	}
	dst[0] = 1
	binary.LittleEndian.PutUint64(dst[1:], *v)
	*offset += 1 + 8
}

func PutBorshOptionalInt64(dst []byte, v *int64, offset *int) {
	if v == nil {
		dst[0] = 0
		*offset += 1
		return
	}
	dst[0] = 1
	binary.LittleEndian.PutUint64(dst[1:], uint64(*v))
	*offset += 1 + 8
}

func PutBorshOptionalBool(dst []byte, v *bool, offset *int) {
	if v == nil {
		dst[0] = 0
		*offset += 1
		return
	}
	dst[0] = 1
	var ignored int
	PutBool(dst[1:], *v, &ignored)
	*offset += 1 + 1
}

func GetBorshOptionalUint64(src []byte, dst **uint64, offset *int) error {
	present, err := getBorshOptionTag(src, 8)
	if err != nil {
		return err
	}
	*dst = nil
	if !present {
		*offset += 1
		return nil
	}
	val := binary.LittleEndian.Uint64(src[1:])
	*dst = &val
	*offset += 1 + 8
	return nil
}

func GetBorshOptionalInt64(src []byte, dst **int64, offset *int) error {
	present, err := getBorshOptionTag(src, 8)
	if err != nil {
		return err
	}
	*dst = nil
	if !present {
		*offset += 1
		return nil
	}
	val := int64(binary.LittleEndian.Uint64(src[1:]))
	*dst = &val
	*offset += 1 + 8
	return nil
}

func GetBorshOptionalBool(src []byte, dst **bool, offset *int) error {
	present, err := getBorshOptionTag(src, 1)
	if err != nil {
		return err
	}
	*dst = nil
	if !present {
		*offset += 1
		return nil
	}
	var val bool
	var ignored int
	if err := GetBool(src[1:], &val, &ignored); err != nil {
		return err
	}
	*dst = &val
	*offset += 1 + 1
	return nil
}

func getBorshOptionTag(src []byte, valueSize int) (bool, error) {
	if len(src) < 1 {
		return false, ErrUnexpectedEOF
	}
	switch src[0] {
	case 0:
		return false, nil
	case 1:
		if len(src) < 1+valueSize {
			return false, ErrUnexpectedEOF
		}
		return true, nil
	default:
		return false, ErrInvalidOption
	}
}
