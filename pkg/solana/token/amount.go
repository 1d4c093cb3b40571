package token

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates a UI amount cannot be represented in quarks.
var ErrInvalidAmount = errors.New("invalid token amount")

// ToQuarks converts a UI amount into the smallest unit of a mint with the
// provided number of decimals.
func ToQuarks(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, ErrInvalidAmount
	}

	quarks := amount.Shift(int32(decimals))
	if !quarks.Equal(quarks.Truncate(0)) {
		return 0, errors.Wrapf(ErrInvalidAmount, "%s has more than %d decimal places", amount, decimals)
	}
	if !quarks.BigInt().IsUint64() {
		return 0, errors.Wrapf(ErrInvalidAmount, "%s overflows", amount)
	}

	return quarks.BigInt().Uint64(), nil
}

// FromQuarks converts quarks of a mint with the provided number of decimals
// into a UI amount.
func FromQuarks(quarks uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(quarks), -int32(decimals))
}
