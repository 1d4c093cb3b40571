package faucet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/code-payments/code-faucet/pkg/solana/binary"
)

const (
	FaucetConfigAccountSize = (32 + // admin
		32 + // mint
		8 + // tokens_per_claim
		8 + // cooldown_seconds
		1) // is_active
)

type FaucetConfigAccount struct {
	Admin          ed25519.PublicKey
	Mint           ed25519.PublicKey
	TokensPerClaim uint64
	CooldownSecs   int64
	IsActive       bool
}

func (obj *FaucetConfigAccount) Marshal() []byte {
	data := make([]byte, FaucetConfigAccountSize)

	var offset int
	binary.PutKey32(data[offset:], obj.Admin, &offset)
	binary.PutKey32(data[offset:], obj.Mint, &offset)
	binary.PutUint64(data[offset:], obj.TokensPerClaim, &offset)
	binary.PutInt64(data[offset:], obj.CooldownSecs, &offset)
	binary.PutBool(data[offset:], obj.IsActive, &offset)

	return data
}

func (obj *FaucetConfigAccount) Unmarshal(data []byte) error {
	if len(data) != FaucetConfigAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	binary.GetKey32(data[offset:], &obj.Admin, &offset)
	binary.GetKey32(data[offset:], &obj.Mint, &offset)
	binary.GetUint64(data[offset:], &obj.TokensPerClaim, &offset)
	binary.GetInt64(data[offset:], &obj.CooldownSecs, &offset)
	if err := binary.GetBool(data[offset:], &obj.IsActive, &offset); err != nil {
		return ErrInvalidAccountData
	}

	return nil
}

func (obj *FaucetConfigAccount) String() string {
	return fmt.Sprintf(
		"FaucetConfig{admin=%s,mint=%s,tokens_per_claim=%d,cooldown_seconds=%d,is_active=%t}",
		base58.Encode(obj.Admin),
		base58.Encode(obj.Mint),
		obj.TokensPerClaim,
		obj.CooldownSecs,
		obj.IsActive,
	)
}
