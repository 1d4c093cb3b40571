package faucet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/code-payments/code-faucet/pkg/solana/binary"
)

const (
	UserClaimRecordAccountSize = (32 + // user
		8 + // last_claim_time
		8) // total_claims
)

// UserClaimRecordAccount tracks claims made by a single user. A LastClaimTime
// of zero means the user has never claimed.
type UserClaimRecordAccount struct {
	User          ed25519.PublicKey
	LastClaimTime int64
	TotalClaims   uint64
}

func (obj *UserClaimRecordAccount) Marshal() []byte {
	data := make([]byte, UserClaimRecordAccountSize)

	var offset int
	binary.PutKey32(data[offset:], obj.User, &offset)
	binary.PutInt64(data[offset:], obj.LastClaimTime, &offset)
	binary.PutUint64(data[offset:], obj.TotalClaims, &offset)

	return data
}

func (obj *UserClaimRecordAccount) Unmarshal(data []byte) error {
	if len(data) != UserClaimRecordAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	binary.GetKey32(data[offset:], &obj.User, &offset)
	binary.GetInt64(data[offset:], &obj.LastClaimTime, &offset)
	binary.GetUint64(data[offset:], &obj.TotalClaims, &offset)

	return nil
}

// NextClaimTime is the earliest unix timestamp at which the user can claim again.
func (obj *UserClaimRecordAccount) NextClaimTime(cooldownSecs int64) int64 {
	return saturatingAdd(obj.LastClaimTime, cooldownSecs)
}

// RemainingCooldown returns how many seconds the user must still wait at now,
// or zero if a claim is allowed.
func (obj *UserClaimRecordAccount) RemainingCooldown(now, cooldownSecs int64) int64 {
	elapsed := saturatingSub(now, obj.LastClaimTime)
	if elapsed >= cooldownSecs {
		return 0
	}
	return saturatingSub(cooldownSecs, elapsed)
}

func (obj *UserClaimRecordAccount) String() string {
	return fmt.Sprintf(
		"UserClaimRecord{user=%s,last_claim_time=%d,total_claims=%d}",
		base58.Encode(obj.User),
		obj.LastClaimTime,
		obj.TotalClaims,
	)
}
