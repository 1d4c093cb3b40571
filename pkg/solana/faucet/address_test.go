package faucet

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-faucet/pkg/solana"
	"github.com/code-payments/code-faucet/pkg/solana/token"
)

func TestGetConfigAddress(t *testing.T) {
	keys := generateKeys(t, 2)

	first, err := GetConfigAddress(&GetConfigAddressArgs{Program: keys[0]})
	require.NoError(t, err)

	second, err := GetConfigAddress(&GetConfigAddressArgs{Program: keys[0]})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	expected, bump, err := solana.FindProgramAddressAndBump(keys[0], ConfigPrefix)
	require.NoError(t, err)
	assert.EqualValues(t, expected, first.Address)
	assert.Equal(t, bump, first.Bump)
	assert.True(t, solana.VerifySigner(keys[0], first.Address, first.Signer()))

	other, err := GetConfigAddress(&GetConfigAddressArgs{Program: keys[1]})
	require.NoError(t, err)
	assert.NotEqual(t, first.Address, other.Address)
}

func TestGetUserClaimAddress(t *testing.T) {
	keys := generateKeys(t, 3)
	program := keys[0]

	first, err := GetUserClaimAddress(&GetUserClaimAddressArgs{Program: program, User: keys[1]})
	require.NoError(t, err)

	expected, err := solana.FindProgramAddress(program, UserClaimPrefix, keys[1])
	require.NoError(t, err)
	assert.EqualValues(t, expected, first.Address)

	again, err := GetUserClaimAddress(&GetUserClaimAddressArgs{Program: program, User: keys[1]})
	require.NoError(t, err)
	assert.Equal(t, first.Address, again.Address)

	other, err := GetUserClaimAddress(&GetUserClaimAddressArgs{Program: program, User: keys[2]})
	require.NoError(t, err)
	assert.NotEqual(t, first.Address, other.Address)

	config, err := GetConfigAddress(&GetConfigAddressArgs{Program: program})
	require.NoError(t, err)
	assert.NotEqual(t, config.Address, first.Address)
}

func TestGetUserClaimAddress_CachedCopyIsolated(t *testing.T) {
	keys := generateKeys(t, 2)

	first, err := GetUserClaimAddress(&GetUserClaimAddressArgs{Program: keys[0], User: keys[1]})
	require.NoError(t, err)
	first.Bump = 0

	second, err := GetUserClaimAddress(&GetUserClaimAddressArgs{Program: keys[0], User: keys[1]})
	require.NoError(t, err)
	assert.True(t, solana.VerifySigner(keys[0], second.Address, second.Signer()))
}

func TestGetPoolAddress(t *testing.T) {
	keys := generateKeys(t, 2)

	actual, err := GetPoolAddress(&GetPoolAddressArgs{Config: keys[0], Mint: keys[1]})
	require.NoError(t, err)

	expected, err := token.GetAssociatedAccount(keys[0], keys[1])
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}

	return keys
}
