package tests

import (
	"context"
	"crypto/ed25519"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-faucet/pkg/solana/runtime/accounts"
)

func RunTests(t *testing.T, s accounts.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s accounts.Store){
		testHappyPath,
		testStaleVersion,
		testBatchAtomicity,
		testGetAllByOwner,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s accounts.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		start := time.Now().Add(-time.Second)

		ctx := context.Background()

		expected := &accounts.Account{
			Address:  newKey(t),
			Owner:    newKey(t),
			Lamports: math.MaxUint64,
			Data:     []byte{1, 2, 3},
		}

		// Validate the record initially doesn't exist

		_, err := s.Get(ctx, expected.Address)
		assert.Equal(t, accounts.ErrAccountNotFound, err)

		// Save the record

		require.NoError(t, s.Save(ctx, expected))
		assert.EqualValues(t, 1, expected.Version)
		assert.True(t, expected.LastUpdatedAt.After(start))

		actual, err := s.Get(ctx, expected.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		// Update the record's state

		expected.Lamports = 42
		expected.Data = make([]byte, 128)
		expected.Owner = newKey(t)
		expected.Executable = true

		require.NoError(t, s.Save(ctx, expected))
		assert.EqualValues(t, 2, expected.Version)

		actual, err = s.Get(ctx, expected.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		// Empty data is persisted as such

		expected.Data = nil
		require.NoError(t, s.Save(ctx, expected))

		actual, err = s.Get(ctx, expected.Address)
		require.NoError(t, err)
		assert.Empty(t, actual.Data)
		assert.EqualValues(t, 3, actual.Version)
	})
}

func testStaleVersion(t *testing.T, s accounts.Store) {
	t.Run("testStaleVersion", func(t *testing.T) {
		ctx := context.Background()

		record := &accounts.Account{
			Address:  newKey(t),
			Owner:    newKey(t),
			Lamports: 10,
		}
		require.NoError(t, s.Save(ctx, record))

		// A second writer that read nothing can't create the same account

		conflicting := &accounts.Account{
			Address:  record.Address,
			Owner:    record.Owner,
			Lamports: 20,
		}
		assert.Equal(t, accounts.ErrStaleVersion, s.Save(ctx, conflicting))
		assert.EqualValues(t, 0, conflicting.Version)

		// A writer with an outdated version can't overwrite newer state

		previous := record.Clone()
		record.Lamports = 11
		require.NoError(t, s.Save(ctx, record))

		previous.Lamports = 12
		assert.Equal(t, accounts.ErrStaleVersion, s.Save(ctx, previous))
		assert.EqualValues(t, 1, previous.Version)

		actual, err := s.Get(ctx, record.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 11, actual.Lamports)
		assert.EqualValues(t, 2, actual.Version)
	})
}

func testBatchAtomicity(t *testing.T, s accounts.Store) {
	t.Run("testBatchAtomicity", func(t *testing.T) {
		ctx := context.Background()

		owner := newKey(t)

		existing := &accounts.Account{
			Address:  newKey(t),
			Owner:    owner,
			Lamports: 100,
		}
		require.NoError(t, s.Save(ctx, existing))

		stale := existing.Clone()
		stale.Version = 0
		stale.Lamports = 0

		created := &accounts.Account{
			Address:  newKey(t),
			Owner:    owner,
			Lamports: 100,
		}

		assert.Equal(t, accounts.ErrStaleVersion, s.Save(ctx, created, stale))
		assert.EqualValues(t, 0, created.Version)

		_, err := s.Get(ctx, created.Address)
		assert.Equal(t, accounts.ErrAccountNotFound, err)

		actual, err := s.Get(ctx, existing.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 100, actual.Lamports)

		// Both succeed together

		existing.Lamports = 50
		created.Lamports = 150
		require.NoError(t, s.Save(ctx, created, existing))
		assert.EqualValues(t, 1, created.Version)
		assert.EqualValues(t, 2, existing.Version)

		invalid := &accounts.Account{Address: newKey(t)}
		assert.Error(t, s.Save(ctx, invalid))
	})
}

func testGetAllByOwner(t *testing.T, s accounts.Store) {
	t.Run("testGetAllByOwner", func(t *testing.T) {
		ctx := context.Background()

		owner := newKey(t)

		_, err := s.GetAllByOwner(ctx, owner)
		assert.Equal(t, accounts.ErrAccountNotFound, err)

		var expected []*accounts.Account
		for i := 0; i < 5; i++ {
			record := &accounts.Account{
				Address:  newKey(t),
				Owner:    owner,
				Lamports: uint64(i),
				Data:     []byte{byte(i)},
			}
			require.NoError(t, s.Save(ctx, record))
			expected = append(expected, record)
		}
		require.NoError(t, s.Save(ctx, &accounts.Account{Address: newKey(t), Owner: newKey(t)}))

		actual, err := s.GetAllByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, actual, len(expected))

		for _, record := range expected {
			var found bool
			for _, other := range actual {
				if record.StateEquals(other) {
					found = true
					break
				}
			}
			assert.True(t, found)
		}
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *accounts.Account) {
	assert.EqualValues(t, obj1.Address, obj2.Address)
	assert.EqualValues(t, obj1.Owner, obj2.Owner)
	assert.Equal(t, obj1.Lamports, obj2.Lamports)
	assert.Equal(t, len(obj1.Data), len(obj2.Data))
	if len(obj1.Data) > 0 {
		assert.Equal(t, obj1.Data, obj2.Data)
	}
	assert.Equal(t, obj1.Executable, obj2.Executable)
	assert.Equal(t, obj1.Version, obj2.Version)
}

func newKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub
}
