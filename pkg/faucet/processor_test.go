package faucet

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-faucet/pkg/solana"
	faucet_program "github.com/code-payments/code-faucet/pkg/solana/faucet"
	"github.com/code-payments/code-faucet/pkg/solana/runtime"
	"github.com/code-payments/code-faucet/pkg/solana/runtime/accounts"
	memory_account_store "github.com/code-payments/code-faucet/pkg/solana/runtime/accounts/memory"
	"github.com/code-payments/code-faucet/pkg/solana/system"
	"github.com/code-payments/code-faucet/pkg/solana/token"
)

const (
	solLamports  = 1_000_000_000
	mintDecimals = 6
	startTime    = 1_700_000_000

	tokensPerClaim = 1_000_000_000
	cooldownSecs   = 60
)

type testEnv struct {
	ctx   context.Context
	clock *runtime.FakeClock
	bank  *runtime.Bank

	admin  ed25519.PrivateKey
	mint   ed25519.PublicKey
	config ed25519.PublicKey
	pool   ed25519.PublicKey
}

type testUser struct {
	key          ed25519.PrivateKey
	tokenAccount ed25519.PublicKey
}

func setup(t *testing.T) *testEnv {
	store := memory_account_store.New()
	clock := runtime.NewFakeClock(time.Unix(startTime, 0))

	bank := runtime.NewBank(store, clock, runtime.WithEnvConfigs())
	bank.RegisterProgram(faucet_program.PROGRAM_ID, NewProcessor())

	env := &testEnv{
		ctx:   context.Background(),
		clock: clock,
		bank:  bank,
	}

	env.admin = env.newFundedKey(t, 10*solLamports)

	env.mint = publicKey(newKey(t))
	mint := &token.Mint{
		MintAuthority: publicKey(env.admin),
		Supply:        1_000_000 * 1_000_000,
		Decimals:      mintDecimals,
		IsInitialized: true,
	}
	require.NoError(t, bank.SetAccount(env.ctx, &accounts.Account{
		Address:  env.mint,
		Owner:    token.ProgramKey,
		Lamports: env.rent().MinimumBalance(token.MintSize),
		Data:     mint.Marshal(),
	}))

	configAddress, err := faucet_program.GetConfigAddress(&faucet_program.GetConfigAddressArgs{
		Program: faucet_program.PROGRAM_ID,
	})
	require.NoError(t, err)
	env.config = configAddress.Address

	env.pool, err = faucet_program.GetPoolAddress(&faucet_program.GetPoolAddressArgs{
		Config: env.config,
		Mint:   env.mint,
	})
	require.NoError(t, err)

	return env
}

func TestInitialize(t *testing.T) {
	env := setup(t)

	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))

	config := env.getConfig(t)
	assert.EqualValues(t, publicKey(env.admin), config.Admin)
	assert.EqualValues(t, env.mint, config.Mint)
	assert.EqualValues(t, tokensPerClaim, config.TokensPerClaim)
	assert.EqualValues(t, cooldownSecs, config.CooldownSecs)
	assert.True(t, config.IsActive)

	account, err := env.bank.GetAccount(env.ctx, env.config)
	require.NoError(t, err)
	assert.EqualValues(t, faucet_program.PROGRAM_ID, account.Owner)
	assert.Len(t, account.Data, faucet_program.FaucetConfigAccountSize)

	rentExempt := env.rent().MinimumBalance(faucet_program.FaucetConfigAccountSize)
	assert.Equal(t, rentExempt, account.Lamports)
	assert.EqualValues(t, 10*solLamports-rentExempt, env.lamports(t, publicKey(env.admin)))

	// The config address is already in use
	err = env.initialize(t, 1, 1)
	assertCustomError(t, err, system.ErrorAccountAlreadyInUse)
	assertNotFaucetError(t, err)
	assert.EqualValues(t, tokensPerClaim, env.getConfig(t).TokensPerClaim)
}

func TestInitialize_PrefundedConfig(t *testing.T) {
	env := setup(t)

	prefund := env.rent().MinimumBalance(0)
	env.prefund(t, env.config, prefund)

	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))
	assert.True(t, env.getConfig(t).IsActive)

	account, err := env.bank.GetAccount(env.ctx, env.config)
	require.NoError(t, err)
	assert.EqualValues(t, faucet_program.PROGRAM_ID, account.Owner)
	assert.Len(t, account.Data, faucet_program.FaucetConfigAccountSize)

	// The admin only covers what the prefund didn't
	rentExempt := env.rent().MinimumBalance(faucet_program.FaucetConfigAccountSize)
	assert.Equal(t, rentExempt, account.Lamports)
	assert.EqualValues(t, 10*solLamports-(rentExempt-prefund), env.lamports(t, publicKey(env.admin)))

	err = env.initialize(t, 1, 1)
	assertCustomError(t, err, system.ErrorAccountAlreadyInUse)
	assert.EqualValues(t, tokensPerClaim, env.getConfig(t).TokensPerClaim)
}

func TestInitialize_Validation(t *testing.T) {
	env := setup(t)

	admin := publicKey(env.admin)
	wrongConfig, err := faucet_program.GetUserClaimAddress(&faucet_program.GetUserClaimAddressArgs{
		Program: faucet_program.PROGRAM_ID,
		User:    admin,
	})
	require.NoError(t, err)

	ix := faucet_program.NewInitializeInstruction(
		&faucet_program.InitializeInstructionAccounts{
			Admin:  admin,
			Config: wrongConfig.Address,
			Mint:   env.mint,
		},
		&faucet_program.InitializeInstructionArgs{TokensPerClaim: tokensPerClaim, CooldownSecs: cooldownSecs},
	)
	assertCustomError(t, env.process(t, []ed25519.PrivateKey{env.admin}, ix), faucet_program.ErrorInvalidDerivedAddress)

	err = env.initialize(t, tokensPerClaim, -1)
	assertCustomError(t, err, faucet_program.ErrorMalformedInput)

	// Not a mint
	ix = faucet_program.NewInitializeInstruction(
		&faucet_program.InitializeInstructionAccounts{
			Admin:  admin,
			Config: env.config,
			Mint:   publicKey(newKey(t)),
		},
		&faucet_program.InitializeInstructionArgs{TokensPerClaim: tokensPerClaim, CooldownSecs: cooldownSecs},
	)
	assertCustomError(t, env.process(t, []ed25519.PrivateKey{env.admin}, ix), faucet_program.ErrorMalformedInput)

	// Admin not signing
	payer := env.newFundedKey(t, solLamports)
	ix = faucet_program.NewInitializeInstruction(
		&faucet_program.InitializeInstructionAccounts{
			Admin:  admin,
			Config: env.config,
			Mint:   env.mint,
		},
		&faucet_program.InitializeInstructionArgs{TokensPerClaim: tokensPerClaim, CooldownSecs: cooldownSecs},
	)
	ix.Accounts[0].IsSigner = false
	assertCustomError(t, env.process(t, []ed25519.PrivateKey{payer}, ix), faucet_program.ErrorMissingSignature)

	// Missing the system program
	ix = faucet_program.NewInitializeInstruction(
		&faucet_program.InitializeInstructionAccounts{
			Admin:  admin,
			Config: env.config,
			Mint:   env.mint,
		},
		&faucet_program.InitializeInstructionArgs{TokensPerClaim: tokensPerClaim, CooldownSecs: cooldownSecs},
	)
	ix.Accounts = ix.Accounts[:3]
	assertInstructionError(t, env.process(t, []ed25519.PrivateKey{env.admin}, ix), solana.InstructionErrorNotEnoughAccountKeys)

	account, err := env.bank.GetAccount(env.ctx, env.config)
	require.NoError(t, err)
	assert.True(t, account.IsEmpty())
	assert.EqualValues(t, 10*solLamports, env.lamports(t, admin))
}

func TestClaim_HappyPath(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))
	env.fundPool(t, 10*tokensPerClaim)

	user := env.newUser(t)
	claimTime := env.clock.Now().Unix()

	require.NoError(t, env.claim(t, user))

	assert.EqualValues(t, 9*tokensPerClaim, env.tokenBalance(t, env.pool))
	assert.EqualValues(t, tokensPerClaim, env.tokenBalance(t, user.tokenAccount))

	record := env.getUserClaimRecord(t, user)
	require.NotNil(t, record)
	assert.EqualValues(t, publicKey(user.key), record.User)
	assert.EqualValues(t, 1, record.TotalClaims)
	assert.Equal(t, claimTime, record.LastClaimTime)

	// The user pays for their record
	rentExempt := env.rent().MinimumBalance(faucet_program.UserClaimRecordAccountSize)
	assert.EqualValues(t, solLamports-rentExempt, env.lamports(t, publicKey(user.key)))

	// Immediately claiming again
	err := env.claim(t, user)
	assertCustomError(t, err, faucet_program.ErrorCooldownNotMet)
	assert.True(t, errors.Is(err, ErrCooldownNotMet))

	var cooldownErr *CooldownNotMetError
	require.True(t, errors.As(err, &cooldownErr))
	assert.EqualValues(t, cooldownSecs, cooldownErr.RemainingSeconds)

	env.clock.Advance(cooldownSecs*time.Second - time.Second)
	err = env.claim(t, user)
	require.True(t, errors.As(err, &cooldownErr))
	assert.EqualValues(t, 1, cooldownErr.RemainingSeconds)

	env.clock.Advance(time.Second)
	require.NoError(t, env.claim(t, user))

	record = env.getUserClaimRecord(t, user)
	assert.EqualValues(t, 2, record.TotalClaims)
	assert.Equal(t, claimTime+cooldownSecs, record.LastClaimTime)
	assert.EqualValues(t, 8*tokensPerClaim, env.tokenBalance(t, env.pool))
	assert.EqualValues(t, 2*tokensPerClaim, env.tokenBalance(t, user.tokenAccount))

	// Records are per user
	other := env.newUser(t)
	require.NoError(t, env.claim(t, other))
	assert.EqualValues(t, 1, env.getUserClaimRecord(t, other).TotalClaims)
	assert.EqualValues(t, 2, env.getUserClaimRecord(t, user).TotalClaims)
}

func TestClaim_PrefundedClaimRecord(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))
	env.fundPool(t, 10*tokensPerClaim)

	rentExempt := env.rent().MinimumBalance(faucet_program.UserClaimRecordAccountSize)

	for _, prefund := range []uint64{
		env.rent().MinimumBalance(0),
		rentExempt + 1,
	} {
		user := env.newUser(t)
		recordAddress := env.userClaimAddress(t, user)
		env.prefund(t, recordAddress, prefund)

		require.NoError(t, env.claim(t, user))
		assert.EqualValues(t, tokensPerClaim, env.tokenBalance(t, user.tokenAccount))

		record := env.getUserClaimRecord(t, user)
		require.NotNil(t, record)
		assert.EqualValues(t, publicKey(user.key), record.User)
		assert.EqualValues(t, 1, record.TotalClaims)

		account, err := env.bank.GetAccount(env.ctx, recordAddress)
		require.NoError(t, err)
		assert.EqualValues(t, faucet_program.PROGRAM_ID, account.Owner)

		if prefund < rentExempt {
			assert.Equal(t, rentExempt, account.Lamports)
			assert.EqualValues(t, solLamports-(rentExempt-prefund), env.lamports(t, publicKey(user.key)))
		} else {
			assert.Equal(t, prefund, account.Lamports)
			assert.EqualValues(t, solLamports, env.lamports(t, publicKey(user.key)))
		}

		env.clock.Advance(time.Second)
		assertCustomError(t, env.claim(t, user), faucet_program.ErrorCooldownNotMet)
	}
}

func TestGetUserClaimRecords(t *testing.T) {
	env := setup(t)

	records, err := GetUserClaimRecords(env.ctx, env.bank, faucet_program.PROGRAM_ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))
	env.fundPool(t, 10*tokensPerClaim)

	users := []*testUser{env.newUser(t), env.newUser(t), env.newUser(t)}
	for _, user := range users {
		require.NoError(t, env.claim(t, user))
	}
	env.clock.Advance(cooldownSecs * time.Second)
	require.NoError(t, env.claim(t, users[0]))

	records, err = GetUserClaimRecords(env.ctx, env.bank, faucet_program.PROGRAM_ID)
	require.NoError(t, err)
	require.Len(t, records, len(users))

	for _, user := range users {
		expected := env.getUserClaimRecord(t, user)

		var found bool
		for _, record := range records {
			if record.User.Equal(expected.User) {
				assert.Equal(t, expected, record)
				found = true
			}
		}
		assert.True(t, found)
	}
}

func TestClaim_CooldownMonotonicity(t *testing.T) {
	for _, tc := range []struct {
		elapsed time.Duration
		allowed bool
	}{
		{time.Second, false},
		{30 * time.Second, false},
		{59 * time.Second, false},
		{60 * time.Second, true},
		{61 * time.Second, true},
		{time.Hour, true},
	} {
		t.Run(fmt.Sprintf("after %s", tc.elapsed), func(t *testing.T) {
			env := setup(t)
			require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))
			env.fundPool(t, 10*tokensPerClaim)

			user := env.newUser(t)
			require.NoError(t, env.claim(t, user))

			env.clock.Advance(tc.elapsed)
			err := env.claim(t, user)
			if tc.allowed {
				require.NoError(t, err)
				assert.EqualValues(t, 2, env.getUserClaimRecord(t, user).TotalClaims)
			} else {
				var cooldownErr *CooldownNotMetError
				require.True(t, errors.As(err, &cooldownErr))
				assert.EqualValues(t, cooldownSecs*time.Second-tc.elapsed, time.Duration(cooldownErr.RemainingSeconds)*time.Second)
				assert.EqualValues(t, 1, env.getUserClaimRecord(t, user).TotalClaims)
			}
		})
	}
}

func TestClaim_FirstClaimIgnoresCooldown(t *testing.T) {
	env := setup(t)

	oneYear := int64(365 * 24 * 60 * 60)
	require.NoError(t, env.initialize(t, tokensPerClaim, oneYear))
	env.fundPool(t, 10*tokensPerClaim)

	for i := 0; i < 3; i++ {
		user := env.newUser(t)
		require.NoError(t, env.claim(t, user))
		assert.EqualValues(t, 1, env.getUserClaimRecord(t, user).TotalClaims)
	}
}

func TestClaim_InsufficientFunds(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))
	env.fundPool(t, tokensPerClaim-1)

	user := env.newUser(t)

	err := env.claim(t, user)
	assertCustomError(t, err, faucet_program.ErrorInsufficientFunds)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	assert.EqualValues(t, tokensPerClaim-1, env.tokenBalance(t, env.pool))
	assert.EqualValues(t, 0, env.tokenBalance(t, user.tokenAccount))
	assert.Nil(t, env.getUserClaimRecord(t, user))
	assert.EqualValues(t, solLamports, env.lamports(t, publicKey(user.key)))
}

func TestClaim_FailedTransferIsAtomic(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))
	env.fundPool(t, 10*tokensPerClaim)

	user := env.newUser(t)
	require.NoError(t, env.claim(t, user))
	before := env.getUserClaimRecord(t, user)

	env.clock.Advance(time.Hour)

	// The ledger rejects transfers into a frozen account
	frozen := &token.Account{
		Mint:   env.mint,
		Owner:  publicKey(user.key),
		Amount: tokensPerClaim,
		State:  token.AccountStateFrozen,
	}
	require.NoError(t, env.bank.SetAccount(env.ctx, &accounts.Account{
		Address:  user.tokenAccount,
		Owner:    token.ProgramKey,
		Lamports: env.rent().MinimumBalance(token.AccountSize),
		Data:     frozen.Marshal(),
	}))

	err := env.claim(t, user)
	assertCustomError(t, err, token.ErrorAccountFrozen)

	after := env.getUserClaimRecord(t, user)
	assert.Equal(t, before, after)
	assert.EqualValues(t, 9*tokensPerClaim, env.tokenBalance(t, env.pool))

	// A first claim that fails leaves no record behind
	newUser := env.newUser(t)
	require.NoError(t, env.bank.SetAccount(env.ctx, &accounts.Account{
		Address:  newUser.tokenAccount,
		Owner:    token.ProgramKey,
		Lamports: env.rent().MinimumBalance(token.AccountSize),
		Data: (&token.Account{
			Mint:  publicKey(newKey(t)),
			Owner: publicKey(newUser.key),
			State: token.AccountStateInitialized,
		}).Marshal(),
	}))

	err = env.claim(t, newUser)
	assertCustomError(t, err, token.ErrorMintMismatch)
	assertNotFaucetError(t, err)
	assert.Nil(t, env.getUserClaimRecord(t, newUser))
	assert.EqualValues(t, solLamports, env.lamports(t, publicKey(newUser.key)))
}

func TestClaim_Validation(t *testing.T) {
	env := setup(t)

	user := env.newUser(t)

	// Not initialized
	assertCustomError(t, env.claim(t, user), faucet_program.ErrorFaucetInactive)

	// Config address held by another program
	require.NoError(t, env.bank.SetAccount(env.ctx, &accounts.Account{
		Address:  env.config,
		Owner:    token.ProgramKey,
		Lamports: env.rent().MinimumBalance(faucet_program.FaucetConfigAccountSize),
		Data:     make([]byte, faucet_program.FaucetConfigAccountSize),
	}))
	assertCustomError(t, env.claim(t, user), faucet_program.ErrorMalformedInput)
	require.NoError(t, env.bank.SetAccount(env.ctx, accounts.New(env.config, runtime.SystemProgramID)))

	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))
	env.fundPool(t, 10*tokensPerClaim)

	other := env.newUser(t)
	otherRecord := env.userClaimAddress(t, other)

	for _, tc := range []struct {
		name     string
		modify   func(accounts *faucet_program.ClaimInstructionAccounts)
		expected solana.CustomError
	}{
		{
			name: "another user's record",
			modify: func(accounts *faucet_program.ClaimInstructionAccounts) {
				accounts.UserClaimRecord = otherRecord
			},
			expected: faucet_program.ErrorInvalidDerivedAddress,
		},
		{
			name: "config",
			modify: func(accounts *faucet_program.ClaimInstructionAccounts) {
				accounts.Config = otherRecord
			},
			expected: faucet_program.ErrorInvalidDerivedAddress,
		},
		{
			name: "pool",
			modify: func(accounts *faucet_program.ClaimInstructionAccounts) {
				accounts.Pool = other.tokenAccount
			},
			expected: faucet_program.ErrorInvalidDerivedAddress,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			claimAccounts := env.claimAccounts(t, user)
			tc.modify(claimAccounts)

			ix := faucet_program.NewClaimInstruction(claimAccounts, &faucet_program.ClaimInstructionArgs{})
			assertCustomError(t, env.process(t, []ed25519.PrivateKey{user.key}, ix), tc.expected)
		})
	}

	// User not signing
	payer := env.newFundedKey(t, solLamports)
	ix := faucet_program.NewClaimInstruction(env.claimAccounts(t, user), &faucet_program.ClaimInstructionArgs{})
	ix.Accounts[0].IsSigner = false
	assertCustomError(t, env.process(t, []ed25519.PrivateKey{payer}, ix), faucet_program.ErrorMissingSignature)

	// Missing the system program
	ix = faucet_program.NewClaimInstruction(env.claimAccounts(t, user), &faucet_program.ClaimInstructionArgs{})
	ix.Accounts = ix.Accounts[:6]
	assertInstructionError(t, env.process(t, []ed25519.PrivateKey{user.key}, ix), solana.InstructionErrorNotEnoughAccountKeys)

	assert.Nil(t, env.getUserClaimRecord(t, user))
	assert.EqualValues(t, 10*tokensPerClaim, env.tokenBalance(t, env.pool))
}

func TestPause(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))
	env.fundPool(t, 10*tokensPerClaim)

	require.NoError(t, env.pause(t, env.admin))
	assert.False(t, env.getConfig(t).IsActive)

	user := env.newUser(t)
	err := env.claim(t, user)
	assertCustomError(t, err, faucet_program.ErrorFaucetInactive)
	assert.True(t, errors.Is(err, ErrFaucetInactive))
	assert.Nil(t, env.getUserClaimRecord(t, user))

	// Idempotent
	require.NoError(t, env.pause(t, env.admin))
	assert.False(t, env.getConfig(t).IsActive)

	active := true
	require.NoError(t, env.reconfigure(t, env.admin, &faucet_program.ReconfigureInstructionArgs{IsActive: &active}))
	require.NoError(t, env.claim(t, user))
}

func TestReconfigure(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))

	amount := uint64(5 * tokensPerClaim)
	require.NoError(t, env.reconfigure(t, env.admin, &faucet_program.ReconfigureInstructionArgs{TokensPerClaim: &amount}))

	config := env.getConfig(t)
	assert.Equal(t, amount, config.TokensPerClaim)
	assert.EqualValues(t, cooldownSecs, config.CooldownSecs)
	assert.True(t, config.IsActive)

	cooldown := int64(0)
	inactive := false
	require.NoError(t, env.reconfigure(t, env.admin, &faucet_program.ReconfigureInstructionArgs{CooldownSecs: &cooldown, IsActive: &inactive}))

	config = env.getConfig(t)
	assert.Equal(t, amount, config.TokensPerClaim)
	assert.EqualValues(t, 0, config.CooldownSecs)
	assert.False(t, config.IsActive)

	// Nothing to change
	require.NoError(t, env.reconfigure(t, env.admin, &faucet_program.ReconfigureInstructionArgs{}))
	assert.Equal(t, config, env.getConfig(t))

	negative := int64(-1)
	err := env.reconfigure(t, env.admin, &faucet_program.ReconfigureInstructionArgs{CooldownSecs: &negative})
	assertCustomError(t, err, faucet_program.ErrorMalformedInput)
	assert.Equal(t, config, env.getConfig(t))
}

func TestReconfigure_ZeroCooldown(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize(t, tokensPerClaim, 0))
	env.fundPool(t, 10*tokensPerClaim)

	user := env.newUser(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, env.claim(t, user))
	}
	assert.EqualValues(t, 3, env.getUserClaimRecord(t, user).TotalClaims)
}

func TestAdminInstructions_RequireAdmin(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))
	before := env.getConfig(t)

	impostor := env.newFundedKey(t, solLamports)

	amount := uint64(1)
	negative := int64(-1)
	active := false

	for _, args := range []*faucet_program.ReconfigureInstructionArgs{
		{},
		{TokensPerClaim: &amount},
		{IsActive: &active},
		{CooldownSecs: &negative},
	} {
		err := env.reconfigure(t, impostor, args)
		assertCustomError(t, err, faucet_program.ErrorUnauthorizedAdmin)
		assert.True(t, errors.Is(err, ErrUnauthorizedAdmin))
	}

	assertCustomError(t, env.pause(t, impostor), faucet_program.ErrorUnauthorizedAdmin)

	assert.Equal(t, before, env.getConfig(t))

	// Admin not signing
	ix := faucet_program.NewPauseInstruction(
		&faucet_program.PauseInstructionAccounts{
			Admin:  publicKey(env.admin),
			Config: env.config,
		},
		&faucet_program.PauseInstructionArgs{},
	)
	ix.Accounts[0].IsSigner = false
	assertCustomError(t, env.process(t, []ed25519.PrivateKey{impostor}, ix), faucet_program.ErrorMissingSignature)

	// Wrong config
	ix = faucet_program.NewPauseInstruction(
		&faucet_program.PauseInstructionAccounts{
			Admin:  publicKey(env.admin),
			Config: env.pool,
		},
		&faucet_program.PauseInstructionArgs{},
	)
	assertCustomError(t, env.process(t, []ed25519.PrivateKey{env.admin}, ix), faucet_program.ErrorInvalidDerivedAddress)

	assert.True(t, env.getConfig(t).IsActive)
}

func TestProcess_MalformedInstructions(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize(t, tokensPerClaim, cooldownSecs))

	valid := faucet_program.NewPauseInstruction(
		&faucet_program.PauseInstructionAccounts{
			Admin:  publicKey(env.admin),
			Config: env.config,
		},
		&faucet_program.PauseInstructionArgs{},
	)

	for _, data := range [][]byte{
		nil,
		{0xff},
		{byte(faucet_program.InstructionTypePause), 0},
		{byte(faucet_program.InstructionTypeInitialize), 1, 2, 3},
		{byte(faucet_program.InstructionTypeReconfigure), 2},
		{byte(faucet_program.InstructionTypeReconfigure), 0, 0, 1, 2},
	} {
		ix := valid
		ix.Data = data
		assertCustomError(t, env.process(t, []ed25519.PrivateKey{env.admin}, ix), faucet_program.ErrorMalformedInput)
	}

	assert.True(t, env.getConfig(t).IsActive)
}

func (e *testEnv) initialize(t *testing.T, tokensPerClaim uint64, cooldownSecs int64) error {
	ix := faucet_program.NewInitializeInstruction(
		&faucet_program.InitializeInstructionAccounts{
			Admin:  publicKey(e.admin),
			Config: e.config,
			Mint:   e.mint,
		},
		&faucet_program.InitializeInstructionArgs{
			TokensPerClaim: tokensPerClaim,
			CooldownSecs:   cooldownSecs,
		},
	)
	return e.process(t, []ed25519.PrivateKey{e.admin}, ix)
}

func (e *testEnv) claim(t *testing.T, user *testUser) error {
	ix := faucet_program.NewClaimInstruction(e.claimAccounts(t, user), &faucet_program.ClaimInstructionArgs{})
	return e.process(t, []ed25519.PrivateKey{user.key}, ix)
}

func (e *testEnv) reconfigure(t *testing.T, admin ed25519.PrivateKey, args *faucet_program.ReconfigureInstructionArgs) error {
	ix := faucet_program.NewReconfigureInstruction(
		&faucet_program.ReconfigureInstructionAccounts{
			Admin:  publicKey(admin),
			Config: e.config,
		},
		args,
	)
	return e.process(t, []ed25519.PrivateKey{admin}, ix)
}

func (e *testEnv) pause(t *testing.T, admin ed25519.PrivateKey) error {
	ix := faucet_program.NewPauseInstruction(
		&faucet_program.PauseInstructionAccounts{
			Admin:  publicKey(admin),
			Config: e.config,
		},
		&faucet_program.PauseInstructionArgs{},
	)
	return e.process(t, []ed25519.PrivateKey{admin}, ix)
}

func (e *testEnv) process(t *testing.T, signers []ed25519.PrivateKey, instructions ...solana.Instruction) error {
	tx := solana.NewTransaction(publicKey(signers[0]), instructions...)
	require.NoError(t, tx.Sign(signers...))
	return e.bank.ProcessTransaction(e.ctx, tx)
}

func (e *testEnv) claimAccounts(t *testing.T, user *testUser) *faucet_program.ClaimInstructionAccounts {
	return &faucet_program.ClaimInstructionAccounts{
		User:             publicKey(user.key),
		UserClaimRecord:  e.userClaimAddress(t, user),
		UserTokenAccount: user.tokenAccount,
		Pool:             e.pool,
		Config:           e.config,
	}
}

func (e *testEnv) userClaimAddress(t *testing.T, user *testUser) ed25519.PublicKey {
	address, err := faucet_program.GetUserClaimAddress(&faucet_program.GetUserClaimAddressArgs{
		Program: faucet_program.PROGRAM_ID,
		User:    publicKey(user.key),
	})
	require.NoError(t, err)
	return address.Address
}

func (e *testEnv) newUser(t *testing.T) *testUser {
	key := e.newFundedKey(t, solLamports)
	return &testUser{
		key:          key,
		tokenAccount: e.newTokenAccount(t, publicKey(newKey(t)), publicKey(key), 0),
	}
}

func (e *testEnv) fundPool(t *testing.T, amount uint64) {
	e.newTokenAccount(t, e.pool, e.config, amount)
}

func (e *testEnv) newTokenAccount(t *testing.T, address, owner ed25519.PublicKey, amount uint64) ed25519.PublicKey {
	state := &token.Account{
		Mint:   e.mint,
		Owner:  owner,
		Amount: amount,
		State:  token.AccountStateInitialized,
	}
	require.NoError(t, e.bank.SetAccount(e.ctx, &accounts.Account{
		Address:  address,
		Owner:    token.ProgramKey,
		Lamports: e.rent().MinimumBalance(token.AccountSize),
		Data:     state.Marshal(),
	}))
	return address
}

// prefund sends lamports to address from an unrelated account
func (e *testEnv) prefund(t *testing.T, address ed25519.PublicKey, lamports uint64) {
	funder := e.newFundedKey(t, solLamports)
	ix := system.Transfer(publicKey(funder), address, lamports)
	require.NoError(t, e.process(t, []ed25519.PrivateKey{funder}, ix))
}

func (e *testEnv) newFundedKey(t *testing.T, lamports uint64) ed25519.PrivateKey {
	key := newKey(t)
	require.NoError(t, e.bank.SetAccount(e.ctx, &accounts.Account{
		Address:  publicKey(key),
		Owner:    runtime.SystemProgramID,
		Lamports: lamports,
	}))
	return key
}

func (e *testEnv) getConfig(t *testing.T) *faucet_program.FaucetConfigAccount {
	account, err := e.bank.GetAccount(e.ctx, e.config)
	require.NoError(t, err)

	var config faucet_program.FaucetConfigAccount
	require.NoError(t, config.Unmarshal(account.Data))
	return &config
}

func (e *testEnv) getUserClaimRecord(t *testing.T, user *testUser) *faucet_program.UserClaimRecordAccount {
	account, err := e.bank.GetAccount(e.ctx, e.userClaimAddress(t, user))
	require.NoError(t, err)
	if account.IsEmpty() {
		return nil
	}

	var record faucet_program.UserClaimRecordAccount
	require.NoError(t, record.Unmarshal(account.Data))
	return &record
}

func (e *testEnv) tokenBalance(t *testing.T, address ed25519.PublicKey) uint64 {
	account, err := e.bank.GetAccount(e.ctx, address)
	require.NoError(t, err)

	var state token.Account
	require.True(t, state.Unmarshal(account.Data))
	return state.Amount
}

func (e *testEnv) lamports(t *testing.T, address ed25519.PublicKey) uint64 {
	account, err := e.bank.GetAccount(e.ctx, address)
	require.NoError(t, err)
	return account.Lamports
}

func (e *testEnv) rent() runtime.Rent {
	return e.bank.Rent(e.ctx)
}

func assertCustomError(t *testing.T, err error, expected solana.CustomError) {
	ixErr := assertInstructionError(t, err, solana.InstructionErrorCustom)
	require.NotNil(t, ixErr.CustomError())
	assert.Equal(t, expected, *ixErr.CustomError())
}

func assertNotFaucetError(t *testing.T, err error) {
	for _, faucetErr := range []error{
		ErrMalformedInput,
		ErrMissingSignature,
		ErrInvalidDerivedAddress,
		ErrUnauthorizedAdmin,
		ErrFaucetInactive,
		ErrCooldownNotMet,
		ErrInsufficientFunds,
	} {
		assert.False(t, errors.Is(err, faucetErr), "matched %v", faucetErr)
	}
}

func assertInstructionError(t *testing.T, err error, expected solana.InstructionErrorKey) *solana.InstructionError {
	require.Error(t, err)

	var txErr *solana.TransactionError
	require.True(t, errors.As(err, &txErr))
	require.Equal(t, solana.TransactionErrorInstructionError, txErr.ErrorKey())

	ixErr := txErr.InstructionError()
	require.NotNil(t, ixErr)
	assert.Equal(t, 0, ixErr.Index)
	assert.Equal(t, expected, ixErr.ErrorKey())
	return ixErr
}

func newKey(t *testing.T) ed25519.PrivateKey {
	_, key, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return key
}

func publicKey(key ed25519.PrivateKey) ed25519.PublicKey {
	return key.Public().(ed25519.PublicKey)
}
