package runtime

import (
	"context"
	"crypto/ed25519"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-faucet/pkg/metrics"
	"github.com/code-payments/code-faucet/pkg/solana"
	"github.com/code-payments/code-faucet/pkg/solana/runtime/accounts"
	"github.com/code-payments/code-faucet/pkg/solana/system"
	"github.com/code-payments/code-faucet/pkg/solana/token"
	faucet_sync "github.com/code-payments/code-faucet/pkg/sync"
)

const (
	metricsStructName = "solana.runtime.bank"
)

var (
	// SystemProgramID is the address of the builtin system program
	SystemProgramID = ed25519.PublicKey(system.ProgramKey[:])

	// NativeLoaderID owns every builtin program account
	NativeLoaderID = mustDecodeKey("NativeLoader1111111111111111111111111111111")
)

// Bank executes transactions against persistent account state. Each
// transaction is applied atomically: either every account change it makes is
// saved, or none are.
type Bank struct {
	log   *logrus.Entry
	conf  *conf
	store accounts.Store
	clock Clock
	locks *faucet_sync.StripedLock

	programsMu sync.RWMutex
	programs   map[string]Program
}

// NewBank returns a Bank with the system and token programs registered.
func NewBank(store accounts.Store, clock Clock, configProvider ConfigProvider) *Bank {
	conf := configProvider()

	stripes := conf.accountLockStripes.Get(context.Background())
	if stripes == 0 {
		stripes = defaultAccountLockStripes
	}

	b := &Bank{
		log:      logrus.StandardLogger().WithField("type", "solana/runtime/bank"),
		conf:     conf,
		store:    store,
		clock:    clock,
		locks:    faucet_sync.NewStripedLock(uint(stripes)),
		programs: make(map[string]Program),
	}

	b.RegisterProgram(SystemProgramID, &systemProgram{})
	b.RegisterProgram(token.ProgramKey, &tokenProgram{})

	return b
}

// RegisterProgram makes program executable at programID, replacing any program
// already registered there.
func (b *Bank) RegisterProgram(programID ed25519.PublicKey, program Program) {
	b.programsMu.Lock()
	b.programs[string(programID)] = program
	b.programsMu.Unlock()
}

func (b *Bank) getProgram(programID ed25519.PublicKey) (Program, bool) {
	b.programsMu.RLock()
	defer b.programsMu.RUnlock()

	program, ok := b.programs[string(programID)]
	return program, ok
}

// Rent returns the current rent parameters
func (b *Bank) Rent(ctx context.Context) Rent {
	return Rent{
		LamportsPerByteYear: b.conf.rentLamportsPerByteYear.Get(ctx),
		ExemptionThreshold:  b.conf.rentExemptionThreshold.Get(ctx),
	}
}

// GetAccount returns the latest committed state of an account. Addresses that
// were never written are returned as empty accounts owned by the system
// program.
func (b *Bank) GetAccount(ctx context.Context, address ed25519.PublicKey) (*accounts.Account, error) {
	account, err := b.store.Get(ctx, address)
	if err == accounts.ErrAccountNotFound {
		return accounts.New(address, SystemProgramID), nil
	} else if err != nil {
		return nil, err
	}
	return account, nil
}

// GetProgramAccounts returns the latest committed state of every account
// owned by programID, ordered by address.
func (b *Bank) GetProgramAccounts(ctx context.Context, programID ed25519.PublicKey) ([]*accounts.Account, error) {
	res, err := b.store.GetAllByOwner(ctx, programID)
	if err == accounts.ErrAccountNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return res, nil
}

// SetAccount overwrites the state of an account outside of any transaction.
// It's intended for genesis and test setup.
func (b *Bank) SetAccount(ctx context.Context, account *accounts.Account) error {
	unlock := b.locks.LockAll([][]byte{account.Address}, nil)
	defer unlock()

	record := account.Clone()
	record.Version = 0

	existing, err := b.store.Get(ctx, account.Address)
	if err == nil {
		record.Version = existing.Version
	} else if err != accounts.ErrAccountNotFound {
		return err
	}

	if err := b.store.Save(ctx, record); err != nil {
		return err
	}
	record.CopyTo(account)
	return nil
}

// ProcessTransaction verifies and executes tx. Failures are reported as a
// *solana.TransactionError, which wraps a *solana.InstructionError when an
// instruction failed.
func (b *Bank) ProcessTransaction(ctx context.Context, tx solana.Transaction) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ProcessTransaction")
	defer tracer.End()

	start := time.Now()
	defer func() {
		tracer.OnError(err)
		metrics.RecordDuration(ctx, "solana.runtime.transaction_duration", time.Since(start))
	}()

	log := b.log.WithField("method", "ProcessTransaction")
	if len(tx.Signatures) > 0 {
		log = log.WithField("signature", base58.Encode(tx.Signature()))
	}

	m := tx.Message
	tracer.AddAttribute("instructions", len(m.Instructions))

	if !b.conf.disableSignatureVerification {
		if err := tx.VerifySignatures(); err != nil {
			log.WithError(err).Debug("signature verification failed")
			return solana.NewTransactionError(solana.TransactionErrorSignatureFailure)
		}
	}

	if txErr := b.sanitize(m); txErr != nil {
		log.WithError(txErr).Debug("transaction failed sanitization")
		return txErr
	}

	var writable, readonly [][]byte
	for i, key := range m.Accounts {
		if m.IsWritable(i) {
			writable = append(writable, key)
		} else {
			readonly = append(readonly, key)
		}
	}
	unlock := b.locks.LockAll(writable, readonly)
	defer unlock()

	loaded := make([]*accounts.Account, len(m.Accounts))
	infos := make([]*AccountInfo, len(m.Accounts))
	for i, key := range m.Accounts {
		loaded[i], err = b.loadAccount(ctx, key)
		if err != nil {
			log.WithError(err).Warn("failure loading account")
			return solana.NewTransactionError(solana.TransactionErrorInternal)
		}

		infos[i] = &AccountInfo{
			Key:        key,
			IsSigner:   m.IsSigner(i),
			IsWritable: m.IsWritable(i),
			Account:    loaded[i].Clone(),
		}
	}

	exec := &execution{
		unixTimestamp:  b.clock.Now().Unix(),
		rent:           b.Rent(ctx),
		maxInvokeDepth: int(b.conf.maxInvokeDepth.Get(ctx)),
	}

	for i, ix := range m.Instructions {
		ixAccounts := make([]*AccountInfo, len(ix.Accounts))
		for j, index := range ix.Accounts {
			ixAccounts[j] = infos[index]
		}

		err := b.processInstruction(ctx, exec, m.Accounts[ix.ProgramIndex], ixAccounts, ix.Data, 1)
		if err != nil {
			ixErr := solana.NewInstructionError(i, err)
			log.WithError(err).WithFields(logrus.Fields{
				"instruction": i,
				"error_key":   ixErr.ErrorKey(),
			}).Debug("instruction failed")
			return solana.TransactionErrorFromInstructionError(ixErr)
		}
	}

	var changed []*accounts.Account
	for i, info := range infos {
		if info.StateEquals(loaded[i]) {
			continue
		}

		if !isValidRentTransition(exec.rent, loaded[i], info.Account) {
			log.WithField("account", base58.Encode(info.Key)).Debug("account left below rent-exempt minimum")
			return solana.NewTransactionError(solana.TransactionErrorInsufficientFundsForRent)
		}

		changed = append(changed, info.Account)
	}

	if len(changed) == 0 {
		return nil
	}

	err = b.store.Save(ctx, changed...)
	if err == accounts.ErrStaleVersion {
		log.Debug("account state changed while executing")
		return solana.NewTransactionError(solana.TransactionErrorAccountInUse)
	} else if err != nil {
		log.WithError(err).Warn("failure saving accounts")
		return solana.NewTransactionError(solana.TransactionErrorInternal)
	}

	metrics.RecordCount(ctx, "solana.runtime.accounts_written", uint64(len(changed)))
	return nil
}

func (b *Bank) processInstruction(ctx context.Context, exec *execution, programID ed25519.PublicKey, infos []*AccountInfo, data []byte, depth int) error {
	program, ok := b.getProgram(programID)
	if !ok {
		return errors.Wrapf(ErrUnsupportedProgramID, "program %s", base58.Encode(programID))
	}

	inv := &invocation{
		bank:      b,
		exec:      exec,
		programID: programID,
		accounts:  infos,
		depth:     depth,
		pre:       snapshot(infos),
	}

	if err := program.Process(ctx, inv, programID, infos, data); err != nil {
		return err
	}

	return inv.verify()
}

func (b *Bank) sanitize(m solana.Message) *solana.TransactionError {
	if len(m.Accounts) < int(m.Header.NumSignatures) {
		return solana.NewTransactionError(solana.TransactionErrorSanitizeFailure)
	}

	seen := make(map[string]struct{}, len(m.Accounts))
	for _, key := range m.Accounts {
		if len(key) != ed25519.PublicKeySize {
			return solana.NewTransactionError(solana.TransactionErrorSanitizeFailure)
		}
		if _, ok := seen[string(key)]; ok {
			return solana.NewTransactionError(solana.TransactionErrorAccountLoadedTwice)
		}
		seen[string(key)] = struct{}{}
	}

	for _, ix := range m.Instructions {
		if int(ix.ProgramIndex) >= len(m.Accounts) {
			return solana.NewTransactionError(solana.TransactionErrorInvalidAccountIndex)
		}
		for _, index := range ix.Accounts {
			if int(index) >= len(m.Accounts) {
				return solana.NewTransactionError(solana.TransactionErrorInvalidAccountIndex)
			}
		}

		if _, ok := b.getProgram(m.Accounts[ix.ProgramIndex]); !ok {
			return solana.NewTransactionError(solana.TransactionErrorProgramAccountNotFound)
		}
		if m.IsWritable(int(ix.ProgramIndex)) {
			return solana.NewTransactionError(solana.TransactionErrorInvalidProgramForExecution)
		}
	}

	return nil
}

func (b *Bank) loadAccount(ctx context.Context, key ed25519.PublicKey) (*accounts.Account, error) {
	if _, ok := b.getProgram(key); ok {
		return &accounts.Account{
			Address:    key,
			Owner:      NativeLoaderID,
			Lamports:   1,
			Executable: true,
		}, nil
	}

	return b.GetAccount(ctx, key)
}

// isValidRentTransition reports whether an account may end a transaction in
// post. Accounts can't newly become rent paying, nor stay rent paying while
// resizing.
func isValidRentTransition(rent Rent, pre, post *accounts.Account) bool {
	isRentPaying := func(a *accounts.Account) bool {
		return a.Lamports > 0 && !rent.IsExempt(a.Lamports, len(a.Data))
	}

	if !isRentPaying(post) {
		return true
	}
	return isRentPaying(pre) && len(pre.Data) == len(post.Data)
}

func mustDecodeKey(value string) ed25519.PublicKey {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		panic("invalid key length")
	}
	return decoded
}
