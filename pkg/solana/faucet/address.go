package faucet

import (
	"crypto/ed25519"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/code-payments/code-faucet/pkg/solana"
	"github.com/code-payments/code-faucet/pkg/solana/token"
)

var (
	ConfigPrefix    = []byte("faucet-config")
	UserClaimPrefix = []byte("user-claim")
)

// Derived addresses are cached per program and seed set.
const addressCacheSize = 10_000

var addressCache *lru.Cache

func init() {
	var err error
	addressCache, err = lru.New(addressCacheSize)
	if err != nil {
		panic(err)
	}
}

type GetConfigAddressArgs struct {
	Program ed25519.PublicKey
}

func GetConfigAddress(args *GetConfigAddressArgs) (*solana.ProgramDerivedAddress, error) {
	return deriveCached(
		args.Program,
		ConfigPrefix,
	)
}

type GetUserClaimAddressArgs struct {
	Program ed25519.PublicKey
	User    ed25519.PublicKey
}

func GetUserClaimAddress(args *GetUserClaimAddressArgs) (*solana.ProgramDerivedAddress, error) {
	return deriveCached(
		args.Program,
		UserClaimPrefix,
		args.User,
	)
}

type GetPoolAddressArgs struct {
	Config ed25519.PublicKey
	Mint   ed25519.PublicKey
}

// GetPoolAddress returns the custodial token account the faucet distributes from,
// which is the config's associated account for the mint.
func GetPoolAddress(args *GetPoolAddressArgs) (ed25519.PublicKey, error) {
	return token.GetAssociatedAccount(args.Config, args.Mint)
}

func deriveCached(program ed25519.PublicKey, seeds ...[]byte) (*solana.ProgramDerivedAddress, error) {
	var sb strings.Builder
	sb.Write(program)
	for _, seed := range seeds {
		sb.WriteByte(byte(len(seed)))
		sb.Write(seed)
	}
	key := sb.String()

	if cached, ok := addressCache.Get(key); ok {
		pda := *cached.(*solana.ProgramDerivedAddress)
		return &pda, nil
	}

	pda, err := solana.DeriveProgramAddress(program, seeds...)
	if err != nil {
		return nil, err
	}

	addressCache.Add(key, pda)

	copied := *pda
	return &copied, nil
}
