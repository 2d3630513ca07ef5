package vault

import (
	"context"
	"fmt"
	"testing"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	soltoken "github.com/dcaflow/drip-go/solana"
	"github.com/dcaflow/drip-go/state"
)

// simLedger is an in-memory token ledger standing in for the chain.
type simLedger struct {
	balances map[solanago.PublicKey]uint64
	minted   map[solanago.PublicKey]uint64
	burned   map[solanago.PublicKey]uint64
	revoked  map[solanago.PublicKey]bool
	closed   map[solanago.PublicKey]bool
}

func newSimLedger() *simLedger {
	return &simLedger{
		balances: map[solanago.PublicKey]uint64{},
		minted:   map[solanago.PublicKey]uint64{},
		burned:   map[solanago.PublicKey]uint64{},
		revoked:  map[solanago.PublicKey]bool{},
		closed:   map[solanago.PublicKey]bool{},
	}
}

func (l *simLedger) Transfer(_ context.Context, from, to, _ solanago.PublicKey, amount uint64) error {
	if l.balances[from] < amount {
		return fmt.Errorf("insufficient balance in %s", from)
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

func (l *simLedger) MintTo(_ context.Context, mint, to, _ solanago.PublicKey, amount uint64) error {
	if l.revoked[mint] {
		return fmt.Errorf("mint authority revoked for %s", mint)
	}
	l.minted[mint] += amount
	l.balances[to] += amount
	return nil
}

func (l *simLedger) Burn(_ context.Context, mint, from, _ solanago.PublicKey, amount uint64) error {
	if l.balances[from] < amount {
		return fmt.Errorf("insufficient balance in %s", from)
	}
	l.balances[from] -= amount
	l.burned[mint] += amount
	return nil
}

func (l *simLedger) RevokeMintAuthority(_ context.Context, mint, _ solanago.PublicKey) error {
	l.revoked[mint] = true
	return nil
}

func (l *simLedger) CloseAccount(_ context.Context, account, _, _ solanago.PublicKey) error {
	if l.balances[account] != 0 {
		return fmt.Errorf("cannot close non-empty account %s", account)
	}
	l.closed[account] = true
	return nil
}

func (l *simLedger) Balance(_ context.Context, tokenAccount solanago.PublicKey) (uint64, error) {
	return l.balances[tokenAccount], nil
}

// simSwap sells the vault's token A for token B at a fixed B-per-A price.
type simSwap struct {
	ledger  *simLedger
	address solanago.PublicKey

	vaultTokenA solanago.PublicKey
	vaultTokenB solanago.PublicKey

	priceBPerA uint64
	// when set, the swap consumes token A but returns no token B
	failSilently bool
}

func (s *simSwap) Address() solanago.PublicKey { return s.address }

func (s *simSwap) Swap(_ context.Context, _ solanago.PublicKey, amountIn uint64, _ uint16) error {
	if s.ledger.balances[s.vaultTokenA] < amountIn {
		return fmt.Errorf("swap exceeds vault reserve")
	}
	s.ledger.balances[s.vaultTokenA] -= amountIn
	if !s.failSilently {
		s.ledger.balances[s.vaultTokenB] += amountIn * s.priceBPerA
	}
	return nil
}

type dripTestEnv struct {
	t      *testing.T
	ctx    context.Context
	ledger *simLedger
	engine *Engine
	now    int64

	admin solanago.PublicKey
	user  solanago.PublicKey

	protoConfig state.Record[state.VaultProtoConfig]
	vault       state.Record[state.Vault]
	periods     map[uint64]state.Record[state.VaultPeriod]

	vaultTokenA    solanago.PublicKey
	vaultTokenB    solanago.PublicKey
	treasuryTokenB solanago.PublicKey
	dripFeeTokenA  solanago.PublicKey
	userTokenA     solanago.PublicKey
	userTokenB     solanago.PublicKey
	referrerTokenB solanago.PublicKey

	swap *simSwap
}

func pubkey() solanago.PublicKey {
	return solanago.NewWallet().PublicKey()
}

const testGranularity = uint64(60)

func newDripTestEnv(t *testing.T, triggerSpread, withdrawalSpread, referralSpread uint16) *dripTestEnv {
	env := &dripTestEnv{
		t:       t,
		ctx:     context.Background(),
		ledger:  newSimLedger(),
		now:     100,
		admin:   pubkey(),
		user:    pubkey(),
		periods: map[uint64]state.Record[state.VaultPeriod]{},

		vaultTokenA:    pubkey(),
		vaultTokenB:    pubkey(),
		treasuryTokenB: pubkey(),
		dripFeeTokenA:  pubkey(),
		userTokenA:     pubkey(),
		userTokenB:     pubkey(),
		referrerTokenB: pubkey(),
	}
	env.engine = NewEngine(env.ledger, WithClock(func() time.Time {
		return time.Unix(env.now, 0)
	}))

	env.protoConfig = state.NewRecord(pubkey(), &state.VaultProtoConfig{})
	require.NoError(t, env.engine.InitVaultProtoConfig(env.protoConfig, InitVaultProtoConfigParams{
		Granularity:             testGranularity,
		TokenADripTriggerSpread: triggerSpread,
		TokenBWithdrawalSpread:  withdrawalSpread,
		TokenBReferralSpread:    referralSpread,
		Admin:                   env.admin,
	}))

	env.vault = state.NewRecord(pubkey(), &state.Vault{})
	env.swap = &simSwap{
		ledger:      env.ledger,
		address:     pubkey(),
		vaultTokenA: env.vaultTokenA,
		vaultTokenB: env.vaultTokenB,
		priceBPerA:  2,
	}
	require.NoError(t, env.engine.InitVault(InitVaultAccounts{
		Creator:               env.admin,
		Vault:                 env.vault,
		VaultProtoConfig:      env.protoConfig,
		TokenAMint:            pubkey(),
		TokenBMint:            pubkey(),
		TokenAAccount:         env.vaultTokenA,
		TokenBAccount:         env.vaultTokenB,
		TreasuryTokenBAccount: env.treasuryTokenB,
	}, InitVaultParams{
		WhitelistedSwaps: []solanago.PublicKey{env.swap.address},
		MaxSlippageBps:   500,
	}))

	env.period(0)
	env.ledger.balances[env.userTokenA] = 1_000_000
	return env
}

// period returns the vault period record for id, initializing it on first use.
func (env *dripTestEnv) period(id uint64) state.Record[state.VaultPeriod] {
	if record, ok := env.periods[id]; ok {
		return record
	}
	record := state.NewRecord(pubkey(), &state.VaultPeriod{})
	require.NoError(env.t, env.engine.InitVaultPeriod(InitVaultPeriodAccounts{
		Vault:       env.vault,
		VaultPeriod: record,
	}, id))
	env.periods[id] = record
	return record
}

type testPosition struct {
	record     state.Record[state.Position]
	nftMint    solanago.PublicKey
	nftAccount *soltoken.Account
	referrer   solanago.PublicKey
}

func (env *dripTestEnv) depositAccounts(amount, numberOfSwaps uint64, referrer solanago.PublicKey) (DepositAccounts, DepositParams, *testPosition) {
	position := &testPosition{
		record:   state.NewRecord(pubkey(), &state.Position{}),
		nftMint:  pubkey(),
		referrer: referrer,
	}
	nftAccountAddress := pubkey()
	accounts := DepositAccounts{
		Depositor:              env.user,
		Vault:                  env.vault,
		VaultProtoConfig:       env.protoConfig,
		VaultPeriodEnd:         env.period(env.vault.Data.LastDripPeriod + numberOfSwaps),
		VaultTokenAAccount:     env.vaultTokenA,
		UserTokenAAccount:      env.userTokenA,
		UserPosition:           position.record,
		UserPositionNFTMint:    position.nftMint,
		UserPositionNFTAccount: nftAccountAddress,
		Referrer:               referrer,
	}
	position.nftAccount = &soltoken.Account{
		Address: nftAccountAddress,
		Mint:    position.nftMint,
		Owner:   env.user,
		Amount:  1,
	}
	return accounts, DepositParams{
		TokenADepositAmount: amount,
		NumberOfSwaps:       numberOfSwaps,
	}, position
}

func (env *dripTestEnv) deposit(amount, numberOfSwaps uint64, referrer solanago.PublicKey) *testPosition {
	accounts, params, position := env.depositAccounts(amount, numberOfSwaps, referrer)
	_, err := env.engine.Deposit(env.ctx, accounts, params)
	require.NoError(env.t, err)
	return position
}

func (env *dripTestEnv) dripAccounts() DripAccounts {
	last := env.vault.Data.LastDripPeriod
	return DripAccounts{
		Vault:                env.vault,
		VaultProtoConfig:     env.protoConfig,
		LastVaultPeriod:      env.period(last),
		CurrentVaultPeriod:   env.period(last + 1),
		VaultTokenAAccount:   env.vaultTokenA,
		VaultTokenBAccount:   env.vaultTokenB,
		DripFeeTokenAAccount: env.dripFeeTokenA,
		Swap:                 env.swap,
	}
}

// drip advances the clock to the vault's activation timestamp and drips once.
func (env *dripTestEnv) drip() *DripResult {
	env.now = env.vault.Data.DripActivationTimestamp
	result, err := env.engine.Drip(env.ctx, env.dripAccounts())
	require.NoError(env.t, err)
	return result
}

func (env *dripTestEnv) withdrawCommon(position *testPosition) WithdrawCommonAccounts {
	positionData := position.record.Data
	periodJ := min(env.vault.Data.LastDripPeriod, positionData.Expiry())
	return WithdrawCommonAccounts{
		Withdrawer:                 env.user,
		Vault:                      env.vault,
		VaultProtoConfig:           env.protoConfig,
		VaultPeriodI:               env.period(positionData.DripPeriodIDBeforeDeposit),
		VaultPeriodJ:               env.period(periodJ),
		UserPosition:               position.record,
		UserPositionNFTAccount:     position.nftAccount,
		VaultTokenBAccount:         env.vaultTokenB,
		VaultTreasuryTokenBAccount: env.treasuryTokenB,
		UserTokenBAccount:          env.userTokenB,
		Referrer:                   position.referrer,
	}
}

func (env *dripTestEnv) closeAccounts(position *testPosition) ClosePositionAccounts {
	return ClosePositionAccounts{
		Common:                env.withdrawCommon(position),
		VaultPeriodUserExpiry: env.period(position.record.Data.Expiry()),
		VaultTokenAAccount:    env.vaultTokenA,
		UserTokenAAccount: &soltoken.Account{
			Address: env.userTokenA,
			Mint:    env.vault.Data.TokenAMint,
			Owner:   env.user,
			Amount:  env.ledger.balances[env.userTokenA],
		},
		UserPositionNFTMint: position.nftMint,
	}
}
