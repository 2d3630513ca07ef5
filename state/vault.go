package state

import (
	"errors"
	"math"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/dcaflow/drip-go/dripmath"
)

const VaultSwapWhitelistSize = 5

const (
	MaxSlippageLowerLimitExclusive uint16 = 0
	MaxSlippageUpperLimitExclusive uint16 = 10_000
)

var (
	ErrDripAmountOverflow  = errors.New("vault drip amount overflow")
	ErrDripAmountUnderflow = errors.New("vault drip amount underflow")
)

// Vault is the aggregate ledger for one (tokenA, tokenB, protoConfig) triple.
// DripAmount is always the sum of PeriodicDripAmount over every open position
// whose coverage interval still includes LastDripPeriod+1.
type Vault struct {
	ProtoConfig           solanago.PublicKey
	TokenAMint            solanago.PublicKey
	TokenBMint            solanago.PublicKey
	TokenAAccount         solanago.PublicKey
	TokenBAccount         solanago.PublicKey
	TreasuryTokenBAccount solanago.PublicKey
	WhitelistedSwaps      [VaultSwapWhitelistSize]solanago.PublicKey

	LastDripPeriod          uint64
	DripAmount              uint64
	DripActivationTimestamp int64
	LimitSwaps              bool
	MaxSlippageBps          uint16

	OracleConfig solanago.PublicKey
}

func (v *Vault) Init(
	protoConfig solanago.PublicKey,
	tokenAMint solanago.PublicKey,
	tokenBMint solanago.PublicKey,
	tokenAAccount solanago.PublicKey,
	tokenBAccount solanago.PublicKey,
	treasuryTokenBAccount solanago.PublicKey,
	whitelistedSwaps []solanago.PublicKey,
	maxSlippageBps uint16,
	granularity uint64,
	now int64,
) {
	v.ProtoConfig = protoConfig
	v.TokenAMint = tokenAMint
	v.TokenBMint = tokenBMint
	v.TokenAAccount = tokenAAccount
	v.TokenBAccount = tokenBAccount
	v.TreasuryTokenBAccount = treasuryTokenBAccount
	v.MaxSlippageBps = maxSlippageBps

	v.LastDripPeriod = 0
	v.DripAmount = 0

	// snap to a timestamp for this granularity, either now or the past
	v.DripActivationTimestamp = dripmath.DripActivationTimestamp(now, granularity, false)

	v.SetWhitelistedSwaps(whitelistedSwaps)
}

func (v *Vault) IncreaseDripAmount(extraDrip uint64) error {
	if v.DripAmount > math.MaxUint64-extraDrip {
		return ErrDripAmountOverflow
	}
	v.DripAmount += extraDrip
	return nil
}

func (v *Vault) DecreaseDripAmount(positionDrip uint64) error {
	if positionDrip > v.DripAmount {
		return ErrDripAmountUnderflow
	}
	v.DripAmount -= positionDrip
	return nil
}

// ProcessDrip retires the positions expiring at currentPeriod, advances the
// period pointer and re-arms the activation gate at the next window start.
func (v *Vault) ProcessDrip(currentPeriod *VaultPeriod, granularity uint64, now int64) error {
	if err := v.DecreaseDripAmount(currentPeriod.Dar); err != nil {
		return err
	}
	v.LastDripPeriod = currentPeriod.PeriodID
	v.DripActivationTimestamp = dripmath.DripActivationTimestamp(now, granularity, true)
	return nil
}

func (v *Vault) SetWhitelistedSwaps(whitelistedSwaps []solanago.PublicKey) {
	v.LimitSwaps = len(whitelistedSwaps) > 0
	v.WhitelistedSwaps = [VaultSwapWhitelistSize]solanago.PublicKey{}
	for i, swap := range whitelistedSwaps {
		v.WhitelistedSwaps[i] = swap
	}
}

func (v *Vault) SetMaxSlippageBps(maxSlippageBps uint16) {
	v.MaxSlippageBps = maxSlippageBps
}

func (v *Vault) SetOracleConfig(oracleConfig solanago.PublicKey) {
	v.OracleConfig = oracleConfig
}

func (v *Vault) IsDripActivated(now int64) bool {
	return now >= v.DripActivationTimestamp
}

// IsSwapWhitelisted reports whether the venue may be used when LimitSwaps is
// on; an empty whitelist disables the check.
func (v *Vault) IsSwapWhitelisted(swap solanago.PublicKey) bool {
	if !v.LimitSwaps {
		return true
	}
	for _, allowed := range v.WhitelistedSwaps {
		if allowed.Equals(swap) {
			return true
		}
	}
	return false
}
