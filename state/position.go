package state

import (
	"errors"
	"math"

	solanago "github.com/gagliardetto/solana-go"
)

var (
	ErrWithdrawnExceedsMax     = errors.New("withdrawn amount exceeds max withdrawable")
	ErrWithdrawnAmountOverflow = errors.New("withdrawn amount overflow")
)

// Position is one user deposit and its pro-rata claim on the vault's drips,
// identified by the position-authority NFT mint. Coverage interval is
// [DripPeriodIDBeforeDeposit, DripPeriodIDBeforeDeposit+NumberOfSwaps) in
// period-id space.
type Position struct {
	Vault             solanago.PublicKey
	PositionAuthority solanago.PublicKey
	Referrer          solanago.PublicKey

	DepositedTokenAAmount uint64
	// amount sent to the user plus amounts sent to treasury/referrer
	WithdrawnTokenBAmount uint64
	DepositTimestamp      int64

	// the vault period that completed prior to this deposit
	DripPeriodIDBeforeDeposit uint64
	NumberOfSwaps             uint64
	// DepositedTokenAAmount / NumberOfSwaps, floor division
	PeriodicDripAmount uint64

	IsClosed bool
}

func (p *Position) Init(
	vault solanago.PublicKey,
	positionNFTMint solanago.PublicKey,
	referrer solanago.PublicKey,
	depositedAmount uint64,
	lastDripPeriod uint64,
	numberOfSwaps uint64,
	periodicDripAmount uint64,
	now int64,
) {
	p.Vault = vault
	p.PositionAuthority = positionNFTMint
	p.Referrer = referrer
	p.DepositedTokenAAmount = depositedAmount
	p.WithdrawnTokenBAmount = 0
	p.DepositTimestamp = now
	p.DripPeriodIDBeforeDeposit = lastDripPeriod
	p.NumberOfSwaps = numberOfSwaps
	p.PeriodicDripAmount = periodicDripAmount
	p.IsClosed = false
}

// WithdrawableAmountWithMax is the delta still owed to the position given the
// maximum ever attributable to it. An already-withdrawn amount above the max
// is a consistency violation, not a valid state.
func (p *Position) WithdrawableAmountWithMax(maxWithdrawableTokenB uint64) (uint64, error) {
	if p.WithdrawnTokenBAmount > maxWithdrawableTokenB {
		return 0, ErrWithdrawnExceedsMax
	}
	return maxWithdrawableTokenB - p.WithdrawnTokenBAmount, nil
}

func (p *Position) IncreaseWithdrawnAmount(amount uint64) error {
	if p.WithdrawnTokenBAmount > math.MaxUint64-amount {
		return ErrWithdrawnAmountOverflow
	}
	p.WithdrawnTokenBAmount += amount
	return nil
}

func (p *Position) Close() {
	p.IsClosed = true
}

// Expiry is the period id at which the position's coverage ends.
func (p *Position) Expiry() uint64 {
	return p.DripPeriodIDBeforeDeposit + p.NumberOfSwaps
}
