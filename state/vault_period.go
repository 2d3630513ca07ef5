package state

import (
	"errors"
	"math"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/dcaflow/drip-go/dripmath"
)

var (
	ErrDarOverflow  = errors.New("vault period dar overflow")
	ErrDarUnderflow = errors.New("vault period dar underflow")
)

// VaultPeriod is one entry of a vault's append-only period ledger. Twap is
// the cumulative Q64.64 average execution price through this period; Dar is
// the aggregate periodic drip amount of positions whose coverage ends exactly
// here.
type VaultPeriod struct {
	Vault solanago.PublicKey

	// offset from the vault's genesis period (0, 1, ...)
	PeriodID uint64
	Dar      uint64
	Twap     binary.Uint128

	DripTimestamp int64
}

func (p *VaultPeriod) Init(vault solanago.PublicKey, periodID uint64) {
	p.Vault = vault
	p.PeriodID = periodID
	p.Dar = 0
	p.Twap = binary.Uint128{}
	p.DripTimestamp = 0
}

func (p *VaultPeriod) IncreaseDripAmountToReduce(extraDrip uint64) error {
	if p.Dar > math.MaxUint64-extraDrip {
		return ErrDarOverflow
	}
	p.Dar += extraDrip
	return nil
}

// DecreaseDripAmountToReduce errors on underflow; that would mean a position
// was retired twice.
func (p *VaultPeriod) DecreaseDripAmountToReduce(positionDrip uint64) error {
	if positionDrip > p.Dar {
		return ErrDarUnderflow
	}
	p.Dar -= positionDrip
	return nil
}

// UpdateTwap folds the price of the swap executed during this period into the
// cumulative average, based on the immediately preceding period's TWAP.
// Called exactly once, when the drip for this period executes.
func (p *VaultPeriod) UpdateTwap(lastPeriod *VaultPeriod, sentA, receivedB uint64) error {
	price, err := dripmath.Price(receivedB, sentA)
	if err != nil {
		return err
	}
	twap, err := dripmath.NewTwap(lastPeriod.Twap, p.PeriodID, price)
	if err != nil {
		return err
	}
	p.Twap = twap
	return nil
}

func (p *VaultPeriod) UpdateDripTimestamp(now int64) {
	p.DripTimestamp = now
}
