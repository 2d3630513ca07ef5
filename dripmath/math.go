package dripmath

import (
	"errors"
	"math/big"

	binary "github.com/gagliardetto/binary"

	"github.com/dcaflow/drip-go/u128"
)

// Basis points denominator for all spread math.
const MaxBasisPoint = 10_000

var (
	ErrDivisionByZero = errors.New("SafeMath: division by zero")
	ErrUnderflow      = errors.New("SafeMath: subtraction overflow")
	ErrOverflow       = errors.New("SafeMath: multiplication overflow")
	ErrNarrowing      = errors.New("SafeMath: value does not fit target width")
)

func checkU64(v *big.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrNarrowing
	}
	return v.Uint64(), nil
}

func checkU128(v *big.Int) (*big.Int, error) {
	if v.Sign() < 0 {
		return nil, ErrUnderflow
	}
	if v.BitLen() > 128 {
		return nil, ErrOverflow
	}
	return v, nil
}

func mul128(a, b *big.Int) (*big.Int, error) {
	return checkU128(new(big.Int).Mul(a, b))
}

func sub128(a, b *big.Int) (*big.Int, error) {
	if b.Cmp(a) > 0 {
		return nil, ErrUnderflow
	}
	return new(big.Int).Sub(a, b), nil
}

func add128(a, b *big.Int) (*big.Int, error) {
	return checkU128(new(big.Int).Add(a, b))
}

func div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	return new(big.Int).Div(a, b), nil
}

// PeriodicDripAmount is the token A contributed by a position to each of its
// periods: floor(totalAmount / numberOfSwaps). The remainder of the floor
// division is never dripped and never refunded.
func PeriodicDripAmount(totalAmount, numberOfSwaps uint64) (uint64, error) {
	if numberOfSwaps == 0 {
		return 0, ErrDivisionByZero
	}
	return totalAmount / numberOfSwaps, nil
}

// SpreadAmount computes floor(amount * spread / 10000) with the
// multiplication widened to 128 bits before narrowing back to uint64.
func SpreadAmount(amount uint64, spread uint16) (uint64, error) {
	wide, err := mul128(new(big.Int).SetUint64(amount), new(big.Int).SetUint64(uint64(spread)))
	if err != nil {
		return 0, err
	}
	out, err := div(wide, big.NewInt(MaxBasisPoint))
	if err != nil {
		return 0, err
	}
	return checkU64(out)
}

// WithdrawTokenAAmount is the token A a position can still withdraw: the
// periodic drip amount times the swaps not yet completed.
//
// i is the last completed period before the deposit, j the min of the vault's
// last drip period and the position expiry (i + numberOfSwaps).
func WithdrawTokenAAmount(i, j, numberOfSwaps, periodicDripAmount uint64) (uint64, error) {
	if j < i {
		return 0, ErrUnderflow
	}
	completed := j - i
	if numberOfSwaps <= completed {
		return 0, nil
	}
	remaining := new(big.Int).SetUint64(numberOfSwaps - completed)
	out := remaining.Mul(remaining, new(big.Int).SetUint64(periodicDripAmount))
	return checkU64(out)
}

// WithdrawTokenBAmount is the maximum token B attributable to a position
// through period j, before any withdrawal spread.
//
// The average execution price over (i, j] is recovered from the cumulative
// TWAP ledger as (twap_j*j - twap_i*i) / (j - i), then applied to the token A
// actually dripped so far net of the drip-trigger spread already retained.
// Both TWAP inputs are Q64.64; the result is shifted back down 64 bits.
func WithdrawTokenBAmount(
	i, j uint64,
	twapI, twapJ binary.Uint128,
	periodicDripAmount uint64,
	tokenADripTriggerSpread uint16,
) (uint64, error) {
	if j < i {
		return 0, ErrUnderflow
	}
	if i == j {
		return 0, nil
	}

	bigI := new(big.Int).SetUint64(i)
	bigJ := new(big.Int).SetUint64(j)
	elapsed := new(big.Int).Sub(bigJ, bigI)

	weightedJ, err := mul128(u128.ToBig(twapJ), bigJ)
	if err != nil {
		return 0, err
	}
	weightedI, err := mul128(u128.ToBig(twapI), bigI)
	if err != nil {
		return 0, err
	}
	diff, err := sub128(weightedJ, weightedI)
	if err != nil {
		return 0, err
	}
	averagePriceX64, err := div(diff, elapsed)
	if err != nil {
		return 0, err
	}

	drippedSoFar, err := mul128(new(big.Int).SetUint64(periodicDripAmount), elapsed)
	if err != nil {
		return 0, err
	}
	drippedSoFarU64, err := checkU64(drippedSoFar)
	if err != nil {
		return 0, err
	}
	triggerSpread, err := SpreadAmount(drippedSoFarU64, tokenADripTriggerSpread)
	if err != nil {
		return 0, err
	}
	drippedSoFar, err = sub128(drippedSoFar, new(big.Int).SetUint64(triggerSpread))
	if err != nil {
		return 0, err
	}

	amountX64, err := mul128(averagePriceX64, drippedSoFar)
	if err != nil {
		return 0, err
	}
	return checkU64(amountX64.Rsh(amountX64, 64))
}

// NewTwap folds the price observed in period i into the cumulative average:
// (twap[i-1] * (i-1) + price[i]) / i. The period index must be >= 1; period 0
// never receives a TWAP update.
func NewTwap(twapPrev binary.Uint128, periodID uint64, price binary.Uint128) (binary.Uint128, error) {
	if periodID == 0 {
		return binary.Uint128{}, ErrUnderflow
	}
	weighted, err := mul128(u128.ToBig(twapPrev), new(big.Int).SetUint64(periodID-1))
	if err != nil {
		return binary.Uint128{}, err
	}
	sum, err := add128(weighted, u128.ToBig(price))
	if err != nil {
		return binary.Uint128{}, err
	}
	out, err := div(sum, new(big.Int).SetUint64(periodID))
	if err != nil {
		return binary.Uint128{}, err
	}
	return u128.FromBig(out)
}

// Price is the Q64.64 exchange rate of token A priced in token B:
// (tokenBReceived << 64) / tokenASent.
func Price(tokenBReceived, tokenASent uint64) (binary.Uint128, error) {
	if tokenASent == 0 {
		return binary.Uint128{}, ErrDivisionByZero
	}
	numerator := new(big.Int).Lsh(new(big.Int).SetUint64(tokenBReceived), 64)
	out := numerator.Div(numerator, new(big.Int).SetUint64(tokenASent))
	return u128.FromBig(out)
}

// DripActivationTimestamp snaps now to a granularity boundary: the current
// window's start when shiftToFuture is false, the next window's start when
// true.
func DripActivationTimestamp(now int64, granularity uint64, shiftToFuture bool) int64 {
	g := int64(granularity)
	floor := now - now%g
	if !shiftToFuture {
		return floor
	}
	return floor + g
}
