package dripmath

import (
	"math"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"

	"github.com/dcaflow/drip-go/u128"
)

const sqrtPrecision = 128

func Pow10(n int) decimal.Decimal {
	return decimal.NewFromFloat(math.Pow10(n))
}

func Sqrt(x decimal.Decimal, prec uint) decimal.Decimal {
	if x.Sign() < 0 {
		panic("sqrt on negative decimal")
	}

	out, _ := decimal.NewFromString(
		new(big.Float).SetPrec(prec).Sqrt(
			x.BigFloat().SetPrec(prec),
		).Text('f', -1),
	)
	return out
}

// slippageFactor scales a sqrt price toward the worst acceptable execution
// price. A-to-B swaps push the price down (factor < 1), B-to-A swaps push it
// up (factor > 1); the factor applies to the sqrt price, hence the sqrt.
func slippageFactor(maxSlippageBps uint16, aToB bool) decimal.Decimal {
	bps := decimal.NewFromUint64(uint64(maxSlippageBps)).Div(decimal.NewFromInt(MaxBasisPoint))
	if aToB {
		return Sqrt(decimal.NewFromInt(1).Sub(bps), sqrtPrecision)
	}
	return Sqrt(decimal.NewFromInt(1).Add(bps), sqrtPrecision)
}

// SqrtPriceLimit bounds a CLMM swap at maxSlippageBps away from the current
// sqrt price.
func SqrtPriceLimit(currentSqrtPrice binary.Uint128, maxSlippageBps uint16, aToB bool) (binary.Uint128, error) {
	precision := big.NewInt(MaxBasisPoint)
	factor := slippageFactor(maxSlippageBps, aToB).
		Mul(decimal.NewFromInt(MaxBasisPoint)).
		Floor().BigInt()

	scaled, err := mul128(u128.ToBig(currentSqrtPrice), factor)
	if err != nil {
		return binary.Uint128{}, err
	}
	out, err := div(scaled, precision)
	if err != nil {
		return binary.Uint128{}, err
	}
	return u128.FromBig(out)
}

// UIPrice converts a raw token amount to its UI value given mint decimals.
func UIPrice(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromUint64(amount).Div(Pow10(int(decimals)))
}

// SwapUIPrice is the decimal-adjusted B/A execution price of a swap.
func SwapUIPrice(receivedB uint64, decimalsB uint8, sentA uint64, decimalsA uint8) decimal.Decimal {
	return UIPrice(receivedB, decimalsB).Div(UIPrice(sentA, decimalsA))
}

// PriceDifferenceBps is the deviation of swapPrice from referencePrice in
// basis points, positive when the swap executed below the reference.
func PriceDifferenceBps(swapPrice, referencePrice decimal.Decimal) int64 {
	return referencePrice.Sub(swapPrice).
		Div(referencePrice).
		Mul(decimal.NewFromInt(MaxBasisPoint)).
		IntPart()
}
