package interactions

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/dcaflow/drip-go/dripmath"
	solanago "github.com/dcaflow/drip-go/solana"
)

var WhirlpoolProgramID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")

// sqrt_price sits after the discriminator, config key, bump, tick spacing
// seeds, fee rates and liquidity in the whirlpool account.
const whirlpoolSqrtPriceOffset = 65

func sighash(name string) []byte {
	hash := sha256.Sum256([]byte("global:" + name))
	return hash[:8]
}

type whirlpoolSwapArgs struct {
	Amount                 uint64
	OtherAmountThreshold   uint64
	SqrtPriceLimit         binary.Uint128
	AmountSpecifiedIsInput bool
	AToB                   bool
}

// WhirlpoolVenue sells token A into an Orca whirlpool. The venue bounds the
// execution price with a sqrt price limit derived from the vault's max
// slippage; the engine still verifies reserve deltas afterwards.
type WhirlpoolVenue struct {
	exec *TxExecutor

	Whirlpool   solana.PublicKey
	TokenVaultA solana.PublicKey
	TokenVaultB solana.PublicKey
	TickArray0  solana.PublicKey
	TickArray1  solana.PublicKey
	TickArray2  solana.PublicKey
	Oracle      solana.PublicKey

	// the drip vault's token accounts
	TokenOwnerAccountA solana.PublicKey
	TokenOwnerAccountB solana.PublicKey
}

func NewWhirlpoolVenue(exec *TxExecutor, venue WhirlpoolVenue) *WhirlpoolVenue {
	venue.exec = exec
	return &venue
}

func (v *WhirlpoolVenue) Address() solana.PublicKey { return v.Whirlpool }

func (v *WhirlpoolVenue) currentSqrtPrice(ctx context.Context) (binary.Uint128, error) {
	out, err := solanago.GetAccountInfo(ctx, v.exec.rpcClient, v.Whirlpool)
	if err != nil {
		return binary.Uint128{}, err
	}
	data := out.Value.Data.GetBinary()
	if len(data) < whirlpoolSqrtPriceOffset+16 {
		return binary.Uint128{}, fmt.Errorf("whirlpool account %s too short", v.Whirlpool)
	}
	sqrtPrice := binary.NewUint128LittleEndian()
	if err := binary.NewBinDecoder(data[whirlpoolSqrtPriceOffset : whirlpoolSqrtPriceOffset+16]).Decode(sqrtPrice); err != nil {
		return binary.Uint128{}, err
	}
	return *sqrtPrice, nil
}

func (v *WhirlpoolVenue) Swap(ctx context.Context, authority solana.PublicKey, amountIn uint64, maxSlippageBps uint16) error {
	currentSqrtPrice, err := v.currentSqrtPrice(ctx)
	if err != nil {
		return err
	}
	sqrtPriceLimit, err := dripmath.SqrtPriceLimit(currentSqrtPrice, maxSlippageBps, true)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	buf.Write(sighash("swap"))
	if err := binary.NewBorshEncoder(buf).Encode(whirlpoolSwapArgs{
		Amount:                 amountIn,
		OtherAmountThreshold:   1,
		SqrtPriceLimit:         sqrtPriceLimit,
		AmountSpecifiedIsInput: true,
		AToB:                   true,
	}); err != nil {
		return err
	}

	ix := solana.NewInstruction(WhirlpoolProgramID, solana.AccountMetaSlice{
		solana.Meta(solana.TokenProgramID),
		solana.Meta(authority).SIGNER(),
		solana.Meta(v.Whirlpool).WRITE(),
		solana.Meta(v.TokenOwnerAccountA).WRITE(),
		solana.Meta(v.TokenVaultA).WRITE(),
		solana.Meta(v.TokenOwnerAccountB).WRITE(),
		solana.Meta(v.TokenVaultB).WRITE(),
		solana.Meta(v.TickArray0).WRITE(),
		solana.Meta(v.TickArray1).WRITE(),
		solana.Meta(v.TickArray2).WRITE(),
		solana.Meta(v.Oracle),
	}, buf.Bytes())

	return v.exec.send(ctx, authority, []solana.Instruction{ix})
}
