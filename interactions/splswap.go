package interactions

import (
	"bytes"
	"context"
	bin "encoding/binary"

	"github.com/gagliardetto/solana-go"
)

var TokenSwapProgramID = solana.MustPublicKeyFromBase58("SwaPpA9LAaLfeLi3a68M4DjnLqgtticKg6CnyNwgAC8")

const tokenSwapInstructionSwap = uint8(1)

// TokenSwapVenue sells token A through an SPL token-swap pool. The pool-side
// minimum out is left at 1 token; the engine's post-swap price check is the
// binding constraint.
type TokenSwapVenue struct {
	exec *TxExecutor

	SwapPool      solana.PublicKey
	SwapAuthority solana.PublicKey
	SwapSource    solana.PublicKey
	SwapDest      solana.PublicKey
	PoolMint      solana.PublicKey
	FeeAccount    solana.PublicKey

	// the drip vault's token accounts
	SourceTokenAccount solana.PublicKey
	DestTokenAccount   solana.PublicKey
}

func NewTokenSwapVenue(exec *TxExecutor, venue TokenSwapVenue) *TokenSwapVenue {
	venue.exec = exec
	return &venue
}

func (v *TokenSwapVenue) Address() solana.PublicKey { return v.SwapPool }

func (v *TokenSwapVenue) SwapInstruction(authority solana.PublicKey, amountIn, minimumAmountOut uint64) solana.Instruction {
	buf := new(bytes.Buffer)
	buf.WriteByte(tokenSwapInstructionSwap)
	_ = bin.Write(buf, bin.LittleEndian, amountIn)
	_ = bin.Write(buf, bin.LittleEndian, minimumAmountOut)

	return solana.NewInstruction(TokenSwapProgramID, solana.AccountMetaSlice{
		solana.Meta(v.SwapPool),
		solana.Meta(v.SwapAuthority),
		solana.Meta(authority).SIGNER(),
		solana.Meta(v.SourceTokenAccount).WRITE(),
		solana.Meta(v.SwapSource).WRITE(),
		solana.Meta(v.SwapDest).WRITE(),
		solana.Meta(v.DestTokenAccount).WRITE(),
		solana.Meta(v.PoolMint).WRITE(),
		solana.Meta(v.FeeAccount).WRITE(),
		solana.Meta(solana.TokenProgramID),
	}, buf.Bytes())
}

func (v *TokenSwapVenue) Swap(ctx context.Context, authority solana.PublicKey, amountIn uint64, _ uint16) error {
	ix := v.SwapInstruction(authority, amountIn, 1)
	return v.exec.send(ctx, authority, []solana.Instruction{ix})
}
