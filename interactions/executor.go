// Package interactions runs the vault engine against a live cluster: token
// movements become signed SPL token transactions, swaps go through a real
// venue, and reference prices come from Pyth. Records are fetched and decoded
// from the drip program's accounts.
package interactions

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"

	solanago "github.com/dcaflow/drip-go/solana"
)

// TxExecutor executes the engine's token movements one transaction at a
// time. Every authority the engine signs with must be registered up front;
// an unknown authority fails before anything is sent.
type TxExecutor struct {
	rpcClient *rpc.Client
	wsClient  *ws.Client
	payer     *solana.Wallet

	signers map[solana.PublicKey]*solana.Wallet
}

func NewTxExecutor(rpcClient *rpc.Client, wsClient *ws.Client, payer *solana.Wallet, authorities ...*solana.Wallet) *TxExecutor {
	signers := map[solana.PublicKey]*solana.Wallet{
		payer.PublicKey(): payer,
	}
	for _, w := range authorities {
		signers[w.PublicKey()] = w
	}
	return &TxExecutor{
		rpcClient: rpcClient,
		wsClient:  wsClient,
		payer:     payer,
		signers:   signers,
	}
}

func (m *TxExecutor) sign(key solana.PublicKey) *solana.PrivateKey {
	if w, ok := m.signers[key]; ok {
		return &w.PrivateKey
	}
	return nil
}

func (m *TxExecutor) send(ctx context.Context, authority solana.PublicKey, instructions []solana.Instruction) error {
	if _, ok := m.signers[authority]; !ok {
		return fmt.Errorf("no signer registered for authority %s", authority)
	}
	_, err := solanago.SendInstruction(ctx,
		m.rpcClient,
		m.wsClient,
		solanago.MergeInstructions(instructions),
		m.payer.PublicKey(),
		m.sign,
	)
	return err
}

func (m *TxExecutor) Transfer(ctx context.Context, from, to, authority solana.PublicKey, amount uint64) error {
	ix := solanago.TransferTokenInstruction(from, to, authority, amount)
	return m.send(ctx, authority, []solana.Instruction{ix})
}

func (m *TxExecutor) MintTo(ctx context.Context, mint, to, authority solana.PublicKey, amount uint64) error {
	ix := solanago.MintToInstruction(mint, to, authority, amount)
	return m.send(ctx, authority, []solana.Instruction{ix})
}

func (m *TxExecutor) Burn(ctx context.Context, mint, from, owner solana.PublicKey, amount uint64) error {
	ix := solanago.BurnInstruction(mint, from, owner, amount)
	return m.send(ctx, owner, []solana.Instruction{ix})
}

func (m *TxExecutor) RevokeMintAuthority(ctx context.Context, mint, authority solana.PublicKey) error {
	ix := solanago.RevokeMintAuthorityInstruction(mint, authority)
	return m.send(ctx, authority, []solana.Instruction{ix})
}

func (m *TxExecutor) CloseAccount(ctx context.Context, account, destination, owner solana.PublicKey) error {
	ix := solanago.CloseAccountInstruction(account, destination, owner)
	return m.send(ctx, owner, []solana.Instruction{ix})
}

func (m *TxExecutor) Balance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	account, err := solanago.GetTokenAccount(ctx, m.rpcClient, tokenAccount)
	if err != nil {
		return 0, err
	}
	return account.Amount, nil
}
