// Package vault orchestrates the drip vault operations: deposit, drip,
// withdraw and close-position. Each operation validates its accounts,
// computes deltas with dripmath, applies ledger mutations, and only then
// issues token movements through the TokenExecutor, so a fault before the
// externalize phase leaves every record untouched.
package vault

import (
	"context"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/dcaflow/drip-go/state"
)

// TokenExecutor is the external token-movement collaborator. All transfers
// out of vault reserves are signed by the vault's derived authority; the
// engine never moves tokens itself.
type TokenExecutor interface {
	Transfer(ctx context.Context, from, to, authority solanago.PublicKey, amount uint64) error
	MintTo(ctx context.Context, mint, to, authority solanago.PublicKey, amount uint64) error
	Burn(ctx context.Context, mint, from, owner solanago.PublicKey, amount uint64) error
	RevokeMintAuthority(ctx context.Context, mint, authority solanago.PublicKey) error
	CloseAccount(ctx context.Context, account, destination, owner solanago.PublicKey) error
	Balance(ctx context.Context, tokenAccount solanago.PublicKey) (uint64, error)
}

// SwapVenue sells the vault's token A for token B. Venue internals are
// opaque: adapters bound slippage however their venue expresses it, and the
// engine verifies reserve deltas after the call returns.
type SwapVenue interface {
	Address() solanago.PublicKey
	Swap(ctx context.Context, authority solanago.PublicKey, amountIn uint64, maxSlippageBps uint16) error
}

// MetadataWriter publishes off-chain metadata for a position NFT.
type MetadataWriter interface {
	WritePositionMetadata(ctx context.Context, positionNFTMint, vault solanago.PublicKey, name, symbol, uri string) error
}

// PriceOracle resolves the reference B/A UI price for an oracle config.
type PriceOracle interface {
	BOverAPrice(ctx context.Context, cfg *state.OracleConfig) (decimal.Decimal, error)
}

type Engine struct {
	exec     TokenExecutor
	metadata MetadataWriter
	oracle   PriceOracle
	now      func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithMetadataWriter(w MetadataWriter) Option {
	return func(e *Engine) { e.metadata = w }
}

func WithPriceOracle(o PriceOracle) Option {
	return func(e *Engine) { e.oracle = o }
}

func NewEngine(exec TokenExecutor, opts ...Option) *Engine {
	e := &Engine{
		exec: exec,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) unixNow() int64 {
	return e.now().Unix()
}
