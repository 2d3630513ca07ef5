package drip

import (
	"github.com/dcaflow/drip-go/interactions"
	"github.com/dcaflow/drip-go/vault"
)

// NewEngine creates the vault accounting engine.
//
// Example:
//
// engine := NewEngine(executor, vault.WithClock(clock))
//
// engine.Deposit(ctx, accounts, params)
//
// engine.Drip(ctx, dripAccounts)
var NewEngine = vault.NewEngine

// NewDripClient creates a cluster-backed drip client.
//
// Example:
//
// client := NewDripClient(rpcClient, wsClient, payer, vaultAuthority)
//
// client.Deposit(ctx, vaultAddress, depositor, nftMint, amount, numberOfSwaps, referrer, nil)
//
// client.Drip(ctx, vaultAddress, venue, feeAccount)
var NewDripClient = interactions.NewDrip
