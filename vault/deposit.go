package vault

import (
	"context"

	"github.com/dcaflow/drip-go/dripmath"
)

type DepositResult struct {
	PeriodicDripAmount uint64
	// first period id covered by the new position
	PeriodStart uint64
	// one past the last covered period id
	PeriodEnd uint64
}

func validateDeposit(accounts DepositAccounts, params DepositParams) error {
	vault := accounts.Vault.Data
	if !vault.ProtoConfig.Equals(accounts.VaultProtoConfig.Address) {
		return ErrInvalidProtoConfigReference
	}
	periodEnd := accounts.VaultPeriodEnd
	if !periodEnd.Data.Vault.Equals(accounts.Vault.Address) {
		return ErrInvalidVaultReference
	}
	if params.NumberOfSwaps == 0 {
		return ErrNumSwapsIsZero
	}
	if params.TokenADepositAmount == 0 {
		return ErrDepositAmountIsZero
	}
	if periodEnd.Data.PeriodID == 0 ||
		periodEnd.Data.PeriodID != vault.LastDripPeriod+params.NumberOfSwaps {
		return ErrInvalidVaultPeriod
	}
	if !accounts.VaultTokenAAccount.Equals(vault.TokenAAccount) {
		return ErrIncorrectVaultTokenAccount
	}
	return nil
}

// Deposit opens a position covering the next NumberOfSwaps periods. The
// deposited token A is split evenly across the covered periods; any floor
// remainder stays in the vault reserve and is never dripped.
func (e *Engine) Deposit(ctx context.Context, accounts DepositAccounts, params DepositParams) (*DepositResult, error) {
	if err := validateDeposit(accounts, params); err != nil {
		return nil, err
	}

	periodicDripAmount, err := dripmath.PeriodicDripAmount(params.TokenADepositAmount, params.NumberOfSwaps)
	if err != nil {
		return nil, err
	}
	if periodicDripAmount == 0 {
		return nil, ErrPeriodicDripAmountIsZero
	}

	vault := accounts.Vault.Data
	if err := vault.IncreaseDripAmount(periodicDripAmount); err != nil {
		return nil, err
	}
	if err := accounts.VaultPeriodEnd.Data.IncreaseDripAmountToReduce(periodicDripAmount); err != nil {
		return nil, err
	}
	accounts.UserPosition.Data.Init(
		accounts.Vault.Address,
		accounts.UserPositionNFTMint,
		accounts.Referrer,
		params.TokenADepositAmount,
		vault.LastDripPeriod,
		params.NumberOfSwaps,
		periodicDripAmount,
		e.unixNow(),
	)

	if err := e.exec.Transfer(ctx,
		accounts.UserTokenAAccount,
		accounts.VaultTokenAAccount,
		accounts.Depositor,
		params.TokenADepositAmount,
	); err != nil {
		return nil, err
	}
	if err := e.exec.MintTo(ctx,
		accounts.UserPositionNFTMint,
		accounts.UserPositionNFTAccount,
		accounts.Vault.Address,
		1,
	); err != nil {
		return nil, err
	}
	if params.Metadata != nil && e.metadata != nil {
		if err := e.metadata.WritePositionMetadata(ctx,
			accounts.UserPositionNFTMint,
			accounts.Vault.Address,
			params.Metadata.Name,
			params.Metadata.Symbol,
			params.Metadata.URI,
		); err != nil {
			return nil, err
		}
	}
	if err := e.exec.RevokeMintAuthority(ctx, accounts.UserPositionNFTMint, accounts.Vault.Address); err != nil {
		return nil, err
	}

	return &DepositResult{
		PeriodicDripAmount: periodicDripAmount,
		PeriodStart:        vault.LastDripPeriod + 1,
		PeriodEnd:          accounts.VaultPeriodEnd.Data.PeriodID,
	}, nil
}
