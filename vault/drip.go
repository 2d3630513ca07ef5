package vault

import (
	"context"

	"github.com/dcaflow/drip-go/dripmath"
)

type DripResult struct {
	PeriodID uint64

	// amount swapped, after the trigger spread was carved out
	SwappedTokenAAmount  uint64
	SpreadTokenAAmount   uint64
	ReceivedTokenBAmount uint64
}

func (e *Engine) validateDrip(ctx context.Context, accounts DripAccounts) error {
	vault := accounts.Vault.Data
	if !vault.ProtoConfig.Equals(accounts.VaultProtoConfig.Address) {
		return ErrInvalidProtoConfigReference
	}
	last, current := accounts.LastVaultPeriod, accounts.CurrentVaultPeriod
	if !last.Data.Vault.Equals(accounts.Vault.Address) ||
		last.Data.PeriodID != vault.LastDripPeriod {
		return ErrInvalidVaultPeriod
	}
	if !current.Data.Vault.Equals(accounts.Vault.Address) ||
		current.Data.PeriodID != vault.LastDripPeriod+1 {
		return ErrInvalidVaultPeriod
	}
	if vault.DripAmount == 0 {
		return ErrPeriodicDripAmountIsZero
	}
	if !vault.IsDripActivated(e.unixNow()) {
		return ErrDuplicateDrip
	}
	if vault.LimitSwaps && !vault.IsSwapWhitelisted(accounts.Swap.Address()) {
		return ErrInvalidSwapAccount
	}
	if !accounts.VaultTokenAAccount.Equals(vault.TokenAAccount) ||
		!accounts.VaultTokenBAccount.Equals(vault.TokenBAccount) {
		return ErrIncorrectVaultTokenAccount
	}

	if accounts.Oracle == nil {
		if !vault.OracleConfig.IsZero() {
			return ErrOracleNotSupported
		}
	} else {
		cfg := accounts.Oracle.OracleConfig
		if !vault.OracleConfig.Equals(cfg.Address) || !cfg.Data.Enabled {
			return ErrInvalidOracleAccount
		}
		if e.oracle == nil {
			return ErrOracleNotSupported
		}
	}

	balanceA, err := e.exec.Balance(ctx, accounts.VaultTokenAAccount)
	if err != nil {
		return err
	}
	if balanceA < vault.DripAmount {
		return ErrInsufficientBalanceA
	}
	return nil
}

// Drip executes one period: it carves the trigger spread out of the vault's
// aggregate drip amount, swaps the remainder for token B, records the swap
// price into the running TWAP, and retires the positions expiring at the new
// period. The ledger is advanced before the swap so a same-window retry faults
// with ErrDuplicateDrip instead of double-spending the reserve.
func (e *Engine) Drip(ctx context.Context, accounts DripAccounts) (*DripResult, error) {
	if err := e.validateDrip(ctx, accounts); err != nil {
		return nil, err
	}

	vault := accounts.Vault.Data
	protoConfig := accounts.VaultProtoConfig.Data
	current := accounts.CurrentVaultPeriod.Data

	dripAmount := vault.DripAmount
	spreadAmount, err := dripmath.SpreadAmount(dripAmount, protoConfig.TokenADripTriggerSpread)
	if err != nil {
		return nil, err
	}
	swapAmount := dripAmount - spreadAmount

	if err := vault.ProcessDrip(current, protoConfig.Granularity, e.unixNow()); err != nil {
		return nil, err
	}

	beforeA, err := e.exec.Balance(ctx, accounts.VaultTokenAAccount)
	if err != nil {
		return nil, err
	}
	beforeB, err := e.exec.Balance(ctx, accounts.VaultTokenBAccount)
	if err != nil {
		return nil, err
	}

	if spreadAmount > 0 {
		if err := e.exec.Transfer(ctx,
			accounts.VaultTokenAAccount,
			accounts.DripFeeTokenAAccount,
			accounts.Vault.Address,
			spreadAmount,
		); err != nil {
			return nil, err
		}
	}
	if err := accounts.Swap.Swap(ctx, accounts.Vault.Address, swapAmount, vault.MaxSlippageBps); err != nil {
		return nil, err
	}

	afterA, err := e.exec.Balance(ctx, accounts.VaultTokenAAccount)
	if err != nil {
		return nil, err
	}
	afterB, err := e.exec.Balance(ctx, accounts.VaultTokenBAccount)
	if err != nil {
		return nil, err
	}
	if afterB < beforeB {
		return nil, ErrIncompleteSwap
	}
	receivedB := afterB - beforeB
	if receivedB == 0 {
		return nil, ErrIncompleteSwap
	}
	if afterA > beforeA {
		return nil, ErrIncorrectSwapAmount
	}
	usedA := beforeA - afterA
	if usedA != dripAmount {
		return nil, ErrIncorrectSwapAmount
	}

	if accounts.Oracle != nil {
		if err := e.checkSwapDeviation(ctx, accounts, swapAmount, receivedB); err != nil {
			return nil, err
		}
	}

	if err := current.UpdateTwap(accounts.LastVaultPeriod.Data, swapAmount, receivedB); err != nil {
		return nil, err
	}
	current.UpdateDripTimestamp(e.unixNow())

	return &DripResult{
		PeriodID:             current.PeriodID,
		SwappedTokenAAmount:  swapAmount,
		SpreadTokenAAmount:   spreadAmount,
		ReceivedTokenBAmount: receivedB,
	}, nil
}

func (e *Engine) checkSwapDeviation(ctx context.Context, accounts DripAccounts, sentA, receivedB uint64) error {
	oracle := accounts.Oracle
	reference, err := e.oracle.BOverAPrice(ctx, oracle.OracleConfig.Data)
	if err != nil {
		return err
	}
	// signed: only an execution below the reference can fault
	swapPrice := dripmath.SwapUIPrice(receivedB, oracle.TokenBDecimals, sentA, oracle.TokenADecimals)
	if dripmath.PriceDifferenceBps(swapPrice, reference) > int64(accounts.Vault.Data.MaxSlippageBps) {
		return ErrSwapPricePastMaxDeviation
	}
	return nil
}
