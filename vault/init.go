package vault

import (
	solanago "github.com/gagliardetto/solana-go"

	"github.com/dcaflow/drip-go/state"
)

type InitVaultProtoConfigParams struct {
	Granularity             uint64
	TokenADripTriggerSpread uint16
	TokenBWithdrawalSpread  uint16
	TokenBReferralSpread    uint16
	Admin                   solanago.PublicKey
}

// InitVaultProtoConfig sets up the shared config record that vaults reference.
func (e *Engine) InitVaultProtoConfig(cfg state.Record[state.VaultProtoConfig], params InitVaultProtoConfigParams) error {
	if params.Granularity == 0 {
		return ErrInvalidGranularity
	}
	if params.TokenADripTriggerSpread >= state.MaxSpreadExclusive ||
		params.TokenBWithdrawalSpread >= state.MaxSpreadExclusive ||
		params.TokenBReferralSpread >= state.MaxSpreadExclusive {
		return ErrInvalidSpread
	}

	cfg.Data.Init(
		params.Granularity,
		params.TokenADripTriggerSpread,
		params.TokenBWithdrawalSpread,
		params.TokenBReferralSpread,
		params.Admin,
	)
	return nil
}

func (e *Engine) InitVault(accounts InitVaultAccounts, params InitVaultParams) error {
	protoConfig := accounts.VaultProtoConfig
	if !accounts.Creator.Equals(protoConfig.Data.Admin) {
		return ErrSignerIsNotAdmin
	}
	if accounts.TokenAMint.Equals(accounts.TokenBMint) {
		return ErrInvalidMint
	}
	if params.MaxSlippageBps <= state.MaxSlippageLowerLimitExclusive ||
		params.MaxSlippageBps >= state.MaxSlippageUpperLimitExclusive {
		return ErrInvalidVaultMaxSlippage
	}
	if len(params.WhitelistedSwaps) > state.VaultSwapWhitelistSize {
		return ErrInvalidSwapAccount
	}

	vault := accounts.Vault.Data
	vault.Init(
		protoConfig.Address,
		accounts.TokenAMint,
		accounts.TokenBMint,
		accounts.TokenAAccount,
		accounts.TokenBAccount,
		accounts.TreasuryTokenBAccount,
		params.WhitelistedSwaps,
		params.MaxSlippageBps,
		protoConfig.Data.Granularity,
		e.unixNow(),
	)
	return nil
}

func (e *Engine) InitVaultPeriod(accounts InitVaultPeriodAccounts, periodID uint64) error {
	vault := accounts.Vault.Data
	if periodID != 0 && periodID <= vault.LastDripPeriod {
		return ErrVaultPeriodLessThanCurrent
	}
	accounts.VaultPeriod.Data.Init(accounts.Vault.Address, periodID)
	return nil
}
