package vault

import (
	solanago "github.com/gagliardetto/solana-go"

	"github.com/dcaflow/drip-go/state"
)

func validateAdmin(signer solanago.PublicKey, vault state.Record[state.Vault], protoConfig state.Record[state.VaultProtoConfig]) error {
	if !vault.Data.ProtoConfig.Equals(protoConfig.Address) {
		return ErrInvalidProtoConfigReference
	}
	if !signer.Equals(protoConfig.Data.Admin) {
		return ErrSignerIsNotAdmin
	}
	return nil
}

// UpdateVaultWhitelistedSwaps replaces the vault's swap whitelist. An empty
// list disables the whitelist check entirely.
func (e *Engine) UpdateVaultWhitelistedSwaps(
	admin solanago.PublicKey,
	vault state.Record[state.Vault],
	protoConfig state.Record[state.VaultProtoConfig],
	whitelistedSwaps []solanago.PublicKey,
) error {
	if err := validateAdmin(admin, vault, protoConfig); err != nil {
		return err
	}
	if len(whitelistedSwaps) > state.VaultSwapWhitelistSize {
		return ErrInvalidSwapAccount
	}
	vault.Data.SetWhitelistedSwaps(whitelistedSwaps)
	return nil
}

func (e *Engine) SetVaultMaxSlippage(
	admin solanago.PublicKey,
	vault state.Record[state.Vault],
	protoConfig state.Record[state.VaultProtoConfig],
	maxSlippageBps uint16,
) error {
	if err := validateAdmin(admin, vault, protoConfig); err != nil {
		return err
	}
	if maxSlippageBps <= state.MaxSlippageLowerLimitExclusive ||
		maxSlippageBps >= state.MaxSlippageUpperLimitExclusive {
		return ErrInvalidVaultMaxSlippage
	}
	vault.Data.SetMaxSlippageBps(maxSlippageBps)
	return nil
}

// SetVaultOracleConfig points the vault at an oracle config record used by the
// drip price-deviation guard.
func (e *Engine) SetVaultOracleConfig(
	admin solanago.PublicKey,
	vault state.Record[state.Vault],
	protoConfig state.Record[state.VaultProtoConfig],
	oracleConfig state.Record[state.OracleConfig],
) error {
	if err := validateAdmin(admin, vault, protoConfig); err != nil {
		return err
	}
	if !oracleConfig.Data.Enabled {
		return ErrInvalidOracleAccount
	}
	if !oracleConfig.Data.TokenAMint.Equals(vault.Data.TokenAMint) ||
		!oracleConfig.Data.TokenBMint.Equals(vault.Data.TokenBMint) {
		return ErrInvalidOracleAccount
	}
	vault.Data.SetOracleConfig(oracleConfig.Address)
	return nil
}
