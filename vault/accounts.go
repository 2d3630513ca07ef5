package vault

import (
	solanago "github.com/gagliardetto/solana-go"

	soltoken "github.com/dcaflow/drip-go/solana"
	"github.com/dcaflow/drip-go/state"
)

// Account bundles mirror the records each operation names. The engine only
// ever mutates records passed to it; the platform persists them afterwards.

type InitVaultAccounts struct {
	Creator          solanago.PublicKey
	Vault            state.Record[state.Vault]
	VaultProtoConfig state.Record[state.VaultProtoConfig]

	TokenAMint            solanago.PublicKey
	TokenBMint            solanago.PublicKey
	TokenAAccount         solanago.PublicKey
	TokenBAccount         solanago.PublicKey
	TreasuryTokenBAccount solanago.PublicKey
}

type InitVaultParams struct {
	WhitelistedSwaps []solanago.PublicKey
	MaxSlippageBps   uint16
}

type InitVaultPeriodAccounts struct {
	Vault       state.Record[state.Vault]
	VaultPeriod state.Record[state.VaultPeriod]
}

type PositionMetadata struct {
	Name   string
	Symbol string
	URI    string
}

type DepositAccounts struct {
	Depositor        solanago.PublicKey
	Vault            state.Record[state.Vault]
	VaultProtoConfig state.Record[state.VaultProtoConfig]
	VaultPeriodEnd   state.Record[state.VaultPeriod]

	VaultTokenAAccount solanago.PublicKey
	UserTokenAAccount  solanago.PublicKey

	UserPosition           state.Record[state.Position]
	UserPositionNFTMint    solanago.PublicKey
	UserPositionNFTAccount solanago.PublicKey

	// zero key when the deposit carries no referral
	Referrer solanago.PublicKey
}

type DepositParams struct {
	TokenADepositAmount uint64
	NumberOfSwaps       uint64

	// non-nil selects the deposit-with-metadata variant
	Metadata *PositionMetadata
}

type DripOracleAccounts struct {
	OracleConfig   state.Record[state.OracleConfig]
	TokenADecimals uint8
	TokenBDecimals uint8
}

type DripAccounts struct {
	Vault              state.Record[state.Vault]
	VaultProtoConfig   state.Record[state.VaultProtoConfig]
	LastVaultPeriod    state.Record[state.VaultPeriod]
	CurrentVaultPeriod state.Record[state.VaultPeriod]

	VaultTokenAAccount   solanago.PublicKey
	VaultTokenBAccount   solanago.PublicKey
	DripFeeTokenAAccount solanago.PublicKey

	Swap SwapVenue

	// non-nil enables the oracle price-deviation guard
	Oracle *DripOracleAccounts
}

type WithdrawCommonAccounts struct {
	Withdrawer       solanago.PublicKey
	Vault            state.Record[state.Vault]
	VaultProtoConfig state.Record[state.VaultProtoConfig]

	// entry period of the position
	VaultPeriodI state.Record[state.VaultPeriod]
	// min(vault.LastDripPeriod, position expiry)
	VaultPeriodJ state.Record[state.VaultPeriod]

	UserPosition           state.Record[state.Position]
	UserPositionNFTAccount *soltoken.Account

	VaultTokenBAccount         solanago.PublicKey
	VaultTreasuryTokenBAccount solanago.PublicKey
	UserTokenBAccount          solanago.PublicKey

	// token B payout account of the referrer; zero key when none
	Referrer solanago.PublicKey
}

type WithdrawBAccounts struct {
	Common WithdrawCommonAccounts
}

type ClosePositionAccounts struct {
	Common WithdrawCommonAccounts

	VaultPeriodUserExpiry state.Record[state.VaultPeriod]
	VaultTokenAAccount    solanago.PublicKey
	UserTokenAAccount     *soltoken.Account
	UserPositionNFTMint   solanago.PublicKey
}
