package state

import (
	solanago "github.com/gagliardetto/solana-go"
)

// Spreads are validated strictly below this bound at config creation.
const MaxSpreadExclusive uint16 = 5000

// VaultProtoConfig is the shared, effectively immutable policy referenced by
// many vaults: the period length and the protocol spreads, plus the admin
// authority allowed to mutate vault whitelists.
type VaultProtoConfig struct {
	Granularity             uint64
	TokenADripTriggerSpread uint16
	TokenBWithdrawalSpread  uint16
	TokenBReferralSpread    uint16
	Admin                   solanago.PublicKey
}

func (c *VaultProtoConfig) Init(
	granularity uint64,
	tokenADripTriggerSpread uint16,
	tokenBWithdrawalSpread uint16,
	tokenBReferralSpread uint16,
	admin solanago.PublicKey,
) {
	c.Granularity = granularity
	c.TokenADripTriggerSpread = tokenADripTriggerSpread
	c.TokenBWithdrawalSpread = tokenBWithdrawalSpread
	c.TokenBReferralSpread = tokenBReferralSpread
	c.Admin = admin
}
