package state

import (
	solanago "github.com/gagliardetto/solana-go"
)

// Oracle price sources.
const PythSourceID uint8 = 0

// OracleConfig references the price feeds used to sanity-check drip
// execution prices on the oracle-guarded drip path.
type OracleConfig struct {
	Enabled         bool
	Source          uint8
	UpdateAuthority solanago.PublicKey
	TokenAMint      solanago.PublicKey
	TokenAPrice     solanago.PublicKey
	TokenBMint      solanago.PublicKey
	TokenBPrice     solanago.PublicKey
}

func (c *OracleConfig) Set(
	enabled bool,
	source uint8,
	updateAuthority solanago.PublicKey,
	tokenAMint solanago.PublicKey,
	tokenAPrice solanago.PublicKey,
	tokenBMint solanago.PublicKey,
	tokenBPrice solanago.PublicKey,
) {
	c.Enabled = enabled
	c.Source = source
	c.UpdateAuthority = updateAuthority
	c.TokenAMint = tokenAMint
	c.TokenAPrice = tokenAPrice
	c.TokenBMint = tokenBMint
	c.TokenBPrice = tokenBPrice
}
