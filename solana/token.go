package solana

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// Mint is the slice of SPL mint state the vault reads: decimals for oracle
// price scaling, supply and authority for position NFT mints.
type Mint struct {
	Address solana.PublicKey

	// Owner program of the account
	Owner solana.PublicKey

	// Authority that can mint, nil once revoked
	MintAuthority *solana.PublicKey

	Supply   uint64
	Decimals uint8
}

func DecodeMint(data []byte) (*Mint, error) {
	raw := token.Mint{}
	if err := raw.Decode(data); err != nil {
		return nil, err
	}
	return &Mint{
		MintAuthority: raw.MintAuthority,
		Supply:        raw.Supply,
		Decimals:      raw.Decimals,
	}, nil
}
