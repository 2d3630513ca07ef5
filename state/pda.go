package state

import (
	"strconv"

	solanago "github.com/gagliardetto/solana-go"
)

// ProgramID is the drip program address vault authorities are derived from.
var ProgramID = solanago.MustPublicKeyFromBase58("dripTrkvSyQKvkyWg7oayPXLWDPKeK27WMBSxztXyqV")

// DeriveVaultAddress returns the PDA a vault lives at, which doubles as the
// vault's signing authority over its reserves.
func DeriveVaultAddress(tokenAMint, tokenBMint, protoConfig solanago.PublicKey) (solanago.PublicKey, uint8, error) {
	return solanago.FindProgramAddress(
		[][]byte{
			[]byte("drip-v1"),
			tokenAMint.Bytes(),
			tokenBMint.Bytes(),
			protoConfig.Bytes(),
		},
		ProgramID,
	)
}

func DeriveVaultPeriodAddress(vault solanago.PublicKey, periodID uint64) (solanago.PublicKey, uint8, error) {
	return solanago.FindProgramAddress(
		[][]byte{
			[]byte("vault_period"),
			vault.Bytes(),
			[]byte(strconv.FormatUint(periodID, 10)),
		},
		ProgramID,
	)
}

func DerivePositionAddress(positionNFTMint solanago.PublicKey) (solanago.PublicKey, uint8, error) {
	return solanago.FindProgramAddress(
		[][]byte{
			[]byte("user_position"),
			positionNFTMint.Bytes(),
		},
		ProgramID,
	)
}
