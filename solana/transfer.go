package solana

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// TransferTokenInstruction moves tokens between explicit token accounts.
func TransferTokenInstruction(source, destination, owner solana.PublicKey, amount uint64) solana.Instruction {
	return token.NewTransferInstruction(
		amount,
		source,
		destination,
		owner,
		[]solana.PublicKey{},
	).Build()
}

func MintToInstruction(mint, destination, authority solana.PublicKey, amount uint64) solana.Instruction {
	return token.NewMintToInstruction(
		amount,
		mint,
		destination,
		authority,
		[]solana.PublicKey{},
	).Build()
}

func BurnInstruction(mint, source, owner solana.PublicKey, amount uint64) solana.Instruction {
	return token.NewBurnInstruction(
		amount,
		source,
		mint,
		owner,
		[]solana.PublicKey{},
	).Build()
}

// RevokeMintAuthorityInstruction removes the mint authority for good, fixing
// the supply. The new authority stays unset, which the token program reads
// as none.
func RevokeMintAuthorityInstruction(mint, currentAuthority solana.PublicKey) solana.Instruction {
	return token.NewSetAuthorityInstructionBuilder().
		SetAuthorityType(token.AuthorityMintTokens).
		SetSubjectAccount(mint).
		SetAuthorityAccount(currentAuthority).
		Build()
}

func CloseAccountInstruction(account, destination, owner solana.PublicKey) solana.Instruction {
	return token.NewCloseAccountInstruction(
		account,
		destination,
		owner,
		[]solana.PublicKey{},
	).Build()
}
