package vault

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestWithdrawBAccruesAcrossDrips(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)
	position := env.deposit(400, 4, solanago.PublicKey{})

	env.drip()
	env.drip()

	result, err := env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: env.withdrawCommon(position)})
	require.NoError(t, err)
	require.Equal(t, uint64(400), result.WithdrawnTokenBAmount)
	require.Equal(t, uint64(400), position.record.Data.WithdrawnTokenBAmount)
	require.Equal(t, uint64(400), env.ledger.balances[env.userTokenB])

	env.drip()
	env.drip()

	// only the delta accrued since the last withdrawal
	result, err = env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: env.withdrawCommon(position)})
	require.NoError(t, err)
	require.Equal(t, uint64(400), result.WithdrawnTokenBAmount)
	require.Equal(t, uint64(800), env.ledger.balances[env.userTokenB])
	require.Equal(t, uint64(0), env.ledger.balances[env.vaultTokenB])

	_, err = env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: env.withdrawCommon(position)})
	require.ErrorIs(t, err, ErrWithdrawableAmountIsZero)
}

func TestWithdrawBSpreads(t *testing.T) {
	env := newDripTestEnv(t, 0, 500, 100)
	position := env.deposit(400, 4, env.referrerTokenB)
	for i := 0; i < 4; i++ {
		env.drip()
	}

	result, err := env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: env.withdrawCommon(position)})
	require.NoError(t, err)
	require.Equal(t, uint64(40), result.TreasurySpreadAmount)
	require.Equal(t, uint64(8), result.ReferralSpreadAmount)
	require.Equal(t, uint64(752), result.WithdrawnTokenBAmount)

	require.Equal(t, uint64(752), env.ledger.balances[env.userTokenB])
	require.Equal(t, uint64(40), env.ledger.balances[env.treasuryTokenB])
	require.Equal(t, uint64(8), env.ledger.balances[env.referrerTokenB])
	// the full pre-fee amount is counted against the position
	require.Equal(t, uint64(800), position.record.Data.WithdrawnTokenBAmount)
}

func TestWithdrawBNoReferrerSkipsReferralSpread(t *testing.T) {
	env := newDripTestEnv(t, 0, 500, 100)
	position := env.deposit(400, 4, solanago.PublicKey{})
	for i := 0; i < 4; i++ {
		env.drip()
	}

	result, err := env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: env.withdrawCommon(position)})
	require.NoError(t, err)
	require.Equal(t, uint64(0), result.ReferralSpreadAmount)
	require.Equal(t, uint64(760), result.WithdrawnTokenBAmount)
}

func TestWithdrawBValidation(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)
	position := env.deposit(400, 4, env.referrerTokenB)
	env.drip()

	common := env.withdrawCommon(position)
	common.Withdrawer = pubkey()
	_, err := env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: common})
	require.ErrorIs(t, err, ErrInvalidOwner)

	common = env.withdrawCommon(position)
	common.UserPositionNFTAccount.Amount = 0
	_, err = env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: common})
	require.ErrorIs(t, err, ErrPositionBalanceIsZero)
	common.UserPositionNFTAccount.Amount = 1

	common = env.withdrawCommon(position)
	common.UserPositionNFTAccount.Mint = pubkey()
	_, err = env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: common})
	require.ErrorIs(t, err, ErrInvalidMint)
	common.UserPositionNFTAccount.Mint = position.nftMint

	common = env.withdrawCommon(position)
	common.VaultPeriodJ = env.period(0)
	_, err = env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: common})
	require.ErrorIs(t, err, ErrInvalidVaultPeriod)

	common = env.withdrawCommon(position)
	common.Referrer = pubkey()
	_, err = env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: common})
	require.ErrorIs(t, err, ErrInvalidReferrer)
}

func TestWithdrawBBeforeFirstDrip(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)
	position := env.deposit(400, 4, solanago.PublicKey{})

	_, err := env.engine.WithdrawB(env.ctx, WithdrawBAccounts{Common: env.withdrawCommon(position)})
	require.ErrorIs(t, err, ErrWithdrawableAmountIsZero)
}

func TestClosePositionMidway(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)
	position := env.deposit(400, 4, solanago.PublicKey{})
	env.drip()
	env.drip()

	userABefore := env.ledger.balances[env.userTokenA]
	result, err := env.engine.ClosePosition(env.ctx, env.closeAccounts(position))
	require.NoError(t, err)
	require.Equal(t, uint64(400), result.WithdrawnTokenBAmount)
	require.Equal(t, uint64(200), result.WithdrawnTokenAAmount)

	// the two remaining scheduled drips are unwound
	require.Equal(t, uint64(0), env.vault.Data.DripAmount)
	require.Equal(t, uint64(0), env.period(4).Data.Dar)
	require.True(t, position.record.Data.IsClosed)

	require.Equal(t, userABefore+200, env.ledger.balances[env.userTokenA])
	require.Equal(t, uint64(0), env.ledger.balances[env.vaultTokenA])
	require.Equal(t, uint64(1), env.ledger.burned[position.nftMint])
	require.True(t, env.ledger.closed[position.nftAccount.Address])

	_, err = env.engine.ClosePosition(env.ctx, env.closeAccounts(position))
	require.ErrorIs(t, err, ErrPositionAlreadyClosed)
}

func TestClosePositionAfterExpiry(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)
	position := env.deposit(400, 4, solanago.PublicKey{})
	for i := 0; i < 4; i++ {
		env.drip()
	}

	result, err := env.engine.ClosePosition(env.ctx, env.closeAccounts(position))
	require.NoError(t, err)
	require.Equal(t, uint64(800), result.WithdrawnTokenBAmount)
	require.Equal(t, uint64(0), result.WithdrawnTokenAAmount)
	require.Equal(t, uint64(0), env.vault.Data.DripAmount)
	require.True(t, position.record.Data.IsClosed)
}

func TestClosePositionByAdmin(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)
	position := env.deposit(400, 4, solanago.PublicKey{})
	env.drip()

	accounts := env.closeAccounts(position)
	accounts.Common.Withdrawer = env.admin
	result, err := env.engine.ClosePosition(env.ctx, accounts)
	require.NoError(t, err)
	require.Equal(t, uint64(200), result.WithdrawnTokenBAmount)
	require.Equal(t, uint64(300), result.WithdrawnTokenAAmount)

	// funds land in the owner's accounts; the NFT survives an admin close
	require.Equal(t, uint64(200), env.ledger.balances[env.userTokenB])
	require.Equal(t, uint64(0), env.ledger.burned[position.nftMint])
	require.Equal(t, uint64(1), env.ledger.balances[position.nftAccount.Address])
	require.True(t, position.record.Data.IsClosed)
}

func TestCloseRejectsStranger(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)
	position := env.deposit(400, 4, solanago.PublicKey{})
	env.drip()

	accounts := env.closeAccounts(position)
	accounts.Common.Withdrawer = pubkey()
	_, err := env.engine.ClosePosition(env.ctx, accounts)
	require.ErrorIs(t, err, ErrInvalidOwner)
}
