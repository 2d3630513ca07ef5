package vault

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestDepositOpensPosition(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)
	accounts, params, position := env.depositAccounts(400, 4, solanago.PublicKey{})

	result, err := env.engine.Deposit(env.ctx, accounts, params)
	require.NoError(t, err)
	require.Equal(t, uint64(100), result.PeriodicDripAmount)
	require.Equal(t, uint64(1), result.PeriodStart)
	require.Equal(t, uint64(4), result.PeriodEnd)

	require.Equal(t, uint64(100), env.vault.Data.DripAmount)
	require.Equal(t, uint64(100), env.period(4).Data.Dar)

	positionData := position.record.Data
	require.Equal(t, uint64(400), positionData.DepositedTokenAAmount)
	require.Equal(t, uint64(0), positionData.DripPeriodIDBeforeDeposit)
	require.Equal(t, uint64(4), positionData.NumberOfSwaps)
	require.Equal(t, uint64(100), positionData.PeriodicDripAmount)
	require.False(t, positionData.IsClosed)

	require.Equal(t, uint64(400), env.ledger.balances[env.vaultTokenA])
	require.Equal(t, uint64(1), env.ledger.balances[position.nftAccount.Address])
	require.Equal(t, uint64(1), env.ledger.minted[position.nftMint])
	require.True(t, env.ledger.revoked[position.nftMint])
}

func TestDepositStacksDripAmounts(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)
	env.deposit(400, 4, solanago.PublicKey{})
	env.deposit(600, 2, solanago.PublicKey{})

	require.Equal(t, uint64(400), env.vault.Data.DripAmount)
	require.Equal(t, uint64(300), env.period(2).Data.Dar)
	require.Equal(t, uint64(100), env.period(4).Data.Dar)
}

func TestDepositValidation(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)

	accounts, params, _ := env.depositAccounts(0, 4, solanago.PublicKey{})
	_, err := env.engine.Deposit(env.ctx, accounts, params)
	require.ErrorIs(t, err, ErrDepositAmountIsZero)

	accounts, params, _ = env.depositAccounts(400, 4, solanago.PublicKey{})
	params.NumberOfSwaps = 0
	_, err = env.engine.Deposit(env.ctx, accounts, params)
	require.ErrorIs(t, err, ErrNumSwapsIsZero)

	// period record does not line up with lastDripPeriod + numberOfSwaps
	accounts, params, _ = env.depositAccounts(400, 4, solanago.PublicKey{})
	accounts.VaultPeriodEnd = env.period(3)
	_, err = env.engine.Deposit(env.ctx, accounts, params)
	require.ErrorIs(t, err, ErrInvalidVaultPeriod)

	// 3 tokens over 4 swaps floors to zero per period
	accounts, params, _ = env.depositAccounts(3, 4, solanago.PublicKey{})
	_, err = env.engine.Deposit(env.ctx, accounts, params)
	require.ErrorIs(t, err, ErrPeriodicDripAmountIsZero)

	accounts, params, _ = env.depositAccounts(400, 4, solanago.PublicKey{})
	accounts.VaultTokenAAccount = pubkey()
	_, err = env.engine.Deposit(env.ctx, accounts, params)
	require.ErrorIs(t, err, ErrIncorrectVaultTokenAccount)

	require.Equal(t, uint64(0), env.vault.Data.DripAmount)
	require.Equal(t, uint64(0), env.ledger.balances[env.vaultTokenA])
}

func TestDepositFloorRemainderStaysInReserve(t *testing.T) {
	env := newDripTestEnv(t, 0, 0, 0)
	env.deposit(10, 3, solanago.PublicKey{})

	// 10/3 floors to 3; the odd token is deposited but never scheduled
	require.Equal(t, uint64(3), env.vault.Data.DripAmount)
	require.Equal(t, uint64(10), env.ledger.balances[env.vaultTokenA])
}
