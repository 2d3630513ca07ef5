package state

import (
	"math"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T, whitelist []solanago.PublicKey, now int64) *Vault {
	t.Helper()
	v := &Vault{}
	v.Init(
		solanago.NewWallet().PublicKey(),
		solanago.NewWallet().PublicKey(),
		solanago.NewWallet().PublicKey(),
		solanago.NewWallet().PublicKey(),
		solanago.NewWallet().PublicKey(),
		solanago.NewWallet().PublicKey(),
		whitelist,
		1000,
		60,
		now,
	)
	return v
}

func TestVaultInitSnapsActivationBackward(t *testing.T) {
	v := newTestVault(t, nil, 95)
	require.Equal(t, int64(60), v.DripActivationTimestamp)
	require.Equal(t, uint64(0), v.LastDripPeriod)
	require.Equal(t, uint64(0), v.DripAmount)
	require.False(t, v.LimitSwaps)
}

func TestVaultDripAmountAccounting(t *testing.T) {
	v := newTestVault(t, nil, 0)

	require.NoError(t, v.IncreaseDripAmount(50))
	require.NoError(t, v.IncreaseDripAmount(25))
	require.Equal(t, uint64(75), v.DripAmount)

	require.NoError(t, v.DecreaseDripAmount(75))
	require.Equal(t, uint64(0), v.DripAmount)

	require.ErrorIs(t, v.DecreaseDripAmount(1), ErrDripAmountUnderflow)

	require.NoError(t, v.IncreaseDripAmount(1))
	require.ErrorIs(t, v.IncreaseDripAmount(math.MaxUint64), ErrDripAmountOverflow)
}

func TestVaultProcessDrip(t *testing.T) {
	v := newTestVault(t, nil, 0)
	require.NoError(t, v.IncreaseDripAmount(100))

	period := &VaultPeriod{}
	period.Init(solanago.NewWallet().PublicKey(), 1)
	require.NoError(t, period.IncreaseDripAmountToReduce(40))

	require.NoError(t, v.ProcessDrip(period, 60, 65))
	require.Equal(t, uint64(60), v.DripAmount)
	require.Equal(t, uint64(1), v.LastDripPeriod)
	require.Equal(t, int64(120), v.DripActivationTimestamp)

	require.False(t, v.IsDripActivated(65))
	require.False(t, v.IsDripActivated(119))
	require.True(t, v.IsDripActivated(120))
}

func TestVaultSwapWhitelist(t *testing.T) {
	allowed := solanago.NewWallet().PublicKey()
	other := solanago.NewWallet().PublicKey()

	v := newTestVault(t, []solanago.PublicKey{allowed}, 0)
	require.True(t, v.LimitSwaps)
	require.True(t, v.IsSwapWhitelisted(allowed))
	require.False(t, v.IsSwapWhitelisted(other))

	v.SetWhitelistedSwaps(nil)
	require.False(t, v.LimitSwaps)
	require.True(t, v.IsSwapWhitelisted(other))
}
