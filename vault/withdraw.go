package vault

import (
	"context"

	"github.com/dcaflow/drip-go/dripmath"
)

type WithdrawResult struct {
	// amount sent to the withdrawer, after spreads
	WithdrawnTokenBAmount uint64
	TreasurySpreadAmount  uint64
	ReferralSpreadAmount  uint64
}

type CloseResult struct {
	WithdrawResult

	// undripped token A returned to the position owner
	WithdrawnTokenAAmount uint64
}

// withdrawalAmountB is the split of a position's withdrawable token B between
// the user, the protocol treasury and an optional referrer. The treasury and
// referral spreads both come out of the amount owed to the user; the vault's
// token B reserve always decreases by exactly BeforeFees.
type withdrawalAmountB struct {
	BeforeFees     uint64
	TreasurySpread uint64
	ReferralSpread uint64
	Net            uint64
}

func validateWithdrawCommon(common WithdrawCommonAccounts) error {
	vault := common.Vault.Data
	position := common.UserPosition.Data
	if !vault.ProtoConfig.Equals(common.VaultProtoConfig.Address) {
		return ErrInvalidProtoConfigReference
	}
	if !position.Vault.Equals(common.Vault.Address) {
		return ErrInvalidVaultReference
	}
	if position.IsClosed {
		return ErrPositionAlreadyClosed
	}

	periodI, periodJ := common.VaultPeriodI, common.VaultPeriodJ
	if !periodI.Data.Vault.Equals(common.Vault.Address) ||
		periodI.Data.PeriodID != position.DripPeriodIDBeforeDeposit {
		return ErrInvalidVaultPeriod
	}
	expectedJ := min(vault.LastDripPeriod, position.Expiry())
	if !periodJ.Data.Vault.Equals(common.Vault.Address) ||
		periodJ.Data.PeriodID != expectedJ {
		return ErrInvalidVaultPeriod
	}

	nft := common.UserPositionNFTAccount
	if !nft.Mint.Equals(position.PositionAuthority) {
		return ErrInvalidMint
	}
	if nft.Amount != 1 {
		return ErrPositionBalanceIsZero
	}

	if !common.VaultTokenBAccount.Equals(vault.TokenBAccount) ||
		!common.VaultTreasuryTokenBAccount.Equals(vault.TreasuryTokenBAccount) {
		return ErrIncorrectVaultTokenAccount
	}
	if !position.Referrer.IsZero() && !common.Referrer.Equals(position.Referrer) {
		return ErrInvalidReferrer
	}
	return nil
}

func computeWithdrawalAmountB(common WithdrawCommonAccounts) (withdrawalAmountB, error) {
	position := common.UserPosition.Data
	protoConfig := common.VaultProtoConfig.Data

	maxWithdrawableB, err := dripmath.WithdrawTokenBAmount(
		common.VaultPeriodI.Data.PeriodID,
		common.VaultPeriodJ.Data.PeriodID,
		common.VaultPeriodI.Data.Twap,
		common.VaultPeriodJ.Data.Twap,
		position.PeriodicDripAmount,
		protoConfig.TokenADripTriggerSpread,
	)
	if err != nil {
		return withdrawalAmountB{}, err
	}
	beforeFees, err := position.WithdrawableAmountWithMax(maxWithdrawableB)
	if err != nil {
		return withdrawalAmountB{}, err
	}

	treasurySpread, err := dripmath.SpreadAmount(beforeFees, protoConfig.TokenBWithdrawalSpread)
	if err != nil {
		return withdrawalAmountB{}, err
	}
	var referralSpread uint64
	if !common.Referrer.IsZero() {
		referralSpread, err = dripmath.SpreadAmount(beforeFees, protoConfig.TokenBReferralSpread)
		if err != nil {
			return withdrawalAmountB{}, err
		}
	}
	return withdrawalAmountB{
		BeforeFees:     beforeFees,
		TreasurySpread: treasurySpread,
		ReferralSpread: referralSpread,
		Net:            beforeFees - treasurySpread - referralSpread,
	}, nil
}

func (e *Engine) transferWithdrawalB(ctx context.Context, common WithdrawCommonAccounts, amounts withdrawalAmountB) error {
	vaultAddress := common.Vault.Address
	if amounts.Net > 0 {
		if err := e.exec.Transfer(ctx,
			common.VaultTokenBAccount,
			common.UserTokenBAccount,
			vaultAddress,
			amounts.Net,
		); err != nil {
			return err
		}
	}
	if amounts.TreasurySpread > 0 {
		if err := e.exec.Transfer(ctx,
			common.VaultTokenBAccount,
			common.VaultTreasuryTokenBAccount,
			vaultAddress,
			amounts.TreasurySpread,
		); err != nil {
			return err
		}
	}
	if amounts.ReferralSpread > 0 {
		if err := e.exec.Transfer(ctx,
			common.VaultTokenBAccount,
			common.Referrer,
			vaultAddress,
			amounts.ReferralSpread,
		); err != nil {
			return err
		}
	}
	return nil
}

// WithdrawB sends the position's accrued token B to its owner, net of the
// withdrawal and referral spreads. The position stays open and keeps accruing.
func (e *Engine) WithdrawB(ctx context.Context, accounts WithdrawBAccounts) (*WithdrawResult, error) {
	common := accounts.Common
	if err := validateWithdrawCommon(common); err != nil {
		return nil, err
	}
	if !common.UserPositionNFTAccount.Owner.Equals(common.Withdrawer) {
		return nil, ErrInvalidOwner
	}

	amounts, err := computeWithdrawalAmountB(common)
	if err != nil {
		return nil, err
	}
	if amounts.Net == 0 {
		return nil, ErrWithdrawableAmountIsZero
	}

	if err := common.UserPosition.Data.IncreaseWithdrawnAmount(amounts.BeforeFees); err != nil {
		return nil, err
	}

	if err := e.transferWithdrawalB(ctx, common, amounts); err != nil {
		return nil, err
	}

	return &WithdrawResult{
		WithdrawnTokenBAmount: amounts.Net,
		TreasurySpreadAmount:  amounts.TreasurySpread,
		ReferralSpreadAmount:  amounts.ReferralSpread,
	}, nil
}

func validateClose(accounts ClosePositionAccounts) error {
	common := accounts.Common
	if err := validateWithdrawCommon(common); err != nil {
		return err
	}

	isOwner := common.UserPositionNFTAccount.Owner.Equals(common.Withdrawer)
	isAdmin := common.Withdrawer.Equals(common.VaultProtoConfig.Data.Admin)
	if !isOwner && !isAdmin {
		return ErrInvalidOwner
	}

	position := common.UserPosition.Data
	expiry := accounts.VaultPeriodUserExpiry
	if !expiry.Data.Vault.Equals(common.Vault.Address) ||
		expiry.Data.PeriodID != position.Expiry() {
		return ErrInvalidVaultPeriod
	}

	if !accounts.VaultTokenAAccount.Equals(common.Vault.Data.TokenAAccount) {
		return ErrIncorrectVaultTokenAccount
	}
	userA := accounts.UserTokenAAccount
	if !userA.Mint.Equals(common.Vault.Data.TokenAMint) {
		return ErrInvalidMint
	}
	if isAdmin && !isOwner && !userA.Owner.Equals(common.UserPositionNFTAccount.Owner) {
		return ErrInvalidOwner
	}
	return nil
}

// ClosePosition settles a position: accrued token B goes out as in WithdrawB,
// undripped token A is returned, the remaining scheduled drips are removed
// from the aggregate ledger, and the position NFT is burned when its owner is
// the signer. The proto config admin may close on a user's behalf; funds still
// go to accounts owned by the position holder.
func (e *Engine) ClosePosition(ctx context.Context, accounts ClosePositionAccounts) (*CloseResult, error) {
	if err := validateClose(accounts); err != nil {
		return nil, err
	}
	common := accounts.Common
	vault := common.Vault.Data
	position := common.UserPosition.Data

	amountsB, err := computeWithdrawalAmountB(common)
	if err != nil {
		return nil, err
	}
	withdrawableA, err := dripmath.WithdrawTokenAAmount(
		common.VaultPeriodI.Data.PeriodID,
		common.VaultPeriodJ.Data.PeriodID,
		position.NumberOfSwaps,
		position.PeriodicDripAmount,
	)
	if err != nil {
		return nil, err
	}

	if amountsB.BeforeFees > 0 {
		if err := position.IncreaseWithdrawnAmount(amountsB.BeforeFees); err != nil {
			return nil, err
		}
	}
	// periods the position was scheduled for but that never dripped
	if common.VaultPeriodJ.Data.PeriodID < position.Expiry() {
		if err := vault.DecreaseDripAmount(position.PeriodicDripAmount); err != nil {
			return nil, err
		}
		if err := accounts.VaultPeriodUserExpiry.Data.DecreaseDripAmountToReduce(position.PeriodicDripAmount); err != nil {
			return nil, err
		}
	}
	position.Close()

	if err := e.transferWithdrawalB(ctx, common, amountsB); err != nil {
		return nil, err
	}
	if withdrawableA > 0 {
		if err := e.exec.Transfer(ctx,
			accounts.VaultTokenAAccount,
			accounts.UserTokenAAccount.Address,
			common.Vault.Address,
			withdrawableA,
		); err != nil {
			return nil, err
		}
	}
	if common.UserPositionNFTAccount.Owner.Equals(common.Withdrawer) {
		nft := common.UserPositionNFTAccount
		if err := e.exec.Burn(ctx, accounts.UserPositionNFTMint, nft.Address, common.Withdrawer, 1); err != nil {
			return nil, err
		}
		if err := e.exec.CloseAccount(ctx, nft.Address, common.Withdrawer, common.Withdrawer); err != nil {
			return nil, err
		}
	}

	return &CloseResult{
		WithdrawResult: WithdrawResult{
			WithdrawnTokenBAmount: amountsB.Net,
			TreasurySpreadAmount:  amountsB.TreasurySpread,
			ReferralSpreadAmount:  amountsB.ReferralSpread,
		},
		WithdrawnTokenAAmount: withdrawableA,
	}, nil
}
