package vault

import "errors"

// Every fault is a distinct named condition so callers can tell "retry later"
// from "fix parameters" from "unexpected, alert".
var (
	ErrDuplicateDrip         = errors.New("drip already triggered for the current period")
	ErrIncompleteSwap        = errors.New("swap did not complete, received token b is zero")
	ErrIncorrectSwapAmount   = errors.New("swap consumed more token a than the vault drip amount")
	ErrInsufficientBalanceA  = errors.New("vault token a balance is below the drip amount")
	ErrInvalidGranularity    = errors.New("granularity must be an integer larger than 0")
	ErrInvalidMint           = errors.New("token mint does not match expected value")
	ErrInvalidSpread         = errors.New("spread must be >= 0 and < 5000")
	ErrInvalidSwapAccount    = errors.New("swap venue is not whitelisted")
	ErrInvalidNumSwaps       = errors.New("a vault may whitelist a maximum of 5 swap venues")
	ErrInvalidVaultPeriod    = errors.New("invalid vault period")
	ErrInvalidVaultReference = errors.New("account references the wrong vault")
	ErrInvalidProtoConfigReference = errors.New("account references the wrong vault proto config")
	ErrInvalidVaultMaxSlippage     = errors.New("invalid value for vault max slippage bps")
	ErrIncorrectVaultTokenAccount  = errors.New("incorrect vault token account")
	ErrInvalidOwner                = errors.New("account is owned by the wrong authority")
	ErrInvalidReferrer             = errors.New("referrer does not match position referrer")
	ErrInvalidOracleAccount        = errors.New("oracle account does not match vault oracle config")
	ErrOracleNotSupported          = errors.New("vault with oracle config requires the oracle drip path")
	ErrDepositAmountIsZero         = errors.New("deposit amount is zero")
	ErrNumSwapsIsZero              = errors.New("number of swaps is zero")
	ErrPeriodicDripAmountIsZero    = errors.New("periodic drip amount is zero")
	ErrPositionAlreadyClosed       = errors.New("position is already closed")
	ErrPositionBalanceIsZero       = errors.New("position token account balance is empty")
	ErrWithdrawableAmountIsZero    = errors.New("withdrawable amount is zero")
	ErrSignerIsNotAdmin            = errors.New("signer is not admin")
	ErrSwapPricePastMaxDeviation   = errors.New("swap price deviates past the configured maximum")

	ErrVaultPeriodLessThanCurrent = errors.New("cannot initialize a vault period lesser than the vault's current period")
)
