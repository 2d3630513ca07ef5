package interactions

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"

	solanago "github.com/dcaflow/drip-go/solana"
	"github.com/dcaflow/drip-go/state"
	"github.com/dcaflow/drip-go/vault"
)

// Drip drives the vault engine against a cluster. The vault authority is a
// custodial wallet held by the operator; records are loaded fresh for every
// operation and handed back mutated so the caller can persist them.
type Drip struct {
	rpcClient *rpc.Client
	program   *Program
	exec      *TxExecutor
	engine    *vault.Engine

	vaultAuthority *solana.Wallet
}

func NewDrip(
	rpcClient *rpc.Client,
	wsClient *ws.Client,
	payer *solana.Wallet,
	vaultAuthority *solana.Wallet,
	options ...vault.Option,
) *Drip {
	exec := NewTxExecutor(rpcClient, wsClient, payer, vaultAuthority)

	options = append([]vault.Option{
		vault.WithClock(func() time.Time {
			if now, err := solanago.CurrentBlockTime(context.Background(), rpcClient); err == nil {
				return time.Unix(now, 0)
			}
			return time.Now()
		}),
		vault.WithPriceOracle(NewPythOracle(rpcClient)),
	}, options...)

	return &Drip{
		rpcClient:      rpcClient,
		program:        NewProgram(rpcClient),
		exec:           exec,
		engine:         vault.NewEngine(exec, options...),
		vaultAuthority: vaultAuthority,
	}
}

func (m *Drip) Engine() *vault.Engine { return m.engine }

// WalletBalances reports a wallet's SPL holdings aggregated by mint, keyed by
// the mint's base58 address. Handy for checking a depositor's token A before
// opening a position.
func (m *Drip) WalletBalances(ctx context.Context, wallet solana.PublicKey) (map[string]uint64, error) {
	return solanago.WalletTokenBalances(ctx, m.rpcClient, wallet)
}

// ensureATA resolves the owner's ATA for mint, creating it on chain first
// when it does not exist yet.
func (m *Drip) ensureATA(ctx context.Context, owner, mint solana.PublicKey) (solana.PublicKey, error) {
	var instructions []solana.Instruction
	address, err := solanago.PrepareTokenATA(ctx, m.rpcClient, owner, mint, m.exec.payer.PublicKey(), &instructions)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if len(instructions) > 0 {
		if err := m.exec.send(ctx, m.exec.payer.PublicKey(), instructions); err != nil {
			return solana.PublicKey{}, err
		}
	}
	return address, nil
}

func (m *Drip) loadVault(ctx context.Context, vaultAddress solana.PublicKey) (state.Record[state.Vault], state.Record[state.VaultProtoConfig], error) {
	vaultRecord, err := m.program.Vault(ctx, vaultAddress)
	if err != nil {
		return state.Record[state.Vault]{}, state.Record[state.VaultProtoConfig]{}, err
	}
	protoConfig, err := m.program.VaultProtoConfig(ctx, vaultRecord.Data.ProtoConfig)
	if err != nil {
		return state.Record[state.Vault]{}, state.Record[state.VaultProtoConfig]{}, err
	}
	return vaultRecord, protoConfig, nil
}

// Deposit opens a position for the depositor, paying from their token A ATA.
// The position NFT mint must be a fresh mint whose authority is the vault
// authority wallet.
func (m *Drip) Deposit(
	ctx context.Context,
	vaultAddress solana.PublicKey,
	depositor *solana.Wallet,
	positionNFTMint solana.PublicKey,
	amount uint64,
	numberOfSwaps uint64,
	referrer solana.PublicKey,
	metadata *vault.PositionMetadata,
) (*vault.DepositResult, state.Record[state.Position], error) {
	none := state.Record[state.Position]{}

	vaultRecord, protoConfig, err := m.loadVault(ctx, vaultAddress)
	if err != nil {
		return nil, none, err
	}
	periodEnd, err := m.program.VaultPeriod(ctx, vaultAddress, vaultRecord.Data.LastDripPeriod+numberOfSwaps)
	if err != nil {
		return nil, none, err
	}

	userTokenA, _, err := solana.FindAssociatedTokenAddress(depositor.PublicKey(), vaultRecord.Data.TokenAMint)
	if err != nil {
		return nil, none, err
	}
	// fresh mint, so the holding account never exists yet
	nftAccount, err := m.ensureATA(ctx, depositor.PublicKey(), positionNFTMint)
	if err != nil {
		return nil, none, err
	}
	positionAddress, _, err := state.DerivePositionAddress(positionNFTMint)
	if err != nil {
		return nil, none, err
	}
	position := state.NewRecord(positionAddress, &state.Position{})

	m.exec.signers[depositor.PublicKey()] = depositor

	result, err := m.engine.Deposit(ctx, vault.DepositAccounts{
		Depositor:              depositor.PublicKey(),
		Vault:                  vaultRecord,
		VaultProtoConfig:       protoConfig,
		VaultPeriodEnd:         periodEnd,
		VaultTokenAAccount:     vaultRecord.Data.TokenAAccount,
		UserTokenAAccount:      userTokenA,
		UserPosition:           position,
		UserPositionNFTMint:    positionNFTMint,
		UserPositionNFTAccount: nftAccount,
		Referrer:               referrer,
	}, vault.DepositParams{
		TokenADepositAmount: amount,
		NumberOfSwaps:       numberOfSwaps,
		Metadata:            metadata,
	})
	if err != nil {
		return nil, none, err
	}
	return result, position, nil
}

// Drip executes the vault's next period through the given venue.
func (m *Drip) Drip(
	ctx context.Context,
	vaultAddress solana.PublicKey,
	venue vault.SwapVenue,
	dripFeeTokenAAccount solana.PublicKey,
) (*vault.DripResult, error) {
	vaultRecord, protoConfig, err := m.loadVault(ctx, vaultAddress)
	if err != nil {
		return nil, err
	}
	lastPeriod, err := m.program.VaultPeriod(ctx, vaultAddress, vaultRecord.Data.LastDripPeriod)
	if err != nil {
		return nil, err
	}
	currentPeriod, err := m.program.VaultPeriod(ctx, vaultAddress, vaultRecord.Data.LastDripPeriod+1)
	if err != nil {
		return nil, err
	}

	accounts := vault.DripAccounts{
		Vault:                vaultRecord,
		VaultProtoConfig:     protoConfig,
		LastVaultPeriod:      lastPeriod,
		CurrentVaultPeriod:   currentPeriod,
		VaultTokenAAccount:   vaultRecord.Data.TokenAAccount,
		VaultTokenBAccount:   vaultRecord.Data.TokenBAccount,
		DripFeeTokenAAccount: dripFeeTokenAAccount,
		Swap:                 venue,
	}

	if !vaultRecord.Data.OracleConfig.IsZero() {
		oracleConfig, err := fetchRecord[state.OracleConfig](ctx, m.rpcClient, vaultRecord.Data.OracleConfig, "OracleConfig")
		if err != nil {
			return nil, err
		}
		mints, err := solanago.GetMultipleMint(ctx, m.rpcClient, vaultRecord.Data.TokenAMint, vaultRecord.Data.TokenBMint)
		if err != nil {
			return nil, err
		}
		accounts.Oracle = &vault.DripOracleAccounts{
			OracleConfig:   oracleConfig,
			TokenADecimals: mints[0].Decimals,
			TokenBDecimals: mints[1].Decimals,
		}
	}

	return m.engine.Drip(ctx, accounts)
}

func (m *Drip) withdrawCommon(
	ctx context.Context,
	withdrawer *solana.Wallet,
	positionNFTMint solana.PublicKey,
	referrer solana.PublicKey,
) (vault.WithdrawCommonAccounts, error) {
	none := vault.WithdrawCommonAccounts{}

	position, err := m.program.Position(ctx, positionNFTMint)
	if err != nil {
		return none, err
	}
	vaultRecord, protoConfig, err := m.loadVault(ctx, position.Data.Vault)
	if err != nil {
		return none, err
	}

	periodI, err := m.program.VaultPeriod(ctx, position.Data.Vault, position.Data.DripPeriodIDBeforeDeposit)
	if err != nil {
		return none, err
	}
	periodJ, err := m.program.VaultPeriod(ctx, position.Data.Vault,
		min(vaultRecord.Data.LastDripPeriod, position.Data.Expiry()))
	if err != nil {
		return none, err
	}

	nftATA, _, err := solana.FindAssociatedTokenAddress(withdrawer.PublicKey(), positionNFTMint)
	if err != nil {
		return none, err
	}
	nftAccount, err := solanago.GetTokenAccount(ctx, m.rpcClient, nftATA)
	if err != nil {
		return none, err
	}
	userTokenB, err := m.ensureATA(ctx, withdrawer.PublicKey(), vaultRecord.Data.TokenBMint)
	if err != nil {
		return none, err
	}

	m.exec.signers[withdrawer.PublicKey()] = withdrawer

	return vault.WithdrawCommonAccounts{
		Withdrawer:                 withdrawer.PublicKey(),
		Vault:                      vaultRecord,
		VaultProtoConfig:           protoConfig,
		VaultPeriodI:               periodI,
		VaultPeriodJ:               periodJ,
		UserPosition:               position,
		UserPositionNFTAccount:     nftAccount,
		VaultTokenBAccount:         vaultRecord.Data.TokenBAccount,
		VaultTreasuryTokenBAccount: vaultRecord.Data.TreasuryTokenBAccount,
		UserTokenBAccount:          userTokenB,
		Referrer:                   referrer,
	}, nil
}

func (m *Drip) WithdrawB(
	ctx context.Context,
	withdrawer *solana.Wallet,
	positionNFTMint solana.PublicKey,
	referrer solana.PublicKey,
) (*vault.WithdrawResult, error) {
	common, err := m.withdrawCommon(ctx, withdrawer, positionNFTMint, referrer)
	if err != nil {
		return nil, err
	}
	return m.engine.WithdrawB(ctx, vault.WithdrawBAccounts{Common: common})
}

func (m *Drip) ClosePosition(
	ctx context.Context,
	withdrawer *solana.Wallet,
	positionNFTMint solana.PublicKey,
	referrer solana.PublicKey,
) (*vault.CloseResult, error) {
	common, err := m.withdrawCommon(ctx, withdrawer, positionNFTMint, referrer)
	if err != nil {
		return nil, err
	}

	expiryPeriod, err := m.program.VaultPeriod(ctx, common.Vault.Address, common.UserPosition.Data.Expiry())
	if err != nil {
		return nil, err
	}
	userTokenAATA, err := m.ensureATA(ctx, withdrawer.PublicKey(), common.Vault.Data.TokenAMint)
	if err != nil {
		return nil, err
	}
	userTokenA, err := solanago.GetTokenAccount(ctx, m.rpcClient, userTokenAATA)
	if err != nil {
		return nil, err
	}

	return m.engine.ClosePosition(ctx, vault.ClosePositionAccounts{
		Common:                common,
		VaultPeriodUserExpiry: expiryPeriod,
		VaultTokenAAccount:    common.Vault.Data.TokenAAccount,
		UserTokenAAccount:     userTokenA,
		UserPositionNFTMint:   positionNFTMint,
	})
}
