package interactions

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	solanago "github.com/dcaflow/drip-go/solana"
	"github.com/dcaflow/drip-go/state"
)

// Program reads the drip program's records off the cluster.
type Program struct {
	rpcClient *rpc.Client
}

func NewProgram(rpcClient *rpc.Client) *Program {
	return &Program{rpcClient: rpcClient}
}

func accountTag(name string) []byte {
	hash := sha256.Sum256([]byte("account:" + name))
	return hash[:8]
}

func fetchRecord[T any](ctx context.Context, rpcClient *rpc.Client, address solana.PublicKey, name string) (state.Record[T], error) {
	out, err := solanago.GetAccountInfo(ctx, rpcClient, address)
	if err != nil {
		return state.Record[T]{}, err
	}
	data := out.Value.Data.GetBinary()
	if len(data) < 8 || !bytes.Equal(data[:8], accountTag(name)) {
		return state.Record[T]{}, fmt.Errorf("account %s is not a %s record", address, name)
	}
	value := new(T)
	if err := binary.NewBorshDecoder(data[8:]).Decode(value); err != nil {
		return state.Record[T]{}, err
	}
	return state.NewRecord(address, value), nil
}

func (p *Program) VaultProtoConfig(ctx context.Context, address solana.PublicKey) (state.Record[state.VaultProtoConfig], error) {
	return fetchRecord[state.VaultProtoConfig](ctx, p.rpcClient, address, "VaultProtoConfig")
}

func (p *Program) Vault(ctx context.Context, address solana.PublicKey) (state.Record[state.Vault], error) {
	return fetchRecord[state.Vault](ctx, p.rpcClient, address, "Vault")
}

func (p *Program) VaultPeriod(ctx context.Context, vault solana.PublicKey, periodID uint64) (state.Record[state.VaultPeriod], error) {
	address, _, err := state.DeriveVaultPeriodAddress(vault, periodID)
	if err != nil {
		return state.Record[state.VaultPeriod]{}, err
	}
	return fetchRecord[state.VaultPeriod](ctx, p.rpcClient, address, "VaultPeriod")
}

func (p *Program) Position(ctx context.Context, positionNFTMint solana.PublicKey) (state.Record[state.Position], error) {
	address, _, err := state.DerivePositionAddress(positionNFTMint)
	if err != nil {
		return state.Record[state.Position]{}, err
	}
	return fetchRecord[state.Position](ctx, p.rpcClient, address, "Position")
}

// VaultPositions lists every position record referencing the vault.
func (p *Program) VaultPositions(ctx context.Context, vault solana.PublicKey) ([]state.Record[state.Position], error) {
	// the vault reference is the first field after the discriminator
	opts := solanago.GenProgramAccountFilter("Position", vault, 8)
	accounts, err := p.rpcClient.GetProgramAccountsWithOpts(ctx, state.ProgramID, opts)
	if err != nil {
		return nil, err
	}

	positions := make([]state.Record[state.Position], 0, len(accounts))
	for _, account := range accounts {
		position := &state.Position{}
		if err := binary.NewBorshDecoder(account.Account.Data.GetBinary()[8:]).Decode(position); err != nil {
			return nil, err
		}
		positions = append(positions, state.NewRecord(account.Pubkey, position))
	}
	return positions, nil
}
