package solana

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/tidwall/gjson"
)

// CurrentBlockTime is the cluster's notion of now, used to gate drip
// activation instead of the local wall clock.
func CurrentBlockTime(ctx context.Context, rpcClient *rpc.Client) (int64, error) {
	currentSlot, err := rpcClient.GetSlot(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("failed to get slot: %w", err)
	}

	currentTime, err := rpcClient.GetBlockTime(ctx, currentSlot)
	if err != nil {
		return 0, fmt.Errorf("failed to get block time: %w", err)
	}
	return currentTime.Time().Unix(), nil
}

func GetLatestBlockhash(ctx context.Context, rpcClient *rpc.Client) (solana.Hash, error) {

	recent, err := rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, err
	}
	return recent.Value.Blockhash, nil
}

func discriminator(name string) []byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out[:]
}

// GenProgramAccountFilter builds a getProgramAccounts filter matching the
// account discriminator, optionally narrowed to records holding owner at
// the given byte offset.
func GenProgramAccountFilter(key string, owner solana.PublicKey, offset uint64) *rpc.GetProgramAccountsOpts {

	opt := &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentFinalized,
		Encoding:   solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  discriminator(key),
				},
			},
		},
	}
	if owner.Equals(solana.PublicKey{}) {
		return opt
	}

	opt.Filters = append(opt.Filters, rpc.RPCFilter{
		Memcmp: &rpc.RPCFilterMemcmp{
			Offset: offset,
			Bytes:  owner[:],
		},
	})
	return opt
}

func GetAccountInfo(ctx context.Context, rpcClient *rpc.Client, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentFinalized})
}

func GetMultipleAccountInfo(ctx context.Context, rpcClient *rpc.Client, accounts []solana.PublicKey) (*rpc.GetMultipleAccountsResult, error) {
	return rpcClient.GetMultipleAccountsWithOpts(ctx, accounts, &rpc.GetMultipleAccountsOpts{Commitment: rpc.CommitmentFinalized, Encoding: solana.EncodingBase64})
}

func GetMultipleMint(ctx context.Context, rpcClient *rpc.Client, mints ...solana.PublicKey) ([]*Mint, error) {
	outs, err := GetMultipleAccountInfo(ctx, rpcClient, mints)
	if err != nil {
		return nil, err
	}
	list := make([]*Mint, len(outs.Value))
	for i, out := range outs.Value {
		if out == nil {
			continue
		}

		mint, err := DecodeMint(out.Data.GetBinary())
		if err != nil {
			return nil, err
		}
		mint.Address = mints[i]
		mint.Owner = out.Owner

		list[i] = mint
	}
	return list, nil
}

func GetTokenAccount(ctx context.Context, rpcClient *rpc.Client, account solana.PublicKey) (*Account, error) {
	out, err := GetAccountInfo(ctx, rpcClient, account)
	if err != nil {
		return nil, err
	}
	decoded, err := new(AccountLayout).Decode(out.Value.Data.GetBinary())
	if err != nil {
		return nil, err
	}
	decoded.Address = account
	return decoded, nil
}

// WalletTokenBalances sums a wallet's jsonParsed SPL token accounts by mint.
func WalletTokenBalances(ctx context.Context, rpcClient *rpc.Client, wallet solana.PublicKey) (map[string]uint64, error) {
	resp, err := rpcClient.GetTokenAccountsByOwner(ctx,
		wallet,
		&rpc.GetTokenAccountsConfig{ProgramId: &solana.TokenProgramID},
		&rpc.GetTokenAccountsOpts{Commitment: rpc.CommitmentFinalized, Encoding: solana.EncodingJSONParsed},
	)
	if err != nil {
		return nil, err
	}

	mintBalance := make(map[string]uint64)
	for _, v := range resp.Value {
		mint := gjson.GetBytes(v.Account.Data.GetRawJSON(), "parsed.info.mint").String()
		amount := gjson.GetBytes(v.Account.Data.GetRawJSON(), "parsed.info.tokenAmount.amount").Uint()
		if mint == "" {
			continue
		}
		mintBalance[mint] += amount
	}
	return mintBalance, nil
}
