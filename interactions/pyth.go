package interactions

import (
	"context"
	"errors"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"

	solanago "github.com/dcaflow/drip-go/solana"
	"github.com/dcaflow/drip-go/state"
)

const (
	pythMagic         = uint32(0xa1b2c3d4)
	pythStatusTrading = uint32(1)
)

var (
	ErrUnsupportedOracleSource = errors.New("oracle config names an unsupported price source")
	ErrPriceNotTrading         = errors.New("pyth price feed is not in trading status")
)

type pythEma struct {
	Val   int64
	Numer int64
	Denom int64
}

type pythPriceInfo struct {
	Price   int64
	Conf    uint64
	Status  uint32
	CorpAct uint32
	PubSlot uint64
}

// pythPriceAccount mirrors the C layout of a Pyth V2 price account.
type pythPriceAccount struct {
	Magic         uint32
	Version       uint32
	AccountType   uint32
	Size          uint32
	PriceType     uint32
	Exponent      int32
	NumComponents uint32
	NumQuoters    uint32
	LastSlot      uint64
	ValidSlot     uint64
	EmaPrice      pythEma
	EmaConf       pythEma
	Timestamp     int64
	MinPublishers uint8
	MessageSent   uint8
	MaxLatency    uint8
	Drv3          int8
	Drv4          int32
	Product       solana.PublicKey
	NextPrice     solana.PublicKey
	PrevSlot      uint64
	PrevPrice     int64
	PrevConf      uint64
	PrevTimestamp int64
	Agg           pythPriceInfo
}

func decodePythPrice(data []byte) (*pythPriceAccount, error) {
	account := &pythPriceAccount{}
	if err := binary.NewBinDecoder(data).Decode(account); err != nil {
		return nil, err
	}
	if account.Magic != pythMagic {
		return nil, fmt.Errorf("not a pyth price account (magic %#x)", account.Magic)
	}
	if account.Agg.Status != pythStatusTrading {
		return nil, ErrPriceNotTrading
	}
	if account.Agg.Price <= 0 {
		return nil, fmt.Errorf("pyth aggregate price is not positive: %d", account.Agg.Price)
	}
	return account, nil
}

// bestBOverAPrice combines two feeds quoted against a common asset into B/A,
// which is A_price / B_price. Token A is widened by its confidence interval
// and token B narrowed by its, giving the highest B/A the feeds support.
func bestBOverAPrice(feedA, feedB *pythPriceAccount) (decimal.Decimal, error) {
	valueA := feedA.Agg.Price + int64(feedA.Agg.Conf)
	valueB := feedB.Agg.Price - int64(feedB.Agg.Conf)
	if valueB <= 0 {
		return decimal.Decimal{}, fmt.Errorf("pyth confidence %d swallows token b price %d", feedB.Agg.Conf, feedB.Agg.Price)
	}
	return decimal.New(valueA, feedA.Exponent).
		Div(decimal.New(valueB, feedB.Exponent)), nil
}

// PythOracle resolves the oracle config's token A and token B Pyth feeds into
// a B/A reference price.
type PythOracle struct {
	rpcClient *rpc.Client
}

func NewPythOracle(rpcClient *rpc.Client) *PythOracle {
	return &PythOracle{rpcClient: rpcClient}
}

func (o *PythOracle) BOverAPrice(ctx context.Context, cfg *state.OracleConfig) (decimal.Decimal, error) {
	if cfg.Source != state.PythSourceID {
		return decimal.Decimal{}, ErrUnsupportedOracleSource
	}

	outs, err := solanago.GetMultipleAccountInfo(ctx, o.rpcClient, []solana.PublicKey{cfg.TokenAPrice, cfg.TokenBPrice})
	if err != nil {
		return decimal.Decimal{}, err
	}
	for i, out := range outs.Value {
		if out == nil {
			return decimal.Decimal{}, fmt.Errorf("pyth price account %d not found", i)
		}
	}

	feedA, err := decodePythPrice(outs.Value[0].Data.GetBinary())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("token a feed %s: %w", cfg.TokenAPrice, err)
	}
	feedB, err := decodePythPrice(outs.Value[1].Data.GetBinary())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("token b feed %s: %w", cfg.TokenBPrice, err)
	}
	return bestBOverAPrice(feedA, feedB)
}
