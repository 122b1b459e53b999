package skills

import (
	"context"
	"fmt"
	"math/big"

	"github.com/pvzzle/chainlens/internal/ethfmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const feeHistoryBlocks = 5

// Reward percentiles requested from eth_feeHistory, one per tier: slow, standard, fast.
var feeHistoryPercentiles = []float64{25, 50, 75}

var (
	slowFallback = decimal.RequireFromString("0.9")
	fastFallback = decimal.RequireFromString("1.2")
)

type GasTier struct {
	Gwei string   `json:"gwei"`
	Wei  *big.Int `json:"wei"`
}

type GasQuote struct {
	Slow            GasTier `json:"slow"`
	Standard        GasTier `json:"standard"`
	Fast            GasTier `json:"fast"`
	BaseFee         GasTier `json:"baseFee"`
	CurrentGasPrice GasTier `json:"currentGasPrice"`
	Network         string  `json:"network"`
	Timestamp       string  `json:"timestamp"`
}

// feeHistory is the subset of the eth_feeHistory result used here. Reward
// entries are pointers so that absent (null) values can be told apart from "0x0".
type feeHistory struct {
	BaseFeePerGas []string    `json:"baseFeePerGas"`
	Reward        [][]*string `json:"reward"`
}

func (s *Service) Gas(ctx context.Context) (*GasQuote, error) {
	var (
		priceHex string
		hist     feeHistory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		priceHex, err = s.callString(gctx, "eth_gasPrice")
		return err
	})
	g.Go(func() error {
		_, err := s.callObject(gctx, &hist, "eth_feeHistory",
			hexutil.EncodeUint64(feeHistoryBlocks), "latest", feeHistoryPercentiles)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	gasPrice, err := ethfmt.ParseQuantity(priceHex)
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}

	q, err := quoteGas(gasPrice, hist)
	if err != nil {
		return nil, err
	}
	q.Network = s.network
	q.Timestamp = s.timestamp()
	return q, nil
}

func quoteGas(gasPrice *big.Int, hist feeHistory) (*GasQuote, error) {
	baseFee := gasPrice
	if n := len(hist.BaseFeePerGas); n > 0 {
		bf, err := ethfmt.ParseQuantity(hist.BaseFeePerGas[n-1])
		if err != nil {
			return nil, fmt.Errorf("base fee: %w", err)
		}
		baseFee = bf
	}

	price := decimal.NewFromBigInt(gasPrice, 0)
	var tiers [3]decimal.Decimal

	if len(hist.Reward) > 0 {
		base := decimal.NewFromBigInt(baseFee, 0)
		for col := range tiers {
			avg, err := averageReward(hist.Reward, col)
			if err != nil {
				return nil, err
			}
			tiers[col] = base.Add(avg)
		}
	} else {
		tiers = [3]decimal.Decimal{price.Mul(slowFallback), price, price.Mul(fastFallback)}
	}

	return &GasQuote{
		Slow:            roundedTier(tiers[0]),
		Standard:        roundedTier(tiers[1]),
		Fast:            roundedTier(tiers[2]),
		BaseFee:         GasTier{Gwei: ethfmt.GweiString(decimal.NewFromBigInt(baseFee, 0)), Wei: baseFee},
		CurrentGasPrice: GasTier{Gwei: ethfmt.GweiString(price), Wei: gasPrice},
	}, nil
}

// averageReward averages one percentile column over the returned blocks.
// Absent entries are skipped rather than counted as zero; "0x0" still counts.
func averageReward(rewards [][]*string, col int) (decimal.Decimal, error) {
	sum := new(big.Int)
	n := int64(0)
	for i, block := range rewards {
		if col >= len(block) || block[col] == nil || *block[col] == "" {
			continue
		}
		v, err := ethfmt.ParseQuantity(*block[col])
		if err != nil {
			return decimal.Zero, fmt.Errorf("reward[%d][%d]: %w", i, col, err)
		}
		sum.Add(sum, v)
		n++
	}
	if n == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromBigInt(sum, 0).Div(decimal.NewFromInt(n)), nil
}

func roundedTier(wei decimal.Decimal) GasTier {
	return GasTier{Gwei: ethfmt.GweiString(wei), Wei: wei.Round(0).BigInt()}
}
