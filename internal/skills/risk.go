package skills

import (
	"context"
	"fmt"

	"github.com/pvzzle/chainlens/internal/ethfmt"

	"golang.org/x/sync/errgroup"
)

type ActivityLevel string

const (
	ActivityNone     ActivityLevel = "none"
	ActivityLow      ActivityLevel = "low"
	ActivityMedium   ActivityLevel = "medium"
	ActivityHigh     ActivityLevel = "high"
	ActivityVeryHigh ActivityLevel = "very-high"
)

const (
	FlagContract        = "contract-address"
	FlagNoTransactions  = "no-transactions"
	FlagVeryLowActivity = "very-low-activity"

	riskBaseline = 50
)

type RiskResult struct {
	Address       string        `json:"address"`
	RiskScore     int           `json:"riskScore"`
	IsContract    bool          `json:"isContract"`
	TxCount       uint64        `json:"txCount"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Flags         []string      `json:"flags"`
	LatestBlock   uint64        `json:"latestBlock"`
	Network       string        `json:"network"`
	Timestamp     string        `json:"timestamp"`
}

func (s *Service) Risk(ctx context.Context, address string) (*RiskResult, error) {
	if !ethfmt.IsEthAddress(address) {
		return nil, errInvalidAddress
	}

	var countHex, code, blockHex string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		countHex, err = s.callString(gctx, "eth_getTransactionCount", address, "latest")
		return err
	})
	g.Go(func() (err error) {
		code, err = s.callString(gctx, "eth_getCode", address, "latest")
		return err
	})
	g.Go(func() (err error) {
		blockHex, err = s.callString(gctx, "eth_blockNumber")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	txCount, err := ethfmt.ParseUint64(countHex)
	if err != nil {
		return nil, fmt.Errorf("tx count: %w", err)
	}
	latest, err := ethfmt.ParseUint64(blockHex)
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}

	isContract := !ethfmt.IsEmptyCode(code)
	score, flags := scoreRisk(isContract, txCount)

	return &RiskResult{
		Address:       address,
		RiskScore:     score,
		IsContract:    isContract,
		TxCount:       txCount,
		ActivityLevel: activityLevel(txCount),
		Flags:         flags,
		LatestBlock:   latest,
		Network:       s.network,
		Timestamp:     s.timestamp(),
	}, nil
}

func activityLevel(txCount uint64) ActivityLevel {
	switch {
	case txCount == 0:
		return ActivityNone
	case txCount < 10:
		return ActivityLow
	case txCount < 100:
		return ActivityMedium
	case txCount < 1000:
		return ActivityHigh
	default:
		return ActivityVeryHigh
	}
}

// scoreRisk: 0 is safe, 100 is risky. The activity discounts for busy
// addresses move the score without raising a flag.
func scoreRisk(isContract bool, txCount uint64) (int, []string) {
	score := riskBaseline
	flags := make([]string, 0, 2)

	if isContract {
		score += 15
		flags = append(flags, FlagContract)
	}

	switch {
	case txCount == 0:
		score += 25
		flags = append(flags, FlagNoTransactions)
	case txCount < 5:
		score += 15
		flags = append(flags, FlagVeryLowActivity)
	case txCount > 100:
		score -= 20
	case txCount > 10:
		score -= 10
	}

	return min(max(score, 0), 100), flags
}
