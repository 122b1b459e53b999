package skills

import (
	"context"
	"fmt"
	"math/big"

	"github.com/pvzzle/chainlens/internal/ethfmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// balanceOf(address)
var selectorBalanceOf = []byte{0x70, 0xa0, 0x82, 0x31}

var (
	whaleMinWei       = new(big.Int).Mul(big.NewInt(10), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	stablecoinMinUnit = big.NewInt(10_000 * 1_000_000)
)

type PortfolioResult struct {
	Address     string   `json:"address"`
	EthBalance  string   `json:"ethBalance"`
	UsdcBalance string   `json:"usdcBalance"`
	TxCount     uint64   `json:"txCount"`
	Labels      []string `json:"labels"`
	Network     string   `json:"network"`
	Timestamp   string   `json:"timestamp"`
}

func (s *Service) Portfolio(ctx context.Context, address string) (*PortfolioResult, error) {
	if !ethfmt.IsEthAddress(address) {
		return nil, errInvalidAddress
	}

	var balHex, usdcHex, countHex string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		balHex, err = s.callString(gctx, "eth_getBalance", address, "latest")
		return err
	})
	g.Go(func() (err error) {
		msg := callMsg{
			To:   s.usdc.Hex(),
			Data: ethfmt.CallData(selectorBalanceOf, common.HexToAddress(address)),
		}
		usdcHex, err = s.callString(gctx, "eth_call", msg, "latest")
		return err
	})
	g.Go(func() (err error) {
		countHex, err = s.callString(gctx, "eth_getTransactionCount", address, "latest")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	wei, err := ethfmt.ParseQuantity(balHex)
	if err != nil {
		return nil, fmt.Errorf("eth balance: %w", err)
	}
	usdc, err := ethfmt.ParseQuantity(usdcHex)
	if err != nil {
		return nil, fmt.Errorf("usdc balance: %w", err)
	}
	txCount, err := ethfmt.ParseUint64(countHex)
	if err != nil {
		return nil, fmt.Errorf("tx count: %w", err)
	}

	return &PortfolioResult{
		Address:     address,
		EthBalance:  ethfmt.WeiToEthString(wei),
		UsdcBalance: ethfmt.UsdcString(usdc),
		TxCount:     txCount,
		Labels:      portfolioLabels(wei, usdc, txCount),
		Network:     s.network,
		Timestamp:   s.timestamp(),
	}, nil
}

// portfolioLabels are independent and appended in a fixed order.
func portfolioLabels(wei, usdc *big.Int, txCount uint64) []string {
	labels := make([]string, 0, 5)
	if txCount > 1000 {
		labels = append(labels, "power-user")
	}
	if txCount > 100 {
		labels = append(labels, "active")
	}
	if wei.Cmp(whaleMinWei) > 0 {
		labels = append(labels, "whale")
	}
	if usdc.Cmp(stablecoinMinUnit) > 0 {
		labels = append(labels, "stablecoin-holder")
	}
	if txCount == 0 {
		labels = append(labels, "empty")
	}
	return labels
}
