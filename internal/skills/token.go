package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/pvzzle/chainlens/internal/ethfmt"
)

// totalSupply()
var selectorTotalSupply = []byte{0x18, 0x16, 0x0d, 0xdd}

const supplyUnavailable = "N/A"

type TokenResult struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Decimals    int32   `json:"decimals"`
	PriceUSD    float64 `json:"priceUsd"`
	TotalSupply string  `json:"totalSupply"`
	Network     string  `json:"network"`
	Timestamp   string  `json:"timestamp"`
}

func (s *Service) Token(ctx context.Context, symbol string) (*TokenResult, error) {
	tok, ok := s.tokens.Lookup(symbol)
	if !ok {
		return nil, &ValidationError{
			Message: "Unknown token. Supported: " + strings.Join(s.tokens.Symbols(), ", "),
		}
	}

	supply := supplyUnavailable
	if !tok.Native() {
		msg := callMsg{To: tok.Address, Data: ethfmt.CallData(selectorTotalSupply)}
		raw, err := s.callString(ctx, "eth_call", msg, "latest")
		if err != nil {
			return nil, err
		}
		if raw != "" && raw != "0x" {
			units, err := ethfmt.ParseQuantity(raw)
			if err != nil {
				return nil, fmt.Errorf("total supply: %w", err)
			}
			supply = ethfmt.GroupThousands(ethfmt.Units(units, tok.Decimals))
		}
	}

	return &TokenResult{
		Symbol:      tok.Symbol,
		Name:        tok.Name,
		Address:     tok.Address,
		Decimals:    tok.Decimals,
		PriceUSD:    tok.PriceUSD,
		TotalSupply: supply,
		Network:     s.network,
		Timestamp:   s.timestamp(),
	}, nil
}
