package tokens

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Descriptor is one entry of the static token table. PriceUSD is a fixed
// reference price, not a market quote.
type Descriptor struct {
	Symbol   string
	Name     string
	Address  string
	Decimals int32
	PriceUSD float64
}

// Native reports whether the descriptor is the chain's native currency (no contract).
func (d Descriptor) Native() bool {
	return common.HexToAddress(d.Address) == (common.Address{})
}

func (d Descriptor) Contract() common.Address {
	return common.HexToAddress(d.Address)
}

// Table is an immutable, ordered symbol lookup.
type Table struct {
	order []string
	bySym map[string]Descriptor
}

func NewTable(ds ...Descriptor) *Table {
	t := &Table{bySym: make(map[string]Descriptor, len(ds))}
	for _, d := range ds {
		sym := strings.ToUpper(d.Symbol)
		d.Symbol = sym
		if _, dup := t.bySym[sym]; !dup {
			t.order = append(t.order, sym)
		}
		t.bySym[sym] = d
	}
	return t
}

// Base returns the Base mainnet table.
func Base() *Table {
	return NewTable(
		Descriptor{Symbol: "ETH", Name: "Ethereum", Address: "0x0000000000000000000000000000000000000000", Decimals: 18, PriceUSD: 2800},
		Descriptor{Symbol: "WETH", Name: "Wrapped Ether", Address: "0x4200000000000000000000000000000000000006", Decimals: 18, PriceUSD: 2800},
		Descriptor{Symbol: "USDC", Name: "USD Coin", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6, PriceUSD: 1.0},
		Descriptor{Symbol: "USDT", Name: "Tether USD", Address: "0xfde4C96c8593536E31F229EA8f37b2ADa2699bb2", Decimals: 6, PriceUSD: 1.0},
		Descriptor{Symbol: "DAI", Name: "Dai Stablecoin", Address: "0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb", Decimals: 18, PriceUSD: 1.0},
	)
}

// Lookup is case-insensitive.
func (t *Table) Lookup(symbol string) (Descriptor, bool) {
	d, ok := t.bySym[strings.ToUpper(strings.TrimSpace(symbol))]
	return d, ok
}

func (t *Table) Symbols() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
