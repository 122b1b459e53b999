package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"testing"
)

func hexPtr(v int64) *string {
	s := fmt.Sprintf("0x%x", v)
	return &s
}

func TestQuoteGas_FromFeeHistory(t *testing.T) {
	hist := feeHistory{
		BaseFeePerGas: []string{"0x3e7", "0x3e8"},
		Reward:        [][]*string{{hexPtr(100), hexPtr(200), hexPtr(300)}},
	}

	q, err := quoteGas(big.NewInt(5000), hist)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Standard.Wei.Int64() != 1200 {
		t.Fatalf("expected standard 1200 wei, got %s", q.Standard.Wei)
	}
	if q.Slow.Wei.Int64() != 1100 || q.Fast.Wei.Int64() != 1300 {
		t.Fatalf("unexpected slow/fast: %s/%s", q.Slow.Wei, q.Fast.Wei)
	}
	if q.BaseFee.Wei.Int64() != 1000 || q.CurrentGasPrice.Wei.Int64() != 5000 {
		t.Fatalf("unexpected base/current: %s/%s", q.BaseFee.Wei, q.CurrentGasPrice.Wei)
	}
	if q.Standard.Gwei != "0.0000" {
		t.Fatalf("unexpected gwei rendering %q", q.Standard.Gwei)
	}
}

func TestQuoteGas_FallbackWithoutRewards(t *testing.T) {
	gp := big.NewInt(1_000_000_000)
	for _, hist := range []feeHistory{
		{},
		{BaseFeePerGas: []string{"0x1"}, Reward: [][]*string{}},
	} {
		q, err := quoteGas(gp, hist)
		if err != nil {
			t.Fatalf("quote: %v", err)
		}
		if q.Slow.Wei.Int64() != 900_000_000 || q.Standard.Wei.Int64() != 1_000_000_000 || q.Fast.Wei.Int64() != 1_200_000_000 {
			t.Fatalf("unexpected fallback tiers: %s %s %s", q.Slow.Wei, q.Standard.Wei, q.Fast.Wei)
		}
		if q.Slow.Gwei != "0.9000" || q.Standard.Gwei != "1.0000" || q.Fast.Gwei != "1.2000" {
			t.Fatalf("unexpected gwei: %s %s %s", q.Slow.Gwei, q.Standard.Gwei, q.Fast.Gwei)
		}
	}
}

func TestQuoteGas_BaseFeeFallsBackToGasPrice(t *testing.T) {
	hist := feeHistory{Reward: [][]*string{{hexPtr(1), hexPtr(2), hexPtr(3)}}}
	q, err := quoteGas(big.NewInt(700), hist)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.BaseFee.Wei.Int64() != 700 || q.Standard.Wei.Int64() != 702 {
		t.Fatalf("unexpected base/standard: %s/%s", q.BaseFee.Wei, q.Standard.Wei)
	}
}

func TestQuoteGas_SkipsAbsentRewards(t *testing.T) {
	empty := ""
	hist := feeHistory{
		BaseFeePerGas: []string{"0x0"},
		Reward: [][]*string{
			{hexPtr(100), nil, hexPtr(300)},
			{hexPtr(200), hexPtr(200), &empty},
			{hexPtr(0)},
		},
	}
	q, err := quoteGas(big.NewInt(1), hist)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	// slow averages 100, 200 and an explicit zero; standard and fast only see one value each.
	if q.Slow.Wei.Int64() != 100 || q.Standard.Wei.Int64() != 200 || q.Fast.Wei.Int64() != 300 {
		t.Fatalf("unexpected tiers: %s %s %s", q.Slow.Wei, q.Standard.Wei, q.Fast.Wei)
	}
}

func TestQuoteGas_RoundsHalfUp(t *testing.T) {
	hist := feeHistory{
		BaseFeePerGas: []string{"0x0"},
		Reward:        [][]*string{{hexPtr(1), hexPtr(1), hexPtr(1)}, {hexPtr(2), hexPtr(2), hexPtr(2)}},
	}
	q, err := quoteGas(big.NewInt(1), hist)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Standard.Wei.Int64() != 2 {
		t.Fatalf("expected 1.5 to round to 2, got %s", q.Standard.Wei)
	}
}

func TestQuoteGas_TiersOrdered(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		blocks := 1 + r.Intn(5)
		hist := feeHistory{BaseFeePerGas: []string{fmt.Sprintf("0x%x", r.Int63n(1e10))}}
		for b := 0; b < blocks; b++ {
			p25 := r.Int63n(1e9)
			p50 := p25 + r.Int63n(1e9)
			p75 := p50 + r.Int63n(1e9)
			hist.Reward = append(hist.Reward, []*string{hexPtr(p25), hexPtr(p50), hexPtr(p75)})
		}
		q, err := quoteGas(big.NewInt(r.Int63n(1e10)+1), hist)
		if err != nil {
			t.Fatalf("quote: %v", err)
		}
		if q.Slow.Wei.Cmp(q.Standard.Wei) > 0 || q.Standard.Wei.Cmp(q.Fast.Wei) > 0 {
			t.Fatalf("tiers out of order: %s %s %s", q.Slow.Wei, q.Standard.Wei, q.Fast.Wei)
		}
	}
}

func TestGas_EndToEnd(t *testing.T) {
	f := newFakeRPC(map[string]string{
		"eth_gasPrice":   `"0x5f5e100"`,
		"eth_feeHistory": `{"oldestBlock":"0x10","baseFeePerGas":["0x3e8"],"gasUsedRatio":[0.5],"reward":[["0x64","0xc8","0x12c"]]}`,
	})
	s := newTestService(t, f)

	q, err := s.Gas(context.Background())
	if err != nil {
		t.Fatalf("gas: %v", err)
	}
	if q.Standard.Wei.Int64() != 1200 {
		t.Fatalf("expected standard 1200, got %s", q.Standard.Wei)
	}
	if q.CurrentGasPrice.Gwei != "0.1000" {
		t.Fatalf("unexpected current gas price %q", q.CurrentGasPrice.Gwei)
	}

	calls := f.callsTo("eth_feeHistory")
	if len(calls) != 1 {
		t.Fatalf("expected one fee history call, got %d", len(calls))
	}
	if calls[0].params[0] != "0x5" || calls[0].params[1] != "latest" {
		t.Fatalf("unexpected fee history params %v", calls[0].params)
	}

	body, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(body), `"standard":{"gwei":"0.0000","wei":1200}`) {
		t.Fatalf("unexpected json: %s", body)
	}
}
