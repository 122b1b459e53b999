package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pvzzle/chainlens/internal/catalog"
	"github.com/pvzzle/chainlens/internal/logger"
	"github.com/pvzzle/chainlens/internal/rpc"
	"github.com/pvzzle/chainlens/internal/skills"
	"github.com/pvzzle/chainlens/internal/tokens"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

const knownHash = "0x1111111111111111111111111111111111111111111111111111111111111111"

// baseNode is a synthetic Base node exposing the eth_* reads the skills use.
type baseNode struct{}

func (baseNode) GasPrice() string { return "0x5f5e100" }

func (baseNode) FeeHistory(count string, block string, percentiles []float64) map[string]any {
	return map[string]any{
		"oldestBlock":   "0x100",
		"baseFeePerGas": []string{"0x3e8"},
		"gasUsedRatio":  []float64{0.4},
		"reward":        [][]string{{"0x64", "0xc8", "0x12c"}},
	}
}

func (baseNode) GetBalance(addr string, block string) string { return "0xde0b6b3a7640000" }

func (baseNode) GetTransactionCount(addr string, block string) string { return "0x0" }

func (baseNode) GetCode(addr string, block string) string { return "0x" }

func (baseNode) BlockNumber() string { return "0x1312d00" }

func (baseNode) Call(msg map[string]string, block string) (string, error) {
	switch {
	case strings.HasPrefix(msg["data"], "0x70a08231"):
		return "0x00000000000000000000000000000000000000000000000000000000000f4240", nil
	case msg["data"] == "0x18160ddd":
		return "0x00000000000000000000000000000000000000000000000000038d7ea4c68000", nil
	}
	return "", errors.New("execution reverted")
}

func (baseNode) GetTransactionByHash(hash string) map[string]any {
	if hash != knownHash {
		return nil
	}
	return map[string]any{
		"hash":        knownHash,
		"from":        "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"to":          "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		"value":       "0x0",
		"gasPrice":    "0x3b9aca00",
		"blockNumber": "0x10",
		"nonce":       "0x1",
	}
}

func (baseNode) GetTransactionReceipt(hash string) map[string]any {
	if hash != knownHash {
		return nil
	}
	return map[string]any{"status": "0x1", "gasUsed": "0x5208"}
}

func newStack(t *testing.T) *httptest.Server {
	t.Helper()

	node := gethrpc.NewServer()
	if err := node.RegisterName("eth", baseNode{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	t.Cleanup(node.Stop)
	nodeTS := httptest.NewServer(node)
	t.Cleanup(nodeTS.Close)

	log := logger.Discard()
	client, err := rpc.Dial(context.Background(), rpc.Config{URL: nodeTS.URL, Timeout: 2 * time.Second, MaxAttempts: 1}, log)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(client.Close)

	svc, err := skills.NewService(client, tokens.Base(), "base")
	if err != nil {
		t.Fatalf("service: %v", err)
	}

	api := NewServer(svc, catalog.Default("base"), Config{RequestTimeout: 5 * time.Second}, log)
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestE2E_Gas(t *testing.T) {
	ts := newStack(t)

	resp, body := getJSON(t, ts.URL+"/gas", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	standard := body["standard"].(map[string]any)
	if standard["wei"].(float64) != 1200 {
		t.Fatalf("expected standard wei 1200, got %v", standard["wei"])
	}
	if body["network"] != "base" {
		t.Fatalf("unexpected network %v", body["network"])
	}
}

func TestE2E_Portfolio(t *testing.T) {
	ts := newStack(t)

	resp, body := getJSON(t, ts.URL+"/portfolio/0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["ethBalance"] != "1.000000" || body["usdcBalance"] != "1.00" {
		t.Fatalf("unexpected balances: %v", body)
	}
	labels := body["labels"].([]any)
	if len(labels) != 1 || labels[0] != "empty" {
		t.Fatalf("unexpected labels %v", labels)
	}

	resp, body = getJSON(t, ts.URL+"/portfolio/0x123", nil)
	if resp.StatusCode != http.StatusBadRequest || body["error"] != "Invalid Ethereum address" {
		t.Fatalf("expected 400, got %d %v", resp.StatusCode, body)
	}
}

func TestE2E_Risk(t *testing.T) {
	ts := newStack(t)

	resp, body := getJSON(t, ts.URL+"/risk/0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["riskScore"].(float64) != 75 || body["latestBlock"].(float64) != 20_000_000 {
		t.Fatalf("unexpected risk body %v", body)
	}
}

func TestE2E_Token(t *testing.T) {
	ts := newStack(t)

	resp, body := getJSON(t, ts.URL+"/token/usdc", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	// 0x38d7ea4c68000 = 1e15 base units = 1e9 USDC
	if body["totalSupply"] != "1,000,000,000" {
		t.Fatalf("unexpected supply %v", body["totalSupply"])
	}

	resp, body = getJSON(t, ts.URL+"/token/ETH", nil)
	if resp.StatusCode != http.StatusOK || body["totalSupply"] != "N/A" {
		t.Fatalf("unexpected ETH answer %d %v", resp.StatusCode, body)
	}

	resp, body = getJSON(t, ts.URL+"/token/PEPE", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(body["error"].(string), "Unknown token. Supported: ETH") {
		t.Fatalf("unexpected error %v", body["error"])
	}
}

func TestE2E_Tx(t *testing.T) {
	ts := newStack(t)

	resp, body := getJSON(t, ts.URL+"/tx/"+knownHash, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["status"] != "success" || body["gasCostEth"] != "0.00002100" || body["value"] != "0.000000 ETH" {
		t.Fatalf("unexpected tx body %v", body)
	}

	unknown := "0x" + strings.Repeat("2", 64)
	resp, body = getJSON(t, ts.URL+"/tx/"+unknown, nil)
	if resp.StatusCode != http.StatusNotFound || body["error"] != "Transaction not found" {
		t.Fatalf("expected 404, got %d %v", resp.StatusCode, body)
	}

	resp, _ = getJSON(t, ts.URL+"/tx/0xdead", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
