package catalog

import "testing"

func TestDefault(t *testing.T) {
	c := Default("base")
	if c.Network != "base" || len(c.Skills) != 5 {
		t.Fatalf("unexpected catalog: %+v", c)
	}

	risk, ok := c.Find("risk")
	if !ok {
		t.Fatal("expected risk skill")
	}
	if risk.Price != "$0.02" || risk.Currency != "USDC" || risk.Method != "GET" || risk.Network != "base" {
		t.Fatalf("unexpected risk entry: %+v", risk)
	}

	if _, ok := c.Find("nope"); ok {
		t.Fatal("expected miss")
	}
}

func TestSkill_Param(t *testing.T) {
	tests := map[string]string{
		"/portfolio/:address": "address",
		"/token/:symbol":      "symbol",
		"/tx/:hash":           "hash",
		"/gas":                "",
	}
	for endpoint, want := range tests {
		if got := (Skill{Endpoint: endpoint}).Param(); got != want {
			t.Fatalf("%s: expected %q, got %q", endpoint, want, got)
		}
	}
}
