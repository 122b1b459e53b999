package catalog

import "strings"

type Skill struct {
	Name        string `json:"name"`
	Endpoint    string `json:"endpoint"`
	Method      string `json:"method"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Network     string `json:"network"`
	Description string `json:"description"`
}

// Param returns the endpoint's path parameter name ("address" for "/risk/:address"), or "".
func (s Skill) Param() string {
	if i := strings.Index(s.Endpoint, "/:"); i >= 0 {
		return s.Endpoint[i+2:]
	}
	return ""
}

type Catalog struct {
	Skills  []Skill `json:"skills"`
	Network string  `json:"network"`
}

// Default lists the five skills and their x402 prices, settled in USDC.
func Default(network string) Catalog {
	mk := func(name, endpoint, price, desc string) Skill {
		return Skill{
			Name:        name,
			Endpoint:    endpoint,
			Method:      "GET",
			Price:       price,
			Currency:    "USDC",
			Network:     network,
			Description: desc,
		}
	}
	return Catalog{
		Network: network,
		Skills: []Skill{
			mk("portfolio", "/portfolio/:address", "$0.01", "Wallet portfolio analysis: ETH balance, USDC balance, tx count, and labels"),
			mk("risk", "/risk/:address", "$0.02", "Wallet risk scoring: activity analysis, contract detection, risk 0-100"),
			mk("gas", "/gas", "$0.01", "Real-time gas tracker: slow/standard/fast prices with base fee"),
			mk("token", "/token/:symbol", "$0.01", "Token info and price: decimals, supply, USD price for top Base tokens"),
			mk("tx", "/tx/:hash", "$0.01", "Transaction decoder: from, to, value, gas, status for any tx hash"),
		},
	}
}

func (c Catalog) Find(name string) (Skill, bool) {
	for _, s := range c.Skills {
		if s.Name == name {
			return s, true
		}
	}
	return Skill{}, false
}
