package ethfmt

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	EthDecimals  = 18
	GweiDecimals = 9
	UsdcDecimals = 6
)

// ParseQuantity decodes a hex-encoded JSON-RPC quantity or a 32-byte eth_call word.
// "" and "0x" decode to zero; leading zeros are accepted.
func ParseQuantity(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return new(big.Int), nil
	}
	out, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return out, nil
}

// ParseUint64 is ParseQuantity for counters that fit a machine word (nonces, block numbers).
func ParseUint64(s string) (uint64, error) {
	n, err := ParseQuantity(s)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("hex quantity %q overflows uint64", s)
	}
	return n.Uint64(), nil
}

// Units returns v scaled down by 10^decimals without rounding.
func Units(v *big.Int, decimals int32) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -decimals)
}

func WeiToEthString(wei *big.Int) string {
	return Units(wei, EthDecimals).StringFixed(6)
}

func UsdcString(units *big.Int) string {
	return Units(units, UsdcDecimals).StringFixed(2)
}

// GweiString renders a wei amount (possibly fractional) as gwei with 4 decimals.
func GweiString(wei decimal.Decimal) string {
	return wei.Shift(-GweiDecimals).StringFixed(4)
}

// GroupThousands rounds d to an integer and inserts comma separators: 1234567.6 -> "1,234,568".
func GroupThousands(d decimal.Decimal) string {
	s := d.Round(0).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var sb strings.Builder
	sb.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		sb.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if sb.Len() > len(sign) {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
