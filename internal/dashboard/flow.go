package dashboard

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pvzzle/chainlens/internal/catalog"
)

var placeholders = map[string]string{
	"address": "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045",
	"symbol":  "USDC",
	"hash":    "0x...",
}

// Placeholder is the sample value used when the caller leaves a parameter empty.
func Placeholder(param string) string {
	return placeholders[param]
}

// ExpandEndpoint substitutes ":<param>" in the skill endpoint with value, or the placeholder when value is empty.
func ExpandEndpoint(skill catalog.Skill, value string) string {
	param := skill.Param()
	if param == "" {
		return skill.Endpoint
	}
	if value == "" {
		value = Placeholder(param)
	}
	return strings.Replace(skill.Endpoint, ":"+param, url.PathEscape(value), 1)
}

type Step struct {
	Label string
	Desc  string
}

// StepDelays pace the first two transitions of the narrated flow.
var StepDelays = [...]time.Duration{350 * time.Millisecond, 250 * time.Millisecond}

// FlowSteps narrates the x402 handshake the facilitator runs around one paid call.
func FlowSteps(skill catalog.Skill, took time.Duration) []Step {
	return []Step{
		{Label: "Request", Desc: fmt.Sprintf("%s %s", skill.Method, skill.Endpoint)},
		{Label: "402 Payment", Desc: fmt.Sprintf("Payment required - %s %s", skill.Price, skill.Currency)},
		{Label: "Sign & Pay", Desc: "EIP-3009 USDC authorization"},
		{Label: "Response", Desc: fmt.Sprintf("200 OK - %dms", took.Milliseconds())},
	}
}
