// Package skills derives the paid data products (portfolio, risk, gas, token, tx)
// from raw JSON-RPC reads against a single upstream node.
package skills

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pvzzle/chainlens/internal/tokens"

	"github.com/ethereum/go-ethereum/common"
)

// Caller is the upstream JSON-RPC surface the skills need.
type Caller interface {
	Call(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Service struct {
	rpc     Caller
	tokens  *tokens.Table
	network string
	usdc    common.Address

	now func() time.Time
}

func NewService(rpc Caller, tbl *tokens.Table, network string) (*Service, error) {
	usdc, ok := tbl.Lookup("USDC")
	if !ok {
		return nil, errors.New("token table has no USDC entry")
	}
	return &Service{
		rpc:     rpc,
		tokens:  tbl,
		network: network,
		usdc:    usdc.Contract(),
		now:     time.Now,
	}, nil
}

func (s *Service) Network() string { return s.network }

func (s *Service) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

// callString decodes a string result; JSON null yields "".
func (s *Service) callString(ctx context.Context, method string, params ...any) (string, error) {
	raw, err := s.rpc.Call(ctx, method, params...)
	if err != nil {
		return "", err
	}
	var out string
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode %s result: %w", method, err)
	}
	return out, nil
}

// callObject decodes an object result into out and reports whether it was non-null.
func (s *Service) callObject(ctx context.Context, out any, method string, params ...any) (bool, error) {
	raw, err := s.rpc.Call(ctx, method, params...)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s result: %w", method, err)
	}
	return true, nil
}

type callMsg struct {
	To   string `json:"to"`
	Data string `json:"data"`
}
