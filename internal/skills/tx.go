package skills

import (
	"context"
	"fmt"
	"math/big"

	"github.com/pvzzle/chainlens/internal/ethfmt"

	"golang.org/x/sync/errgroup"
)

type TxStatus string

const (
	TxSuccess TxStatus = "success"
	TxFailed  TxStatus = "failed"
	TxPending TxStatus = "pending"
)

type TxResult struct {
	Hash        string   `json:"hash"`
	From        string   `json:"from"`
	To          *string  `json:"to"`
	Value       string   `json:"value"`
	GasUsed     *uint64  `json:"gasUsed"`
	GasCostEth  *string  `json:"gasCostEth"`
	Status      TxStatus `json:"status"`
	BlockNumber *uint64  `json:"blockNumber"`
	Nonce       uint64   `json:"nonce"`
	Network     string   `json:"network"`
	Timestamp   string   `json:"timestamp"`
}

type rpcTransaction struct {
	Hash        string  `json:"hash"`
	From        string  `json:"from"`
	To          *string `json:"to"`
	Value       string  `json:"value"`
	GasPrice    string  `json:"gasPrice"`
	BlockNumber string  `json:"blockNumber"`
	Nonce       string  `json:"nonce"`
}

type rpcReceipt struct {
	Status            string `json:"status"`
	GasUsed           string `json:"gasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice"`
}

func (s *Service) Tx(ctx context.Context, hash string) (*TxResult, error) {
	if !ethfmt.IsTxHash(hash) {
		return nil, errInvalidHash
	}

	var (
		tx         rpcTransaction
		rcpt       rpcReceipt
		hasTx      bool
		hasReceipt bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		hasTx, err = s.callObject(gctx, &tx, "eth_getTransactionByHash", hash)
		return err
	})
	g.Go(func() (err error) {
		hasReceipt, err = s.callObject(gctx, &rcpt, "eth_getTransactionReceipt", hash)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !hasTx {
		return nil, ErrTxNotFound
	}

	var receipt *rpcReceipt
	if hasReceipt {
		receipt = &rcpt
	}
	res, err := describeTx(tx, receipt)
	if err != nil {
		return nil, err
	}
	res.Network = s.network
	res.Timestamp = s.timestamp()
	return res, nil
}

func describeTx(tx rpcTransaction, receipt *rpcReceipt) (*TxResult, error) {
	res := &TxResult{
		Hash:   tx.Hash,
		From:   tx.From,
		To:     tx.To,
		Value:  "0 ETH",
		Status: TxPending,
	}

	if tx.Value != "" {
		v, err := ethfmt.ParseQuantity(tx.Value)
		if err != nil {
			return nil, fmt.Errorf("tx value: %w", err)
		}
		res.Value = ethfmt.WeiToEthString(v) + " ETH"
	}

	nonce, err := ethfmt.ParseUint64(tx.Nonce)
	if err != nil {
		return nil, fmt.Errorf("tx nonce: %w", err)
	}
	res.Nonce = nonce

	if tx.BlockNumber != "" {
		bn, err := ethfmt.ParseUint64(tx.BlockNumber)
		if err != nil {
			return nil, fmt.Errorf("tx block number: %w", err)
		}
		res.BlockNumber = &bn
	}

	priceHex := tx.GasPrice
	if receipt != nil {
		res.Status = TxFailed
		if receipt.Status == "0x1" {
			res.Status = TxSuccess
		}

		if receipt.GasUsed != "" {
			used, err := ethfmt.ParseUint64(receipt.GasUsed)
			if err != nil {
				return nil, fmt.Errorf("receipt gas used: %w", err)
			}
			res.GasUsed = &used
		}
		if priceHex == "" {
			priceHex = receipt.EffectiveGasPrice
		}
	}

	if res.GasUsed != nil && *res.GasUsed > 0 && priceHex != "" {
		price, err := ethfmt.ParseQuantity(priceHex)
		if err != nil {
			return nil, fmt.Errorf("gas price: %w", err)
		}
		if price.Sign() > 0 {
			cost := new(big.Int).Mul(new(big.Int).SetUint64(*res.GasUsed), price)
			eth := ethfmt.Units(cost, ethfmt.EthDecimals).StringFixed(8)
			res.GasCostEth = &eth
		}
	}

	return res, nil
}
