package core

import (
	"context"
	"encoding/base64"
	"fmt"
)

const (
	commitmentConfirmed = "confirmed"
	commitmentFinalized = "finalized"
	encodingBase64      = "base64"
)

// ledgerAPI is the subset of the ledger JSON-RPC interface the client uses.
// Ledger methods carry no namespace, so every field names its wire method.
type ledgerAPI struct {
	GetLatestBlockhash   func(ctx context.Context, cfg commitmentConfig) (*blockhashResult, error)                    `rpc_method:"getLatestBlockhash"`
	SendTransaction      func(ctx context.Context, tx string, cfg sendConfig) (string, error)                         `rpc_method:"sendTransaction"`
	GetSignatureStatuses func(ctx context.Context, sigs []string, cfg statusConfig) (*signatureStatusesResult, error) `rpc_method:"getSignatureStatuses"`
	GetAccountInfo       func(ctx context.Context, addr string, cfg accountInfoConfig) (*accountInfoResult, error)    `rpc_method:"getAccountInfo"`
}

type commitmentConfig struct {
	Commitment string `json:"commitment,omitempty"`
}

type sendConfig struct {
	Encoding            string `json:"encoding"`
	SkipPreflight       bool   `json:"skipPreflight"`
	PreflightCommitment string `json:"preflightCommitment,omitempty"`
	MaxRetries          *uint  `json:"maxRetries,omitempty"`
}

type statusConfig struct {
	SearchTransactionHistory bool `json:"searchTransactionHistory"`
}

type accountInfoConfig struct {
	Encoding   string `json:"encoding"`
	Commitment string `json:"commitment,omitempty"`
}

type responseContext struct {
	Slot uint64 `json:"slot"`
}

type blockhashResult struct {
	Context responseContext `json:"context"`
	Value   struct {
		Blockhash            string `json:"blockhash"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	} `json:"value"`
}

type signatureStatus struct {
	Slot               uint64  `json:"slot"`
	Confirmations      *uint64 `json:"confirmations"`
	Err                any     `json:"err"`
	ConfirmationStatus string  `json:"confirmationStatus"`
}

// confirmed reports whether the status reached at least confirmed commitment.
func (s *signatureStatus) confirmed() bool {
	return s.ConfirmationStatus == commitmentConfirmed || s.ConfirmationStatus == commitmentFinalized
}

type signatureStatusesResult struct {
	Context responseContext    `json:"context"`
	Value   []*signatureStatus `json:"value"`
}

type accountInfo struct {
	Lamports   uint64    `json:"lamports"`
	Owner      string    `json:"owner"`
	Executable bool      `json:"executable"`
	RentEpoch  uint64    `json:"rentEpoch"`
	Data       [2]string `json:"data"`
}

// bytes decodes the base64 account data.
func (a *accountInfo) bytes() ([]byte, error) {
	if a.Data[1] != encodingBase64 {
		return nil, fmt.Errorf("%w: unexpected account encoding %q", ErrRPC, a.Data[1])
	}
	data, err := base64.StdEncoding.DecodeString(a.Data[0])
	if err != nil {
		return nil, fmt.Errorf("%w: decoding account data: %w", ErrRPC, err)
	}
	return data, nil
}

type accountInfoResult struct {
	Context responseContext `json:"context"`
	Value   *accountInfo    `json:"value"`
}
