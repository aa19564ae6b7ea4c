// Package ledger talks to the external value-transfer service. The service
// is the authority on settlement: this client only maps the wire protocol
// onto an accepted/rejected outcome and never records anything itself.
package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient bounds every ledger call with timeout; the service may be slow
// or unreachable and the purchase workflow must not wait forever.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type tokens struct {
	E8s int64 `json:"e8s"`
}

type feeResponse struct {
	TransferFee tokens `json:"transfer_fee"`
}

// TransferFee queries the current transfer fee. Any transport error is
// fatal to the caller's current attempt; there is no retry here.
func (c *Client) TransferFee(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/transfer_fee", nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ledger fee query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ledger fee query: status %d", resp.StatusCode)
	}
	var fr feeResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return 0, fmt.Errorf("ledger fee query: %w", err)
	}
	return fr.TransferFee.E8s, nil
}

type transferRequest struct {
	Memo   uint64 `json:"memo"`
	Amount tokens `json:"amount"`
	Fee    tokens `json:"fee"`
	To     string `json:"to"`
}

type transferResponse struct {
	Ok *struct {
		Height int64 `json:"height"`
	} `json:"Ok,omitempty"`
	Err *struct {
		Message string `json:"message"`
	} `json:"Err,omitempty"`
}

// Transfer issues a transfer of amount to the payee's settlement address.
// It returns (false, nil) when the ledger definitively rejects the transfer
// and an error only for transport failures, where the outcome is unknown.
func (c *Client) Transfer(ctx context.Context, payee string, amount, fee int64, memo string) (bool, error) {
	body, err := json.Marshal(transferRequest{
		Memo:   WireMemo(memo),
		Amount: tokens{E8s: amount},
		Fee:    tokens{E8s: fee},
		To:     AccountAddress(payee),
	})
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transfer", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("ledger transfer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("ledger transfer: status %d", resp.StatusCode)
	}
	var tr transferResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return false, fmt.Errorf("ledger transfer: %w", err)
	}
	if tr.Err != nil {
		return false, nil
	}
	return tr.Ok != nil, nil
}

// WireMemo maps a logical memo string onto the ledger's numeric memo field.
// Distinct memos must stay distinct so settlement records are never
// conflated across attempts.
func WireMemo(memo string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(memo))
	return h.Sum64()
}

// AccountAddress resolves a principal to its settlement address.
func AccountAddress(principal string) string {
	return hex.EncodeToString([]byte(principal))
}
