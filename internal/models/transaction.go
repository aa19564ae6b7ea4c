package models

import "time"

type TransactionStatus string

const (
	TxnCompleted TransactionStatus = "completed"
	TxnFailed    TransactionStatus = "failed"
)

// Transaction is one settlement attempt against the external ledger.
// Rows are append-only: the status is final at insert and never changes.
// Every attempt gets its own memo; retries mint a new memo and a new row.
type Transaction struct {
	ID         string            `json:"id"`
	FromUserID string            `json:"from_user_id"`
	ToUserID   string            `json:"to_user_id"`
	Amount     int64             `json:"amount"`
	Memo       string            `json:"memo"`
	Status     TransactionStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}
