package ledger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursemarket/internal/ledger"
)

func TestTransferFee(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transfer_fee" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"transfer_fee": map[string]int64{"e8s": 10000}})
	}))
	defer srv.Close()

	c := ledger.NewClient(srv.URL, time.Second)
	fee, err := c.TransferFee(context.Background())
	if err != nil {
		t.Fatalf("fee: %v", err)
	}
	if fee != 10000 {
		t.Errorf("fee = %d, want 10000", fee)
	}
}

func TestTransferFeeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := ledger.NewClient(srv.URL, time.Second)
	if _, err := c.TransferFee(context.Background()); err == nil {
		t.Error("expected error on 500")
	}
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		name     string
		respond  func(w http.ResponseWriter)
		accepted bool
		wantErr  bool
	}{
		{
			name: "accepted",
			respond: func(w http.ResponseWriter) {
				_ = json.NewEncoder(w).Encode(map[string]any{"Ok": map[string]int64{"height": 42}})
			},
			accepted: true,
		},
		{
			name: "rejected is not an error",
			respond: func(w http.ResponseWriter) {
				_ = json.NewEncoder(w).Encode(map[string]any{"Err": map[string]string{"message": "insufficient funds"}})
			},
			accepted: false,
		},
		{
			name:    "transport failure",
			respond: func(w http.ResponseWriter) { w.WriteHeader(http.StatusBadGateway) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Memo   uint64 `json:"memo"`
				Amount struct {
					E8s int64 `json:"e8s"`
				} `json:"amount"`
				Fee struct {
					E8s int64 `json:"e8s"`
				} `json:"fee"`
				To string `json:"to"`
			}
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/transfer" || r.Method != http.MethodPost {
					t.Errorf("%s %s", r.Method, r.URL.Path)
				}
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("decode: %v", err)
				}
				tt.respond(w)
			}))
			defer srv.Close()

			c := ledger.NewClient(srv.URL, time.Second)
			accepted, err := c.Transfer(context.Background(), "instructor", 1000, 10, "memo-1")

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected transport error")
				}
				return
			}
			if err != nil {
				t.Fatalf("transfer: %v", err)
			}
			if accepted != tt.accepted {
				t.Errorf("accepted = %v, want %v", accepted, tt.accepted)
			}
			if got.Memo != ledger.WireMemo("memo-1") {
				t.Errorf("wire memo = %d, want %d", got.Memo, ledger.WireMemo("memo-1"))
			}
			if got.Amount.E8s != 1000 || got.Fee.E8s != 10 {
				t.Errorf("amount/fee = %d/%d", got.Amount.E8s, got.Fee.E8s)
			}
			if got.To != ledger.AccountAddress("instructor") {
				t.Errorf("to = %q", got.To)
			}
		})
	}
}

func TestWireMemoDistinct(t *testing.T) {
	if ledger.WireMemo("a") == ledger.WireMemo("b") {
		t.Error("distinct memos must map to distinct wire memos")
	}
	if ledger.WireMemo("a") != ledger.WireMemo("a") {
		t.Error("wire memo must be deterministic")
	}
}
