// Package gateway is the payment processor boundary used by checkout.
package gateway

import (
	"context"
	"fmt"
)

// Gateway charges a client payment method and issues client tokens.
type Gateway interface {
	// ClientToken returns a one-time token for the client-side SDK.
	ClientToken(ctx context.Context) (string, error)
	// Sale charges the payment method behind Nonce and submits the
	// charge for settlement in the same call.
	Sale(ctx context.Context, req SaleRequest) (*Transaction, error)
}

// SaleRequest is one immediate-settlement charge. Amount is a fixed-point
// decimal string such as "20.00".
type SaleRequest struct {
	Amount string
	Nonce  string
}

// Transaction is a successful charge.
type Transaction struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Error is a failure reported by the processor itself (declines,
// validation errors, rejected credentials). Transport and decoding
// failures are returned as plain errors.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s: %s", e.Op, e.Message)
}
