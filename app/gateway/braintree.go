package gateway

import (
	"context"
	"errors"
	"fmt"
	gohttp "net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/http"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// Braintree GraphQL endpoints.
const (
	SandboxEndpoint    = "https://payments.sandbox.braintree-api.com/graphql"
	ProductionEndpoint = "https://payments.braintree-api.com/graphql"

	apiVersion = "2019-01-01"
)

const createClientTokenMutation = `mutation CreateClientToken($input: CreateClientTokenInput) {
  createClientToken(input: $input) { clientToken }
}`

const chargePaymentMethodMutation = `mutation ChargePaymentMethod($input: ChargePaymentMethodInput!) {
  chargePaymentMethod(input: $input) {
    transaction { id status amount { value currencyCode } }
  }
}`

// Statuses that mean the charge went through.
var settledStatuses = map[string]bool{
	"AUTHORIZED":               true,
	"SUBMITTED_FOR_SETTLEMENT": true,
	"SETTLING":                 true,
	"SETTLEMENT_PENDING":       true,
	"SETTLED":                  true,
}

// BraintreeConfig holds merchant credentials. Endpoint overrides the URL
// chosen by Environment.
type BraintreeConfig struct {
	Environment string // "sandbox" or "production"
	MerchantID  string
	PublicKey   string
	PrivateKey  string
	Endpoint    string
	Timeout     time.Duration
	Client      *gohttp.Client
}

// Braintree talks to the Braintree GraphQL API.
type Braintree struct {
	cfg      BraintreeConfig
	endpoint string
}

var _ Gateway = (*Braintree)(nil)

// NewBraintree validates cfg and returns a client. There are no default
// credentials.
func NewBraintree(cfg BraintreeConfig) (*Braintree, error) {
	if cfg.PublicKey == "" || cfg.PrivateKey == "" {
		return nil, errors.New("gateway: braintree public and private keys are required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		switch strings.ToLower(cfg.Environment) {
		case "", "sandbox":
			endpoint = SandboxEndpoint
		case "production":
			endpoint = ProductionEndpoint
		default:
			return nil, fmt.Errorf("gateway: unknown braintree environment %q", cfg.Environment)
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Braintree{cfg: cfg, endpoint: endpoint}, nil
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse[T any] struct {
	Data   *T         `json:"data"`
	Errors []gqlError `json:"errors"`
}

func joinErrors(errs []gqlError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// call posts one GraphQL operation. Single attempt.
func call[T any](ctx context.Context, b *Braintree, op, query string, vars map[string]any) (*T, error) {
	req := http.Post(b.endpoint).
		WithContext(ctx).
		Timeout(b.cfg.Timeout).
		BasicAuth(b.cfg.PublicKey, b.cfg.PrivateKey).
		Header("Braintree-Version", apiVersion).
		Body(map[string]any{"query": query, "variables": vars})
	if b.cfg.Client != nil {
		req = req.Client(b.cfg.Client)
	}

	resp, err := req.Send()
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: %w", op, err)
	}

	var out gqlResponse[T]
	if err := resp.JSON(&out); err != nil {
		if thrown := resp.Throw(); thrown != nil {
			return nil, fmt.Errorf("gateway: %s: %w", op, thrown)
		}
		return nil, fmt.Errorf("gateway: %s: %w", op, err)
	}
	if len(out.Errors) > 0 {
		return nil, &Error{Op: op, Message: joinErrors(out.Errors)}
	}
	if thrown := resp.Throw(); thrown != nil {
		return nil, fmt.Errorf("gateway: %s: %w", op, thrown)
	}
	if out.Data == nil {
		return nil, fmt.Errorf("gateway: %s: empty response", op)
	}
	return out.Data, nil
}

// ClientToken implements Gateway.
func (b *Braintree) ClientToken(ctx context.Context) (token string, err error) {
	defer func(start time.Time) { metrics.ObserveGateway("client_token", start, err) }(time.Now())

	input := map[string]any{}
	if b.cfg.MerchantID != "" {
		input["merchantAccountId"] = b.cfg.MerchantID
	}
	data, err := call[struct {
		CreateClientToken struct {
			ClientToken string `json:"clientToken"`
		} `json:"createClientToken"`
	}](ctx, b, "client_token", createClientTokenMutation, map[string]any{
		"input": map[string]any{"clientToken": input},
	})
	if err != nil {
		return "", err
	}
	if data.CreateClientToken.ClientToken == "" {
		return "", &Error{Op: "client_token", Message: "no client token returned"}
	}
	return data.CreateClientToken.ClientToken, nil
}

// Sale implements Gateway.
func (b *Braintree) Sale(ctx context.Context, sale SaleRequest) (tx *Transaction, err error) {
	defer func(start time.Time) { metrics.ObserveGateway("sale", start, err) }(time.Now())

	data, err := call[struct {
		ChargePaymentMethod struct {
			Transaction *struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount struct {
					Value        string `json:"value"`
					CurrencyCode string `json:"currencyCode"`
				} `json:"amount"`
			} `json:"transaction"`
		} `json:"chargePaymentMethod"`
	}](ctx, b, "sale", chargePaymentMethodMutation, map[string]any{
		"input": map[string]any{
			"paymentMethodId": sale.Nonce,
			"transaction":     map[string]any{"amount": sale.Amount},
		},
	})
	if err != nil {
		return nil, err
	}

	t := data.ChargePaymentMethod.Transaction
	if t == nil {
		return nil, &Error{Op: "sale", Message: "no transaction returned"}
	}
	if !settledStatuses[t.Status] {
		return nil, &Error{Op: "sale", Message: "transaction " + t.ID + " " + strings.ToLower(t.Status)}
	}
	return &Transaction{
		ID:       t.ID,
		Status:   t.Status,
		Amount:   t.Amount.Value,
		Currency: t.Amount.CurrencyCode,
	}, nil
}
