package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/storefront/app/gateway"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// Checkout outcomes recorded in metrics.CheckoutTotal.
const (
	outcomeRejected      = "rejected"
	outcomeOutOfStock    = "out_of_stock"
	outcomePaymentFailed = "payment_failed"
	outcomeUnrecorded    = "unrecorded"
	outcomeSuccess       = "success"
)

const outOfStockPrefix = "Product is out of stock: "

func outOfStock(name string) *Error { return badRequest(outOfStockPrefix + name) }

// CheckoutRequest is a buyer's cart and the client SDK's payment nonce.
// Each cart entry is one unit; a product bought twice appears twice.
type CheckoutRequest struct {
	Nonce string            `json:"nonce"`
	Cart  []models.CartItem `json:"cart"`
}

// PaymentService runs checkout against an injected gateway.
type PaymentService struct {
	products repositories.ProductRepository
	orders   repositories.OrderRepository
	gateway  gateway.Gateway
	bus      *event.Bus
}

// NewPaymentService wires the service. bus may be nil.
func NewPaymentService(products repositories.ProductRepository, orders repositories.OrderRepository, gw gateway.Gateway, bus *event.Bus) *PaymentService {
	return &PaymentService{products: products, orders: orders, gateway: gw, bus: bus}
}

// ClientToken passes a gateway client token through. Processor-reported
// and transport failures are reported with different messages.
func (s *PaymentService) ClientToken(ctx context.Context) (string, error) {
	token, err := s.gateway.ClientToken(ctx)
	if err != nil {
		var gwErr *gateway.Error
		if errors.As(err, &gwErr) {
			return "", internal("Error generating payment token", err)
		}
		return "", internal("Error in payment token generation", err)
	}
	return token, nil
}

// reservation is one distinct product's units held for a checkout.
type reservation struct {
	product *models.Product
	units   int
}

func displayName(item models.CartItem) string {
	if item.Name != "" {
		return item.Name
	}
	return item.ID
}

// validate checks every cart entry in order and stops at the first
// failure. It returns the distinct products in first-seen order.
func (s *PaymentService) validate(ctx context.Context, cart []models.CartItem) ([]*reservation, error) {
	byID := map[string]*reservation{}
	var ordered []*reservation

	for _, item := range cart {
		if !models.ValidID(item.ID) {
			return nil, badRequest("Invalid product ID")
		}
		r, ok := byID[item.ID]
		if !ok {
			p, err := s.products.FindByID(ctx, item.ID)
			if err != nil {
				return nil, lookupErr(err, "Product not found: "+displayName(item), "Error while processing payment")
			}
			r = &reservation{product: p}
			byID[item.ID] = r
			ordered = append(ordered, r)
		}
		r.units++
		if r.units > r.product.Quantity {
			return nil, outOfStock(r.product.Name)
		}
	}
	return ordered, nil
}

// reserve takes stock for every reservation. On any failure the units
// already taken are returned.
func (s *PaymentService) reserve(ctx context.Context, rs []*reservation) error {
	for i, r := range rs {
		err := s.products.Reserve(ctx, r.product.ID, r.units)
		if err == nil {
			continue
		}
		s.release(ctx, rs[:i])
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return outOfStock(r.product.Name)
		}
		return internal("Error while processing payment", err)
	}
	return nil
}

func (s *PaymentService) release(ctx context.Context, rs []*reservation) {
	ctx = context.WithoutCancel(ctx)
	for _, r := range rs {
		if err := s.products.Release(ctx, r.product.ID, r.units); err != nil {
			logger.WithCtx(ctx).Error("checkout: stock release failed",
				"product_id", r.product.ID, "units", r.units, "error", err)
		}
	}
}

// Checkout validates the cart, reserves stock, charges the buyer and
// records the order. The order is created only after a successful charge.
func (s *PaymentService) Checkout(ctx context.Context, buyerID string, req CheckoutRequest) (*models.Order, error) {
	order, outcome, err := s.checkout(ctx, buyerID, req)
	metrics.CheckoutTotal.WithLabelValues(outcome).Inc()
	return order, err
}

func (s *PaymentService) checkout(ctx context.Context, buyerID string, req CheckoutRequest) (*models.Order, string, error) {
	log := logger.WithCtx(ctx)

	if req.Nonce == "" {
		return nil, outcomeRejected, badRequest("Payment method nonce is required")
	}
	if len(req.Cart) == 0 {
		return nil, outcomeRejected, badRequest("Cart items are required")
	}

	reservations, err := s.validate(ctx, req.Cart)
	if err != nil {
		return nil, stockOutcome(err), err
	}
	if err := s.reserve(ctx, reservations); err != nil {
		return nil, stockOutcome(err), err
	}

	// Catalog prices are charged; cart prices are display data.
	prices := make(map[string]*models.Product, len(reservations))
	for _, r := range reservations {
		prices[r.product.ID] = r.product
	}
	var total float64
	snapshot := make([]models.CartItem, len(req.Cart))
	for i, item := range req.Cart {
		p := prices[item.ID]
		total += p.Price
		item.Price = p.Price
		if item.Name == "" {
			item.Name = p.Name
		}
		snapshot[i] = item
	}
	amount := fmt.Sprintf("%.2f", total)

	tx, err := s.gateway.Sale(ctx, gateway.SaleRequest{Amount: amount, Nonce: req.Nonce})
	if err != nil {
		s.release(ctx, reservations)
		log.Warn("checkout: payment failed", "buyer_id", buyerID, "amount", amount, "error", err)
		return nil, outcomePaymentFailed, internal("Payment failed", err)
	}

	order := &models.Order{
		Products: snapshot,
		Payment: models.Payment{
			Success:       true,
			TransactionID: tx.ID,
			Status:        tx.Status,
			Amount:        tx.Amount,
			Currency:      tx.Currency,
		},
		Buyer:  buyerID,
		Status: models.StatusNotProcessed,
	}
	if err := s.orders.Create(context.WithoutCancel(ctx), order); err != nil {
		metrics.UnrecordedOrders.Inc()
		log.Error("checkout: payment captured but order not saved",
			"transaction_id", tx.ID, "buyer_id", buyerID, "amount", amount, "error", err)
		return nil, outcomeUnrecorded, &Error{
			Status:  http.StatusInternalServerError,
			Message: "Payment captured but order could not be saved",
			Err:     err,
			Extra:   map[string]any{"transactionId": tx.ID},
		}
	}

	log.Info("checkout: order created", "order_id", order.ID, "transaction_id", tx.ID, "amount", amount)
	if s.bus != nil {
		s.bus.Dispatch(event.OrderCreated, order)
	}
	return order, outcomeSuccess, nil
}

func stockOutcome(err error) string {
	var se *Error
	if errors.As(err, &se) && strings.HasPrefix(se.Message, outOfStockPrefix) {
		return outcomeOutOfStock
	}
	return outcomeRejected
}
