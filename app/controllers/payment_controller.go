package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// Token: GET /api/v1/product/braintree/token
func (ctl *PaymentController) Token(c *appctx.Context) {
	token, err := ctl.payments.ClientToken(c.Context())
	if err != nil {
		fail(c, err, "Error in payment token generation")
		return
	}
	c.JSON(http.StatusOK, response.Map{"success": true, "clientToken": token})
}

// Checkout: POST /api/v1/product/braintree/payment
func (ctl *PaymentController) Checkout(c *appctx.Context) {
	var in services.CheckoutRequest
	if !c.BindJSON(&in) {
		return
	}
	if _, err := ctl.payments.Checkout(c.Context(), c.UserID(), in); err != nil {
		fail(c, err, "Payment failed")
		return
	}
	c.JSON(http.StatusOK, response.Map{"ok": true})
}
