package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Orders lists the signed-in buyer's orders.
func (ctl *OrderController) Orders(c *appctx.Context) {
	orders, err := ctl.orders.ByBuyer(c.Context(), c.UserID())
	if err != nil {
		fail(c, err, "Error while getting orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// AllOrders lists every order for admins.
func (ctl *OrderController) AllOrders(c *appctx.Context) {
	orders, err := ctl.orders.All(c.Context())
	if err != nil {
		fail(c, err, "Error while getting orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateStatus: PUT /api/v1/auth/order-status/{orderId}
func (ctl *OrderController) UpdateStatus(c *appctx.Context) {
	var in struct {
		Status string `json:"status"`
	}
	if !c.BindJSON(&in) {
		return
	}
	order, err := ctl.orders.UpdateStatus(c.Context(), c.Param("orderId"), in.Status)
	if err != nil {
		fail(c, err, "Error while updating order")
		return
	}
	c.JSON(http.StatusOK, order)
}
