package controllers

import (
	"context"
	"net/http"

	"github.com/feraszen/keytop-fresh/checkout"
	apperrors "github.com/feraszen/keytop-fresh/errors"
	"github.com/feraszen/keytop-fresh/invoice"
	"github.com/feraszen/keytop-fresh/models"

	"github.com/gin-gonic/gin"
)

// CheckoutService finalizes carts and serves the orders log.
type CheckoutService interface {
	Submit(ctx context.Context, customer models.Customer) (*models.Order, error)
	State() checkout.State
	Orders(ctx context.Context) []models.Order
	Order(ctx context.Context, invoice string) (*models.Order, error)
}

// CheckoutController handles /checkout and /orders.
type CheckoutController struct {
	checkout CheckoutService
}

func NewCheckoutController(s CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: s}
}

// Submit handles POST /checkout.
func (cc *CheckoutController) Submit(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		_ = c.Error(apperrors.Validation("Invalid request"))
		return
	}

	order, err := cc.checkout.Submit(c.Request.Context(), customer)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": checkout.MsgThankYou,
		"state":   checkout.Finalized,
		"order":   order,
	})
}

// ListOrders handles GET /orders.
func (cc *CheckoutController) ListOrders(c *gin.Context) {
	orders := cc.checkout.Orders(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

// GetOrder handles GET /orders/:invoice. ?format=text returns the printable invoice.
func (cc *CheckoutController) GetOrder(c *gin.Context) {
	order, err := cc.checkout.Order(c.Request.Context(), c.Param("invoice"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if c.Query("format") == "text" {
		text, err := invoice.String(*order)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.String(http.StatusOK, text)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
