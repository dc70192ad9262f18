package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/feraszen/keytop-fresh/cart"
	apperrors "github.com/feraszen/keytop-fresh/errors"
	"github.com/feraszen/keytop-fresh/models"

	"github.com/gin-gonic/gin"
)

// CartService is the cart engine as seen by HTTP.
type CartService interface {
	AddItem(ctx context.Context, name string, basePrice models.Money, addons []models.Addon) (cart.AddResult, error)
	SetQuantity(ctx context.Context, index, quantity int) (models.CartItem, error)
	RemoveItem(ctx context.Context, index int) error
	Clear(ctx context.Context) error
	Items(ctx context.Context) []models.CartItem
	TotalItemCount(ctx context.Context) int
}

// Pricer computes cart totals.
type Pricer interface {
	Summarize(items []models.CartItem) models.Summary
}

// Catalog resolves product selections to prices.
type Catalog interface {
	Resolve(name string, addonNames []string) (models.Money, []models.Addon, error)
	Image(name string) string
}

// CartLine is one rendered cart entry.
type CartLine struct {
	Index     int            `json:"index"`
	Name      string         `json:"name"`
	Image     string         `json:"image"`
	Price     models.Money   `json:"price"`
	Quantity  int            `json:"quantity"`
	Addons    []models.Addon `json:"addons"`
	LineTotal models.Money   `json:"lineTotal"`
}

// CartView is the cart list plus its summary.
type CartView struct {
	Items   []CartLine     `json:"items"`
	Summary models.Summary `json:"summary"`
	Empty   bool           `json:"empty"`
	Message string         `json:"message,omitempty"`
}

type AddItemRequest struct {
	Name   string   `json:"name" binding:"required"`
	Addons []string `json:"addons"`
}

type QuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartController handles /cart.
type CartController struct {
	cart    CartService
	pricer  Pricer
	catalog Catalog
}

func NewCartController(c CartService, p Pricer, catalog Catalog) *CartController {
	return &CartController{cart: c, pricer: p, catalog: catalog}
}

// GetCart handles GET /cart.
func (cc *CartController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cc.view(cc.cart.Items(c.Request.Context())))
}

// Count handles GET /cart/count.
func (cc *CartController) Count(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": cc.cart.TotalItemCount(c.Request.Context())})
}

// AddItem handles POST /cart/items.
func (cc *CartController) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Validation("Invalid request: product name is required."))
		return
	}

	price, addons, err := cc.catalog.Resolve(req.Name, req.Addons)
	if err != nil {
		_ = c.Error(err)
		return
	}

	res, err := cc.cart.AddItem(c.Request.Context(), req.Name, price, addons)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// UpdateQuantity handles PATCH /cart/items/:index.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Validation("Invalid request: quantity is required."))
		return
	}

	ctx := c.Request.Context()
	if _, err := cc.cart.SetQuantity(ctx, index, *req.Quantity); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, cc.view(cc.cart.Items(ctx)))
}

// RemoveItem handles DELETE /cart/items/:index.
func (cc *CartController) RemoveItem(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := cc.cart.RemoveItem(ctx, index); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, cc.view(cc.cart.Items(ctx)))
}

// ClearCart handles DELETE /cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	if err := cc.cart.Clear(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func (cc *CartController) view(items []models.CartItem) CartView {
	v := CartView{
		Items:   make([]CartLine, 0, len(items)),
		Summary: cc.pricer.Summarize(items),
		Empty:   len(items) == 0,
	}
	if v.Empty {
		v.Message = "Your cart is empty."
	}
	for i, it := range items {
		addons := it.Addons
		if addons == nil {
			addons = []models.Addon{}
		}
		v.Items = append(v.Items, CartLine{
			Index:     i,
			Name:      it.Name,
			Image:     cc.catalog.Image(it.Name),
			Price:     it.Price,
			Quantity:  it.Quantity,
			Addons:    addons,
			LineTotal: it.LineTotal(),
		})
	}
	return v
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		_ = c.Error(apperrors.Validation("Cart index must be a number."))
		return 0, false
	}
	return index, true
}
