package controllers

import (
	"net/http"

	"github.com/feraszen/keytop-fresh/menu"
	"github.com/feraszen/keytop-fresh/reviews"

	"github.com/gin-gonic/gin"
)

// ReviewSource provides the testimonial on display.
type ReviewSource interface {
	Current() reviews.Review
}

// CatalogController serves the menu and reviews.
type CatalogController struct {
	menu    *menu.Menu
	reviews ReviewSource
}

func NewCatalogController(m *menu.Menu, r ReviewSource) *CatalogController {
	return &CatalogController{menu: m, reviews: r}
}

// Menu handles GET /menu.
func (cc *CatalogController) Menu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": cc.menu.Products()})
}

// CurrentReview handles GET /reviews/current.
func (cc *CatalogController) CurrentReview(c *gin.Context) {
	r := cc.reviews.Current()
	c.JSON(http.StatusOK, gin.H{
		"text":   r.Text,
		"author": r.Author,
		"quote":  r.Quote(),
		"byline": r.Byline(),
	})
}
