package invoice_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/feraszen/keytop-fresh/invoice"
	"github.com/feraszen/keytop-fresh/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() models.Order {
	return models.Order{
		Invoice:  "KT000101",
		Customer: models.Customer{Name: "Alice", Phone: "555-0100", Address: "1 Main St"},
		Items: []models.CartItem{
			{Name: "Orange Boost", Price: models.MustMoney("3.00"), Quantity: 2},
			{Name: "Vanilla Dream", Price: models.MustMoney("5.00"), Quantity: 1,
				Addons: []models.Addon{{Name: "Chocolate Sauce", Price: models.MustMoney("1.00")}}},
		},
		Subtotal: models.MustMoney("11.00"),
		Tax:      models.MustMoney("1.65"),
		Total:    models.MustMoney("12.65"),
		Date:     "Mar 5, 2024 2:07 PM",
	}
}

func TestRender_Layout(t *testing.T) {
	out, err := invoice.String(sampleOrder())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 15)
	assert.Equal(t, "KEYTOP FRESH", lines[0])
	assert.Equal(t, "Invoice KT000101", lines[1])
	assert.Equal(t, "Mar 5, 2024 2:07 PM", lines[2])
	assert.Equal(t, "Alice", lines[4])
	assert.Equal(t, "1 Main St", lines[6])

	assert.True(t, strings.HasPrefix(lines[8], "2x Orange Boost "))
	assert.True(t, strings.HasSuffix(lines[8], " $6.00"))
	assert.True(t, strings.HasPrefix(lines[9], "1x Vanilla Dream "))
	assert.Equal(t, "   + Chocolate Sauce", lines[10])

	assert.True(t, strings.HasSuffix(lines[12], "$11.00"))
	assert.True(t, strings.HasPrefix(lines[14], "Total "))
	assert.True(t, strings.HasSuffix(lines[14], " $12.65"))
	assert.Len(t, lines[14], len(lines[3]))
}

func TestRender_Instructions(t *testing.T) {
	o := sampleOrder()
	o.Customer.Instructions = "Ring twice"

	out, err := invoice.String(o)
	require.NoError(t, err)
	assert.Contains(t, out, "1 Main St\nNote: Ring twice\n")
}

func TestRender_AlignsMultibyteNames(t *testing.T) {
	order := sampleOrder()
	order.Items = []models.CartItem{{Name: "Açaí Crème", Price: models.MustMoney("4.50"), Quantity: 1}}

	out, err := invoice.String(order)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Greater(t, len(lines), 8)
	assert.True(t, strings.HasPrefix(lines[8], "1x Açaí Crème "))
	assert.Equal(t, utf8.RuneCountInString(lines[3]), utf8.RuneCountInString(lines[8]))
}
