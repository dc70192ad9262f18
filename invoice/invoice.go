// Package invoice renders a finalized order as a plain-text invoice.
package invoice

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/feraszen/keytop-fresh/models"
)

const width = 44

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"rule":  func() string { return strings.Repeat("-", width) },
	"line":  line,
	"money": func(m models.Money) string { return "$" + m.String() },
}).Parse(`KEYTOP FRESH
Invoice {{.Invoice}}
{{.Date}}
{{rule}}
{{.Customer.Name}}
{{.Customer.Phone}}
{{.Customer.Address}}
{{- with .Customer.Instructions}}
Note: {{.}}
{{- end}}
{{rule}}
{{- range .Items}}
{{line (printf "%dx %s" .Quantity .Name) (money .LineTotal)}}
{{- range .Addons}}
   + {{.Name}}
{{- end}}
{{- end}}
{{rule}}
{{line "Subtotal" (money .Subtotal)}}
{{line "Tax" (money .Tax)}}
{{line "Total" (money .Total)}}
`))

// line pads label and amount out to the invoice width.
func line(label, amount string) string {
	pad := width - utf8.RuneCountInString(label) - utf8.RuneCountInString(amount)
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + amount
}

// Render writes order to w.
func Render(w io.Writer, order models.Order) error {
	if err := invoiceTemplate.Execute(w, order); err != nil {
		return fmt.Errorf("render invoice %s: %w", order.Invoice, err)
	}
	return nil
}

// String renders order to a string.
func String(order models.Order) (string, error) {
	var b strings.Builder
	if err := Render(&b, order); err != nil {
		return "", err
	}
	return b.String(), nil
}
