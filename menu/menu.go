// Package menu holds the product catalog: base prices, images and the
// addons each product offers.
package menu

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	apperrors "github.com/feraszen/keytop-fresh/errors"
	"github.com/feraszen/keytop-fresh/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultImage is shown for products without a known picture.
const DefaultImage = "orange-juice.jpg"

//go:embed menu.yaml
var defaultCatalog []byte

// Product is one orderable item.
type Product struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Price    models.Money   `json:"price"`
	Image    string         `json:"image"`
	Addons   []models.Addon `json:"addons"`
}

// Menu is an ordered, name-indexed catalog.
type Menu struct {
	products []Product
	byName   map[string]int
}

type fileAddon struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

type fileProduct struct {
	Name     string      `yaml:"name"`
	Category string      `yaml:"category"`
	Price    string      `yaml:"price"`
	Image    string      `yaml:"image"`
	Addons   []fileAddon `yaml:"addons"`
}

type file struct {
	Products []fileProduct `yaml:"products"`
}

// Default returns the embedded catalog.
func Default() *Menu {
	m, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded menu is invalid: %v", err))
	}
	return m
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Menu, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Menu, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse menu YAML: %w", err)
	}

	m := &Menu{byName: make(map[string]int, len(f.Products))}
	for _, fp := range f.Products {
		name := strings.TrimSpace(fp.Name)
		if name == "" {
			return nil, fmt.Errorf("menu: product without a name")
		}
		if _, dup := m.byName[name]; dup {
			return nil, fmt.Errorf("menu: duplicate product %q", name)
		}
		price, err := parsePrice(fp.Price)
		if err != nil {
			return nil, fmt.Errorf("menu: product %q: %w", name, err)
		}

		p := Product{
			Name:     name,
			Category: fp.Category,
			Price:    price,
			Image:    fp.Image,
			Addons:   make([]models.Addon, 0, len(fp.Addons)),
		}
		if p.Image == "" {
			p.Image = DefaultImage
		}
		for _, fa := range fp.Addons {
			ap, err := parsePrice(fa.Price)
			if err != nil {
				return nil, fmt.Errorf("menu: addon %q of %q: %w", fa.Name, name, err)
			}
			p.Addons = append(p.Addons, models.Addon{Name: fa.Name, Price: ap})
		}

		m.byName[name] = len(m.products)
		m.products = append(m.products, p)
	}
	return m, nil
}

func parsePrice(s string) (models.Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return models.Money{}, fmt.Errorf("invalid price %q", s)
	}
	if d.IsNegative() {
		return models.Money{}, fmt.Errorf("negative price %q", s)
	}
	return models.NewMoney(d), nil
}

// Products returns the catalog in file order.
func (m *Menu) Products() []Product {
	out := make([]Product, len(m.products))
	copy(out, m.products)
	return out
}

// Product looks a product up by exact name.
func (m *Menu) Product(name string) (Product, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Product{}, false
	}
	return m.products[i], true
}

// Resolve prices a selection. The returned addons follow the order of
// addonNames, which is what the cart uses for identity.
func (m *Menu) Resolve(name string, addonNames []string) (models.Money, []models.Addon, error) {
	p, ok := m.Product(name)
	if !ok {
		return models.Money{}, nil, apperrors.Validation(fmt.Sprintf("Unknown product %q.", name))
	}

	addons := make([]models.Addon, 0, len(addonNames))
	for _, an := range addonNames {
		a, ok := findAddon(p.Addons, an)
		if !ok {
			return models.Money{}, nil, apperrors.Validation(fmt.Sprintf("%s has no addon %q.", name, an))
		}
		addons = append(addons, a)
	}
	return p.Price, addons, nil
}

// Image returns the picture for name, or DefaultImage.
func (m *Menu) Image(name string) string {
	if p, ok := m.Product(name); ok {
		return p.Image
	}
	return DefaultImage
}

func findAddon(addons []models.Addon, name string) (models.Addon, bool) {
	for _, a := range addons {
		if a.Name == name {
			return a, true
		}
	}
	return models.Addon{}, false
}
