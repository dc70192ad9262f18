package cart

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/feraszen/keytop-fresh/errors"
	"github.com/feraszen/keytop-fresh/logger"
	"github.com/feraszen/keytop-fresh/models"

	"go.uber.org/zap"
)

// Repository is the persistence the engine needs.
type Repository interface {
	Cart(ctx context.Context) []models.CartItem
	SaveCart(ctx context.Context, items []models.CartItem) error
}

// Notifier shows a transient message to the shopper.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

// AddResult describes the outcome of AddItem.
type AddResult struct {
	Item    models.CartItem `json:"item"`
	Index   int             `json:"index"`
	Merged  bool            `json:"merged"`
	Count   int             `json:"count"`
	Message string          `json:"message"`
}

// Engine applies cart mutations. Every mutation reads the whole cart, edits a
// local copy and writes the whole cart back while holding mu.
type Engine struct {
	repo     Repository
	notifier Notifier
	logger   *zap.Logger

	mu sync.Mutex
}

func NewEngine(repo Repository, notifier Notifier, logger *zap.Logger) *Engine {
	if notifier == nil {
		notifier = NotifierFunc(func(context.Context, string) {})
	}
	return &Engine{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// AddItem adds one unit of (name, addons). An existing entry with the same
// identity keeps the price it was first added with.
func (e *Engine) AddItem(ctx context.Context, name string, basePrice models.Money, addons []models.Addon) (AddResult, error) {
	if strings.TrimSpace(name) == "" {
		return AddResult{}, apperrors.Validation("Product name is required.")
	}
	if basePrice.IsNegative() {
		return AddResult{}, apperrors.Validation("Price must not be negative.")
	}
	for _, a := range addons {
		if a.Price.IsNegative() {
			return AddResult{}, apperrors.Validation("Addon price must not be negative.")
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	items := e.repo.Cart(ctx)
	res := AddResult{Index: -1}
	for i := range items {
		if items[i].Matches(name, addons) {
			items[i].Quantity++
			res.Index, res.Merged = i, true
			break
		}
	}
	if res.Index < 0 {
		own := make([]models.Addon, len(addons))
		copy(own, addons)
		items = append(items, models.CartItem{
			Name:     name,
			Price:    basePrice.Plus(models.AddonTotal(addons)),
			Quantity: 1,
			Addons:   own,
		})
		res.Index = len(items) - 1
	}

	if err := e.save(ctx, items); err != nil {
		return AddResult{}, err
	}

	res.Item = items[res.Index].Clone()
	res.Count = countItems(items)
	res.Message = name + " added to cart!"

	logger.For(ctx, e.logger).Info("cart item added",
		zap.String("name", name),
		zap.Int("index", res.Index),
		zap.Bool("merged", res.Merged),
		zap.Int("quantity", res.Item.Quantity),
	)
	e.notifier.Notify(ctx, res.Message)
	return res, nil
}

// SetQuantity sets the quantity at index; values below 1 become 1.
func (e *Engine) SetQuantity(ctx context.Context, index, quantity int) (models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	items := e.repo.Cart(ctx)
	if err := e.checkIndex(ctx, index, len(items)); err != nil {
		return models.CartItem{}, err
	}
	items[index].Quantity = quantity

	if err := e.save(ctx, items); err != nil {
		return models.CartItem{}, err
	}
	return items[index].Clone(), nil
}

// RemoveItem deletes the entry at index, keeping the order of the rest.
func (e *Engine) RemoveItem(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := e.repo.Cart(ctx)
	if err := e.checkIndex(ctx, index, len(items)); err != nil {
		return err
	}
	removed := items[index].Name
	items = append(items[:index], items[index+1:]...)

	if err := e.save(ctx, items); err != nil {
		return err
	}
	logger.For(ctx, e.logger).Info("cart item removed", zap.String("name", removed), zap.Int("index", index))
	return nil
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save(ctx, []models.CartItem{})
}

// Items returns a copy of the cart.
func (e *Engine) Items(ctx context.Context) []models.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.CloneItems(e.repo.Cart(ctx))
}

// TotalItemCount sums quantities; it drives the badge counter.
func (e *Engine) TotalItemCount(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return countItems(e.repo.Cart(ctx))
}

// Drain passes a deep copy of the cart to fn and clears the cart only if fn
// succeeds. No other cart mutation interleaves with fn.
//
// Once fn has returned nil its work is committed, so a failed clear is logged
// and Drain still succeeds.
func (e *Engine) Drain(ctx context.Context, fn func(items []models.CartItem) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := fn(models.CloneItems(e.repo.Cart(ctx))); err != nil {
		return err
	}
	if err := e.save(ctx, []models.CartItem{}); err != nil {
		logger.For(ctx, e.logger).Error("cart not cleared after drain", zap.Error(err))
	}
	return nil
}

func (e *Engine) checkIndex(ctx context.Context, index, length int) error {
	if index < 0 || index >= length {
		err := apperrors.IndexOutOfRange(index, length)
		logger.For(ctx, e.logger).Error("cart index out of range", zap.Int("index", index), zap.Int("length", length))
		return err
	}
	return nil
}

func (e *Engine) save(ctx context.Context, items []models.CartItem) error {
	if err := e.repo.SaveCart(ctx, items); err != nil {
		logger.For(ctx, e.logger).Error("failed to save cart", zap.Error(err))
		return apperrors.Storage(err)
	}
	return nil
}

func countItems(items []models.CartItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}
