package checkout

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/feraszen/keytop-fresh/cart"
	apperrors "github.com/feraszen/keytop-fresh/errors"
	"github.com/feraszen/keytop-fresh/events"
	"github.com/feraszen/keytop-fresh/logger"
	"github.com/feraszen/keytop-fresh/metrics"
	"github.com/feraszen/keytop-fresh/models"
	"github.com/feraszen/keytop-fresh/pricing"

	"go.uber.org/zap"
)

const (
	MsgEmptyCart = "Your cart is empty."
	MsgThankYou  = "Thank you for your order!"
)

// CartDrainer hands out the cart for finalization.
type CartDrainer interface {
	Drain(ctx context.Context, fn func(items []models.CartItem) error) error
}

// OrderRepository persists the orders log and the invoice sequence.
type OrderRepository interface {
	Orders(ctx context.Context) []models.Order
	AppendOrder(ctx context.Context, order models.Order) error
	NextInvoice(ctx context.Context) (string, error)
}

// Archiver keeps a copy of each finalized order outside the store.
type Archiver interface {
	Archive(ctx context.Context, order models.Order) error
}

// Finalizer turns the cart plus customer details into a recorded Order.
type Finalizer struct {
	cart      CartDrainer
	orders    OrderRepository
	calc      pricing.Calculator
	publisher events.Publisher
	notifier  cart.Notifier
	metrics   metrics.Recorder
	archiver  Archiver
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	state State
}

// Option configures a Finalizer.
type Option func(*Finalizer)

// WithPublisher sets where order.finalized events go.
func WithPublisher(p events.Publisher) Option {
	return func(f *Finalizer) { f.publisher = p }
}

// WithNotifier sets the shopper notification sink.
func WithNotifier(n cart.Notifier) Option {
	return func(f *Finalizer) { f.notifier = n }
}

// WithMetrics sets the recorder for checkout counters.
func WithMetrics(r metrics.Recorder) Option {
	return func(f *Finalizer) { f.metrics = r }
}

// WithArchiver stores each finalized order's invoice, best-effort.
func WithArchiver(a Archiver) Option {
	return func(f *Finalizer) { f.archiver = a }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Finalizer) { f.now = now }
}

func NewFinalizer(c CartDrainer, orders OrderRepository, calc pricing.Calculator, logger *zap.Logger, opts ...Option) *Finalizer {
	f := &Finalizer{
		cart:      c,
		orders:    orders,
		calc:      calc,
		publisher: events.Noop{},
		notifier:  cart.NotifierFunc(func(context.Context, string) {}),
		metrics:   metrics.Noop{},
		logger:    logger,
		now:       time.Now,
		state:     Editing,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current state.
func (f *Finalizer) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Finalizer) setState(ctx context.Context, s State) {
	f.mu.Lock()
	prev := f.state
	f.state = s
	f.mu.Unlock()
	logger.For(ctx, f.logger).Debug("checkout state", zap.Stringer("from", prev), zap.Stringer("to", s))
}

// Submit validates the customer, records the order and clears the cart.
// A rejected submission changes nothing and returns a validation error.
func (f *Finalizer) Submit(ctx context.Context, customer models.Customer) (*models.Order, error) {
	log := logger.For(ctx, f.logger)
	f.setState(ctx, Validating)

	customer = trimCustomer(customer)
	if missing := missingFields(customer); len(missing) > 0 {
		return nil, f.reject(ctx, apperrors.Validation("Please fill in your "+joinFields(missing)+"."))
	}

	var order models.Order
	err := f.cart.Drain(ctx, func(items []models.CartItem) error {
		if len(items) == 0 {
			return apperrors.Validation(MsgEmptyCart)
		}

		invoice, err := f.orders.NextInvoice(ctx)
		if err != nil {
			return apperrors.Storage(err)
		}

		summary := f.calc.Summarize(items)
		order = models.Order{
			Invoice:  invoice,
			Customer: customer,
			Items:    items,
			Subtotal: summary.Subtotal,
			Tax:      summary.Tax,
			Total:    summary.Total,
			Date:     f.now().Format(models.DateLayout),
		}

		if err := f.orders.AppendOrder(ctx, order); err != nil {
			return apperrors.Storage(err)
		}
		return nil
	})
	if err != nil {
		if e := apperrors.From(err); e.Kind != apperrors.KindValidation {
			log.Error("checkout failed", zap.Error(err))
			_ = f.metrics.RecordCount(ctx, metrics.CheckoutFailed, nil)
		}
		return nil, f.reject(ctx, err)
	}

	f.setState(ctx, Finalized)
	log.Info("order finalized",
		zap.String("invoice", order.Invoice),
		zap.Int("lines", len(order.Items)),
		zap.String("total", order.Total.String()),
	)
	_ = f.metrics.RecordCount(ctx, metrics.OrdersFinalized, nil)
	f.notifier.Notify(ctx, MsgThankYou)
	f.publish(ctx, order)
	if f.archiver != nil {
		if err := f.archiver.Archive(ctx, order); err != nil {
			log.Warn("invoice not archived", zap.String("invoice", order.Invoice), zap.Error(err))
		}
	}

	out := order
	out.Items = models.CloneItems(order.Items)
	return &out, nil
}

func (f *Finalizer) reject(ctx context.Context, err error) error {
	f.setState(ctx, Editing)
	if e := apperrors.From(err); e.Kind == apperrors.KindValidation {
		_ = f.metrics.RecordCount(ctx, metrics.CheckoutRejected, nil)
		f.notifier.Notify(ctx, e.Message)
	}
	return err
}

func (f *Finalizer) publish(ctx context.Context, order models.Order) {
	payload, err := json.Marshal(models.OrderFinalizedEvent{
		Event:     events.OrderFinalized,
		Invoice:   order.Invoice,
		Total:     order.Total,
		Items:     order.Items,
		Timestamp: f.now().UTC(),
	})
	if err != nil {
		f.logger.Error("failed to marshal order event", zap.Error(err))
		return
	}
	if err := f.publisher.Publish(ctx, order.Invoice, payload); err != nil {
		logger.For(ctx, f.logger).Warn("order event not published", zap.String("invoice", order.Invoice), zap.Error(err))
	}
}

// Orders returns the orders log, oldest first.
func (f *Finalizer) Orders(ctx context.Context) []models.Order {
	return f.orders.Orders(ctx)
}

// Order looks up one order by invoice number.
func (f *Finalizer) Order(ctx context.Context, invoice string) (*models.Order, error) {
	for _, o := range f.orders.Orders(ctx) {
		if strings.EqualFold(o.Invoice, invoice) {
			return &o, nil
		}
	}
	return nil, apperrors.NotFound("Order " + invoice + " not found")
}

func trimCustomer(c models.Customer) models.Customer {
	return models.Customer{
		Name:         strings.TrimSpace(c.Name),
		Phone:        strings.TrimSpace(c.Phone),
		Address:      strings.TrimSpace(c.Address),
		Instructions: strings.TrimSpace(c.Instructions),
	}
}

func missingFields(c models.Customer) []string {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	if c.Address == "" {
		missing = append(missing, "address")
	}
	return missing
}

// joinFields renders ["a","b","c"] as "a, b and c".
func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
	}
}
