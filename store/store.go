// Package store persists the storefront's three records (cart, orders and the
// invoice counter) as JSON text over a pluggable key/value backend.
//
// Reads never fail: a missing or unreadable record yields its empty default.
// Writes replace the whole record.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/feraszen/keytop-fresh/models"

	"go.uber.org/zap"
)

// Record keys.
const (
	KeyCart           = "cart"
	KeyOrders         = "orders"
	KeyInvoiceCounter = "invoiceCounter"
)

// InvoicePrefix precedes the zero-padded invoice sequence number.
const InvoicePrefix = "KT"

// Backend is a textual key/value facility.
type Backend interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the value of key.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Store is the typed adapter over a Backend.
type Store struct {
	backend      Backend
	namespace    string
	counterStart int
	logger       *zap.Logger

	// counterMu serializes read-increment-write of the invoice counter.
	counterMu sync.Mutex
	ordersMu  sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace prefixes every key with ns + ":".
func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

// WithCounterStart sets the counter value assumed when none is persisted.
func WithCounterStart(n int) Option {
	return func(s *Store) { s.counterStart = n }
}

// New creates a Store over backend.
func New(backend Backend, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		backend:      backend,
		counterStart: 100,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	if s.namespace == "" {
		return name
	}
	return s.namespace + ":" + name
}

// load decodes the record at name into a T. A missing or corrupt record
// yields def; only a backend failure is returned as an error.
func load[T any](ctx context.Context, s *Store, name string, def T) (T, bool, error) {
	raw, ok, err := s.backend.Get(ctx, s.key(name))
	if err != nil {
		return def, false, fmt.Errorf("read %s: %w", name, err)
	}
	if !ok {
		return def, false, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("corrupt record, using default", zap.String("key", name), zap.Error(err))
		return def, false, nil
	}
	return v, true, nil
}

// read is load for display paths: a backend failure also falls back to def.
func read[T any](ctx context.Context, s *Store, name string, def T) (T, bool) {
	v, ok, err := load(ctx, s, name, def)
	if err != nil {
		s.logger.Warn("store read failed, using default", zap.String("key", name), zap.Error(err))
		return def, false
	}
	return v, ok
}

func (s *Store) write(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.backend.Set(ctx, s.key(name), string(data)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Cart returns the persisted cart, or an empty cart.
func (s *Store) Cart(ctx context.Context) []models.CartItem {
	items, _ := read(ctx, s, KeyCart, []models.CartItem{})
	if items == nil {
		return []models.CartItem{}
	}
	return items
}

// SaveCart replaces the cart.
func (s *Store) SaveCart(ctx context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	return s.write(ctx, KeyCart, items)
}

// Orders returns the orders log, or an empty log.
func (s *Store) Orders(ctx context.Context) []models.Order {
	orders, _ := read(ctx, s, KeyOrders, []models.Order{})
	if orders == nil {
		return []models.Order{}
	}
	return orders
}

// SaveOrders replaces the orders log.
func (s *Store) SaveOrders(ctx context.Context, orders []models.Order) error {
	return s.write(ctx, KeyOrders, orders)
}

// AppendOrder adds order to the end of the log. It fails rather than write
// over a log it could not read.
func (s *Store) AppendOrder(ctx context.Context, order models.Order) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	orders, _, err := load(ctx, s, KeyOrders, []models.Order{})
	if err != nil {
		return err
	}
	return s.write(ctx, KeyOrders, append(orders, order))
}

// InvoiceCounter returns the last issued sequence number, if any.
func (s *Store) InvoiceCounter(ctx context.Context) (int, bool) {
	return read(ctx, s, KeyInvoiceCounter, 0)
}

// NextInvoice advances the counter and returns the formatted invoice number.
// The counter is persisted before the number is returned.
func (s *Store) NextInvoice(ctx context.Context) (string, error) {
	s.counterMu.Lock()
	defer s.counterMu.Unlock()

	n, ok, err := load(ctx, s, KeyInvoiceCounter, 0)
	if err != nil {
		return "", err
	}
	if !ok {
		n = s.counterStart
	}
	n++
	if err := s.backend.Set(ctx, s.key(KeyInvoiceCounter), strconv.Itoa(n)); err != nil {
		return "", fmt.Errorf("write %s: %w", KeyInvoiceCounter, err)
	}
	return FormatInvoice(n), nil
}

// FormatInvoice renders n as an invoice number, e.g. 101 -> KT000101.
func FormatInvoice(n int) string {
	return fmt.Sprintf("%s%06d", InvoicePrefix, n)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
