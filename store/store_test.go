package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/feraszen/keytop-fresh/models"
	"github.com/feraszen/keytop-fresh/store"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock backends ---

type failingBackend struct{ err error }

func (f *failingBackend) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f *failingBackend) Set(context.Context, string, string) error         { return f.err }
func (f *failingBackend) Close() error                                     { return nil }

// flakyBackend is a memory backend whose reads can be switched off.
type flakyBackend struct {
	*store.MemoryBackend
	failGets bool
}

func (f *flakyBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGets {
		return "", false, errors.New("i/o timeout")
	}
	return f.MemoryBackend.Get(ctx, key)
}

type mockDynamo struct {
	items map[string]map[string]types.AttributeValue
}

func (m *mockDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	k := in.Key["key"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: m.items[k]}, nil
}

func (m *mockDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	k := in.Item["key"].(*types.AttributeValueMemberS).Value
	m.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

// --- Helpers ---

func sampleCart() []models.CartItem {
	return []models.CartItem{
		{Name: "Orange Boost", Price: models.MustMoney("3.00"), Quantity: 2, Addons: []models.Addon{}},
		{Name: "Vanilla Dream", Price: models.MustMoney("5.00"), Quantity: 1, Addons: []models.Addon{
			{Name: "Chocolate Sauce", Price: models.MustMoney("1")},
		}},
	}
}

func backends(t *testing.T) map[string]store.Backend {
	fb, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return map[string]store.Backend{
		"memory": store.NewMemoryBackend(),
		"file":   fb,
		"dynamo": store.NewDynamoBackend(&mockDynamo{items: map[string]map[string]types.AttributeValue{}}, "t"),
	}
}

// --- Tests ---

func TestStore_CartRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := store.New(b, zap.NewNop(), store.WithNamespace("test"))

			require.NoError(t, s.SaveCart(ctx, sampleCart()))
			got := s.Cart(ctx)

			require.Len(t, got, 2)
			assert.Equal(t, "Orange Boost", got[0].Name)
			assert.Equal(t, 2, got[0].Quantity)
			assert.Equal(t, "5.00", got[1].Price.String())
			assert.Equal(t, "Chocolate Sauce", got[1].Addons[0].Name)
		})
	}
}

func TestStore_MissingRecordsDefault(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.NewMemoryBackend(), zap.NewNop())

	assert.NotNil(t, s.Cart(ctx))
	assert.Empty(t, s.Cart(ctx))
	assert.Empty(t, s.Orders(ctx))
	_, ok := s.InvoiceCounter(ctx)
	assert.False(t, ok)
}

func TestStore_CorruptRecordFallsBack(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemoryBackend()
	require.NoError(t, b.Set(ctx, store.KeyCart, "{not json"))
	require.NoError(t, b.Set(ctx, store.KeyOrders, `"a string"`))
	require.NoError(t, b.Set(ctx, store.KeyInvoiceCounter, "NaN"))

	s := store.New(b, zap.NewNop())
	assert.Empty(t, s.Cart(ctx))
	assert.Empty(t, s.Orders(ctx))

	invoice, err := s.NextInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "KT000101", invoice)
}

func TestStore_NullCartIsEmpty(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemoryBackend()
	require.NoError(t, b.Set(ctx, store.KeyCart, "null"))

	s := store.New(b, zap.NewNop())
	assert.NotNil(t, s.Cart(ctx))
	assert.Empty(t, s.Cart(ctx))
}

func TestStore_ReadFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	s := store.New(&failingBackend{err: errors.New("connection reset")}, zap.NewNop())

	assert.Empty(t, s.Cart(ctx))
	assert.Empty(t, s.Orders(ctx))
	assert.Error(t, s.SaveCart(ctx, sampleCart()))
}

func TestStore_WriteReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.NewMemoryBackend(), zap.NewNop())

	require.NoError(t, s.SaveCart(ctx, sampleCart()))
	require.NoError(t, s.SaveCart(ctx, sampleCart()[:1]))
	assert.Len(t, s.Cart(ctx), 1)
}

func TestStore_InvoiceSequence(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.NewMemoryBackend(), zap.NewNop())

	first, err := s.NextInvoice(ctx)
	require.NoError(t, err)
	second, err := s.NextInvoice(ctx)
	require.NoError(t, err)

	assert.Equal(t, "KT000101", first)
	assert.Equal(t, "KT000102", second)

	n, ok := s.InvoiceCounter(ctx)
	assert.True(t, ok)
	assert.Equal(t, 102, n)
}

func TestStore_InvoiceCounterPersistsAcrossStores(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemoryBackend()

	_, err := store.New(b, zap.NewNop()).NextInvoice(ctx)
	require.NoError(t, err)

	next, err := store.New(b, zap.NewNop()).NextInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "KT000102", next)
}

func TestStore_CounterStartConfigurable(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.NewMemoryBackend(), zap.NewNop(), store.WithCounterStart(0))

	invoice, err := s.NextInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "KT000001", invoice)
}

func TestStore_NamespaceIsolatesKeys(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemoryBackend()
	a := store.New(b, zap.NewNop(), store.WithNamespace("a"))
	other := store.New(b, zap.NewNop(), store.WithNamespace("b"))

	require.NoError(t, a.SaveCart(ctx, sampleCart()))
	assert.Len(t, a.Cart(ctx), 2)
	assert.Empty(t, other.Cart(ctx))

	_, ok, _ := b.Get(ctx, "a:cart")
	assert.True(t, ok)
}

func TestFileBackend_UsesPortableNames(t *testing.T) {
	dir := t.TempDir()
	fb, err := store.NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, fb.Set(context.Background(), "keytop:cart", "[]"))

	data, err := os.ReadFile(filepath.Join(dir, "keytop_cart.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFormatInvoice(t *testing.T) {
	assert.Equal(t, "KT000101", store.FormatInvoice(101))
	assert.Equal(t, "KT1234567", store.FormatInvoice(1234567))
}

func TestMigrate_CopiesRecords(t *testing.T) {
	ctx := context.Background()
	src := store.NewMemoryBackend()
	s := store.New(src, zap.NewNop(), store.WithNamespace("keytop"))
	require.NoError(t, s.SaveCart(ctx, sampleCart()))
	_, err := s.NextInvoice(ctx)
	require.NoError(t, err)

	dst := store.NewMemoryBackend()
	n, err := store.Migrate(ctx, src, dst, "keytop", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	moved := store.New(dst, zap.NewNop(), store.WithNamespace("keytop"))
	assert.Len(t, moved.Cart(ctx), len(sampleCart()))
	counter, ok := moved.InvoiceCounter(ctx)
	require.True(t, ok)
	assert.Equal(t, 101, counter)
	assert.Empty(t, moved.Orders(ctx))
}

func TestMigrate_ReadFailure(t *testing.T) {
	_, err := store.Migrate(context.Background(), &failingBackend{err: errors.New("down")}, store.NewMemoryBackend(), "", zap.NewNop())
	assert.Error(t, err)
}

func TestStore_NextInvoiceAbortsOnReadError(t *testing.T) {
	ctx := context.Background()
	b := &flakyBackend{MemoryBackend: store.NewMemoryBackend()}
	s := store.New(b, zap.NewNop())

	first, err := s.NextInvoice(ctx)
	require.NoError(t, err)
	second, err := s.NextInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "KT000101", first)
	assert.Equal(t, "KT000102", second)

	b.failGets = true
	_, err = s.NextInvoice(ctx)
	assert.Error(t, err)

	b.failGets = false
	third, err := s.NextInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "KT000103", third)
}

func TestStore_AppendOrder(t *testing.T) {
	ctx := context.Background()
	b := &flakyBackend{MemoryBackend: store.NewMemoryBackend()}
	s := store.New(b, zap.NewNop())

	require.NoError(t, s.AppendOrder(ctx, models.Order{Invoice: "KT000101"}))
	require.NoError(t, s.AppendOrder(ctx, models.Order{Invoice: "KT000102"}))

	b.failGets = true
	assert.Error(t, s.AppendOrder(ctx, models.Order{Invoice: "KT000103"}))

	b.failGets = false
	orders := s.Orders(ctx)
	require.Len(t, orders, 2)
	assert.Equal(t, "KT000101", orders[0].Invoice)
	assert.Equal(t, "KT000102", orders[1].Invoice)
}
