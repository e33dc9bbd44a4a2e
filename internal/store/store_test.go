package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/auth"
	"github.com/meropasal/pasal-cli/internal/localstore"
	"github.com/meropasal/pasal-cli/internal/models"
	"github.com/meropasal/pasal-cli/internal/state"
)

// countingTransport counts round trips so tests can assert how many
// network calls an operation made, including zero.
type countingTransport struct {
	calls atomic.Int64
	next  http.RoundTripper
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return t.next.RoundTrip(req)
}

// testClock is an adjustable time source.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	store   *Store
	clock   *testClock
	counter *countingTransport
	local   *localstore.Store
}

// newFixture wires a full store against the handler with a counting
// transport and an injected clock.
func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()
	t.Setenv("PASAL_NO_KEYRING", "1")
	t.Setenv("PASAL_TOKEN", "")

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	counter := &countingTransport{next: http.DefaultTransport}
	local := localstore.New(t.TempDir())
	tokens := auth.NewTokenStore(local)
	client := api.NewClient(server.URL, tokens, api.WithTransport(counter))

	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return &fixture{
		store:   New(client, local, tokens, WithClock(clock.Now)),
		clock:   clock,
		counter: counter,
		local:   local,
	}
}

func TestCreateCategoryWithoutShopScope(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	}))

	_, err := f.store.Categories.Create(context.Background(), categoryInput("Shoes"))
	require.Error(t, err)

	e := apperr.As(err)
	assert.Equal(t, apperr.KindPrecondition, e.Kind)
	assert.Equal(t, "Shop ID is undefined", e.Message)
	assert.Zero(t, f.counter.calls.Load())
}

func TestCreateProductWithoutShopScope(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	}))

	_, err := f.store.Products.Create(context.Background(), productInput("Sneaker", 100))
	require.Error(t, err)
	assert.Equal(t, apperr.KindPrecondition, apperr.As(err).Kind)
	assert.Zero(t, f.counter.calls.Load())
}

func TestSeedEnablesScopedCreates(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cat-1","name":"Shoes","active":true,"shopId":"shop-1"}`))
	}))

	f.store.Shops.Seed("shop-1")
	category, err := f.store.Categories.Create(context.Background(), categoryInput("Shoes"))
	require.NoError(t, err)
	assert.Equal(t, "cat-1", category.ID)
	assert.Equal(t, int64(1), f.counter.calls.Load())
}

func TestFetchShopByOwnerScopeWindow(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"shop-1","shopUrl":"kicks","businessName":"Kicks","owner":{"id":"owner-1"}}`))
	}))

	ctx := context.Background()
	_, err := f.store.Shops.FetchByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Equal(t, int64(1), f.counter.calls.Load())

	// One second inside the window: served from cache.
	f.clock.Advance(29 * time.Second)
	shop, err := f.store.Shops.FetchByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "shop-1", shop.ID)
	assert.Equal(t, int64(1), f.counter.calls.Load())

	// One second past the window: refetched.
	f.clock.Advance(2 * time.Second)
	_, err = f.store.Shops.FetchByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.counter.calls.Load())
}

func TestFetchOrdersScopeWindow(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","orders":[{"id":"o1","status":"pending","total":500,"shopId":"shop-1","customerName":"Sita","createdAt":"2026-03-01T10:00:00Z","items":[],"paymentMethod":"cod","deliveryFee":0,"shippingAddress":{}}]}`))
	}))

	ctx := context.Background()
	orders, err := f.store.Orders.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, int64(1), f.counter.calls.Load())

	f.clock.Advance(29 * time.Second)
	_, err = f.store.Orders.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.counter.calls.Load())

	f.clock.Advance(2 * time.Second)
	_, err = f.store.Orders.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.counter.calls.Load())
}

func TestOrderEnvelopeRejection(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"Shop not accessible"}`))
	}))

	_, err := f.store.Orders.FetchByShop(context.Background(), "shop-1")
	require.Error(t, err)
	assert.Equal(t, "Shop not accessible", apperr.As(err).Message)
	assert.Equal(t, state.Failed, f.store.Orders.Status())
}

func TestOrderStatusUpdateRevertsOnFailure(t *testing.T) {
	fail := false
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
			return
		}
		w.Write([]byte(`{"status":"success","orders":[{"id":"o1","status":"pending","total":500,"shopId":"shop-1","customerName":"Sita","createdAt":"2026-03-01T10:00:00Z","items":[],"paymentMethod":"cod","deliveryFee":0,"shippingAddress":{}}]}`))
	}))

	ctx := context.Background()
	_, err := f.store.Orders.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)

	fail = true
	err = f.store.Orders.UpdateStatus(ctx, "o1", "shipped")
	require.Error(t, err)

	orders := f.store.Orders.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "pending", orders[0].Status)
	assert.False(t, f.store.Orders.Updating("o1"))
}

func TestPaymentDetailNotFound(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := f.store.Payments.FetchDetail(context.Background(), "cfg-1")
	require.Error(t, err)

	e := apperr.As(err)
	assert.Equal(t, apperr.KindNotFound, e.Kind)
	assert.Equal(t, "CONFIG_NOT_FOUND", e.Message)
}

func TestPaymentToggleRevertsOnFailure(t *testing.T) {
	fail := false
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"id":"cfg-1","shopId":"shop-1","paymentMethod":"esewa","active":true}]`))
	}))

	ctx := context.Background()
	_, err := f.store.Payments.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)

	fail = true
	err = f.store.Payments.ToggleActive(ctx, "cfg-1", false)
	require.Error(t, err)
	assert.True(t, f.store.Payments.Configs()[0].Active)
	assert.False(t, f.store.Payments.Toggling("cfg-1"))
}

func TestResetSessionDropsMerchantState(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"cat-1","name":"Shoes","active":true,"shopId":"shop-1"}]`))
	}))

	_, err := f.store.Categories.FetchByShop(context.Background(), "shop-1")
	require.NoError(t, err)
	require.Equal(t, state.Succeeded, f.store.Categories.Status())

	f.store.ResetSession()
	assert.Equal(t, state.Idle, f.store.Categories.Status())
	assert.Empty(t, f.store.Categories.Categories())
	assert.Empty(t, f.store.Shops.CurrentShopID())
}

func categoryInput(name string) models.CategoryInput {
	return models.CategoryInput{Name: name, Active: true}
}

func productInput(name string, price float64) models.ProductInput {
	return models.ProductInput{Name: name, Price: price, Active: true}
}
