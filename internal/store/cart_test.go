package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/localstore"
	"github.com/meropasal/pasal-cli/internal/models"
)

const twoItemCart = `{"status":"success","cartItems":[
	{"id":"ci-1","productId":"p1","productName":"Sneaker","price":50,"quantity":1,"unitPrice":50,"totalPrice":50,"shopId":"s1","stockQuantity":5},
	{"id":"ci-2","productId":"p2","productName":"Boot","price":100,"quantity":1,"unitPrice":100,"totalPrice":100,"shopId":"s1","stockQuantity":3}
]}`

func TestCartFetchAndGroupByShop(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cart":
			w.Write([]byte(twoItemCart))
		case "/cart/summary":
			w.Write([]byte(`{"status":"success","summary":{"totalItems":2,"totalAmount":150}}`))
		}
	}))

	ctx := context.Background()
	items, err := f.store.Cart.FetchItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	summary, err := f.store.Cart.FetchSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalItems)
	assert.Equal(t, 150.0, summary.TotalAmount)

	grouped := f.store.Cart.ItemsByShop()
	assert.Len(t, grouped["s1"], 2)
}

func TestCartAddRejectedByEnvelope(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 2xx with a failure envelope is still a rejection.
		w.Write([]byte(`{"status":"error","message":"Product is out of stock"}`))
	}))

	_, err := f.store.Cart.Add(context.Background(), AddToCartInput{ProductID: "p1", Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, "Product is out of stock", apperr.As(err).Message)
	assert.Empty(t, f.store.Cart.Items())
}

func TestCartCountPersists(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","count":3}`))
	}))

	count, err := f.store.Cart.FetchCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	stored, ok := f.local.Get(localstore.KeyCartCount)
	require.True(t, ok)
	assert.Equal(t, "3", stored)
}

func TestCartCountIsLineCountNotUnits(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","cartItems":[
			{"id":"ci-1","productId":"p1","productName":"Sneaker","quantity":3,"unitPrice":50,"totalPrice":150,"shopId":"s1"}
		]}`))
	}))

	items, err := f.store.Cart.FetchItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	// One line holding three units counts as one cart item.
	assert.Equal(t, 1, f.store.Cart.Count())
	stored, ok := f.local.Get(localstore.KeyCartCount)
	require.True(t, ok)
	assert.Equal(t, "1", stored)
}

func TestPlaceOrderClearsCart(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cart":
			w.Write([]byte(twoItemCart))
		case "/orders/create":
			w.Write([]byte(`{"status":"success","order":{"id":"o1","orderNumber":"PN-1001","status":"pending","total":150,"createdAt":"2026-03-01T12:00:00Z","paymentMethod":"cod"}}`))
		}
	}))

	ctx := context.Background()
	_, err := f.store.Cart.FetchItems(ctx)
	require.NoError(t, err)

	order, err := f.store.Cart.PlaceOrder(ctx, models.OrderRequest{
		ShopID:        "s1",
		PaymentMethod: "cod",
		Subtotal:      150,
		Total:         150,
	})
	require.NoError(t, err)
	assert.Equal(t, "PN-1001", order.OrderNumber)

	assert.Empty(t, f.store.Cart.Items())
	assert.Zero(t, f.store.Cart.Count())
	require.NotNil(t, f.store.Cart.LastOrder())
	assert.Equal(t, "o1", f.store.Cart.LastOrder().ID)
}

func TestPlaceOrderWithoutShopRejectedLocally(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	}))

	_, err := f.store.Cart.PlaceOrder(context.Background(), models.OrderRequest{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPrecondition, apperr.As(err).Kind)
	assert.Zero(t, f.counter.calls.Load())
}

func TestInitiatePaymentReturnsGatewayHTML(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/s1/esewa/init", r.URL.Path)
		w.Write([]byte(`<form action="https://epay.esewa.com.np"></form>`))
	}))

	html, err := f.store.Cart.InitiatePayment(context.Background(), models.PaymentInitRequest{
		ShopID:        "s1",
		PaymentMethod: "esewa",
		OrderID:       "o1",
		AmountMinor:   15000,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "epay.esewa.com.np")
}

func TestWishlistAddRollsBackOnFailure(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))

	err := f.store.Wishlist.Add(context.Background(), "p1")
	require.Error(t, err)

	// Optimistic flag reverted, no lingering per-product operation.
	assert.False(t, f.store.Wishlist.Contains("p1"))
	assert.False(t, f.store.Wishlist.ProductBusy("p1"))
}

func TestWishlistRemoveRestoresOnFailure(t *testing.T) {
	fail := false
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status":"success","wishlistItems":[{"id":"w1","productId":"p1","productName":"Sneaker","price":50,"shopId":"s1","stockQuantity":5}]}`))
	}))

	ctx := context.Background()
	_, err := f.store.Wishlist.FetchItems(ctx)
	require.NoError(t, err)
	require.True(t, f.store.Wishlist.Contains("p1"))

	fail = true
	err = f.store.Wishlist.Remove(ctx, "p1")
	require.Error(t, err)
	assert.True(t, f.store.Wishlist.Contains("p1"))
}

func TestWishlistFetchRebuildsMembership(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","wishlistItems":[
			{"id":"w1","productId":"p1","productName":"Sneaker","price":50,"shopId":"s1","stockQuantity":5},
			{"id":"w2","productId":"p2","productName":"Boot","price":100,"shopId":"s1","stockQuantity":3}
		]}`))
	}))

	items, err := f.store.Wishlist.FetchItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, f.store.Wishlist.Contains("p1"))
	assert.True(t, f.store.Wishlist.Contains("p2"))
	assert.False(t, f.store.Wishlist.Contains("p3"))
	assert.Equal(t, 2, f.store.Wishlist.Count())
}

func TestFollowShopRequiresSignIn(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	}))

	err := f.store.Customer.FollowShop(context.Background(), "s1", "Kicks")
	require.Error(t, err)

	e := apperr.As(err)
	assert.Equal(t, apperr.KindPrecondition, e.Kind)
	assert.Equal(t, "Please sign in to follow shops", e.Message)
	assert.Zero(t, f.counter.calls.Load())
}

func TestVerifySignupPersistsSession(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","auth":{"token":"tok-99","customer":{"id":"cust-1","name":"Sita","email":"sita@example.com"}}}`))
	}))

	customer, err := f.store.Customer.VerifySignup(context.Background(), "sita@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "cust-1", customer.ID)
	assert.True(t, f.store.Customer.SignedIn())

	assert.True(t, f.local.GetBool(localstore.KeyCustomerAuth))
	tok, ok := f.local.Get(localstore.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "tok-99", tok)
}

func TestCustomerLogoutDropsEverything(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/customers/signup/verify":
			w.Write([]byte(`{"status":"success","auth":{"token":"tok-99","customer":{"id":"cust-1","name":"Sita","email":"sita@example.com"}}}`))
		case "/cart":
			w.Write([]byte(twoItemCart))
		}
	}))

	ctx := context.Background()
	_, err := f.store.Customer.VerifySignup(ctx, "sita@example.com", "123456")
	require.NoError(t, err)
	_, err = f.store.Cart.FetchItems(ctx)
	require.NoError(t, err)

	require.NoError(t, f.store.Customer.Logout())

	assert.False(t, f.store.Customer.SignedIn())
	assert.Empty(t, f.store.Cart.Items())
	assert.False(t, f.local.GetBool(localstore.KeyCustomerAuth))
	_, hasToken := f.local.Get(localstore.KeyAuthToken)
	assert.False(t, hasToken)
	_, hasCount := f.local.Get(localstore.KeyCartCount)
	assert.False(t, hasCount)
}
