// Package store holds the client-side entity state. Each container owns
// one entity family (shops, categories, products, orders, cart, wishlist,
// payment configs, social links) and mirrors the server through explicit
// fetch and mutate operations. Containers are safe for concurrent use;
// locks are released during network calls so independent operations
// overlap freely.
package store

import (
	"time"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/auth"
	"github.com/meropasal/pasal-cli/internal/localstore"
)

// Store aggregates the entity containers behind one constructor so the
// CLI wires them once. Containers that need the current shop scope hold a
// reference to Shops rather than a copied ID.
type Store struct {
	Auth       *AuthStore
	Shops      *ShopStore
	Categories *CategoryStore
	Products   *ProductStore
	Orders     *OrderStore
	Cart       *CartStore
	Wishlist   *WishlistStore
	Customer   *CustomerStore
	Images     *ImageStore
	Payments   *PaymentStore
	Social     *SocialStore
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source on every freshness check (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.Shops.now = now
		s.Categories.now = now
		s.Products.now = now
		s.Orders.now = now
	}
}

// New wires the containers. tokens may be nil when the customer surface
// is unused; local must always be present for the durable flags.
func New(client *api.Client, local *localstore.Store, tokens *auth.TokenStore, opts ...Option) *Store {
	s := &Store{}
	s.Shops = newShopStore(client)
	s.Auth = newAuthStore(client, s)
	s.Categories = newCategoryStore(client, s.Shops)
	s.Products = newProductStore(client, s.Shops)
	s.Orders = newOrderStore(client, s.Shops)
	s.Cart = newCartStore(client, local)
	s.Wishlist = newWishlistStore(client, local)
	s.Customer = newCustomerStore(client, local, tokens, s)
	s.Images = newImageStore(client)
	s.Payments = newPaymentStore(client, s.Shops)
	s.Social = newSocialStore(client, s.Shops)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResetSession drops all in-memory entity state. Called on merchant
// logout; durable customer flags are handled by the customer container.
func (s *Store) ResetSession() {
	s.Shops.Reset()
	s.Categories.Reset()
	s.Products.Reset()
	s.Orders.Reset()
	s.Payments.Reset()
	s.Social.Reset()
	s.Auth.reset()
}

// ResetCustomer drops the customer-surface entity state. Called on
// customer logout.
func (s *Store) ResetCustomer() {
	s.Cart.Reset()
	s.Wishlist.Reset()
	s.Customer.reset()
}
