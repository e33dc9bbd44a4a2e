package store

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"sync"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/localstore"
	"github.com/meropasal/pasal-cli/internal/models"
	"github.com/meropasal/pasal-cli/internal/state"
)

// WishlistStore holds the customer's saved products. Membership toggles
// are optimistic: the per-product flag flips before the network call and
// reverts on failure.
type WishlistStore struct {
	mu    sync.Mutex
	api   *api.Client
	local *localstore.Store

	status state.Status
	err    *apperr.Error
	items  []models.WishlistItem
	count  int

	// membership mirrors which product IDs are on the wishlist, keyed by
	// product ID rather than wishlist entry ID.
	membership map[string]bool

	productOps *state.Inflight
}

func newWishlistStore(client *api.Client, local *localstore.Store) *WishlistStore {
	return &WishlistStore{
		api:        client,
		local:      local,
		membership: make(map[string]bool),
		productOps: state.NewInflight(),
	}
}

func (s *WishlistStore) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *WishlistStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Items returns the loaded wishlist.
func (s *WishlistStore) Items() []models.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Count returns the badge count.
func (s *WishlistStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Contains reports whether the product is on the wishlist per local
// state, including an optimistic flip awaiting resolution.
func (s *WishlistStore) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.membership[productID]
}

// ProductBusy reports whether a membership toggle for the product is
// unresolved.
func (s *WishlistStore) ProductBusy(productID string) bool {
	return s.productOps.Has(productID)
}

// Add saves a product optimistically. On failure the membership flag
// reverts to absent.
func (s *WishlistStore) Add(ctx context.Context, productID string) error {
	s.mu.Lock()
	s.membership[productID] = true
	s.mu.Unlock()

	s.productOps.Begin(productID)
	resp, err := s.api.Customer().Post(ctx, "/wishlist/add",
		map[string]string{"productId": productID})
	s.productOps.End(productID)

	if err == nil {
		err = api.DecodeEnvelope(resp, "", nil)
	}
	if err != nil {
		s.mu.Lock()
		delete(s.membership, productID)
		s.mu.Unlock()
		return s.fail(err, "Failed to add to wishlist")
	}

	s.mu.Lock()
	s.count = len(s.membership)
	s.persistCountLocked()
	s.mu.Unlock()
	return nil
}

// Remove drops a product optimistically. On failure the membership flag
// reverts to present.
func (s *WishlistStore) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	delete(s.membership, productID)
	s.mu.Unlock()

	s.productOps.Begin(productID)
	resp, err := s.api.Customer().Delete(ctx, "/wishlist/remove/"+url.PathEscape(productID))
	s.productOps.End(productID)

	if err == nil {
		err = api.DecodeEnvelope(resp, "", nil)
	}
	if err != nil {
		s.mu.Lock()
		s.membership[productID] = true
		s.mu.Unlock()
		return s.fail(err, "Failed to remove from wishlist")
	}

	s.mu.Lock()
	s.items = slices.DeleteFunc(s.items, func(item models.WishlistItem) bool {
		return item.ProductID == productID
	})
	s.count = len(s.membership)
	s.persistCountLocked()
	s.mu.Unlock()
	return nil
}

// FetchItems loads the wishlist and rebuilds the membership map from it.
func (s *WishlistStore) FetchItems(ctx context.Context) ([]models.WishlistItem, error) {
	s.mu.Lock()
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.Customer().Get(ctx, "/wishlist")
	if err != nil {
		return nil, s.fail(err, "Failed to load wishlist")
	}

	var items []models.WishlistItem
	if err := api.DecodeEnvelope(resp, "wishlistItems", &items); err != nil {
		return nil, s.fail(err, "Failed to load wishlist")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.items = items
	s.membership = make(map[string]bool, len(items))
	for _, item := range items {
		s.membership[item.ProductID] = true
	}
	s.count = len(items)
	s.persistCountLocked()
	s.mu.Unlock()
	return slices.Clone(items), nil
}

// CheckStatus asks the server whether one product is saved, updating the
// local membership flag.
func (s *WishlistStore) CheckStatus(ctx context.Context, productID string) (bool, error) {
	resp, err := s.api.Customer().Get(ctx, "/wishlist/check/"+url.PathEscape(productID))
	if err != nil {
		return false, apperr.Fallback(err, "Failed to check wishlist")
	}

	var saved bool
	if err := api.DecodeEnvelope(resp, "inWishlist", &saved); err != nil {
		return false, apperr.Fallback(err, "Failed to check wishlist")
	}

	s.mu.Lock()
	if saved {
		s.membership[productID] = true
	} else {
		delete(s.membership, productID)
	}
	s.mu.Unlock()
	return saved, nil
}

// FetchCount loads the badge count and persists it.
func (s *WishlistStore) FetchCount(ctx context.Context) (int, error) {
	resp, err := s.api.Customer().Get(ctx, "/wishlist/count")
	if err != nil {
		return 0, s.fail(err, "Failed to load wishlist count")
	}

	var count int
	if err := api.DecodeEnvelope(resp, "count", &count); err != nil {
		return 0, s.fail(err, "Failed to load wishlist count")
	}

	s.mu.Lock()
	s.count = count
	s.persistCountLocked()
	s.mu.Unlock()
	return count, nil
}

// Clear empties the wishlist on the server and locally.
func (s *WishlistStore) Clear(ctx context.Context) error {
	resp, err := s.api.Customer().Delete(ctx, "/wishlist/clear")
	if err != nil {
		return s.fail(err, "Failed to clear wishlist")
	}
	if err := api.DecodeEnvelope(resp, "", nil); err != nil {
		return s.fail(err, "Failed to clear wishlist")
	}

	s.mu.Lock()
	s.items = nil
	s.membership = make(map[string]bool)
	s.count = 0
	s.persistCountLocked()
	s.mu.Unlock()
	return nil
}

// Reset drops all wishlist state.
func (s *WishlistStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = state.Idle
	s.err = nil
	s.items = nil
	s.membership = make(map[string]bool)
	s.count = 0
	s.productOps.Reset()
}

func (s *WishlistStore) persistCountLocked() {
	_ = s.local.Set(localstore.KeyWishlistCount, strconv.Itoa(s.count))
}

func (s *WishlistStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.status = state.Failed
	s.err = e
	s.mu.Unlock()
	return e
}
