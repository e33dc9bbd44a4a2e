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

// AddToCartInput is the payload for adding a product to the cart.
type AddToCartInput struct {
	ProductID       string  `json:"productId"`
	Quantity        int     `json:"quantity"`
	SelectedVariant *string `json:"selectedVariant,omitempty"`
}

// CartStore holds the customer's cart. All calls ride the bearer profile
// and every response travels the success envelope. The per-shop grouping
// is computed from items on read, never stored.
type CartStore struct {
	mu    sync.Mutex
	api   *api.Client
	local *localstore.Store

	status    state.Status
	err       *apperr.Error
	items     []models.CartItem
	summary   models.CartSummary
	count     int
	lastOrder *models.OrderConfirmation

	// itemOps tracks unresolved per-line mutations so a UI can disable
	// just the affected row.
	itemOps *state.Inflight
}

func newCartStore(client *api.Client, local *localstore.Store) *CartStore {
	return &CartStore{
		api:     client,
		local:   local,
		itemOps: state.NewInflight(),
	}
}

func (s *CartStore) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *CartStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Items returns the loaded cart lines.
func (s *CartStore) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// ItemsByShop groups the loaded lines by shop ID, computed on read.
func (s *CartStore) ItemsByShop() map[string][]models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[string][]models.CartItem)
	for _, item := range s.items {
		grouped[item.ShopID] = append(grouped[item.ShopID], item)
	}
	return grouped
}

// Summary returns the aggregate loaded by FetchSummary.
func (s *CartStore) Summary() models.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Count returns the badge count.
func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// LastOrder returns the confirmation of the most recent checkout, nil
// when none happened this session.
func (s *CartStore) LastOrder() *models.OrderConfirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOrder
}

// ItemBusy reports whether a mutation for the cart line is unresolved.
func (s *CartStore) ItemBusy(id string) bool {
	return s.itemOps.Has(id)
}

// Add puts a product in the cart. The server returns the created or
// merged line.
func (s *CartStore) Add(ctx context.Context, input AddToCartInput) (*models.CartItem, error) {
	if input.Quantity <= 0 {
		return nil, apperr.ErrUsage("quantity must be positive")
	}

	resp, err := s.api.Customer().Post(ctx, "/cart/add", input)
	if err != nil {
		return nil, s.fail(err, "Failed to add to cart")
	}

	var item models.CartItem
	if err := api.DecodeEnvelope(resp, "cartItem", &item); err != nil {
		return nil, s.fail(err, "Failed to add to cart")
	}

	s.mu.Lock()
	s.mergeLocked(item)
	s.count = len(s.items)
	s.persistCountLocked()
	s.mu.Unlock()
	return &item, nil
}

// FetchItems loads the full cart.
func (s *CartStore) FetchItems(ctx context.Context) ([]models.CartItem, error) {
	s.mu.Lock()
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.Customer().Get(ctx, "/cart")
	if err != nil {
		return nil, s.fail(err, "Failed to load cart")
	}

	var items []models.CartItem
	if err := api.DecodeEnvelope(resp, "cartItems", &items); err != nil {
		return nil, s.fail(err, "Failed to load cart")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.items = items
	s.count = len(items)
	s.persistCountLocked()
	s.mu.Unlock()
	return slices.Clone(items), nil
}

// UpdateItem changes a cart line's quantity.
func (s *CartStore) UpdateItem(ctx context.Context, id string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, apperr.ErrUsage("quantity must be positive")
	}

	s.itemOps.Begin(id)
	resp, err := s.api.Customer().Put(ctx, "/cart/update/"+url.PathEscape(id),
		map[string]int{"quantity": quantity})
	s.itemOps.End(id)
	if err != nil {
		return nil, s.fail(err, "Failed to update cart item")
	}

	var item models.CartItem
	if err := api.DecodeEnvelope(resp, "cartItem", &item); err != nil {
		return nil, s.fail(err, "Failed to update cart item")
	}

	s.mu.Lock()
	s.mergeLocked(item)
	s.count = len(s.items)
	s.persistCountLocked()
	s.mu.Unlock()
	return &item, nil
}

// Remove deletes a cart line.
func (s *CartStore) Remove(ctx context.Context, id string) error {
	s.itemOps.Begin(id)
	resp, err := s.api.Customer().Delete(ctx, "/cart/remove/"+url.PathEscape(id))
	s.itemOps.End(id)
	if err != nil {
		return s.fail(err, "Failed to remove cart item")
	}
	if err := api.DecodeEnvelope(resp, "", nil); err != nil {
		return s.fail(err, "Failed to remove cart item")
	}

	s.mu.Lock()
	s.items = slices.DeleteFunc(s.items, func(item models.CartItem) bool {
		return item.ID == id
	})
	s.count = len(s.items)
	s.persistCountLocked()
	s.mu.Unlock()
	return nil
}

// Clear empties the cart on the server and locally.
func (s *CartStore) Clear(ctx context.Context) error {
	resp, err := s.api.Customer().Delete(ctx, "/cart/clear")
	if err != nil {
		return s.fail(err, "Failed to clear cart")
	}
	if err := api.DecodeEnvelope(resp, "", nil); err != nil {
		return s.fail(err, "Failed to clear cart")
	}

	s.mu.Lock()
	s.items = nil
	s.summary = models.CartSummary{}
	s.count = 0
	s.persistCountLocked()
	s.mu.Unlock()
	return nil
}

// FetchSummary loads the aggregate count and amount.
func (s *CartStore) FetchSummary(ctx context.Context) (models.CartSummary, error) {
	resp, err := s.api.Customer().Get(ctx, "/cart/summary")
	if err != nil {
		return models.CartSummary{}, s.fail(err, "Failed to load cart summary")
	}

	var summary models.CartSummary
	if err := api.DecodeEnvelope(resp, "summary", &summary); err != nil {
		return models.CartSummary{}, s.fail(err, "Failed to load cart summary")
	}

	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()
	return summary, nil
}

// FetchCount loads the badge count and persists it for the next process.
func (s *CartStore) FetchCount(ctx context.Context) (int, error) {
	resp, err := s.api.Customer().Get(ctx, "/cart/count")
	if err != nil {
		return 0, s.fail(err, "Failed to load cart count")
	}

	var count int
	if err := api.DecodeEnvelope(resp, "count", &count); err != nil {
		return 0, s.fail(err, "Failed to load cart count")
	}

	s.mu.Lock()
	s.count = count
	s.persistCountLocked()
	s.mu.Unlock()
	return count, nil
}

// PlaceOrder checks the cart out. On success the cart empties and the
// confirmation becomes the last order.
func (s *CartStore) PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.OrderConfirmation, error) {
	if req.ShopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}

	resp, err := s.api.Customer().Post(ctx, "/orders/create", req)
	if err != nil {
		return nil, s.fail(err, "Failed to place order")
	}

	var order models.OrderConfirmation
	if err := api.DecodeEnvelope(resp, "order", &order); err != nil {
		return nil, s.fail(err, "Failed to place order")
	}

	s.mu.Lock()
	s.items = nil
	s.summary = models.CartSummary{}
	s.count = 0
	s.lastOrder = &order
	s.persistCountLocked()
	s.mu.Unlock()
	return &order, nil
}

// InitiatePayment starts a gateway payment for a placed order. The
// response body is the gateway's redirect HTML, passed through verbatim.
func (s *CartStore) InitiatePayment(ctx context.Context, req models.PaymentInitRequest) (string, error) {
	if req.ShopID == "" {
		return "", apperr.ErrPrecondition("Shop ID is undefined")
	}
	if req.PaymentMethod == "" {
		return "", apperr.ErrUsage("payment method is required")
	}

	path := "/payments/" + url.PathEscape(req.ShopID) + "/" + url.PathEscape(req.PaymentMethod) + "/init"
	resp, err := s.api.Customer().Post(ctx, path, req)
	if err != nil {
		return "", apperr.Fallback(err, "Failed to initiate payment")
	}
	return string(resp.Data), nil
}

// Reset drops all cart state. Durable counts are cleared by the customer
// container on logout, not here.
func (s *CartStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = state.Idle
	s.err = nil
	s.items = nil
	s.summary = models.CartSummary{}
	s.count = 0
	s.lastOrder = nil
	s.itemOps.Reset()
}

// mergeLocked replaces the line when present, appends otherwise.
func (s *CartStore) mergeLocked(item models.CartItem) {
	for i, existing := range s.items {
		if existing.ID == item.ID {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}

func (s *CartStore) persistCountLocked() {
	_ = s.local.Set(localstore.KeyCartCount, strconv.Itoa(s.count))
}


func (s *CartStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.status = state.Failed
	s.err = e
	s.mu.Unlock()
	return e
}
