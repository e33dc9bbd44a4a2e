package store

import (
	"context"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/models"
	"github.com/meropasal/pasal-cli/internal/state"
)

// OrderStore holds the merchant's order list. Unlike the catalog
// endpoints, order responses travel in the {status, orders, message}
// envelope, so a 2xx body can still be a rejection.
type OrderStore struct {
	mu    sync.Mutex
	api   *api.Client
	shops *ShopStore
	now   func() time.Time

	status   state.Status
	err      *apperr.Error
	orders   []models.Order
	selected *models.Order

	// shopFetch bounds refetches per shop to the scope window.
	shopFetch state.Entry[string]

	updating *state.Inflight
	seq      *state.SeqGuard
}

func newOrderStore(client *api.Client, shops *ShopStore) *OrderStore {
	return &OrderStore{
		api:      client,
		shops:    shops,
		now:      time.Now,
		updating: state.NewInflight(),
		seq:      state.NewSeqGuard(),
	}
}

func (s *OrderStore) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *OrderStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Orders returns the loaded collection, newest first as the server sends
// them.
func (s *OrderStore) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.orders)
}

// Selected returns the order picked by SetSelected, nil when none.
func (s *OrderStore) Selected() *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Updating reports whether a status update for id is unresolved.
func (s *OrderStore) Updating(id string) bool {
	return s.updating.Has(id)
}

// FetchByShop loads the orders of shopID. A fetch resolved for the same
// shop within the scope window is skipped; live dashboards call this
// freely without hammering the server.
func (s *OrderStore) FetchByShop(ctx context.Context, shopID string) ([]models.Order, error) {
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}

	s.mu.Lock()
	if s.status == state.Loading {
		cached := slices.Clone(s.orders)
		s.mu.Unlock()
		return cached, nil
	}
	if s.shopFetch.Value == shopID && s.shopFetch.Fresh(state.ScopeWindow, s.now()) {
		cached := slices.Clone(s.orders)
		s.mu.Unlock()
		return cached, nil
	}
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/shops/orders/"+url.PathEscape(shopID))
	if err != nil {
		return nil, s.fail(err, "Failed to load orders")
	}

	var orders []models.Order
	if err := api.DecodeEnvelope(resp, "orders", &orders); err != nil {
		return nil, s.fail(err, "Failed to load orders")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.orders = orders
	s.shopFetch = state.NewEntry(shopID, s.now())
	s.mu.Unlock()
	return slices.Clone(orders), nil
}

// UpdateStatus moves an order through the fulfillment flow. The change is
// optimistic with the same revert and sequence rules as catalog toggles.
func (s *OrderStore) UpdateStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	prev, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return apperr.ErrNotFound("order", id)
	}
	optimistic := prev
	optimistic.Status = status
	s.replaceLocked(optimistic)
	s.mu.Unlock()

	s.updating.Begin(id)
	seq := s.seq.Begin(id)

	resp, err := s.api.Session().Patch(ctx,
		"/orders/"+url.PathEscape(id)+"/status?status="+url.QueryEscape(status), nil)

	s.updating.End(id)
	if !s.seq.Resolve(id, seq) {
		if err != nil {
			return apperr.Fallback(err, "Failed to update order status")
		}
		return nil
	}

	if err != nil {
		s.mu.Lock()
		s.replaceLocked(prev)
		s.mu.Unlock()
		return s.fail(err, "Failed to update order status")
	}

	var order models.Order
	if decodeErr := api.DecodeEnvelope(resp, "order", &order); decodeErr != nil {
		s.mu.Lock()
		s.replaceLocked(prev)
		s.mu.Unlock()
		return s.fail(decodeErr, "Failed to update order status")
	}
	if order.ID != "" {
		s.mu.Lock()
		s.replaceLocked(order)
		s.mu.Unlock()
	}
	return nil
}

// Prepend inserts a freshly placed order at the head of the list, the way
// a checkout confirmation lands before the next bulk fetch.
func (s *OrderStore) Prepend(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]models.Order{order}, s.orders...)
}

// SetSelected picks an order from the loaded collection.
func (s *OrderStore) SetSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			selected := o
			s.selected = &selected
			return true
		}
	}
	return false
}

// Reset drops all order state.
func (s *OrderStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = state.Idle
	s.err = nil
	s.orders = nil
	s.selected = nil
	s.shopFetch = state.Entry[string]{}
	s.updating.Reset()
	s.seq.Reset()
}

func (s *OrderStore) findLocked(id string) (models.Order, bool) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

func (s *OrderStore) replaceLocked(order models.Order) {
	for i, o := range s.orders {
		if o.ID == order.ID {
			s.orders[i] = order
			break
		}
	}
	if s.selected != nil && s.selected.ID == order.ID {
		s.selected = &order
	}
}

func (s *OrderStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.status = state.Failed
	s.err = e
	s.mu.Unlock()
	return e
}
