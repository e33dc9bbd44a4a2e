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

// ShopStore holds the merchant's shop and the public shop directory. The
// current shop's ID is the scope every category, product, and payment
// create operation reads.
type ShopStore struct {
	mu  sync.Mutex
	api *api.Client
	now func() time.Time

	status  state.Status
	err     *apperr.Error
	current *models.Shop
	shops   []models.Shop

	// ownerFetch records which owner the current shop was fetched for and
	// when, bounding refetches to the scope window.
	ownerFetch state.Entry[string]

	audience []models.Audience
}

func newShopStore(client *api.Client) *ShopStore {
	return &ShopStore{api: client, now: time.Now}
}

// Status returns the most recent bulk-fetch status.
func (s *ShopStore) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the container error, nil when the last operation succeeded.
func (s *ShopStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Current returns the merchant's shop, nil before a fetch resolves.
func (s *ShopStore) Current() *models.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentShopID returns the scope ID, "" when no shop is loaded.
func (s *ShopStore) CurrentShopID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// Seed installs a shop ID from configuration without a network call. Only
// the ID is known; operations needing the full record still fetch.
func (s *ShopStore) Seed(shopID string) {
	if shopID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		s.current = &models.Shop{ID: shopID}
	}
}

// Shops returns the public directory, populated by FetchAll.
func (s *ShopStore) Shops() []models.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.shops)
}

// Audience returns the rows loaded by FetchAudience.
func (s *ShopStore) Audience() []models.Audience {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.audience)
}

// Create registers a new shop for the owner and installs it as current.
func (s *ShopStore) Create(ctx context.Context, ownerID string, input models.ShopInput) (*models.Shop, error) {
	if ownerID == "" {
		return nil, apperr.ErrPrecondition("Owner ID is undefined")
	}

	s.begin()
	resp, err := s.api.Session().Post(ctx, "/shops?ownerId="+url.QueryEscape(ownerID), input)
	if err != nil {
		return nil, s.fail(err, "Failed to create shop")
	}

	var shop models.Shop
	if err := resp.UnmarshalData(&shop); err != nil {
		return nil, s.fail(err, "Failed to create shop")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.current = &shop
	s.ownerFetch = state.NewEntry(ownerID, s.now())
	s.mu.Unlock()
	return &shop, nil
}

// FetchByOwner loads the owner's shop. A fetch already in flight, or one
// resolved for the same owner within the scope window, is skipped and the
// cached shop returned.
func (s *ShopStore) FetchByOwner(ctx context.Context, ownerID string) (*models.Shop, error) {
	if ownerID == "" {
		return nil, apperr.ErrPrecondition("Owner ID is undefined")
	}

	s.mu.Lock()
	if s.status == state.Loading {
		cached := s.current
		s.mu.Unlock()
		return cached, nil
	}
	if s.ownerFetch.Value == ownerID && s.ownerFetch.Fresh(state.ScopeWindow, s.now()) {
		cached := s.current
		s.mu.Unlock()
		return cached, nil
	}
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/shops?ownerId="+url.QueryEscape(ownerID))
	if err != nil {
		return nil, s.fail(err, "Failed to load shop")
	}

	var shop models.Shop
	if err := resp.UnmarshalData(&shop); err != nil {
		return nil, s.fail(err, "Failed to load shop")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.current = &shop
	s.ownerFetch = state.NewEntry(ownerID, s.now())
	s.mu.Unlock()
	return &shop, nil
}

// FetchAll loads the public shop directory.
func (s *ShopStore) FetchAll(ctx context.Context) ([]models.Shop, error) {
	s.begin()
	resp, err := s.api.Session().Get(ctx, "/shops")
	if err != nil {
		return nil, s.fail(err, "Failed to load shops")
	}

	var shops []models.Shop
	if err := resp.UnmarshalData(&shops); err != nil {
		return nil, s.fail(err, "Failed to load shops")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.shops = shops
	s.mu.Unlock()
	return slices.Clone(shops), nil
}

// FetchByURL resolves a storefront by its public URL slug.
func (s *ShopStore) FetchByURL(ctx context.Context, slug string) (*models.Shop, error) {
	resp, err := s.api.Session().Get(ctx, "/shops/by-url/"+url.PathEscape(slug))
	if err != nil {
		e := apperr.As(err)
		if e.Kind == apperr.KindNotFound {
			return nil, apperr.ErrNotFound("shop", slug)
		}
		return nil, apperr.Fallback(err, "Failed to load shop")
	}

	var shop models.Shop
	if err := resp.UnmarshalData(&shop); err != nil {
		return nil, apperr.Fallback(err, "Failed to load shop")
	}
	return &shop, nil
}

// FetchAudience loads the aggregated customer rows for the current shop.
func (s *ShopStore) FetchAudience(ctx context.Context) ([]models.Audience, error) {
	shopID := s.CurrentShopID()
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}

	resp, err := s.api.Session().Get(ctx, "/shops/"+url.PathEscape(shopID)+"/audience")
	if err != nil {
		return nil, apperr.Fallback(err, "Failed to load audience")
	}

	var rows []models.Audience
	if err := resp.UnmarshalData(&rows); err != nil {
		return nil, apperr.Fallback(err, "Failed to load audience")
	}

	s.mu.Lock()
	s.audience = rows
	s.mu.Unlock()
	return slices.Clone(rows), nil
}

// UpdateTheme replaces the current shop's theme selection.
func (s *ShopStore) UpdateTheme(ctx context.Context, theme models.ShopTheme) (*models.Shop, error) {
	shopID := s.CurrentShopID()
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}

	resp, err := s.api.Session().Put(ctx, "/shops/"+url.PathEscape(shopID)+"/theme", theme)
	if err != nil {
		return nil, apperr.Fallback(err, "Failed to update theme")
	}

	var shop models.Shop
	if err := resp.UnmarshalData(&shop); err != nil {
		return nil, apperr.Fallback(err, "Failed to update theme")
	}

	s.mu.Lock()
	s.current = &shop
	s.mu.Unlock()
	return &shop, nil
}

// Reset drops all shop state.
func (s *ShopStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = state.Idle
	s.err = nil
	s.current = nil
	s.shops = nil
	s.audience = nil
	s.ownerFetch = state.Entry[string]{}
}

func (s *ShopStore) begin() {
	s.mu.Lock()
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()
}

func (s *ShopStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.status = state.Failed
	s.err = e
	s.mu.Unlock()
	return e
}
