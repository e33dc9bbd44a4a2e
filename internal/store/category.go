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

// CategoryStore holds the categories of the current shop plus a per-item
// lookup cache.
type CategoryStore struct {
	mu    sync.Mutex
	api   *api.Client
	shops *ShopStore
	now   func() time.Time

	status      state.Status
	err         *apperr.Error
	categories  []models.Category
	selected    *models.Category
	fetchedShop string

	// byID caches single-category lookups for the item window so detail
	// views do not refetch on every visit.
	byID map[string]state.Entry[models.Category]

	toggling *state.Inflight
	seq      *state.SeqGuard
}

func newCategoryStore(client *api.Client, shops *ShopStore) *CategoryStore {
	return &CategoryStore{
		api:      client,
		shops:    shops,
		now:      time.Now,
		byID:     make(map[string]state.Entry[models.Category]),
		toggling: state.NewInflight(),
		seq:      state.NewSeqGuard(),
	}
}

func (s *CategoryStore) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *CategoryStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Categories returns the loaded collection.
func (s *CategoryStore) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categories)
}

// Selected returns the category picked by FetchByID, nil when none.
func (s *CategoryStore) Selected() *models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Toggling reports whether a status toggle for id is unresolved.
func (s *CategoryStore) Toggling(id string) bool {
	return s.toggling.Has(id)
}

// FetchByShop loads the categories of shopID. A fetch in flight, or a
// collection already loaded for the same shop, short-circuits to the
// cached slice.
func (s *CategoryStore) FetchByShop(ctx context.Context, shopID string) ([]models.Category, error) {
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}

	s.mu.Lock()
	if s.status == state.Loading || (s.status == state.Succeeded && s.fetchedShop == shopID) {
		cached := slices.Clone(s.categories)
		s.mu.Unlock()
		return cached, nil
	}
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/categories/shop/"+url.PathEscape(shopID))
	if err != nil {
		return nil, s.fail(err, "Failed to load categories")
	}

	var categories []models.Category
	if err := resp.UnmarshalData(&categories); err != nil {
		return nil, s.fail(err, "Failed to load categories")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.categories = categories
	s.fetchedShop = shopID
	s.mu.Unlock()
	return slices.Clone(categories), nil
}

// FetchAll loads every category across shops (public browse surface).
func (s *CategoryStore) FetchAll(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/categories")
	if err != nil {
		return nil, s.fail(err, "Failed to load categories")
	}

	var categories []models.Category
	if err := resp.UnmarshalData(&categories); err != nil {
		return nil, s.fail(err, "Failed to load categories")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.categories = categories
	s.fetchedShop = ""
	s.mu.Unlock()
	return slices.Clone(categories), nil
}

// FetchByID loads one category and selects it. A lookup resolved within
// the item window is served from cache without a network call.
func (s *CategoryStore) FetchByID(ctx context.Context, id string) (*models.Category, error) {
	s.mu.Lock()
	if entry, ok := s.byID[id]; ok && entry.Fresh(state.ItemWindow, s.now()) {
		cached := entry.Value
		s.selected = &cached
		s.mu.Unlock()
		return &cached, nil
	}
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/categories/"+url.PathEscape(id))
	if err != nil {
		e := apperr.As(err)
		if e.Kind == apperr.KindNotFound {
			return nil, apperr.ErrNotFound("category", id)
		}
		return nil, apperr.Fallback(err, "Failed to load category")
	}

	var category models.Category
	if err := resp.UnmarshalData(&category); err != nil {
		return nil, apperr.Fallback(err, "Failed to load category")
	}

	s.mu.Lock()
	s.byID[id] = state.NewEntry(category, s.now())
	s.selected = &category
	s.mu.Unlock()
	return &category, nil
}

// Create adds a category to the current shop. The shop scope must be
// resolved first; without it the call is rejected locally.
func (s *CategoryStore) Create(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	shopID := s.shops.CurrentShopID()
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}
	input.ShopID = shopID

	resp, err := s.api.Session().Post(ctx, "/categories", input)
	if err != nil {
		return nil, s.fail(err, "Failed to create category")
	}

	var category models.Category
	if err := resp.UnmarshalData(&category); err != nil {
		return nil, s.fail(err, "Failed to create category")
	}

	s.mu.Lock()
	s.categories = append(s.categories, category)
	s.mu.Unlock()
	return &category, nil
}

// Update replaces a category's editable fields.
func (s *CategoryStore) Update(ctx context.Context, id string, input models.CategoryInput) (*models.Category, error) {
	resp, err := s.api.Session().Put(ctx, "/categories/"+url.PathEscape(id), input)
	if err != nil {
		return nil, s.fail(err, "Failed to update category")
	}

	var category models.Category
	if err := resp.UnmarshalData(&category); err != nil {
		return nil, s.fail(err, "Failed to update category")
	}

	s.mu.Lock()
	s.replaceLocked(category)
	s.mu.Unlock()
	return &category, nil
}

// UpdateStatus toggles a category's active flag optimistically: the local
// value flips before the request, the server value wins on success, and
// the captured pre-toggle value is restored on failure. A resolution that
// lost the sequence race clears its in-flight mark but leaves state to
// the newer winner.
func (s *CategoryStore) UpdateStatus(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	prev, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return apperr.ErrNotFound("category", id)
	}
	optimistic := prev
	optimistic.Active = active
	s.applyLocked(optimistic)
	s.mu.Unlock()

	s.toggling.Begin(id)
	seq := s.seq.Begin(id)

	resp, err := s.api.Session().Put(ctx, "/categories/"+url.PathEscape(id)+"/status",
		map[string]bool{"active": active})

	s.toggling.End(id)
	if !s.seq.Resolve(id, seq) {
		// A newer toggle already resolved; this outcome is stale.
		if err != nil {
			return apperr.Fallback(err, "Failed to update category status")
		}
		return nil
	}

	if err != nil {
		s.mu.Lock()
		s.applyLocked(prev)
		s.mu.Unlock()
		return s.fail(err, "Failed to update category status")
	}

	var category models.Category
	if err := resp.UnmarshalData(&category); err == nil && category.ID != "" {
		s.mu.Lock()
		s.applyLocked(category)
		s.mu.Unlock()
	}
	return nil
}

// Delete removes a category.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Session().Delete(ctx, "/categories/"+url.PathEscape(id)); err != nil {
		return s.fail(err, "Failed to delete category")
	}

	s.mu.Lock()
	s.categories = slices.DeleteFunc(s.categories, func(c models.Category) bool {
		return c.ID == id
	})
	delete(s.byID, id)
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()
	return nil
}

// Reset drops all category state.
func (s *CategoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = state.Idle
	s.err = nil
	s.categories = nil
	s.selected = nil
	s.fetchedShop = ""
	s.byID = make(map[string]state.Entry[models.Category])
	s.toggling.Reset()
	s.seq.Reset()
}

func (s *CategoryStore) findLocked(id string) (models.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	if entry, ok := s.byID[id]; ok {
		return entry.Value, true
	}
	return models.Category{}, false
}

// applyLocked writes category into every place it is mirrored: the
// collection, the selection, and the per-item cache when present.
func (s *CategoryStore) applyLocked(category models.Category) {
	s.replaceLocked(category)
	if entry, ok := s.byID[category.ID]; ok {
		entry.Value = category
		s.byID[category.ID] = entry
	}
}

func (s *CategoryStore) replaceLocked(category models.Category) {
	for i, c := range s.categories {
		if c.ID == category.ID {
			s.categories[i] = category
			break
		}
	}
	if s.selected != nil && s.selected.ID == category.ID {
		s.selected = &category
	}
}

func (s *CategoryStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.status = state.Failed
	s.err = e
	s.mu.Unlock()
	return e
}
