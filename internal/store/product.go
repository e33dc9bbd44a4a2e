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

// ProductStore holds the products of the current shop. The
// category-grouped view is computed from the primary collection on read,
// never stored, so the two can't drift.
type ProductStore struct {
	mu    sync.Mutex
	api   *api.Client
	shops *ShopStore
	now   func() time.Time

	status      state.Status
	err         *apperr.Error
	products    []models.Product
	selected    *models.Product
	fetchedShop string

	byID map[string]state.Entry[models.Product]

	toggling *state.Inflight
	seq      *state.SeqGuard
}

func newProductStore(client *api.Client, shops *ShopStore) *ProductStore {
	return &ProductStore{
		api:      client,
		shops:    shops,
		now:      time.Now,
		byID:     make(map[string]state.Entry[models.Product]),
		toggling: state.NewInflight(),
		seq:      state.NewSeqGuard(),
	}
}

func (s *ProductStore) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *ProductStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Products returns the loaded collection.
func (s *ProductStore) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// Selected returns the product picked by FetchByID, nil when none.
func (s *ProductStore) Selected() *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Toggling reports whether a status toggle for id is unresolved.
func (s *ProductStore) Toggling(id string) bool {
	return s.toggling.Has(id)
}

// ByCategory groups the loaded products by category ID. Computed on read
// from the primary collection.
func (s *ProductStore) ByCategory() map[string][]models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[string][]models.Product)
	for _, p := range s.products {
		grouped[p.CategoryID] = append(grouped[p.CategoryID], p)
	}
	return grouped
}

// FetchByShop loads the products of shopID, short-circuiting when a fetch
// is in flight or the same shop's collection is already loaded.
func (s *ProductStore) FetchByShop(ctx context.Context, shopID string) ([]models.Product, error) {
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}

	s.mu.Lock()
	if s.status == state.Loading || (s.status == state.Succeeded && s.fetchedShop == shopID) {
		cached := slices.Clone(s.products)
		s.mu.Unlock()
		return cached, nil
	}
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/products/shop/"+url.PathEscape(shopID))
	if err != nil {
		return nil, s.fail(err, "Failed to load products")
	}

	var products []models.Product
	if err := resp.UnmarshalData(&products); err != nil {
		return nil, s.fail(err, "Failed to load products")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.products = products
	s.fetchedShop = shopID
	s.mu.Unlock()
	return slices.Clone(products), nil
}

// FetchByCategory loads the products of one category (public browse
// surface). Results replace the primary collection.
func (s *ProductStore) FetchByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	s.mu.Lock()
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/products/category/"+url.PathEscape(categoryID))
	if err != nil {
		return nil, s.fail(err, "Failed to load products")
	}

	var products []models.Product
	if err := resp.UnmarshalData(&products); err != nil {
		return nil, s.fail(err, "Failed to load products")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.products = products
	s.fetchedShop = ""
	s.mu.Unlock()
	return slices.Clone(products), nil
}

// FetchByID loads one product and selects it, serving repeats from the
// item-window cache.
func (s *ProductStore) FetchByID(ctx context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	if entry, ok := s.byID[id]; ok && entry.Fresh(state.ItemWindow, s.now()) {
		cached := entry.Value
		s.selected = &cached
		s.mu.Unlock()
		return &cached, nil
	}
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/products/"+url.PathEscape(id))
	if err != nil {
		e := apperr.As(err)
		if e.Kind == apperr.KindNotFound {
			return nil, apperr.ErrNotFound("product", id)
		}
		return nil, apperr.Fallback(err, "Failed to load product")
	}

	var product models.Product
	if err := resp.UnmarshalData(&product); err != nil {
		return nil, apperr.Fallback(err, "Failed to load product")
	}

	s.mu.Lock()
	s.byID[id] = state.NewEntry(product, s.now())
	s.selected = &product
	s.mu.Unlock()
	return &product, nil
}

// Create adds a product to the current shop, rejected locally when no
// shop scope is resolved.
func (s *ProductStore) Create(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	shopID := s.shops.CurrentShopID()
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}
	input.ShopID = shopID

	resp, err := s.api.Session().Post(ctx, "/products", input)
	if err != nil {
		return nil, s.fail(err, "Failed to create product")
	}

	var product models.Product
	if err := resp.UnmarshalData(&product); err != nil {
		return nil, s.fail(err, "Failed to create product")
	}

	s.mu.Lock()
	s.products = append(s.products, product)
	s.mu.Unlock()
	return &product, nil
}

// Update replaces a product's editable fields.
func (s *ProductStore) Update(ctx context.Context, id string, input models.ProductInput) (*models.Product, error) {
	resp, err := s.api.Session().Put(ctx, "/products/"+url.PathEscape(id), input)
	if err != nil {
		return nil, s.fail(err, "Failed to update product")
	}

	var product models.Product
	if err := resp.UnmarshalData(&product); err != nil {
		return nil, s.fail(err, "Failed to update product")
	}

	s.mu.Lock()
	s.replaceLocked(product)
	s.mu.Unlock()
	return &product, nil
}

// UpdateStatus toggles a product's active flag with the same optimistic
// flip, server-wins, revert-on-failure contract as category toggles.
func (s *ProductStore) UpdateStatus(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	prev, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return apperr.ErrNotFound("product", id)
	}
	optimistic := prev
	optimistic.Active = active
	s.applyLocked(optimistic)
	s.mu.Unlock()

	s.toggling.Begin(id)
	seq := s.seq.Begin(id)

	resp, err := s.api.Session().Patch(ctx, "/products/"+url.PathEscape(id)+"/status",
		map[string]bool{"active": active})

	s.toggling.End(id)
	if !s.seq.Resolve(id, seq) {
		if err != nil {
			return apperr.Fallback(err, "Failed to update product status")
		}
		return nil
	}

	if err != nil {
		s.mu.Lock()
		s.applyLocked(prev)
		s.mu.Unlock()
		return s.fail(err, "Failed to update product status")
	}

	var product models.Product
	if err := resp.UnmarshalData(&product); err == nil && product.ID != "" {
		s.mu.Lock()
		s.applyLocked(product)
		s.mu.Unlock()
	}
	return nil
}

// Delete removes a product.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Session().Delete(ctx, "/products/"+url.PathEscape(id)); err != nil {
		return s.fail(err, "Failed to delete product")
	}

	s.mu.Lock()
	s.products = slices.DeleteFunc(s.products, func(p models.Product) bool {
		return p.ID == id
	})
	delete(s.byID, id)
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()
	return nil
}

// Reset drops all product state.
func (s *ProductStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = state.Idle
	s.err = nil
	s.products = nil
	s.selected = nil
	s.fetchedShop = ""
	s.byID = make(map[string]state.Entry[models.Product])
	s.toggling.Reset()
	s.seq.Reset()
}

func (s *ProductStore) findLocked(id string) (models.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	if entry, ok := s.byID[id]; ok {
		return entry.Value, true
	}
	return models.Product{}, false
}

func (s *ProductStore) applyLocked(product models.Product) {
	s.replaceLocked(product)
	if entry, ok := s.byID[product.ID]; ok {
		entry.Value = product
		s.byID[product.ID] = entry
	}
}

func (s *ProductStore) replaceLocked(product models.Product) {
	for i, p := range s.products {
		if p.ID == product.ID {
			s.products[i] = product
			break
		}
	}
	if s.selected != nil && s.selected.ID == product.ID {
		s.selected = &product
	}
}

func (s *ProductStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.status = state.Failed
	s.err = e
	s.mu.Unlock()
	return e
}
