package store

import (
	"context"
	"net/url"
	"slices"
	"sync"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/models"
	"github.com/meropasal/pasal-cli/internal/state"
)

// PaymentStore holds the shop's gateway configurations (eSewa, Khalti,
// cash on delivery). Credentials are write-only; the server returns only
// masked values, so nothing secret ever sits in this container.
type PaymentStore struct {
	mu    sync.Mutex
	api   *api.Client
	shops *ShopStore

	status   state.Status
	err      *apperr.Error
	configs  []models.PaymentConfigSummary
	selected *models.PaymentConfig

	toggling *state.Inflight
	seq      *state.SeqGuard
}

func newPaymentStore(client *api.Client, shops *ShopStore) *PaymentStore {
	return &PaymentStore{
		api:      client,
		shops:    shops,
		toggling: state.NewInflight(),
		seq:      state.NewSeqGuard(),
	}
}

func (s *PaymentStore) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *PaymentStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Configs returns the loaded summaries.
func (s *PaymentStore) Configs() []models.PaymentConfigSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.configs)
}

// Selected returns the config detail picked by FetchDetail, nil when
// none.
func (s *PaymentStore) Selected() *models.PaymentConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Toggling reports whether an active toggle for id is unresolved.
func (s *PaymentStore) Toggling(id string) bool {
	return s.toggling.Has(id)
}

// Create adds a gateway config to the current shop, rejected locally when
// no shop scope is resolved.
func (s *PaymentStore) Create(ctx context.Context, input models.PaymentConfigInput) (*models.PaymentConfigSummary, error) {
	shopID := s.shops.CurrentShopID()
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}
	input.ShopID = shopID

	resp, err := s.api.Session().Post(ctx, "/payments/config", input)
	if err != nil {
		return nil, s.fail(err, "Failed to create payment config")
	}

	var config models.PaymentConfigSummary
	if err := resp.UnmarshalData(&config); err != nil {
		return nil, s.fail(err, "Failed to create payment config")
	}

	s.mu.Lock()
	s.configs = append(s.configs, config)
	s.mu.Unlock()
	return &config, nil
}

// FetchByShop loads the gateway configs of shopID.
func (s *PaymentStore) FetchByShop(ctx context.Context, shopID string) ([]models.PaymentConfigSummary, error) {
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}

	s.mu.Lock()
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/payments/config/shop/"+url.PathEscape(shopID))
	if err != nil {
		return nil, s.fail(err, "Failed to load payment configs")
	}

	var configs []models.PaymentConfigSummary
	if err := resp.UnmarshalData(&configs); err != nil {
		return nil, s.fail(err, "Failed to load payment configs")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.configs = configs
	s.mu.Unlock()
	return slices.Clone(configs), nil
}

// FetchDetail loads one config with masked credentials. A missing config
// surfaces as the fixed CONFIG_NOT_FOUND message so callers can branch
// on it.
func (s *PaymentStore) FetchDetail(ctx context.Context, id string) (*models.PaymentConfig, error) {
	resp, err := s.api.Session().Get(ctx, "/payments/config/"+url.PathEscape(id))
	if err != nil {
		e := apperr.As(err)
		if e.Kind == apperr.KindNotFound {
			e.Message = "CONFIG_NOT_FOUND"
			return nil, e
		}
		return nil, apperr.Fallback(err, "Failed to load payment config")
	}

	var config models.PaymentConfig
	if err := resp.UnmarshalData(&config); err != nil {
		return nil, apperr.Fallback(err, "Failed to load payment config")
	}

	s.mu.Lock()
	s.selected = &config
	s.mu.Unlock()
	return &config, nil
}

// Update replaces a config's editable fields and credentials.
func (s *PaymentStore) Update(ctx context.Context, id string, input models.PaymentConfigInput) (*models.PaymentConfigSummary, error) {
	resp, err := s.api.Session().Put(ctx, "/payments/config/"+url.PathEscape(id), input)
	if err != nil {
		return nil, s.fail(err, "Failed to update payment config")
	}

	var config models.PaymentConfigSummary
	if err := resp.UnmarshalData(&config); err != nil {
		return nil, s.fail(err, "Failed to update payment config")
	}

	s.mu.Lock()
	s.replaceLocked(config)
	s.mu.Unlock()
	return &config, nil
}

// ToggleActive flips a config's active flag with the optimistic contract
// shared by the catalog toggles.
func (s *PaymentStore) ToggleActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	prev, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return apperr.ErrNotFound("payment config", id)
	}
	optimistic := prev
	optimistic.Active = active
	s.replaceLocked(optimistic)
	s.mu.Unlock()

	s.toggling.Begin(id)
	seq := s.seq.Begin(id)

	resp, err := s.api.Session().Patch(ctx, "/payments/config/"+url.PathEscape(id)+"/status",
		map[string]bool{"active": active})

	s.toggling.End(id)
	if !s.seq.Resolve(id, seq) {
		if err != nil {
			return apperr.Fallback(err, "Failed to update payment config")
		}
		return nil
	}

	if err != nil {
		s.mu.Lock()
		s.replaceLocked(prev)
		s.mu.Unlock()
		return s.fail(err, "Failed to update payment config")
	}

	var config models.PaymentConfigSummary
	if err := resp.UnmarshalData(&config); err == nil && config.ID != "" {
		s.mu.Lock()
		s.replaceLocked(config)
		s.mu.Unlock()
	}
	return nil
}

// Delete removes a gateway config.
func (s *PaymentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Session().Delete(ctx, "/payments/config/"+url.PathEscape(id)); err != nil {
		return s.fail(err, "Failed to delete payment config")
	}

	s.mu.Lock()
	s.configs = slices.DeleteFunc(s.configs, func(c models.PaymentConfigSummary) bool {
		return c.ID == id
	})
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()
	return nil
}

// Reset drops all payment config state.
func (s *PaymentStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = state.Idle
	s.err = nil
	s.configs = nil
	s.selected = nil
	s.toggling.Reset()
	s.seq.Reset()
}

func (s *PaymentStore) findLocked(id string) (models.PaymentConfigSummary, bool) {
	for _, c := range s.configs {
		if c.ID == id {
			return c, true
		}
	}
	return models.PaymentConfigSummary{}, false
}

func (s *PaymentStore) replaceLocked(config models.PaymentConfigSummary) {
	for i, c := range s.configs {
		if c.ID == config.ID {
			s.configs[i] = config
			break
		}
	}
	if s.selected != nil && s.selected.ID == config.ID {
		s.selected.PaymentConfigSummary = config
	}
}

func (s *PaymentStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.status = state.Failed
	s.err = e
	s.mu.Unlock()
	return e
}
