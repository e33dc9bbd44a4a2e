package store

import (
	"context"
	"net/url"
	"sync"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/models"
	"github.com/meropasal/pasal-cli/internal/state"
)

// SocialStore holds the shop's social and support links, one record per
// shop.
type SocialStore struct {
	mu    sync.Mutex
	api   *api.Client
	shops *ShopStore

	status  state.Status
	err     *apperr.Error
	account *models.SocialAccount
}

func newSocialStore(client *api.Client, shops *ShopStore) *SocialStore {
	return &SocialStore{api: client, shops: shops}
}

func (s *SocialStore) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *SocialStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Account returns the loaded record, nil when the shop has none yet.
func (s *SocialStore) Account() *models.SocialAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Fetch loads the shop's social record. A shop without one yields nil
// without error.
func (s *SocialStore) Fetch(ctx context.Context, shopID string) (*models.SocialAccount, error) {
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}

	s.mu.Lock()
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/socialAccount/"+url.PathEscape(shopID))
	if err != nil {
		e := apperr.As(err)
		if e.Kind == apperr.KindNotFound {
			s.mu.Lock()
			s.status = state.Succeeded
			s.account = nil
			s.mu.Unlock()
			return nil, nil
		}
		return nil, s.fail(err, "Failed to load social links")
	}

	var account models.SocialAccount
	if err := resp.UnmarshalData(&account); err != nil {
		return nil, s.fail(err, "Failed to load social links")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.account = &account
	s.mu.Unlock()
	return &account, nil
}

// Create adds the shop's social record, rejected locally when no shop
// scope is resolved.
func (s *SocialStore) Create(ctx context.Context, input models.SocialAccount) (*models.SocialAccount, error) {
	shopID := s.shops.CurrentShopID()
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}
	input.ShopID = shopID

	resp, err := s.api.Session().Post(ctx, "/socialAccount", input)
	if err != nil {
		return nil, s.fail(err, "Failed to save social links")
	}

	var account models.SocialAccount
	if err := resp.UnmarshalData(&account); err != nil {
		return nil, s.fail(err, "Failed to save social links")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.account = &account
	s.mu.Unlock()
	return &account, nil
}

// Update replaces the shop's social record.
func (s *SocialStore) Update(ctx context.Context, shopID string, input models.SocialAccount) (*models.SocialAccount, error) {
	if shopID == "" {
		return nil, apperr.ErrPrecondition("Shop ID is undefined")
	}
	input.ShopID = shopID

	resp, err := s.api.Session().Put(ctx, "/socialAccount/"+url.PathEscape(shopID), input)
	if err != nil {
		return nil, s.fail(err, "Failed to save social links")
	}

	var account models.SocialAccount
	if err := resp.UnmarshalData(&account); err != nil {
		return nil, s.fail(err, "Failed to save social links")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.account = &account
	s.mu.Unlock()
	return &account, nil
}

// Reset drops the social record.
func (s *SocialStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = state.Idle
	s.err = nil
	s.account = nil
}

func (s *SocialStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.status = state.Failed
	s.err = e
	s.mu.Unlock()
	return e
}
