package store

import (
	"context"
	"encoding/json"
	"net/url"
	"slices"
	"sync"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/auth"
	"github.com/meropasal/pasal-cli/internal/localstore"
	"github.com/meropasal/pasal-cli/internal/models"
	"github.com/meropasal/pasal-cli/internal/state"
)

// SignupInput is the customer signup payload.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CustomerStore drives the storefront-side account: OTP signup, the
// bearer token, and shop following. The signed-in customer and the auth
// flag persist across processes in the local store.
type CustomerStore struct {
	mu     sync.Mutex
	api    *api.Client
	local  *localstore.Store
	tokens *auth.TokenStore
	store  *Store

	status   state.Status
	err      *apperr.Error
	customer *models.Customer

	followed       []models.FollowedShop
	followerCounts map[string]int

	followOps *state.Inflight
	countOps  *state.Inflight
}

func newCustomerStore(client *api.Client, local *localstore.Store, tokens *auth.TokenStore, store *Store) *CustomerStore {
	s := &CustomerStore{
		api:            client,
		local:          local,
		tokens:         tokens,
		store:          store,
		followerCounts: make(map[string]int),
		followOps:      state.NewInflight(),
		countOps:       state.NewInflight(),
	}
	s.restore()
	return s
}

// restore rehydrates the signed-in customer from the local store.
func (s *CustomerStore) restore() {
	if !s.local.GetBool(localstore.KeyCustomerAuth) {
		return
	}
	raw, ok := s.local.Get(localstore.KeyCustomerUser)
	if !ok {
		return
	}
	var customer models.Customer
	if json.Unmarshal([]byte(raw), &customer) == nil && customer.ID != "" {
		s.customer = &customer
	}
}

func (s *CustomerStore) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *CustomerStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Current returns the signed-in customer, nil when signed out.
func (s *CustomerStore) Current() *models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer
}

// SignedIn reports whether a customer session is live.
func (s *CustomerStore) SignedIn() bool {
	return s.Current() != nil
}

// FollowedShops returns the shops loaded by LoadFollowedShops, plus any
// optimistic follows awaiting resolution.
func (s *CustomerStore) FollowedShops() []models.FollowedShop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.followed)
}

// Follows reports whether the customer follows shopID per local state.
func (s *CustomerStore) Follows(shopID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.followsLocked(shopID)
}

// FollowerCount returns the cached follower count for shopID.
func (s *CustomerStore) FollowerCount(shopID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.followerCounts[shopID]
	return n, ok
}

// InitiateSignup starts the OTP signup flow.
func (s *CustomerStore) InitiateSignup(ctx context.Context, input SignupInput) error {
	s.begin()
	resp, err := s.api.Session().Post(ctx, "/customers/signup/initiate", input)
	if err == nil {
		err = api.DecodeEnvelope(resp, "", nil)
	}
	if err != nil {
		return s.fail(err, "Signup failed")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.mu.Unlock()
	return nil
}

// VerifySignup confirms the OTP. On success the returned token and
// customer persist so later processes start signed in.
func (s *CustomerStore) VerifySignup(ctx context.Context, email, otp string) (*models.Customer, error) {
	s.begin()
	resp, err := s.api.Session().Post(ctx, "/customers/signup/verify",
		map[string]string{"email": email, "otp": otp})
	if err != nil {
		return nil, s.fail(err, "OTP verification failed")
	}

	var payload struct {
		Token    string          `json:"token"`
		Customer models.Customer `json:"customer"`
	}
	if err := api.DecodeEnvelope(resp, "auth", &payload); err != nil {
		return nil, s.fail(err, "OTP verification failed")
	}
	if payload.Token == "" || payload.Customer.ID == "" {
		return nil, s.fail(apperr.ErrAPI(resp.StatusCode, "malformed signup response"), "OTP verification failed")
	}

	if err := s.tokens.Save(payload.Token); err != nil {
		return nil, s.fail(err, "Failed to store token")
	}
	raw, _ := json.Marshal(payload.Customer)
	_ = s.local.SetBool(localstore.KeyCustomerAuth, true)
	_ = s.local.Set(localstore.KeyCustomerUser, string(raw))

	s.mu.Lock()
	s.status = state.Succeeded
	s.customer = &payload.Customer
	s.mu.Unlock()
	return &payload.Customer, nil
}

// ResendOTP requests a fresh signup code.
func (s *CustomerStore) ResendOTP(ctx context.Context, email string) error {
	resp, err := s.api.Session().Post(ctx, "/customers/signup/resend",
		map[string]string{"email": email})
	if err == nil {
		err = api.DecodeEnvelope(resp, "", nil)
	}
	if err != nil {
		return apperr.Fallback(err, "Failed to resend code")
	}
	return nil
}

// Logout drops the token, the durable session keys, and the customer
// containers. Purely local; the bearer token simply stops being sent.
func (s *CustomerStore) Logout() error {
	err := s.tokens.Clear()
	_ = s.local.Delete(
		localstore.KeyCustomerAuth,
		localstore.KeyCustomerUser,
		localstore.KeyCartCount,
		localstore.KeyWishlistCount,
	)
	s.store.ResetCustomer()
	return err
}

// FollowShop follows a shop optimistically, reverting on failure. A
// signed-out customer is rejected locally.
func (s *CustomerStore) FollowShop(ctx context.Context, shopID, shopName string) error {
	if !s.SignedIn() {
		return apperr.ErrPrecondition("Please sign in to follow shops")
	}

	s.mu.Lock()
	if s.followsLocked(shopID) {
		s.mu.Unlock()
		return nil
	}
	s.followed = append(s.followed, models.FollowedShop{ShopID: shopID, ShopName: shopName})
	s.mu.Unlock()

	s.followOps.Begin(shopID)
	resp, err := s.api.Customer().Post(ctx, "/follower/follow",
		map[string]string{"shopId": shopID})
	s.followOps.End(shopID)

	if err == nil {
		err = api.DecodeEnvelope(resp, "", nil)
	}
	if err != nil {
		s.mu.Lock()
		s.removeFollowedLocked(shopID)
		s.mu.Unlock()
		return s.fail(err, "Failed to follow shop")
	}
	return nil
}

// UnfollowShop unfollows a shop optimistically, restoring the entry on
// failure.
func (s *CustomerStore) UnfollowShop(ctx context.Context, shopID string) error {
	if !s.SignedIn() {
		return apperr.ErrPrecondition("Please sign in to follow shops")
	}

	s.mu.Lock()
	var removed *models.FollowedShop
	for _, f := range s.followed {
		if f.ShopID == shopID {
			entry := f
			removed = &entry
			break
		}
	}
	if removed == nil {
		s.mu.Unlock()
		return nil
	}
	s.removeFollowedLocked(shopID)
	s.mu.Unlock()

	s.followOps.Begin(shopID)
	resp, err := s.api.Customer().Post(ctx, "/follower/unfollow",
		map[string]string{"shopId": shopID})
	s.followOps.End(shopID)

	if err == nil {
		err = api.DecodeEnvelope(resp, "", nil)
	}
	if err != nil {
		s.mu.Lock()
		s.followed = append(s.followed, *removed)
		s.mu.Unlock()
		return s.fail(err, "Failed to unfollow shop")
	}
	return nil
}

// FetchFollowerCount loads a shop's follower count. Concurrent requests
// for the same shop collapse to one call.
func (s *CustomerStore) FetchFollowerCount(ctx context.Context, shopID string) (int, error) {
	if s.countOps.Has(shopID) {
		s.mu.Lock()
		n := s.followerCounts[shopID]
		s.mu.Unlock()
		return n, nil
	}

	s.countOps.Begin(shopID)
	defer s.countOps.End(shopID)

	resp, err := s.api.Session().Get(ctx, "/follower/count?shopId="+url.QueryEscape(shopID))
	if err != nil {
		return 0, apperr.Fallback(err, "Failed to load follower count")
	}

	var count int
	if err := api.DecodeEnvelope(resp, "count", &count); err != nil {
		return 0, apperr.Fallback(err, "Failed to load follower count")
	}

	s.mu.Lock()
	s.followerCounts[shopID] = count
	s.mu.Unlock()
	return count, nil
}

// LoadFollowedShops loads the customer's followed shops.
func (s *CustomerStore) LoadFollowedShops(ctx context.Context) ([]models.FollowedShop, error) {
	customer := s.Current()
	if customer == nil {
		return nil, apperr.ErrPrecondition("Please sign in to follow shops")
	}

	resp, err := s.api.Customer().Get(ctx, "/follower/customer/"+url.PathEscape(customer.ID))
	if err != nil {
		return nil, s.fail(err, "Failed to load followed shops")
	}

	var followed []models.FollowedShop
	if err := api.DecodeEnvelope(resp, "followedShops", &followed); err != nil {
		return nil, s.fail(err, "Failed to load followed shops")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.followed = followed
	s.mu.Unlock()
	return slices.Clone(followed), nil
}

func (s *CustomerStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = state.Idle
	s.err = nil
	s.customer = nil
	s.followed = nil
	s.followerCounts = make(map[string]int)
	s.followOps.Reset()
	s.countOps.Reset()
}

func (s *CustomerStore) followsLocked(shopID string) bool {
	for _, f := range s.followed {
		if f.ShopID == shopID {
			return true
		}
	}
	return false
}

func (s *CustomerStore) removeFollowedLocked(shopID string) {
	s.followed = slices.DeleteFunc(s.followed, func(f models.FollowedShop) bool {
		return f.ShopID == shopID
	})
}

func (s *CustomerStore) begin() {
	s.mu.Lock()
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()
}

func (s *CustomerStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.status = state.Failed
	s.err = e
	s.mu.Unlock()
	return e
}
