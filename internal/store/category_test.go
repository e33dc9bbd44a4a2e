package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/state"
)

func TestFetchCategoriesByShop(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories/shop/shop-1", r.URL.Path)
		w.Write([]byte(`[{"id":"cat-1","name":"Shoes","active":true,"shopId":"shop-1"}]`))
	}))

	categories, err := f.store.Categories.FetchByShop(context.Background(), "shop-1")
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Shoes", categories[0].Name)
	assert.Equal(t, state.Succeeded, f.store.Categories.Status())
	assert.Nil(t, f.store.Categories.Err())
}

func TestFetchCategoriesSkipsWhenLoaded(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"cat-1","name":"Shoes","active":true,"shopId":"shop-1"}]`))
	}))

	ctx := context.Background()
	_, err := f.store.Categories.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)

	// Same shop: short-circuits. Different shop: refetches.
	_, err = f.store.Categories.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.counter.calls.Load())

	_, err = f.store.Categories.FetchByShop(ctx, "shop-2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.counter.calls.Load())
}

func TestCategoryDetailCacheWindow(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cat-1","name":"Shoes","active":true,"shopId":"shop-1"}`))
	}))

	ctx := context.Background()
	first, err := f.store.Categories.FetchByID(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "Shoes", first.Name)
	require.Equal(t, int64(1), f.counter.calls.Load())

	// Inside the five-minute window: cache hit, still selected.
	f.clock.Advance(299 * time.Second)
	second, err := f.store.Categories.FetchByID(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "cat-1", second.ID)
	assert.Equal(t, int64(1), f.counter.calls.Load())
	require.NotNil(t, f.store.Categories.Selected())

	// Past the window: refetched.
	f.clock.Advance(2 * time.Second)
	_, err = f.store.Categories.FetchByID(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.counter.calls.Load())
}

func TestCategoryToggleOptimisticSuccess(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`[{"id":"cat-1","name":"Shoes","active":true,"shopId":"shop-1"}]`))
		default:
			var body map[string]bool
			json.NewDecoder(r.Body).Decode(&body)
			fmt.Fprintf(w, `{"id":"cat-1","name":"Shoes","active":%v,"shopId":"shop-1"}`, body["active"])
		}
	}))

	ctx := context.Background()
	_, err := f.store.Categories.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)

	require.NoError(t, f.store.Categories.UpdateStatus(ctx, "cat-1", false))
	assert.False(t, f.store.Categories.Categories()[0].Active)
	assert.False(t, f.store.Categories.Toggling("cat-1"))
}

func TestCategoryToggleRevertsOnFailure(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"cat-1","name":"Shoes","active":true,"shopId":"shop-1"}]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))

	ctx := context.Background()
	_, err := f.store.Categories.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)

	err = f.store.Categories.UpdateStatus(ctx, "cat-1", false)
	require.Error(t, err)
	assert.Equal(t, "Failed to update category status", apperr.As(err).Message)

	// Reverted to the pre-toggle value, in-flight mark cleared.
	assert.True(t, f.store.Categories.Categories()[0].Active)
	assert.False(t, f.store.Categories.Toggling("cat-1"))
}

func TestProductToggleRevertsOnFailure(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"p1","name":"Sneaker","price":100,"active":true,"shopId":"shop-1","categoryId":"cat-1","stock":5,"hasVariants":false}]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))

	ctx := context.Background()
	_, err := f.store.Products.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)

	err = f.store.Products.UpdateStatus(ctx, "p1", false)
	require.Error(t, err)
	assert.Equal(t, "Failed to update product status", apperr.As(err).Message)
	assert.True(t, f.store.Products.Products()[0].Active)
	assert.False(t, f.store.Products.Toggling("p1"))
}

// A fetch in flight must be observable as loading, and resolve to
// succeeded once the server answers.
func TestFetchReportsLoadingWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Write([]byte(`[{"id":"cat-1","name":"Shoes","active":true,"shopId":"shop-1"}]`))
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.store.Categories.FetchByShop(context.Background(), "shop-1")
		assert.NoError(t, err)
	}()

	<-started
	assert.Equal(t, state.Loading, f.store.Categories.Status())
	close(release)
	wg.Wait()

	assert.Equal(t, state.Succeeded, f.store.Categories.Status())
}

// A slow first toggle must not overwrite the outcome of a faster second
// one: the stale resolution is discarded, and the faster toggle's server
// value stands.
func TestStaleToggleResolutionDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var toggles int
	var mu sync.Mutex

	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"cat-1","name":"Shoes","active":true,"shopId":"shop-1"}]`))
			return
		}

		var body map[string]bool
		json.NewDecoder(r.Body).Decode(&body)

		mu.Lock()
		toggles++
		first := toggles == 1
		mu.Unlock()
		if first {
			close(firstStarted)
			<-releaseFirst
		}
		fmt.Fprintf(w, `{"id":"cat-1","name":"Shoes","active":%v,"shopId":"shop-1"}`, body["active"])
	}))

	ctx := context.Background()
	_, err := f.store.Categories.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// First toggle: to false, held by the server.
		_ = f.store.Categories.UpdateStatus(ctx, "cat-1", false)
	}()

	<-firstStarted
	// Second toggle: back to true, resolves first.
	require.NoError(t, f.store.Categories.UpdateStatus(ctx, "cat-1", true))
	close(releaseFirst)
	wg.Wait()

	assert.True(t, f.store.Categories.Categories()[0].Active,
		"late resolution of the earlier toggle must not win")
	assert.False(t, f.store.Categories.Toggling("cat-1"))
}

func TestCategoryDeleteRemovesEverywhere(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id":"cat-1","name":"Shoes","active":true,"shopId":"shop-1"},{"id":"cat-2","name":"Bags","active":true,"shopId":"shop-1"}]`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	ctx := context.Background()
	_, err := f.store.Categories.FetchByShop(ctx, "shop-1")
	require.NoError(t, err)

	require.NoError(t, f.store.Categories.Delete(ctx, "cat-1"))
	categories := f.store.Categories.Categories()
	require.Len(t, categories, 1)
	assert.Equal(t, "cat-2", categories[0].ID)
}

func TestProductsByCategoryComputedOnRead(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"p1","name":"Sneaker","price":100,"active":true,"shopId":"shop-1","categoryId":"cat-1","stock":5,"hasVariants":false},
			{"id":"p2","name":"Boot","price":200,"active":true,"shopId":"shop-1","categoryId":"cat-1","stock":2,"hasVariants":false},
			{"id":"p3","name":"Tote","price":50,"active":true,"shopId":"shop-1","categoryId":"cat-2","stock":9,"hasVariants":false}
		]`))
	}))

	_, err := f.store.Products.FetchByShop(context.Background(), "shop-1")
	require.NoError(t, err)

	grouped := f.store.Products.ByCategory()
	assert.Len(t, grouped["cat-1"], 2)
	assert.Len(t, grouped["cat-2"], 1)
}
