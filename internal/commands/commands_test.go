package commands

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/models"
)

type cobraGroup struct {
	name  string
	names map[string]bool
}

func wrap(cmd *cobra.Command) *cobraGroup {
	g := &cobraGroup{name: cmd.Name(), names: make(map[string]bool)}
	for _, sub := range cmd.Commands() {
		g.names[sub.Name()] = true
	}
	return g
}

func (g *cobraGroup) has(name string) bool {
	return g.names[name]
}

func TestGroupsRegisterExpectedSubcommands(t *testing.T) {
	tests := []struct {
		group *cobraGroup
		subs  []string
	}{
		{group: wrap(NewAuthCmd()), subs: []string{"register", "verify", "login", "logout", "status"}},
		{group: wrap(NewShopCmd()), subs: []string{"create", "get", "list", "resolve", "audience", "themes", "theme"}},
		{group: wrap(NewCategoriesCmd()), subs: []string{"list", "get", "create", "update", "toggle", "delete"}},
		{group: wrap(NewProductsCmd()), subs: []string{"list", "get", "create", "update", "toggle", "delete"}},
		{group: wrap(NewOrdersCmd()), subs: []string{"list", "show", "status", "totals"}},
		{group: wrap(NewCartCmd()), subs: []string{"add", "list", "update", "remove", "clear", "summary", "count", "checkout", "pay"}},
		{group: wrap(NewWishlistCmd()), subs: []string{"add", "remove", "list", "check", "count", "clear"}},
		{group: wrap(NewCustomerCmd()), subs: []string{"signup", "verify", "resend", "status", "logout", "follow", "unfollow", "following", "followers"}},
		{group: wrap(NewPaymentsCmd()), subs: []string{"create", "list", "get", "update", "toggle", "delete"}},
		{group: wrap(NewImagesCmd()), subs: []string{"upload"}},
		{group: wrap(NewSocialCmd()), subs: []string{"get", "set"}},
		{group: wrap(NewAPICmd()), subs: []string{"get", "post", "put", "patch", "delete"}},
		{group: wrap(NewConfigCmd()), subs: []string{"list", "get", "set"}},
	}

	for _, tt := range tests {
		t.Run(tt.group.name, func(t *testing.T) {
			for _, sub := range tt.subs {
				assert.True(t, tt.group.has(sub), "missing subcommand %s", sub)
			}
			assert.Len(t, tt.group.names, len(tt.subs))
		})
	}
}

func TestParseOnOff(t *testing.T) {
	for _, s := range []string{"on", "true", "active"} {
		v, err := parseOnOff(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"off", "false", "inactive"} {
		v, err := parseOnOff(s)
		require.NoError(t, err)
		assert.False(t, v)
	}

	_, err := parseOnOff("maybe")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUsage, apperr.As(err).Kind)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 order", plural(1, "order"))
	assert.Equal(t, "3 orders", plural(3, "order"))
	assert.Equal(t, "2 categories", plural(2, "category"))
	assert.Equal(t, "0 items", plural(0, "item"))
}

func TestParsePath(t *testing.T) {
	assert.Equal(t, "/shops", parsePath("shops"))
	assert.Equal(t, "/shops", parsePath("/shops"))
}

func TestApplyJQ(t *testing.T) {
	payload := map[string]any{
		"orders": []any{
			map[string]any{"id": "o1", "total": 100.0},
			map[string]any{"id": "o2", "total": 250.0},
		},
	}

	single, err := applyJQ(".orders | length", payload)
	require.NoError(t, err)
	assert.EqualValues(t, 2, single)

	multi, err := applyJQ(".orders[].id", payload)
	require.NoError(t, err)
	assert.Equal(t, []any{"o1", "o2"}, multi)

	_, err = applyJQ(".orders[", payload)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUsage, apperr.As(err).Kind)
}

func TestOrderedSince(t *testing.T) {
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, orderedSince(models.Order{CreatedAt: "2026-03-02T08:00:00Z"}, cutoff))
	assert.False(t, orderedSince(models.Order{CreatedAt: "2026-02-27T08:00:00Z"}, cutoff))
	// Unparseable timestamps are kept rather than silently dropped.
	assert.True(t, orderedSince(models.Order{CreatedAt: "last tuesday"}, cutoff))
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, validOrderStatus("pending"))
	assert.True(t, validOrderStatus("cancelled"))
	assert.False(t, validOrderStatus("lost"))
}
