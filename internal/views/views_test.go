package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meropasal/pasal-cli/internal/models"
)

func TestEnrichLinesMissingProduct(t *testing.T) {
	catalog := []models.Product{
		{ID: "p1", Name: "Sneaker"},
	}
	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 2, UnitPrice: 50, TotalPrice: 100},
		{ProductID: "p-gone", Quantity: 1, UnitPrice: 30, TotalPrice: 30},
	}

	lines := EnrichLines(items, catalog)
	require.Len(t, lines, 2)
	assert.Equal(t, "Sneaker", lines[0].ProductName)
	assert.True(t, lines[0].InCatalog)
	assert.Equal(t, MissingName, lines[1].ProductName)
	assert.False(t, lines[1].InCatalog)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestGroupCartByShopStableOrder(t *testing.T) {
	items := []models.CartItem{
		{ID: "c1", ShopID: "s2", ShopName: "Bags", TotalPrice: 40, Quantity: 1},
		{ID: "c2", ShopID: "s1", ShopName: "Kicks", TotalPrice: 100, Quantity: 2},
		{ID: "c3", ShopID: "s1", ShopName: "Kicks", TotalPrice: 50, Quantity: 1},
	}

	groups := GroupCartByShop(items)
	require.Len(t, groups, 2)
	assert.Equal(t, "s1", groups[0].ShopID)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, 150.0, groups[0].Subtotal)
	assert.Equal(t, "s2", groups[1].ShopID)
	assert.Equal(t, 40.0, groups[1].Subtotal)
}

func TestGroupCartByShopDeterministic(t *testing.T) {
	items := []models.CartItem{
		{ID: "c1", ShopID: "s3", TotalPrice: 10, Quantity: 1},
		{ID: "c2", ShopID: "s1", TotalPrice: 20, Quantity: 1},
		{ID: "c3", ShopID: "s2", TotalPrice: 30, Quantity: 1},
	}

	first := GroupCartByShop(items)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, GroupCartByShop(items))
	}
}

func TestSummarize(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 1, TotalPrice: 50},
		{Quantity: 1, TotalPrice: 100},
	}
	summary := Summarize(items)
	assert.Equal(t, 2, summary.TotalItems)
	assert.Equal(t, 150.0, summary.TotalAmount)
}

func TestSummarizeCountsLinesNotUnits(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 3, TotalPrice: 150},
	}
	summary := Summarize(items)
	assert.Equal(t, 1, summary.TotalItems)
	assert.Equal(t, 150.0, summary.TotalAmount)
}

func TestSummarizeOrdersSkipsCancelled(t *testing.T) {
	orders := []models.Order{
		{ID: "o1", Status: "pending", Total: 100},
		{ID: "o2", Status: "shipped", Total: 200},
		{ID: "o3", Status: "cancelled", Total: 999},
		{ID: "o4", Status: "delivered", Total: 300},
	}

	totals := SummarizeOrders(orders)
	assert.Equal(t, 3, totals.Count)
	assert.Equal(t, 600.0, totals.Revenue)
	assert.Equal(t, 1, totals.Pending)
	assert.Equal(t, 1, totals.Shipped)
	assert.Equal(t, 1, totals.Complete)
}

func TestFormatterUnknownCodeFallsBack(t *testing.T) {
	f := NewFormatter("not-a-code")
	out := f.Amount(1500)
	assert.Contains(t, out, "1,500")
}

func TestFormatterDeterministic(t *testing.T) {
	f := NewFormatter("NPR")
	first := f.Amount(1234.5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, f.Amount(1234.5))
	}
}
