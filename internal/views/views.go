// Package views computes derived read models from store state: order
// lines enriched with catalog names, per-shop groupings, and display
// amounts. Everything here is a pure function of its inputs so the same
// inputs always render the same bytes.
package views

import (
	"sort"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meropasal/pasal-cli/internal/models"
)

// MissingName is the sentinel shown when an order line references a
// product the catalog no longer has.
const MissingName = "N/A"

// EnrichedLine is an order line joined with the current catalog.
type EnrichedLine struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
	InCatalog   bool
}

// EnrichLines joins order lines with the product catalog. Lines whose
// product is missing keep their quantities but show the sentinel name.
func EnrichLines(items []models.OrderItem, catalog []models.Product) []EnrichedLine {
	byID := make(map[string]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	lines := make([]EnrichedLine, 0, len(items))
	for _, item := range items {
		line := EnrichedLine{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if p, ok := byID[item.ProductID]; ok {
			line.ProductName = p.Name
			line.InCatalog = true
		} else {
			line.ProductName = MissingName
		}
		lines = append(lines, line)
	}
	return lines
}

// ShopGroup is one shop's slice of the cart with its subtotal.
type ShopGroup struct {
	ShopID   string
	ShopName string
	Items    []models.CartItem
	Subtotal float64
}

// GroupCartByShop splits cart lines per shop, ordered by shop ID so the
// output is stable.
func GroupCartByShop(items []models.CartItem) []ShopGroup {
	byShop := make(map[string]*ShopGroup)
	for _, item := range items {
		g, ok := byShop[item.ShopID]
		if !ok {
			g = &ShopGroup{ShopID: item.ShopID, ShopName: item.ShopName}
			byShop[item.ShopID] = g
		}
		g.Items = append(g.Items, item)
		g.Subtotal += item.TotalPrice
	}

	ids := make([]string, 0, len(byShop))
	for id := range byShop {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]ShopGroup, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, *byShop[id])
	}
	return groups
}

// Summarize recomputes cart totals locally, the cross-check against the
// server's /cart/summary aggregate. TotalItems counts cart lines, not
// unit quantities.
func Summarize(items []models.CartItem) models.CartSummary {
	summary := models.CartSummary{TotalItems: len(items)}
	for _, item := range items {
		summary.TotalAmount += item.TotalPrice
	}
	return summary
}

// OrderTotals aggregates the merchant dashboard's headline numbers.
type OrderTotals struct {
	Count    int
	Revenue  float64
	Pending  int
	Shipped  int
	Complete int
}

// SummarizeOrders folds the order list into dashboard totals. Cancelled
// orders count toward neither revenue nor the flow buckets.
func SummarizeOrders(orders []models.Order) OrderTotals {
	var totals OrderTotals
	for _, o := range orders {
		if o.Status == "cancelled" {
			continue
		}
		totals.Count++
		totals.Revenue += o.Total
		switch o.Status {
		case "pending":
			totals.Pending++
		case "shipped":
			totals.Shipped++
		case "delivered", "completed":
			totals.Complete++
		}
	}
	return totals
}

// Formatter renders display amounts in one currency.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewFormatter creates a formatter for the ISO 4217 code, falling back to
// NPR when the code is unknown.
func NewFormatter(code string) *Formatter {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.MustParseISO("NPR")
	}
	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(language.English),
	}
}

// Amount renders a display amount, e.g. "NPR 1,500.00".
func (f *Formatter) Amount(v float64) string {
	return f.printer.Sprintf("%v", currency.NarrowSymbol(f.unit.Amount(v)))
}
