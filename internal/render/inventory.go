// Package render turns entity lists into display text and button layouts.
// Everything here is a pure function over its inputs; list ordering is
// whatever the store produced and is never changed.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"homestock/internal/gateway"
	"homestock/internal/models"
)

// NoCategoryLabel is the display bucket for orphan products.
const NoCategoryLabel = "No category"

// Icon maps a stock status to its indicator.
func Icon(s models.StockStatus) string {
	switch s {
	case models.StatusLow:
		return "🔴"
	case models.StatusAtLimit:
		return "🟡"
	default:
		return "🟢"
	}
}

// Number formats a quantity, dropping a trailing ".0" for whole values.
// Whole values beyond float64's exact-integer range go through FormatFloat,
// since converting them to int64 would overflow.
func Number(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Inventory renders the standard per-category view. Products arrive ordered
// by (category name, product name); groups are emitted in input order.
func Inventory(products []*models.Product, title string) string {
	if len(products) == 0 {
		return title + "\n\nNo products yet. Add one from the product menu!"
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	current := ""
	first := true
	for _, p := range products {
		group := NoCategoryLabel
		if p.CategoryName != nil {
			group = *p.CategoryName
		}
		if first || group != current {
			b.WriteString("\n📂 ")
			b.WriteString(group)
			b.WriteString("\n")
			current = group
			first = false
		}
		writeProductLine(&b, p)
	}
	return b.String()
}

// ShoppingList renders the two-bucket shortage view: must-buy products
// (below threshold) first, then the ones that are exactly at it.
func ShoppingList(products []*models.Product, title string) string {
	if len(products) == 0 {
		return title + "\n\n🎉 Fully stocked — nothing to buy!"
	}

	var mustBuy, runningLow []*models.Product
	for _, p := range products {
		if p.Status() == models.StatusLow {
			mustBuy = append(mustBuy, p)
		} else {
			runningLow = append(runningLow, p)
		}
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	if len(mustBuy) > 0 {
		b.WriteString("\n🛒 To buy\n")
		for _, p := range mustBuy {
			writeProductLine(&b, p)
		}
	}
	if len(runningLow) > 0 {
		b.WriteString("\n⚠️ Running low\n")
		for _, p := range runningLow {
			writeProductLine(&b, p)
		}
	}
	return b.String()
}

func writeProductLine(b *strings.Builder, p *models.Product) {
	fmt.Fprintf(b, "%s %s: %s %s (min: %s)\n",
		Icon(p.Status()), p.Name, Number(p.Quantity), p.Unit, Number(p.Threshold))
}

// CategoryList renders the category overview shown in the category menu.
func CategoryList(categories []*models.Category) string {
	if len(categories) == 0 {
		return "📂 Your categories\n\nNo categories yet. Add one!"
	}
	var b strings.Builder
	b.WriteString("📂 Your categories\n\n")
	for _, c := range categories {
		b.WriteString("• ")
		b.WriteString(c.Name)
		b.WriteString("\n")
	}
	return b.String()
}

// ControlPanel renders the single-product management panel.
func ControlPanel(p *models.Product) string {
	var status string
	switch p.Status() {
	case models.StatusLow:
		status = "🔴 Low stock"
	case models.StatusAtLimit:
		status = "🟡 At limit"
	default:
		status = "🟢 OK"
	}
	return fmt.Sprintf("✏️ Managing: %s\n————————————\n📦 Quantity: %s %s\n⚠️ Minimum: %s\nStatus: %s",
		p.Name, Number(p.Quantity), p.Unit, Number(p.Threshold), status)
}

// Grid lays buttons out two per row once there are at least two of them,
// with an optional back button alone on the bottom row.
func Grid(buttons []gateway.Button, back *gateway.Button) [][]gateway.Button {
	var rows [][]gateway.Button
	if len(buttons) >= 2 {
		for i := 0; i < len(buttons); i += 2 {
			end := i + 2
			if end > len(buttons) {
				end = len(buttons)
			}
			rows = append(rows, buttons[i:end])
		}
	} else {
		for _, btn := range buttons {
			rows = append(rows, []gateway.Button{btn})
		}
	}
	if back != nil {
		rows = append(rows, []gateway.Button{*back})
	}
	return rows
}
