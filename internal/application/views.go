package application

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/delphython/fish-shop/internal/domain/model"
	"github.com/delphython/fish-shop/internal/domain/ports/adapter"
)

// Fixed single-word payloads for navigation buttons. Everything else in a
// payload is a product id, a cart line-item id, or an "id|qty" pair.
const (
	payloadCart     = "cart"
	payloadBack     = "back"
	payloadMenu     = "menu"
	payloadCheckout = "payment"
)

// maxQuantityMultiple caps the quantity buttons on a product card.
const maxQuantityMultiple = 3

// MenuView renders the product menu: one button per product in catalog
// order, plus a fixed trailing cart button.
func MenuView(products []model.Product) (string, [][]adapter.InlineButton) {
	rows := make([][]adapter.InlineButton, 0, len(products)+1)
	for _, p := range products {
		rows = append(rows, []adapter.InlineButton{{Text: p.Name, Data: p.ID}})
	}
	rows = append(rows, []adapter.InlineButton{{Text: "Cart", Data: payloadCart}})
	return "Please choose:", rows
}

// ProductView renders the detail card for one product with a row of
// quantity buttons at 1x, 2x and 3x the base unit weight.
func ProductView(p *model.Product) (string, [][]adapter.InlineButton) {
	text := fmt.Sprintf("%s\n\n%s per %s kg\n%d kg in stock\n\n%s",
		p.Name, p.Price.Formatted, formatWeight(p.WeightKg), p.StockLevel, p.Description)

	weights := make([]adapter.InlineButton, 0, maxQuantityMultiple)
	for q := 1; q <= maxQuantityMultiple; q++ {
		weights = append(weights, adapter.InlineButton{
			Text: formatWeight(p.WeightKg*float64(q)) + " kg",
			Data: EncodeItemPayload(p.ID, q),
		})
	}
	rows := [][]adapter.InlineButton{
		weights,
		{{Text: "Cart", Data: payloadCart}},
		{{Text: "Back", Data: payloadBack}},
	}
	return text, rows
}

// CartView renders the cart summary in cart order, one remove button per
// line item, then checkout and back-to-menu buttons.
func CartView(items []model.CartItem, total model.Price) (string, [][]adapter.InlineButton) {
	var sb strings.Builder
	rows := make([][]adapter.InlineButton, 0, len(items)+2)
	for _, it := range items {
		fmt.Fprintf(&sb, "%s\n%s\n%s per kg\n%d kg in cart for %s\n\n",
			it.Name, it.Description, it.UnitPrice, it.Quantity, it.LineTotal)
		rows = append(rows, []adapter.InlineButton{{Text: "Remove " + it.Name, Data: it.ID}})
	}
	sb.WriteString("Total: " + total.Formatted)
	rows = append(rows, []adapter.InlineButton{{Text: "Checkout", Data: payloadCheckout}})
	rows = append(rows, []adapter.InlineButton{{Text: "Back to menu", Data: payloadMenu}})
	return sb.String(), rows
}

func formatWeight(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64)
}
