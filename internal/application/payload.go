package application

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/delphython/fish-shop/internal/domain"
)

// The add-to-cart button payload is the only wire format in the system:
// "<product-id>|<qty>". It must round-trip exactly.
const payloadSep = "|"

func EncodeItemPayload(productID string, quantity int) string {
	return productID + payloadSep + strconv.Itoa(quantity)
}

func ParseItemPayload(data string) (productID string, quantity int, err error) {
	id, qty, ok := strings.Cut(data, payloadSep)
	if !ok || id == "" {
		return "", 0, fmt.Errorf("parse %q: %w", data, domain.ErrMalformedPayload)
	}
	n, err := strconv.Atoi(qty)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("parse %q: %w", data, domain.ErrMalformedPayload)
	}
	return id, n, nil
}
