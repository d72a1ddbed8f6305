package application_test

import (
	"errors"
	"testing"

	"github.com/delphython/fish-shop/internal/application"
	"github.com/delphython/fish-shop/internal/domain"
)

func TestItemPayloadRoundTrip(t *testing.T) {
	cases := []struct {
		id  string
		qty int
	}{
		{"prod-1", 1},
		{"prod-1", 3},
		{"9d8f3c1e-0b5a-4b2e-8f3d-1a2b3c4d5e6f", 2},
		{"x", 1000},
	}
	for _, c := range cases {
		data := application.EncodeItemPayload(c.id, c.qty)
		id, qty, err := application.ParseItemPayload(data)
		if err != nil {
			t.Fatalf("%q: %v", data, err)
		}
		if id != c.id || qty != c.qty {
			t.Errorf("%q round-tripped to (%q, %d)", data, id, qty)
		}
	}
}

func TestParseItemPayloadRejects(t *testing.T) {
	for _, data := range []string{"", "no-separator", "|3", "prod|", "prod|abc", "prod|0", "prod|-1"} {
		_, _, err := application.ParseItemPayload(data)
		if !errors.Is(err, domain.ErrMalformedPayload) {
			t.Errorf("%q: err = %v, want ErrMalformedPayload", data, err)
		}
	}
}
