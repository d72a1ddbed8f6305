package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/delphython/fish-shop/internal/domain/model"
	opshttp "github.com/delphython/fish-shop/internal/infra/http"
)

type memCheckoutRepo struct {
	recs    []*model.CheckoutRecord
	listErr error
}

func (m *memCheckoutRepo) Save(ctx context.Context, rec *model.CheckoutRecord) error {
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memCheckoutRepo) ListRecent(ctx context.Context, limit int) ([]*model.CheckoutRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]*model.CheckoutRecord(nil), m.recs...), nil
}

func newTestServer(t *testing.T, repo *memCheckoutRepo) *httptest.Server {
	t.Helper()
	logger := zerolog.Nop()
	auth := opshttp.NewAuthManager("test-secret", false, time.Hour)
	var srv *opshttp.Server
	if repo == nil {
		srv = opshttp.NewServer(nil, "ops-key", auth, &logger)
	} else {
		srv = opshttp.NewServer(repo, "ops-key", auth, &logger)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func login(t *testing.T, ts *httptest.Server, apiKey string) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/login", nil)
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return resp, ""
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp, body.Token
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &memCheckoutRepo{})
	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, &memCheckoutRepo{})

	t.Run("valid key returns session token", func(t *testing.T) {
		resp, tok := login(t, ts, "ops-key")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if tok == "" {
			t.Error("empty session token")
		}
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		resp, _ := login(t, ts, "wrong")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("missing key rejected", func(t *testing.T) {
		resp, _ := login(t, ts, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestCheckouts(t *testing.T) {
	repo := &memCheckoutRepo{recs: []*model.CheckoutRecord{
		{ID: "01ABC", ChatID: 42, CustomerID: "cust-1", Email: "user@example.com", CartTotal: "$33.00", CreatedAt: time.Now()},
	}}
	ts := newTestServer(t, repo)
	_, tok := login(t, ts, "ops-key")

	t.Run("session token lists records", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/checkouts", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatalf("checkouts: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var out []struct {
			ID     string `json:"id"`
			ChatID int64  `json:"chat_id"`
			Email  string `json:"email"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(out) != 1 || out[0].ID != "01ABC" || out[0].ChatID != 42 || out[0].Email != "user@example.com" {
			t.Errorf("records = %+v", out)
		}
	})

	t.Run("session cookie accepted", func(t *testing.T) {
		loginResp, _ := login(t, ts, "ops-key")
		var sess *http.Cookie
		for _, c := range loginResp.Cookies() {
			if c.Name == "ops_session" {
				sess = c
			}
		}
		if sess == nil {
			t.Fatal("login did not set a session cookie")
		}
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/checkouts", nil)
		req.AddCookie(sess)
		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatalf("checkouts: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("no session rejected", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/api/v1/checkouts")
		if err != nil {
			t.Fatalf("checkouts: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/checkouts", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatalf("checkouts: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestCheckoutsJournalDisabled(t *testing.T) {
	ts := newTestServer(t, nil)
	_, tok := login(t, ts, "ops-key")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/checkouts", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("checkouts: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}
