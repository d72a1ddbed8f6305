package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/delphython/fish-shop/internal/domain/ports/repository"
)

// Server is the operator-facing HTTP surface: health, metrics and the
// checkout journal.
type Server struct {
	checkouts repository.CheckoutRepository // nil when the journal is disabled
	apiKey    string
	auth      *AuthManager
	log       *zerolog.Logger
}

func NewServer(checkouts repository.CheckoutRepository, apiKey string, auth *AuthManager, logger *zerolog.Logger) *Server {
	return &Server{checkouts: checkouts, apiKey: apiKey, auth: auth, log: logger}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/v1/login", s.handleLogin)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/checkouts", s.handleCheckouts)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleLogin exchanges the static operator API key for a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.apiKey == "" {
		s.log.Error().Msg("operator api key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if bearerToken(r) != s.apiKey {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	tok, err := s.auth.Mint(w)
	if err != nil {
		s.log.Error().Err(err).Msg("mint session")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Verify(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type checkoutJSON struct {
	ID         string    `json:"id"`
	ChatID     int64     `json:"chat_id"`
	CustomerID string    `json:"customer_id"`
	Email      string    `json:"email"`
	CartTotal  string    `json:"cart_total"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Server) handleCheckouts(w http.ResponseWriter, r *http.Request) {
	if s.checkouts == nil {
		http.Error(w, "Checkout journal disabled", http.StatusServiceUnavailable)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := s.checkouts.ListRecent(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("list checkouts")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	out := make([]checkoutJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, checkoutJSON{
			ID:         rec.ID,
			ChatID:     rec.ChatID,
			CustomerID: rec.CustomerID,
			Email:      rec.Email,
			CartTotal:  rec.CartTotal,
			CreatedAt:  rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
