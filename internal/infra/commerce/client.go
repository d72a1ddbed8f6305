package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/delphython/fish-shop/internal/config"
	"github.com/delphython/fish-shop/internal/domain"
	"github.com/delphython/fish-shop/internal/domain/model"
	"github.com/delphython/fish-shop/internal/domain/ports/adapter"
	"github.com/delphython/fish-shop/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ adapter.CommerceClient = (*Client)(nil)

// Client talks to the Elastic Path commerce backend. Every operation runs
// under a bearer token from a client-credentials exchange; the first token
// is kept for the process lifetime with no expiry tracking, so a call made
// after expiry fails upstream and is not retried.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	currency     string
	httpc        *http.Client
	log          *zerolog.Logger

	mu          sync.Mutex
	accessToken string
}

func NewClient(cfg *config.CommerceConfig, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		currency:     cfg.Currency,
		httpc:        &http.Client{},
		log:          logger,
	}
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" {
		return c.accessToken, nil
	}

	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.ObserveCommerceRequest("token", 0)
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveCommerceRequest("token", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", upstreamError(resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	c.accessToken = tok.AccessToken
	c.log.Debug().Msg("commerce token acquired")
	return c.accessToken, nil
}

// do issues one authenticated call and decodes a 2xx body into out (when
// out is non-nil). Non-2xx responses become *domain.UpstreamError.
func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("X-MOLTIN-CURRENCY", c.currency)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.ObserveCommerceRequest(op, 0)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	metrics.ObserveCommerceRequest(op, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return upstreamError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func upstreamError(status int, body []byte) error {
	var eb errorBody
	msg := ""
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Errors) > 0 {
		first := eb.Errors[0]
		msg = first.Title
		if first.Detail != "" {
			msg += ": " + first.Detail
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return &domain.UpstreamError{Status: status, Message: msg}
}

func toProduct(r productResource) model.Product {
	p := model.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price: model.Price{
			Amount:    r.Meta.DisplayPrice.WithTax.Amount,
			Currency:  r.Meta.DisplayPrice.WithTax.Currency,
			Formatted: r.Meta.DisplayPrice.WithTax.Formatted,
		},
		WeightKg:   r.Weight.Kg,
		StockLevel: r.Meta.Stock.Level,
	}
	if img := r.Relationships.MainImage.Data; img != nil {
		p.ImageID = img.ID
	}
	return p
}

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var resp struct {
		Data []productResource `json:"data"`
	}
	if err := c.do(ctx, "list_products", http.MethodGet, "/v2/products", nil, &resp); err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(resp.Data))
	for _, r := range resp.Data {
		products = append(products, toProduct(r))
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	var resp struct {
		Data productResource `json:"data"`
	}
	if err := c.do(ctx, "get_product", http.MethodGet, "/v2/products/"+productID, nil, &resp); err != nil {
		return nil, err
	}
	p := toProduct(resp.Data)
	return &p, nil
}

func (c *Client) GetImageURL(ctx context.Context, fileID string) (string, error) {
	var resp struct {
		Data fileResource `json:"data"`
	}
	if err := c.do(ctx, "get_file", http.MethodGet, "/v2/files/"+fileID, nil, &resp); err != nil {
		return "", err
	}
	return resp.Data.Link.Href, nil
}

func (c *Client) GetOrCreateCart(ctx context.Context, cartID string) (*model.Cart, error) {
	var resp struct {
		Data cartResource `json:"data"`
	}
	// GET on an unknown cart id implicitly creates it upstream.
	if err := c.do(ctx, "get_cart", http.MethodGet, "/v2/carts/"+cartID, nil, &resp); err != nil {
		return nil, err
	}
	return &model.Cart{
		ID: resp.Data.ID,
		Total: model.Price{
			Amount:    resp.Data.Meta.DisplayPrice.WithTax.Amount,
			Currency:  resp.Data.Meta.DisplayPrice.WithTax.Currency,
			Formatted: resp.Data.Meta.DisplayPrice.WithTax.Formatted,
		},
	}, nil
}

func (c *Client) GetCartItems(ctx context.Context, cartID string) ([]model.CartItem, error) {
	var resp struct {
		Data []cartItemResource `json:"data"`
	}
	if err := c.do(ctx, "get_cart_items", http.MethodGet, "/v2/carts/"+cartID+"/items", nil, &resp); err != nil {
		return nil, err
	}
	items := make([]model.CartItem, 0, len(resp.Data))
	for _, r := range resp.Data {
		items = append(items, model.CartItem{
			ID:          r.ID,
			ProductID:   r.ProductID,
			Name:        r.Name,
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.Meta.DisplayPrice.WithTax.Unit.Formatted,
			LineTotal:   r.Meta.DisplayPrice.WithTax.Value.Formatted,
		})
	}
	return items, nil
}

func (c *Client) GetCartTotal(ctx context.Context, cartID string) (*model.Price, error) {
	cart, err := c.GetOrCreateCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return &cart.Total, nil
}

func (c *Client) AddCartItem(ctx context.Context, cartID, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity %d: %w", quantity, domain.ErrMalformedPayload)
	}
	payload := map[string]any{
		"data": map[string]any{
			"id":       productID,
			"type":     "cart_item",
			"quantity": quantity,
		},
	}
	return c.do(ctx, "add_cart_item", http.MethodPost, "/v2/carts/"+cartID+"/items", payload, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, cartID, itemID string) error {
	return c.do(ctx, "remove_cart_item", http.MethodDelete, "/v2/carts/"+cartID+"/items/"+itemID, nil, nil)
}

func (c *Client) CreateCustomer(ctx context.Context, name, email string) (*model.Customer, error) {
	payload := map[string]any{
		"data": map[string]any{
			"type":  "customer",
			"name":  name,
			"email": email,
		},
	}
	var resp struct {
		Data customerResource `json:"data"`
	}
	if err := c.do(ctx, "create_customer", http.MethodPost, "/v2/customers", payload, &resp); err != nil {
		return nil, err
	}
	return &model.Customer{ID: resp.Data.ID, Name: resp.Data.Name, Email: resp.Data.Email}, nil
}
