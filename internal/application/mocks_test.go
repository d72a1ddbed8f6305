package application_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/delphython/fish-shop/internal/domain"
	"github.com/delphython/fish-shop/internal/domain/model"
	"github.com/delphython/fish-shop/internal/domain/ports/adapter"
	"github.com/delphython/fish-shop/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memStateRepo is a small in-memory state store used by unit tests.
type memStateRepo struct {
	mu     sync.RWMutex
	store  map[int64]repository.ConversationState
	getErr error
	setErr error
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{store: make(map[int64]repository.ConversationState)}
}

func (m *memStateRepo) GetState(ctx context.Context, chatID int64) (repository.ConversationState, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[chatID]
	if !ok {
		return "", domain.ErrStateNotFound
	}
	return s, nil
}

func (m *memStateRepo) SetState(ctx context.Context, chatID int64, state repository.ConversationState) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[chatID] = state
	return nil
}

// seed writes a state directly, bypassing error injection.
func (m *memStateRepo) seed(chatID int64, state repository.ConversationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[chatID] = state
}

// fakeShop is an in-memory CommerceClient with per-operation fault
// injection.
type fakeShop struct {
	mu         sync.Mutex
	products   []model.Product
	imageURLs  map[string]string
	carts      map[string][]model.CartItem
	customers  []model.Customer
	nextItemID int

	listErr     error
	addErr      error
	customerErr error
}

func newFakeShop(products ...model.Product) *fakeShop {
	return &fakeShop{
		products:  products,
		imageURLs: make(map[string]string),
		carts:     make(map[string][]model.CartItem),
	}
}

func (f *fakeShop) ListProducts(ctx context.Context) ([]model.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Product(nil), f.products...), nil
}

func (f *fakeShop) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == productID {
			cp := p
			return &cp, nil
		}
	}
	return nil, &domain.UpstreamError{Status: 404, Message: "product not found"}
}

func (f *fakeShop) GetImageURL(ctx context.Context, fileID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	href, ok := f.imageURLs[fileID]
	if !ok {
		return "", &domain.UpstreamError{Status: 404, Message: "file not found"}
	}
	return href, nil
}

func (f *fakeShop) GetOrCreateCart(ctx context.Context, cartID string) (*model.Cart, error) {
	total, err := f.GetCartTotal(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return &model.Cart{ID: cartID, Total: *total}, nil
}

func (f *fakeShop) GetCartItems(ctx context.Context, cartID string) ([]model.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.CartItem(nil), f.carts[cartID]...), nil
}

func (f *fakeShop) GetCartTotal(ctx context.Context, cartID string) (*model.Price, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kg := 0
	for _, it := range f.carts[cartID] {
		kg += it.Quantity
	}
	return &model.Price{
		Amount:    kg * 100,
		Currency:  "USD",
		Formatted: fmt.Sprintf("$%d.00", kg),
	}, nil
}

func (f *fakeShop) AddCartItem(ctx context.Context, cartID, productID string, quantity int) error {
	if f.addErr != nil {
		return f.addErr
	}
	if quantity < 1 {
		return &domain.UpstreamError{Status: 400, Message: "quantity must be positive"}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var product *model.Product
	for i := range f.products {
		if f.products[i].ID == productID {
			product = &f.products[i]
			break
		}
	}
	if product == nil {
		return &domain.UpstreamError{Status: 404, Message: "product not found"}
	}
	items := f.carts[cartID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			f.carts[cartID] = items
			return nil
		}
	}
	f.nextItemID++
	f.carts[cartID] = append(items, model.CartItem{
		ID:          fmt.Sprintf("item-%d", f.nextItemID),
		ProductID:   productID,
		Name:        product.Name,
		Description: product.Description,
		Quantity:    quantity,
		UnitPrice:   product.Price.Formatted,
	})
	return nil
}

func (f *fakeShop) RemoveCartItem(ctx context.Context, cartID, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.carts[cartID]
	for i := range items {
		if items[i].ID == itemID {
			f.carts[cartID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return &domain.UpstreamError{Status: 404, Message: "cart item not found"}
}

func (f *fakeShop) CreateCustomer(ctx context.Context, name, email string) (*model.Customer, error) {
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := model.Customer{
		ID:    fmt.Sprintf("cust-%d", len(f.customers)+1),
		Name:  name,
		Email: email,
	}
	f.customers = append(f.customers, c)
	return &c, nil
}

// sentMessage is one outbound side effect captured by recorderBot.
type sentMessage struct {
	ChatID int64
	Text   string
	Photo  string
	Rows   [][]adapter.InlineButton
}

type recorderBot struct {
	mu      sync.Mutex
	sent    []sentMessage
	deleted []int
	sendErr error
}

func (b *recorderBot) SendMessage(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	if b.sendErr != nil {
		return b.sendErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMessage{ChatID: chatID, Text: text, Rows: rows})
	return nil
}

func (b *recorderBot) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, rows [][]adapter.InlineButton) error {
	if b.sendErr != nil {
		return b.sendErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMessage{ChatID: chatID, Text: caption, Photo: photoURL, Rows: rows})
	return nil
}

func (b *recorderBot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, messageID)
	return nil
}

func (b *recorderBot) last() sentMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		return sentMessage{}
	}
	return b.sent[len(b.sent)-1]
}

type memCheckoutRepo struct {
	mu   sync.Mutex
	recs []*model.CheckoutRecord
}

func (m *memCheckoutRepo) Save(ctx context.Context, rec *model.CheckoutRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memCheckoutRepo) ListRecent(ctx context.Context, limit int) ([]*model.CheckoutRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.CheckoutRecord(nil), m.recs...), nil
}
