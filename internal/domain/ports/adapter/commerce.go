package adapter

import (
	"context"

	"github.com/delphython/fish-shop/internal/domain/model"
)

// CommerceClient is the port to the catalog/cart backend. Every call is
// authenticated by the implementation; a non-success response surfaces as a
// *domain.UpstreamError.
type CommerceClient interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	GetImageURL(ctx context.Context, fileID string) (string, error)
	GetOrCreateCart(ctx context.Context, cartID string) (*model.Cart, error)
	GetCartItems(ctx context.Context, cartID string) ([]model.CartItem, error)
	GetCartTotal(ctx context.Context, cartID string) (*model.Price, error)
	AddCartItem(ctx context.Context, cartID, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, cartID, itemID string) error
	CreateCustomer(ctx context.Context, name, email string) (*model.Customer, error)
}
