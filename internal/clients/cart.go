package clients

import (
	"context"
	"io"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

// CartClient talks to the backend's cart resource. It satisfies
// cart.Backend.
type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

var _ cart.Backend = (*CartClient)(nil)

func (cc *CartClient) ListCart(ctx context.Context) ([]cart.Line, error) {
	var lines []cart.Line
	err := cc.c.doJSON(ctx, "cart.list", http.MethodGet, "/cart", nil, func(r io.Reader) error {
		var err error
		lines, err = cart.DecodeLines(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (cc *CartClient) AddToCart(ctx context.Context, productID int64, quantity int) error {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	return cc.c.doJSON(ctx, "cart.add", http.MethodPost, "/cart/add", body, nil)
}

func (cc *CartClient) UpdateCartLine(ctx context.Context, lineID int64, quantity int) error {
	body := map[string]any{"quantity": quantity}
	return cc.c.doJSON(ctx, "cart.update", http.MethodPut, "/cart/update/"+idPath(lineID), body, nil)
}

func (cc *CartClient) RemoveCartLine(ctx context.Context, lineID int64) error {
	return cc.c.doJSON(ctx, "cart.remove", http.MethodDelete, "/cart/remove/"+idPath(lineID), nil, nil)
}
