package clients

import (
	"context"
	"net/http"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// ProductPayload is the body the backend expects on create and update.
type ProductPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CurrentPrice float64  `json:"current_price"`
	OldPrice     *float64 `json:"old_price"`
	Rating       float64  `json:"rating"`
	StarCount    int      `json:"star_count"`
	Orders       int      `json:"orders"`
	Image        string   `json:"image"`
	Category     string   `json:"category"`
}

type ProductsClient struct{ c *Client }

func NewProductsClient(c *Client) *ProductsClient { return &ProductsClient{c: c} }

func (pc *ProductsClient) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	products := []catalog.Product{}
	if err := pc.c.doJSON(ctx, "products.list", http.MethodGet, "/products", nil, into(&products)); err != nil {
		return nil, err
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

func (pc *ProductsClient) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	var p catalog.Product
	if err := pc.c.doJSON(ctx, "products.get", http.MethodGet, "/product/"+idPath(id), nil, into(&p)); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (pc *ProductsClient) CreateProduct(ctx context.Context, in ProductPayload) (int64, error) {
	var out struct {
		ID      int64  `json:"id"`
		Message string `json:"message"`
	}
	if err := pc.c.doJSON(ctx, "products.create", http.MethodPost, "/add_product", in, into(&out)); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (pc *ProductsClient) UpdateProduct(ctx context.Context, id int64, in ProductPayload) error {
	return pc.c.doJSON(ctx, "products.update", http.MethodPut, "/update_product/"+idPath(id), in, nil)
}

func (pc *ProductsClient) DeleteProduct(ctx context.Context, id int64) error {
	return pc.c.doJSON(ctx, "products.delete", http.MethodDelete, "/delete_product/"+idPath(id), nil, nil)
}

func idPath(id int64) string { return strconv.FormatInt(id, 10) }
