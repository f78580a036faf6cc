// Package store is the Postgres persistence of the reference catalog
// backend: products and per-owner cart items.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrProductNotFound = errors.New("product not found")
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Product struct {
	ID           int64    `json:"id"`
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

// CartItem is a cart row joined with its product.
type CartItem struct {
	ID           int64   `json:"id"`
	ProductID    int64   `json:"product_id"`
	Quantity     int     `json:"quantity"`
	Title        string  `json:"title"`
	Image        string  `json:"image"`
	CurrentPrice float64 `json:"current_price"`
}

type Repository struct {
	pool DBPool
}

func NewRepository(pool DBPool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, title, description, current_price, old_price, rating, star_count, orders, image, category`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.CurrentPrice, &p.OldPrice,
		&p.Rating, &p.StarCount, &p.Orders, &p.Image, &p.Category)
	return p, err
}

func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (title, description, current_price, old_price, rating, star_count, orders, image, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, p.Title, p.Description, p.CurrentPrice, p.OldPrice, p.Rating, p.StarCount, p.Orders, p.Image, p.Category).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}
	return id, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, id int64, p Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET title=$1, description=$2, current_price=$3, old_price=$4,
		    rating=$5, star_count=$6, orders=$7, image=$8, category=$9, updated_at=now()
		WHERE id=$10
	`, p.Title, p.Description, p.CurrentPrice, p.OldPrice, p.Rating, p.StarCount, p.Orders, p.Image, p.Category, id)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product; its cart rows go with it.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) ListCart(ctx context.Context, owner string) ([]CartItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ci.id, ci.product_id, ci.quantity, p.title, p.image, p.current_price
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.owner_id=$1
		ORDER BY ci.id
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	out := []CartItem{}
	for rows.Next() {
		var it CartItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.Title, &it.Image, &it.CurrentPrice); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return out, nil
}

// AddToCart inserts a line or adds quantity to the owner's existing line
// for the product. merged reports which happened.
func (r *Repository) AddToCart(ctx context.Context, owner string, productID int64, quantity int) (merged bool, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var exists bool
	if err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		err = ErrProductNotFound
		return false, err
	}

	var inserted bool
	err = tx.QueryRow(ctx, `
		INSERT INTO cart_items (owner_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING (xmax = 0)
	`, owner, productID, quantity).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert cart item: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return !inserted, nil
}

func (r *Repository) UpdateCartItem(ctx context.Context, owner string, id int64, quantity int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cart_items SET quantity=$1 WHERE id=$2 AND owner_id=$3`, quantity, id, owner)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) RemoveCartItem(ctx context.Context, owner string, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id=$1 AND owner_id=$2`, id, owner)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearCart deletes every line of the owner's cart in one transaction and
// returns how many were removed.
func (r *Repository) ClearCart(ctx context.Context, owner string) (removed int64, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE owner_id=$1`, owner)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return tag.RowsAffected(), nil
}
