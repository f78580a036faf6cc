package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "title", "description", "current_price", "old_price", "rating", "star_count", "orders", "image", "category"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, NewRepository(mock)
}

func TestListProducts(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(`FROM products ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(int64(1), "Red Shoe", "d", 25.0, nil, 4.5, 4, 10, "aW1n", "Clothes and wear").
			AddRow(int64(2), "Blue Hat", "d", 10.0, nil, 3.0, 3, 2, "aW1n", "Clothes and wear"))

	got, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Red Shoe", got[0].Title)
	assert.Nil(t, got[0].OldPrice)
	assert.Equal(t, 4, got[0].StarCount)
}

func TestGetProductNotFound(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(`FROM products WHERE id=\$1`).
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetProduct(context.Background(), 9)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateProduct(t *testing.T) {
	mock, repo := newMock(t)
	p := Product{Title: "Dog Leash", Description: "d", CurrentPrice: 12.5, Image: "aW1n", Category: "Animal and pets"}
	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs(p.Title, p.Description, p.CurrentPrice, p.OldPrice, p.Rating, p.StarCount, p.Orders, p.Image, p.Category).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(6)))

	id, err := repo.CreateProduct(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)
}

func TestUpdateProductNotFound(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec(`UPDATE products`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateProduct(context.Background(), 9, Product{Title: "x"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec(`DELETE FROM products WHERE id=\$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.DeleteProduct(context.Background(), 3))
}

func TestListCartScopedByOwner(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(`FROM cart_items ci`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "quantity", "title", "image", "current_price"}).
			AddRow(int64(7), int64(1), 2, "Red Shoe", "aW1n", 25.0))

	got, err := repo.ListCart(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, CartItem{ID: 7, ProductID: 1, Quantity: 2, Title: "Red Shoe", Image: "aW1n", CurrentPrice: 25}, got[0])
}

func TestAddToCartMerges(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO cart_items`).
		WithArgs("u-1", int64(1), 2).
		WillReturnRows(pgxmock.NewRows([]string{"inserted"}).AddRow(false))
	mock.ExpectCommit()

	merged, err := repo.AddToCart(context.Background(), "u-1", 1, 2)
	require.NoError(t, err)
	assert.True(t, merged)
}

func TestAddToCartUnknownProductRollsBack(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.AddToCart(context.Background(), "u-1", 99, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateCartItemNotFound(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec(`UPDATE cart_items SET quantity=\$1`).
		WithArgs(3, int64(9), "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.UpdateCartItem(context.Background(), "u-1", 9, 3), ErrNotFound)
}

func TestRemoveCartItem(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec(`DELETE FROM cart_items WHERE id=\$1 AND owner_id=\$2`).
		WithArgs(int64(7), "u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.RemoveCartItem(context.Background(), "u-1", 7))
}

func TestClearCart(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM cart_items WHERE owner_id=\$1`).
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	n, err := repo.ClearCart(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestClearCartRollsBackOnError(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM cart_items WHERE owner_id=\$1`).
		WithArgs("u-1").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.ClearCart(context.Background(), "u-1")
	assert.ErrorContains(t, err, "deadlock detected")
}
