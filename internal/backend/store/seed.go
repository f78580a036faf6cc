package store

import (
	"context"
	"fmt"
)

// SampleProducts is the demo catalog loaded by `catalog-backend seed` and by
// in-memory mode. Images are tiny base64 placeholders.
func SampleProducts() []Product {
	old := func(v float64) *float64 { return &v }
	const img = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
	return []Product{
		{Title: "Wireless Headphones", Description: "Over-ear, noise cancelling", CurrentPrice: 129.99, OldPrice: old(159.99), Rating: 4.5, StarCount: 230, Orders: 1200, Image: img, Category: "Computer and tech"},
		{Title: "Gaming Laptop", Description: "15 inch, 16GB RAM", CurrentPrice: 1199, Rating: 4.7, StarCount: 88, Orders: 310, Image: img, Category: "Computer and tech"},
		{Title: "Running Shoes", Description: "Lightweight trainers", CurrentPrice: 59.5, OldPrice: old(75), Rating: 4.2, StarCount: 140, Orders: 860, Image: img, Category: "Clothes and wear"},
		{Title: "Denim Jacket", Description: "Classic blue", CurrentPrice: 45, Rating: 4.0, StarCount: 52, Orders: 190, Image: img, Category: "Clothes and wear"},
		{Title: "Ceramic Mug", Description: "350ml, dishwasher safe", CurrentPrice: 8.99, Rating: 4.8, StarCount: 410, Orders: 2300, Image: img, Category: "Home interiors"},
		{Title: "Desk Lamp", Description: "Warm LED", CurrentPrice: 24.99, OldPrice: old(29.99), Rating: 4.3, StarCount: 75, Orders: 420, Image: img, Category: "Home interiors"},
	}
}

type productCreator interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, p Product) (int64, error)
}

// Seed inserts products when the catalog is empty, or always when force is
// set. It returns how many rows were written.
func Seed(ctx context.Context, repo productCreator, products []Product, force bool) (int, error) {
	if !force {
		existing, err := repo.ListProducts(ctx)
		if err != nil {
			return 0, err
		}
		if len(existing) > 0 {
			return 0, nil
		}
	}
	for i, p := range products {
		if _, err := repo.CreateProduct(ctx, p); err != nil {
			return i, fmt.Errorf("seed %q: %w", p.Title, err)
		}
	}
	return len(products), nil
}
