package catalog

// CategoryAll is the filter sentinel that matches every category.
const CategoryAll = "All"

// Categories lists the categories products can be filed under.
var Categories = []string{
	"Automobiles",
	"Clothes and wear",
	"Home interiors",
	"Computer and tech",
	"Sports and outdoor",
	"Animal and pets",
	"Machinery tools",
}

func KnownCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Product mirrors the backend's product row. Image is a base64 payload.
type Product struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	CurrentPrice float64  `json:"current_price"`
	OldPrice     *float64 `json:"old_price"`
	Rating       float64  `json:"rating"`
	StarCount    int      `json:"star_count"`
	Orders       int      `json:"orders"`
	Image        string   `json:"image"`
}
