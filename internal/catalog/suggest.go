package catalog

const DefaultSuggestionLimit = 5

// Suggest returns up to limit products whose title contains query, in
// catalog order. Callers pass the full catalog; active filters do not
// narrow suggestions. An empty query yields no suggestions.
func Suggest(products []Product, query string, limit int) []Product {
	if query == "" {
		return []Product{}
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	out := make([]Product, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if TitleMatches(p.Title, query) {
			out = append(out, p)
		}
	}
	return out
}
