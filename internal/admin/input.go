package admin

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

const (
	maxImageBytes = 5 << 20
	maxFormMemory = 8 << 20
)

// ProductInput is a product as submitted by an admin. Image holds the
// raw base64 payload; empty means "not provided".
type ProductInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CurrentPrice float64  `json:"current_price"`
	OldPrice     *float64 `json:"old_price"`
	Rating       float64  `json:"rating"`
	StarCount    int      `json:"star_count"`
	Orders       int      `json:"orders"`
	Category     string   `json:"category"`
	Image        string   `json:"image"`
}

// Validate checks the fields every create and update needs. requireImage
// is set for creates.
func (in ProductInput) Validate(requireImage bool) error {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(in.Category) == "" {
		missing = append(missing, "category")
	}
	if requireImage && in.Image == "" {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return apperr.Validation("admin.product", "missing required fields: "+strings.Join(missing, ", "))
	}

	if in.CurrentPrice <= 0 {
		return apperr.Validation("admin.product", "current_price must be greater than 0")
	}
	if in.OldPrice != nil && *in.OldPrice < 0 {
		return apperr.Validation("admin.product", "old_price must not be negative")
	}
	if !catalog.KnownCategory(in.Category) {
		return apperr.Validation("admin.product", fmt.Sprintf("unknown category %q", in.Category))
	}
	if in.Rating < 0 || in.StarCount < 0 || in.Orders < 0 {
		return apperr.Validation("admin.product", "rating, star_count and orders must not be negative")
	}
	return nil
}

// DecodeJSON reads a JSON product body. A data URL image is reduced to
// its base64 payload.
func DecodeJSON(r io.Reader) (ProductInput, error) {
	var in ProductInput
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return ProductInput{}, apperr.Validation("admin.product", "invalid JSON body")
	}
	img, err := normalizeImage(in.Image)
	if err != nil {
		return ProductInput{}, err
	}
	in.Image = img
	return in, nil
}

// DecodeMultipart reads a multipart product form. The optional "image"
// file field is base64-encoded.
func DecodeMultipart(r *http.Request) (ProductInput, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ProductInput{}, apperr.Validation("admin.product", "request body too large")
		}
		return ProductInput{}, apperr.Validation("admin.product", "invalid multipart form")
	}

	in := ProductInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}

	var err error
	if in.CurrentPrice, err = formFloat(r, "current_price"); err != nil {
		return ProductInput{}, err
	}
	if raw := strings.TrimSpace(r.FormValue("old_price")); raw != "" {
		v, err := formFloat(r, "old_price")
		if err != nil {
			return ProductInput{}, err
		}
		in.OldPrice = &v
	}
	if in.Rating, err = formFloat(r, "rating"); err != nil {
		return ProductInput{}, err
	}
	if in.StarCount, err = formInt(r, "star_count"); err != nil {
		return ProductInput{}, err
	}
	if in.Orders, err = formInt(r, "orders"); err != nil {
		return ProductInput{}, err
	}

	file, _, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return in, nil
	case err != nil:
		return ProductInput{}, apperr.Validation("admin.product", "invalid image upload")
	}
	defer file.Close()

	in.Image, err = encodeImage(file)
	if err != nil {
		return ProductInput{}, err
	}
	return in, nil
}

func encodeImage(f multipart.File) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return "", apperr.Validation("admin.product", "invalid image upload")
	}
	if len(raw) > maxImageBytes {
		return "", apperr.Validation("admin.product", "image is too large")
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func normalizeImage(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return "", apperr.Validation("admin.product", "image must be base64 encoded")
		}
		s = s[i+1:]
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return "", apperr.Validation("admin.product", "image must be base64 encoded")
	}
	return s, nil
}

func formFloat(r *http.Request, key string) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.Validation("admin.product", key+" must be a number")
	}
	return v, nil
}

func formInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("admin.product", key+" must be an integer")
	}
	return v, nil
}
