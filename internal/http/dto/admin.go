package dto

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateProductResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
