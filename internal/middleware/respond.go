package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
)

type ErrorBody struct {
	Error         string `json:"error"`
	Kind          string `json:"kind,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// WriteError renders err as the storefront's JSON error body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorBody(w, r, apperr.HTTPStatus(err), apperr.Message(err), apperr.KindOf(err))
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, msg string, kind apperr.Kind) {
	body := ErrorBody{
		Error:         msg,
		CorrelationID: GetCorrelationID(r.Context()),
	}
	if kind != apperr.KindUnknown {
		body.Kind = kind.String()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
