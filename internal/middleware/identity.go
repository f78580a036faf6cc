package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type IdentityOptions struct {
	// JWTSecret verifies HS256 bearer tokens. Empty disables token auth.
	JWTSecret []byte
	// TrustHeaders accepts X-User-Id/X-User-Email/X-User-Role as set by a
	// gateway in front of the storefront. Ignored when JWTSecret is set.
	TrustHeaders bool
}

type identityClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Identity resolves the caller into a session.Session on the request
// context. Requests without credentials continue anonymously; a bearer
// token that fails verification is rejected with 401.
func Identity(opts IdentityOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var s session.Session

			token, hasToken := bearerToken(r)
			switch {
			case hasToken && len(opts.JWTSecret) > 0:
				parsed, err := parseIdentityToken(token, opts.JWTSecret)
				if err != nil {
					writeErrorBody(w, r, http.StatusUnauthorized, "invalid bearer token", apperr.KindAuthRequired)
					return
				}
				s = parsed
			case opts.TrustHeaders && len(opts.JWTSecret) == 0:
				s = session.Session{
					UserID: strings.TrimSpace(r.Header.Get(HeaderUserID)),
					Email:  strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
					Role:   session.ParseRole(r.Header.Get(HeaderUserRole)),
				}
			}

			if s.Authenticated() {
				s.Key = "user:" + s.UserID
			} else if sid := strings.TrimSpace(r.Header.Get(HeaderSessionID)); sid != "" {
				s.Key = "anon:" + sid
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	t := strings.TrimSpace(h[7:])
	return t, t != ""
}

func parseIdentityToken(raw string, secret []byte) (session.Session, error) {
	claims := &identityClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return session.Session{}, err
	}
	if claims.Subject == "" {
		return session.Session{}, errors.New("token has no subject")
	}
	return session.Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   session.ParseRole(claims.Role),
	}, nil
}

// RequireSession rejects anonymous callers with 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).Authenticated() {
			WriteError(w, r, apperr.AuthRequired(r.URL.Path))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows only sessions carrying the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		if !s.Authenticated() {
			WriteError(w, r, apperr.AuthRequired(r.URL.Path))
			return
		}
		if !s.IsAdmin() {
			WriteError(w, r, apperr.Forbidden(r.URL.Path, "admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
