// Package session carries the caller's identity through a request context.
// The role travels with the request; nothing in the storefront keeps a
// process-wide notion of who is an admin.
package session

import (
	"context"
	"strings"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole maps free-form role claims onto a Role. Anything that is not
// "admin" is a customer.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleCustomer
}

type Session struct {
	UserID string
	Email  string
	Role   Role
	// Key identifies the caller's ephemeral state: the user id once signed
	// in, otherwise a client-chosen session id. Empty means stateless.
	Key string
}

func (s Session) Authenticated() bool { return s.UserID != "" }

func (s Session) IsAdmin() bool { return s.Authenticated() && s.Role == RoleAdmin }

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session, or an anonymous one.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok {
		return s
	}
	return Session{}
}
