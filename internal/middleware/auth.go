// Package middleware contains the HTTP middleware of the storefront.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/giyimsepeti/storefront-system/internal/model"
)

type contextKey string

const userKey contextKey = "authUser"

// UserResolver maps a bearer token to its account.
type UserResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

// AuthMiddleware authenticates requests by their Authorization bearer
// token.
type AuthMiddleware struct {
	resolver UserResolver
}

// NewAuthMiddleware creates an AuthMiddleware over the given resolver.
func NewAuthMiddleware(resolver UserResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireUser rejects requests without a valid session token and puts
// the resolved user into the request context.
func (a *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.authenticate(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Bu islem icin giris yapmalisiniz.")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// RequireAdmin additionally rejects non-administrator accounts.
func (a *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.authenticate(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Bu islem icin giris yapmalisiniz.")
			return
		}
		if !user.IsAdmin {
			writeMessage(w, http.StatusForbidden, "Bu islem icin admin yetkisi gereklidir.")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func (a *AuthMiddleware) authenticate(r *http.Request) (*model.User, bool) {
	token := BearerToken(r)
	if token == "" {
		return nil, false
	}

	user, err := a.resolver.ResolveToken(r.Context(), token)
	if err != nil {
		return nil, false
	}
	return user, true
}

// BearerToken extracts the bearer token from the Authorization header,
// or returns an empty string.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func withUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user from the request
// context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
