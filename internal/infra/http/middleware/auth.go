package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type contextKey struct{}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// ErrorWriter renders a failed authentication.
type ErrorWriter func(w http.ResponseWriter, err error)

// Authenticate resolves the bearer token on every request and stores the
// caller on the context. Requests without a valid token never reach next.
func Authenticate(auth Authenticator, fail ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				fail(w, usecase.ErrInvalidToken)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				fail(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func WithUser(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func UserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*entity.User)
	return user, ok && user != nil
}
