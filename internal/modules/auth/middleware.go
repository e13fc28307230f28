package auth

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
	"github.com/georgemunganga/printa-backoffice/internal/platform/httpx"
	"github.com/georgemunganga/printa-backoffice/internal/platform/logging"
)

// Middleware rejects requests without a valid bearer token and stores the identity on the context.
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				httpx.Error(w, r, fmt.Errorf("%w: bearer token required", apperr.ErrUnauthorized))
				return
			}
			id, err := v.Verify(token)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			ctx := WithIdentity(r.Context(), id)
			ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With(zap.String("user_id", id.UserID.String())))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MustIdentity returns the caller identity or ErrUnauthorized.
func MustIdentity(r *http.Request) (*Identity, error) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	return id, nil
}
