package shop

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/modules/auth"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
	"github.com/georgemunganga/printa-backoffice/internal/platform/logging"
)

type contextKey string

const (
	scopeKey    contextKey = "shop.scope"
	scopeErrKey contextKey = "shop.scope_err"
)

// Middleware resolves the active shop for authenticated requests. Resolution
// failures are recorded and surfaced by ScopeFromContext, so routes that do
// not need a shop still work without one.
func Middleware(store *CookieStore, svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id, ok := auth.IdentityFromContext(ctx)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			scope, err := svc.Resolve(id.UserID, store.Load(r))
			if err != nil {
				ctx = context.WithValue(ctx, scopeErrKey, err)
			} else {
				ctx = WithScope(ctx, scope)
				ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With(zap.String("shop_id", scope.ShopID.String())))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithScope stores scope on ctx.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// ScopeFromContext returns the resolved scope, or the reason there is none.
func ScopeFromContext(ctx context.Context) (Scope, error) {
	if scope, ok := ctx.Value(scopeKey).(Scope); ok {
		return scope, nil
	}
	if err, ok := ctx.Value(scopeErrKey).(error); ok {
		return Scope{}, err
	}
	if _, ok := auth.IdentityFromContext(ctx); !ok {
		return Scope{}, apperr.ErrUnauthorized
	}
	return Scope{}, apperr.ErrNoShopSelected
}
