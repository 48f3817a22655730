package gateway

import (
	"context"
	"net/http"
)

type exemptContextKey struct{}

// WithExemption marks ctx so Forward does not count it against the quota.
func WithExemption(ctx context.Context) context.Context {
	return context.WithValue(ctx, exemptContextKey{}, true)
}

func exempted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	ok, _ := ctx.Value(exemptContextKey{}).(bool)
	return ok
}

// Middleware marks requests on exempt paths. It never counts or denies;
// admission happens in Forward once a request has passed validation.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.Exempt(r.URL.Path) {
			r = r.WithContext(WithExemption(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}
