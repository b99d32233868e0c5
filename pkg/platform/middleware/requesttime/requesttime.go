// Package requesttime records when a request arrived. Handlers measure the
// duration_ms they log from this instant.
package requesttime

import (
	"net/http"
	"time"

	"containerbase/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
