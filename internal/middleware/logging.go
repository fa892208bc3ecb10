package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request, tagged with the caller when the
// gateway passed an identity along.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			user := r.Header.Get(UserIDHeader)
			if user == "" {
				user = "-"
			}
			log.Printf(
				"http: %s %s %d %s %s user=%s",
				r.Method,
				r.URL.Path,
				ww.Status(),
				time.Since(start),
				r.RemoteAddr,
				user,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
