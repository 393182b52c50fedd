package middleware

import (
	"net/http"
)

// Cors allows every origin, method and header. Preflight requests are answered
// directly.
func Cors() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := w.Header()
			origin := r.Header.Get(`Origin`)
			if origin == `` {
				header.Set(`Access-Control-Allow-Origin`, `*`)
			} else {
				header.Set(`Access-Control-Allow-Origin`, origin)
				header.Set(`Access-Control-Allow-Credentials`, `true`)
				header.Add(`Vary`, `Origin`)
			}
			if r.Method == http.MethodOptions && r.Header.Get(`Access-Control-Request-Method`) != `` {
				header.Set(`Access-Control-Allow-Methods`, `GET, POST, PUT, DELETE, OPTIONS`)
				if requested := r.Header.Get(`Access-Control-Request-Headers`); requested != `` {
					header.Set(`Access-Control-Allow-Headers`, requested)
				}
				header.Set(`Access-Control-Max-Age`, `600`)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
