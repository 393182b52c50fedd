package middleware

import (
	"net/http"
	"strings"
)

// MethodFilter passes allowed methods through and hands everything else to
// reject with an Allow header set.
func MethodFilter(reject http.Handler, allowed ...string) func(http.Handler) http.Handler {
	allow := strings.Join(allowed, `, `)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, method := range allowed {
				if r.Method == method {
					next.ServeHTTP(w, r)
					return
				}
			}
			w.Header().Set(`Allow`, allow)
			reject.ServeHTTP(w, r)
		})
	}
}
