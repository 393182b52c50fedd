package middleware

import (
	"bytes"
	"encoding/hex"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"gallery/internal/control"
)

// Dump writes request headers and the first kilobyte of the body to the trace
// log. The body is handed on to next intact.
func Dump(label string, logger control.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger.Level() > control.LogLevelTrace {
				next.ServeHTTP(w, r)
				return
			}
			reqID := middleware.GetReqID(r.Context())

			keys := make([]string, 0, len(r.Header))
			for k := range r.Header {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Trace(`%-5s %s === headers`, label, reqID)
			for _, key := range keys {
				vals := r.Header[key]
				if len(vals) == 1 {
					logger.Trace(`%-5s %s >>> %-20s %s`, label, reqID, key, vals[0])
				} else {
					logger.Trace(`%-5s %s >>> %-20s %+v`, label, reqID, key, vals)
				}
			}
			if r.Body != nil {
				body, err := io.ReadAll(io.LimitReader(r.Body, 1024))
				if err != nil {
					logger.Error(`%-5s %s %s`, label, reqID, err)
				} else if len(body) > 0 {
					logger.Trace(`%-5s %s === body %d`, label, reqID, len(body))
					for _, s := range strings.Split(hex.Dump(body), "\n") {
						if len(s) > 0 {
							logger.Trace(`%-5s %s >>> %s`, label, reqID, s)
						}
					}
				}
				r.Body = struct {
					io.Reader
					io.Closer
				}{io.MultiReader(bytes.NewReader(body), r.Body), r.Body}
			}
			next.ServeHTTP(w, r)
		})
	}
}
