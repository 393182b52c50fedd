package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func Always(logger middleware.LogFormatter, timeout time.Duration, compress int) []func(http.Handler) http.Handler {
	wares := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.RequestLogger(logger),
		middleware.Recoverer,
		middleware.CleanPath,
		middleware.Timeout(timeout),
	}
	if compress > 0 {
		wares = append(wares, middleware.Compress(compress, `application/json`, `text/plain`))
	}
	return wares
}

func Control(logger middleware.LogFormatter, withLogger bool) []func(http.Handler) http.Handler {
	wares := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
	}
	if withLogger {
		wares = append(wares, middleware.RequestLogger(logger))
	}
	wares = append(wares, []func(http.Handler) http.Handler{
		middleware.Recoverer,
		middleware.CleanPath,
		middleware.Timeout(15 * time.Second),
		middleware.Compress(5),
	}...)
	return wares
}
