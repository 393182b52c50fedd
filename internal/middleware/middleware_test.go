package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"gallery/internal/control"
	"gallery/internal/volatile"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`ok`))
})

func TestCorsPreflight(t *testing.T) {
	handler := Cors()(ok)

	req := httptest.NewRequest(http.MethodOptions, `/images/`, nil)
	req.Header.Set(`Origin`, `http://localhost:5501`)
	req.Header.Set(`Access-Control-Request-Method`, `DELETE`)
	req.Header.Set(`Access-Control-Request-Headers`, `content-type`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf(`preflight code = %d`, rec.Code)
	}
	if got := rec.Header().Get(`Access-Control-Allow-Origin`); got != `http://localhost:5501` {
		t.Fatalf(`allow origin = %q`, got)
	}
	if got := rec.Header().Get(`Access-Control-Allow-Headers`); got != `content-type` {
		t.Fatalf(`allow headers = %q`, got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, `/images/`, nil))
	if rec.Code != http.StatusOK || rec.Header().Get(`Access-Control-Allow-Origin`) != `*` {
		t.Fatalf(`simple request: %d %v`, rec.Code, rec.Header())
	}
}

func TestMethodFilter(t *testing.T) {
	reject := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
	handler := MethodFilter(reject, http.MethodGet, http.MethodPost)(ok)

	for method, want := range map[string]int{
		http.MethodGet:    http.StatusOK,
		http.MethodPost:   http.StatusOK,
		http.MethodDelete: http.StatusMethodNotAllowed,
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, `/`, nil))
		if rec.Code != want {
			t.Errorf(`%s -> %d; want %d`, method, rec.Code, want)
		}
		if want == http.StatusMethodNotAllowed && rec.Header().Get(`Allow`) != `GET, POST` {
			t.Errorf(`allow = %q`, rec.Header().Get(`Allow`))
		}
	}
}

func TestDumpKeepsBody(t *testing.T) {
	out := &bytes.Buffer{}
	logger := volatile.NewLogger(control.LogLevelTrace, out)
	var seen string
	handler := Dump(`http`, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		seen = string(data)
	}))

	body := strings.Repeat(`x`, 2000)
	req := httptest.NewRequest(http.MethodPost, `/images/`, strings.NewReader(body))
	req.Header.Set(`X-Probe`, `1`)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != body {
		t.Fatalf(`handler saw %d bytes; want %d`, len(seen), len(body))
	}
	if !strings.Contains(out.String(), `X-Probe`) || !strings.Contains(out.String(), `=== body 1024`) {
		t.Fatalf(`dump output missing: %q`, out.String())
	}
}

func TestPrometheusCountsRequests(t *testing.T) {
	registry := prometheus.NewRegistry()
	handler := Prometheus(`http`, registry)(ok)
	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, `/`, nil))
	}
	count, err := testutil.GatherAndCount(registry, `gallery_http_requests`)
	if err != nil {
		t.Fatalf(`gather: %v`, err)
	}
	if count != 1 {
		t.Fatalf(`series = %d; want one code/method pair`, count)
	}
	expected := `
# HELP gallery_http_requests A counter of total requests
# TYPE gallery_http_requests counter
gallery_http_requests{code="200",method="get"} 3
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), `gallery_http_requests`); err != nil {
		t.Fatalf(`compare: %v`, err)
	}
}
