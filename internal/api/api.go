package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gallery/internal/control"
	"gallery/internal/gallery"
	"gallery/internal/handler"
	"gallery/internal/model"
	"gallery/internal/volatile"
)

const maxJsonBody = 1 << 20

type Api struct {
	gallery   gallery.Gallery
	personas  *volatile.Personas
	faqs      *volatile.Faqs
	logger    control.Logger
	maxUpload int64
}

func New(gallery gallery.Gallery, personas *volatile.Personas, faqs *volatile.Faqs, logger control.Logger, maxUpload int64) Api {
	api := Api{
		gallery:   gallery,
		personas:  personas,
		faqs:      faqs,
		logger:    logger,
		maxUpload: maxUpload,
	}
	return api
}

func (api Api) Routes(router chi.Router) {
	router.Route(`/images`, api.imageRoutes)
	router.Route(`/personas`, api.personaRoutes)
	router.Route(`/preguntas-frecuentes`, api.faqRoutes)
}

// fail maps the error taxonomy onto status codes. Unexpected errors are logged
// with their cause and reported without it.
func (api Api) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		handler.Detail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidPath),
		errors.Is(err, model.ErrInvalidFormat),
		errors.Is(err, model.ErrAlreadyExists),
		errors.Is(err, model.ErrInvalidInput):
		handler.Detail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		api.logger.Warn(`api %s %s abandoned: %s`, r.Method, r.URL.Path, err)
		handler.Detail(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
	default:
		api.logger.Error(`api %s %s error: %s`, r.Method, r.URL.Path, err)
		handler.Detail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func decodeJson(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJsonBody))
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf(`body: %s: %w`, err, model.ErrInvalidInput)
	}
	return nil
}

func idParam(r *http.Request) (int, error) {
	text := chi.URLParam(r, `id`)
	id, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf(`id "%s": %w`, text, model.ErrInvalidInput)
	}
	return id, nil
}

// wildcard returns the decoded remainder of the route. chi routes on RawPath
// when the request carries one, leaving the value escaped.
func wildcard(r *http.Request) (string, error) {
	value := chi.URLParam(r, `*`)
	if r.URL.RawPath == `` {
		return value, nil
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return ``, fmt.Errorf(`path "%s": %w`, value, model.ErrInvalidPath)
	}
	return decoded, nil
}
