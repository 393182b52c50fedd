package gallery

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"gallery/internal/model"
)

type Metrics struct {
	operations *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: `gallery_operations`,
			Help: `A counter of image operations by outcome`,
		}, []string{`op`, `result`}),
	}
	registerer.MustRegister(metrics.operations)
	return metrics
}

func (metrics *Metrics) observe(op string, err error) {
	if metrics == nil {
		return
	}
	metrics.operations.WithLabelValues(op, Outcome(err)).Inc()
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return `ok`
	case errors.Is(err, model.ErrInvalidPath):
		return `invalid_path`
	case errors.Is(err, model.ErrInvalidFormat):
		return `invalid_format`
	case errors.Is(err, model.ErrAlreadyExists):
		return `exists`
	case errors.Is(err, model.ErrNotFound):
		return `not_found`
	}
	return `error`
}
