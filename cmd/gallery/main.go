package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gallery/internal/api"
	"gallery/internal/control"
	"gallery/internal/gallery"
	"gallery/internal/handler"
	"gallery/internal/middleware"
	"gallery/internal/sandbox"
	"gallery/internal/volatile"
)

type Flags struct {
	BaseUrl         *string
	Compression     *int
	Ctrl            *string
	CtrlLogger      *bool
	ctrlEnabled     bool
	Dump            *bool
	Hostname        *string
	Http            *string
	LogLevel        *string
	MaxUpload       *int64
	Prometheus      *bool
	Root            *string
	TimeoutIdle     *time.Duration
	TimeoutRead     *time.Duration
	TimeoutRequest  *time.Duration
	TimeoutShutdown *time.Duration
	TimeoutWrite    *time.Duration
}

type Service struct {
	label    string
	scheme   string
	features []string
	server   *http.Server
}
type Services []Service

const (
	defBaseUrl = `http://localhost:8000`
	envBaseUrl = `GALLERY_BASE_URL`
)
const (
	defCtrlAddress = ``
	envCtrlAddress = `GALLERY_CTRL`
)
const (
	defHttpAddress = `localhost:8000`
	envHttpAddress = `GALLERY_HTTP`
)
const (
	defRoot = `images`
	envRoot = `GALLERY_ROOT`
)

func main() {
	// logger
	logger := volatile.NewLogger(control.LogLevelInfo, os.Stdout)

	// boot
	hostname, err := os.Hostname()
	if err != nil {
		logger.Fatal(`hostname: error: %s`, err)
	}
	logger.Info(`gallery %s`, hostname)

	// flags
	flags := Flags{
		BaseUrl:         flag.String(`base-url`, ``, `specifies the base url used to build public image links`),
		Compression:     flag.Int(`compression`, 5, `specifies the compression level (0 disables)`),
		Ctrl:            flag.String(`ctrl`, ``, `specifies the bind address for the ctrl service`),
		CtrlLogger:      flag.Bool(`ctrl-logger`, false, `enable ctrl logging`),
		Dump:            flag.Bool(`dump`, false, `dump request headers and bodies at trace level`),
		Hostname:        flag.String(`hostname`, hostname, `specifies the hostname`),
		Http:            flag.String(`http`, ``, `specifies the bind address for the http service`),
		LogLevel:        flag.String(`log-level`, `info`, `specifies the logging level`),
		MaxUpload:       flag.Int64(`max-upload`, 32<<20, `specifies the maximum upload request size in bytes (0 disables)`),
		Prometheus:      flag.Bool(`prometheus`, false, `enable prometheus`),
		Root:            flag.String(`root`, ``, `specifies the image root directory`),
		TimeoutIdle:     flag.Duration(`timeout-idle`, 5*time.Second, `specifies the request idle timeout duration`),
		TimeoutRead:     flag.Duration(`timeout-read`, 30*time.Second, `specifies the request read timeout duration`),
		TimeoutRequest:  flag.Duration(`timeout-request`, 60*time.Second, `specifies the request timeout duration`),
		TimeoutShutdown: flag.Duration(`timeout-shutdown`, 5*time.Second, `specifies the shutdown timeout`),
		TimeoutWrite:    flag.Duration(`timeout-write`, 60*time.Second, `specifies the response write timeout duration`),
	}
	flag.Parse()

	// env
	{
		first := func(list ...string) *string {
			for _, value := range list {
				if value != `` {
					return &value
				}
			}
			empty := ``
			return &empty
		}

		flags.BaseUrl = first(*flags.BaseUrl, os.Getenv(envBaseUrl), defBaseUrl)
		flags.Ctrl = first(*flags.Ctrl, os.Getenv(envCtrlAddress), defCtrlAddress)
		flags.Http = first(*flags.Http, os.Getenv(envHttpAddress), defHttpAddress)
		flags.Root = first(*flags.Root, os.Getenv(envRoot), defRoot)
	}

	// validate
	flags.ctrlEnabled = *flags.Ctrl != ``
	if *flags.LogLevel != `` {
		if err := logger.SetLevelFromString(*flags.LogLevel); err != nil {
			logger.Fatal(`log level error: %s`, err)
		}
	}
	if *flags.Http == `` {
		logger.Fatal(`-http must not be empty`)
	}

	// root
	root, err := sandbox.Open(*flags.Root)
	if err != nil {
		logger.Fatal(`root error: %s`, err)
	}
	logger.Info(`root %s`, root.Dir())

	// metrics
	registry := prometheus.NewRegistry()
	var metrics *gallery.Metrics
	if *flags.Prometheus {
		registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
		metrics = gallery.NewMetrics(registry)
	}

	// stores
	images := gallery.New(root, *flags.BaseUrl, logger, metrics)
	personas := volatile.NewPersonas()
	faqs := volatile.NewFaqs()

	// services
	var services Services

	// http
	{
		features := []string{`cors`}
		router := chi.NewRouter()
		router.Use(middleware.Always(volatile.NewLogFormatter(`http`, logger), *flags.TimeoutRequest, *flags.Compression)...)
		if *flags.Prometheus {
			router.Use(middleware.Prometheus(`http`, registry))
			features = append(features, `prometheus`)
		}
		if *flags.Dump {
			router.Use(middleware.Dump(`http`, logger))
			features = append(features, `dump`)
		}
		router.Use(middleware.Cors())
		api.New(images, personas, faqs, logger, *flags.MaxUpload).Routes(router)
		router.NotFound(handler.Cocytus)
		router.MethodNotAllowed(handler.Verboten)
		sort.Strings(features)
		services = append(services, Service{label: `http`, scheme: `http`, features: features, server: &http.Server{
			Addr:         *flags.Http,
			Handler:      router,
			ErrorLog:     log.New(control.NewHttpLogWriter(logger), ``, 0),
			IdleTimeout:  *flags.TimeoutIdle,
			ReadTimeout:  *flags.TimeoutRead,
			WriteTimeout: *flags.TimeoutWrite,
		}})
	}

	// ctrl
	if flags.ctrlEnabled {
		features := []string{}
		router := chi.NewRouter()
		router.Use(middleware.Control(volatile.NewLogFormatter(`ctrl`, logger), *flags.CtrlLogger)...)
		router.Route(`/metrics`, func(router chi.Router) {
			if *flags.Prometheus {
				router.Mount(`/prometheus`, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
				features = append(features, `prometheus`)
			}
		})
		router.With(middleware.MethodFilter(handler.Verboten, http.MethodGet, http.MethodPost)).
			HandleFunc(`/logging`, handler.Log(logger))
		router.NotFound(handler.Cocytus)
		sort.Strings(features)
		services = append(services, Service{label: `ctrl`, scheme: `http`, features: features, server: &http.Server{
			Addr:         *flags.Ctrl,
			Handler:      router,
			ErrorLog:     log.New(control.NewHttpLogWriter(logger), ``, 0),
			IdleTimeout:  *flags.TimeoutIdle,
			ReadTimeout:  *flags.TimeoutRead,
			WriteTimeout: *flags.TimeoutWrite,
		}})
	} else {
		logger.Info(`ctrl.disabled`)
	}

	// start
	for _, service := range services {
		service := service
		go func() {
			connect := service.server.Addr
			if strings.IndexRune(connect, ':') == 0 {
				connect = *flags.Hostname + connect
			}
			features := ``
			if len(service.features) > 0 {
				features = ` ` + strings.Join(service.features, ` `)
			}
			logger.Info(`%s.up %s://%s/%s`, service.label, service.scheme, connect, features)
			if err := service.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error(`%s.serve error: %s`, service.label, err)
			} else {
				logger.Info(`%s.down`, service.label)
			}
		}()
	}

	// into the beyond
	<-func(signals chan os.Signal) <-chan os.Signal {
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		return signals
	}(make(chan os.Signal, 1))

	// halt
	wg := sync.WaitGroup{}
	for _, service := range services {
		service := service
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), *flags.TimeoutShutdown)
			defer cancel()
			if err := service.server.Shutdown(ctx); err != nil {
				logger.Error(`%s.shutdown error: %s`, service.label, err)
			}
		}()
	}
	wg.Wait()
}
