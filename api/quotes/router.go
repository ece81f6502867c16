// Package quotes exposes the quoting service over HTTP.
package quotes

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/fleetquote/core/catalog"
	"github.com/kilianp07/fleetquote/core/logger"
	"github.com/kilianp07/fleetquote/core/metrics/kpi"
	"github.com/kilianp07/fleetquote/core/model"
	"github.com/kilianp07/fleetquote/core/monitoring"
	"github.com/kilianp07/fleetquote/core/quotelog"
	"github.com/kilianp07/fleetquote/core/quoting"
	infralogger "github.com/kilianp07/fleetquote/infra/logger"
)

// VehicleStore is the part of the catalog the API reads and writes.
// *catalog.Catalog satisfies it.
type VehicleStore interface {
	List(q catalog.Query) []model.Vehicle
	Upsert(v model.Vehicle) error
}

// Options configures the router.
type Options struct {
	Service  *quoting.Service
	Vehicles VehicleStore
	// Settings backs the settings endpoints and vehicle ranking.
	Settings *quoting.StaticSettings
	// QuoteLog serves GET /api/quotes/log. Nil disables the endpoint.
	QuoteLog quotelog.Store
	// KPI serves GET /api/kpi/{vehicleID}. Nil disables the endpoint.
	KPI            kpi.Store
	Monitor        monitoring.Monitor
	Logger         logger.Logger
	AllowedOrigins []string
}

type handler struct {
	svc      *quoting.Service
	vehicles VehicleStore
	settings *quoting.StaticSettings
	log      quotelog.Store
	kpi      kpi.Store
	monitor  monitoring.Monitor
	logger   logger.Logger
	validate *validator.Validate
}

// NewRouter returns the HTTP handler of the API.
func NewRouter(opts Options) http.Handler {
	h := &handler{
		svc:      opts.Service,
		vehicles: opts.Vehicles,
		settings: opts.Settings,
		log:      opts.QuoteLog,
		kpi:      opts.KPI,
		monitor:  opts.Monitor,
		logger:   opts.Logger,
		validate: newValidator(),
	}
	if h.monitor == nil {
		h.monitor = monitoring.NopMonitor{}
	}
	if h.logger == nil {
		h.logger = infralogger.NopLogger{}
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.health)
	r.Route("/api", func(api chi.Router) {
		api.Post("/quotes", h.quote)
		api.Post("/quotes/simulate", h.simulate)
		api.Get("/quotes/log", h.quoteLog)
		api.Get("/vehicles", h.listVehicles)
		api.Get("/vehicles/suitable", h.suitableVehicles)
		api.Put("/vehicles/{id}", h.upsertVehicle)
		api.Get("/settings", h.getSettings)
		api.Put("/settings", h.putSettings)
		api.Get("/kpi/{vehicleID}", h.vehicleKPI)
	})
	return r
}

// newValidator reports field errors with their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debugw("http request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			})
		})
	}
}
