package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/fleetquote/api/quotes"
	"github.com/kilianp07/fleetquote/config"
	"github.com/kilianp07/fleetquote/core/catalog"
	coremetrics "github.com/kilianp07/fleetquote/core/metrics"
	corekpi "github.com/kilianp07/fleetquote/core/metrics/kpi"
	coremon "github.com/kilianp07/fleetquote/core/monitoring"
	"github.com/kilianp07/fleetquote/core/quotelog"
	"github.com/kilianp07/fleetquote/core/quoting"
	"github.com/kilianp07/fleetquote/infra/kpi"
	"github.com/kilianp07/fleetquote/infra/logger"
	"github.com/kilianp07/fleetquote/infra/metrics"
	"github.com/kilianp07/fleetquote/infra/monitoring"
	"github.com/kilianp07/fleetquote/infra/mqtt"
	"github.com/kilianp07/fleetquote/infra/tolls"
	"github.com/kilianp07/fleetquote/internal/eventbus"
)

// Service wires the quoting service, its sinks and the HTTP API.
type Service struct {
	Quoting  *quoting.Service
	Catalog  *catalog.Catalog
	Settings *quoting.StaticSettings
	QuoteLog quotelog.Store
	KPI      corekpi.Store
	Handler  http.Handler

	cfg       *config.Config
	bus       *eventbus.Bus
	sink      coremetrics.QuoteSink
	collector <-chan struct{}
	cancel    context.CancelFunc
	log       logger.Logger
}

// New creates a Service from the configuration. Metrics are recorded off
// the request path: the quoting service publishes to an event bus drained
// by a collector into the configured sinks.
func New(cfg *config.Config) (*Service, error) {
	logger.Configure(cfg.Logging.Format, cfg.Logging.Level)
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, err
	}
	coremon.Init(mon)

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	cat, err := NewCatalog(cfg)
	if err != nil {
		return nil, err
	}

	sink, err := coremetrics.NewQuoteSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	kpis, err := kpi.Open(cfg.KPI.Path)
	if err != nil {
		return nil, fmt.Errorf("kpi store: %w", err)
	}
	sinks := []coremetrics.QuoteSink{sink, corekpi.Sink{Store: kpis}}
	if cfg.MQTT.Broker != "" {
		publisher, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		sinks = append(sinks, publisher)
	}
	sink = coremetrics.NewMultiSink(sinks...)

	store, err := quotelog.NewStore(cfg.QuoteLog)
	if err != nil {
		return nil, fmt.Errorf("quote log: %w", err)
	}

	var estimator quoting.TollEstimator = quoting.HeuristicTolls{
		PerKm:          cfg.Tolls.PerKm,
		CategoryFactor: cfg.Tolls.CategoryFactor,
	}
	if cfg.Tolls.Service.URL != "" {
		client, err := tolls.NewClient(cfg.Tolls.Service)
		if err != nil {
			return nil, err
		}
		estimator = quoting.FallbackTolls{Primary: client, Fallback: estimator, Log: logg}
	}

	bus := eventbus.New()
	static := quoting.NewStaticSettings(settings)
	svc, err := quoting.NewService(cat, static, estimator, metrics.BusSink{Bus: bus}, logger.New("quoting"))
	if err != nil {
		return nil, err
	}
	svc.SetQuoteLog(store)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		Quoting:  svc,
		Catalog:  cat,
		Settings: static,
		QuoteLog: store,
		KPI:      kpis,
		cfg:      cfg,
		bus:      bus,
		sink:     sink,
		cancel:   cancel,
		log:      logg,
	}
	s.collector = metrics.StartEventCollector(ctx, bus, sink, logger.New("metrics"))
	s.Handler = quotes.NewRouter(quotes.Options{
		Service:        svc,
		Vehicles:       cat,
		Settings:       static,
		QuoteLog:       store,
		KPI:            kpis,
		Monitor:        mon,
		Logger:         logger.New("api"),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})
	return s, nil
}

// NewCatalog returns the stock catalog extended with the fleet file.
func NewCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat := catalog.NewWithStock()
	if cfg.FleetFile == "" {
		return cat, nil
	}
	fleet, err := config.LoadVehicles(cfg.FleetFile)
	if err != nil {
		return nil, err
	}
	for _, v := range fleet {
		if err := cat.Upsert(v); err != nil {
			return nil, fmt.Errorf("fleet vehicle %s: %w", v.ID, err)
		}
	}
	return cat, nil
}

// Run serves the API, and the Prometheus endpoint when configured, until
// the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.Handler,
		ReadHeaderTimeout: s.cfg.HTTP.ReadTimeout,
		ReadTimeout:       s.cfg.HTTP.ReadTimeout,
		WriteTimeout:      s.cfg.HTTP.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close drains pending metrics events and releases resources held by the
// service.
func (s *Service) Close() error {
	s.bus.Close()
	<-s.collector
	s.cancel()
	if n := s.bus.Dropped(); n > 0 {
		s.log.Warnf("%d metrics events dropped", n)
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return s.QuoteLog.Close()
}
