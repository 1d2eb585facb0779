package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/config"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/clock"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/idgen"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events/amqpsink"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events/mqttsink"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events/redissink"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events/sse"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/metrics"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/allocation"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/arrangement"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/autosave"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/directory"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/session"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/viewstate"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage/memory"
	redisstorage "github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage/redis"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage/sqlstore"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   idgen.Generator

	// Observability
	Metrics        metrics.Collector
	MetricsHandler http.Handler

	// Events
	Dispatcher *events.Dispatcher
	HubManager *sse.HubManager

	// Services
	DirectoryService   *directory.Service
	ArrangementService *arrangement.Service
	ViewStateService   *viewstate.Service
	SessionManager     *session.Manager

	logger  *slog.Logger
	closers []io.Closer
}

// Options are the wiring choices that do not come from the config file
type Options struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Registry receives the metrics (optional)
	// If nil and metrics are enabled, a fresh registry is created
	Registry *prometheus.Registry
}

// New creates a new application with all dependencies wired from cfg
func New(cfg *config.Config, opts Options) (*App, error) {
	// Use no-op logger if not provided
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var closers []io.Closer
	fail := func(err error) (*App, error) {
		closeAll(closers, logger)
		return nil, err
	}

	// Create storage based on type
	var store storage.Storage
	var redisClient *goredis.Client
	switch cfg.Storage.Type {
	case config.StorageMemory, "":
		store = memory.New()
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.Redis.URL
		if cfg.Storage.Redis.PoolSize > 0 {
			redisCfg.PoolSize = cfg.Storage.Redis.PoolSize
		}
		redisCfg.ViewStateTTL = cfg.Storage.Redis.ViewStateTTL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return fail(fmt.Errorf("connecting to redis: %w", err))
		}
		closers = append(closers, redisStore)
		redisClient = redisStore.Client()
		store = redisStore
	case config.StorageSQL:
		sqlCfg := sqlstore.DefaultConfig()
		sqlCfg.Driver = cfg.Storage.SQL.Driver
		sqlCfg.DSN = cfg.Storage.SQL.DSN
		if cfg.Storage.SQL.MaxOpenConns > 0 {
			sqlCfg.MaxOpenConns = cfg.Storage.SQL.MaxOpenConns
		}
		sqlStore, err := sqlstore.Open(sqlCfg)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, sqlStore)
		store = sqlStore
	default:
		return fail(fmt.Errorf("invalid storage type %q", cfg.Storage.Type))
	}

	// Create directory source
	var source directory.Source
	switch cfg.Directory.Type {
	case config.DirectoryStorage, "":
		source = directory.NewStorageSource(store)
	case config.DirectoryHTTP:
		source = directory.NewHTTPSource(cfg.Directory.URL, cfg.Directory.Token, cfg.Directory.Timeout)
	default:
		return fail(fmt.Errorf("invalid directory type %q", cfg.Directory.Type))
	}

	// Create metrics
	var collector metrics.Collector = metrics.NewNop()
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		reg := opts.Registry
		if reg == nil {
			reg = prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		}
		promCollector, err := metrics.NewPrometheus(reg, cfg.Metrics.Namespace)
		if err != nil {
			return fail(fmt.Errorf("registering metrics: %w", err))
		}
		collector = promCollector
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	clk := clock.New()

	// Create event sinks
	hubManager := sse.NewHubManager(logger)
	sinks := []events.Sink{sse.NewSink(hubManager)}

	if cfg.Events.Redis.Enabled {
		client := redisClient
		if cfg.Events.Redis.URL != "" {
			redisOpts, err := goredis.ParseURL(cfg.Events.Redis.URL)
			if err != nil {
				return fail(fmt.Errorf("parsing events redis url: %w", err))
			}
			client = goredis.NewClient(redisOpts)
			closers = append(closers, client)
		}
		if client == nil {
			return fail(errors.New("redis event sink needs events.redis.url or redis storage"))
		}
		sinks = append(sinks, redissink.New(client, cfg.Events.Redis.ChannelPrefix))
	}

	if cfg.Events.AMQP.Enabled {
		amqpSink, err := amqpsink.Dial(cfg.Events.AMQP.URL, cfg.Events.AMQP.Queue, clk)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, amqpSink)
		sinks = append(sinks, amqpSink)
	}

	if cfg.Events.MQTT.Enabled {
		mqttSink, err := mqttsink.Connect(mqttsink.Config{
			Broker:      cfg.Events.MQTT.Broker,
			ClientID:    cfg.Events.MQTT.ClientID,
			Username:    cfg.Events.MQTT.Username,
			Password:    cfg.Events.MQTT.Password,
			TopicPrefix: cfg.Events.MQTT.TopicPrefix,
			QoS:         byte(cfg.Events.MQTT.QoS),
		})
		if err != nil {
			return fail(err)
		}
		closers = append(closers, mqttSink)
		sinks = append(sinks, mqttSink)
	}

	eligibility, ok := allocation.ParseEligibility(cfg.Seating.Eligibility)
	if !ok {
		return fail(fmt.Errorf("invalid eligibility %q", cfg.Seating.Eligibility))
	}

	sessionCfg := session.Config{
		Eligibility: eligibility,
		AutoSave: autosave.Config{
			QuietPeriod: cfg.AutoSave.QuietPeriod,
			SaveTimeout: cfg.AutoSave.SaveTimeout,
		},
		IdleTimeout: cfg.Seating.IdleTimeout,
	}

	dispatcher := events.NewDispatcher(cfg.Events.BufferSize, cfg.Events.PublishTimeout, collector, logger, sinks...)
	go dispatcher.Run()

	app := newWithDependencies(store, source, clk, idgen.New(), collector, dispatcher, hubManager, sessionCfg, cfg.ViewState.Delay, logger)
	app.MetricsHandler = metricsHandler
	app.closers = closers

	logger.Info("application wired",
		slog.String("storage", cfg.Storage.Type),
		slog.String("directory", cfg.Directory.Type),
		slog.Int("event_sinks", len(sinks)),
		slog.Bool("metrics", cfg.Metrics.Enabled),
	)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	source directory.Source,
	clk clock.Clock,
	ids idgen.Generator,
	collector metrics.Collector,
	dispatcher *events.Dispatcher,
	hubManager *sse.HubManager,
	sessionCfg session.Config,
	viewStateDelay time.Duration,
	logger *slog.Logger,
) *App {
	directoryService := directory.New(source, logger)
	arrangementService := arrangement.New(store, clk, ids, logger)
	viewStateService := viewstate.New(store, clk, viewStateDelay, logger)
	sessionManager := session.NewManager(directoryService, arrangementService, dispatcher, clk, ids, collector, logger, sessionCfg)

	return &App{
		Storage:            store,
		Clock:              clk,
		IDs:                ids,
		Metrics:            collector,
		Dispatcher:         dispatcher,
		HubManager:         hubManager,
		DirectoryService:   directoryService,
		ArrangementService: arrangementService,
		ViewStateService:   viewStateService,
		SessionManager:     sessionManager,
		logger:             logger,
	}
}

// Close saves every session, flushes view state and releases connections
func (a *App) Close(ctx context.Context) error {
	err := a.SessionManager.Close(ctx)
	a.ViewStateService.Flush(ctx)
	a.Dispatcher.Close()
	a.HubManager.CloseAll()
	closeAll(a.closers, a.logger)
	return err
}

func closeAll(closers []io.Closer, logger *slog.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Warn("failed to close resource", slog.String("error", err.Error()))
		}
	}
}
