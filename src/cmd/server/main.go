package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	httpadapter "orghierarchy/src/adapters/http"
	"orghierarchy/src/domain"
	"orghierarchy/src/helper/env"
	"orghierarchy/src/infra/kafka"
	"orghierarchy/src/infra/redis"
	"orghierarchy/src/repositories"
	"orghierarchy/src/services/datagen"
	"orghierarchy/src/services/engines"
	"orghierarchy/src/services/query"
	"orghierarchy/src/services/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting org hierarchy server with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newLogger,
			newDataset,
			newEntityStore,
			newMetricsRegistry,
			newRecorder,
			fx.Annotate(newGraphEngine, fx.ResultTags(`group:"engines"`)),
			fx.Annotate(newRelationalEngine, fx.ResultTags(`group:"engines"`)),
			fx.Annotate(newMirrorEngines, fx.ResultTags(`group:"engines,flatten"`)),
			fx.Annotate(newQueryService, fx.ParamTags(``, ``, ``, `group:"engines"`)),
			newHTTPQuerier,
			newServer,
		),

		// Invocations
		fx.Invoke(registerServerHooks),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application: %v", err)
	}
}

func newLogger() *slog.Logger {
	logLevel := env.GetString("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// newDataset lê DATASET_FILE quando definido; senão usa a organização de
// exemplo, ou uma gerada quando SEED_SIZE > 0.
func newDataset(logger *slog.Logger) (domain.Dataset, error) {
	if path := env.GetString("DATASET_FILE", ""); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("failed to open dataset file: %w", err)
		}
		defer file.Close()

		logger.Info("Loading dataset file", "path", path)
		return datagen.ReadDataset(file)
	}

	seedSize := env.GetInt("SEED_SIZE", 0)
	if seedSize <= 0 {
		logger.Info("Loading sample dataset")
		return datagen.SampleDataset(), nil
	}

	seed := int64(env.GetInt("SEED", 42))
	logger.Info("Generating random dataset", "size", seedSize, "seed", seed)
	return datagen.RandomDataset(seedSize, seed), nil
}

func newEntityStore(logger *slog.Logger, dataset domain.Dataset) (*repositories.EntityStore, error) {
	store, err := repositories.Load(dataset)
	if err != nil {
		var loadErr *domain.LoadError
		if errors.As(err, &loadErr) {
			for _, v := range loadErr.Violations {
				logger.Error("Dataset violation", "rule", v.Rule, "kind", v.Kind, "id", v.ID, "detail", v.Detail)
			}
		}
		return nil, err
	}

	logger.Info("Entity store loaded",
		"snapshot_id", store.SnapshotID(),
		"employees", store.Size(),
		"departments", len(store.Departments()))
	return store, nil
}

func newMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

// newRecorder sempre exporta métricas; com KAFKA_BROKERS também publica um
// evento por consulta.
func newRecorder(lc fx.Lifecycle, logger *slog.Logger, registry *prometheus.Registry) (telemetry.Recorder, error) {
	recorders := telemetry.MultiRecorder{telemetry.NewPrometheusRecorder(registry)}

	brokers := env.GetStringSlice("KAFKA_BROKERS")
	if len(brokers) == 0 {
		return recorders, nil
	}

	client, err := kafka.NewKafkaClient(brokers, logger)
	if err != nil {
		return nil, err
	}

	publisher := telemetry.NewQueryEventPublisher(
		logger,
		client,
		env.GetString("KAFKA_QUERY_EVENTS_TOPIC", "org-hierarchy.query-events"),
		env.GetInt("KAFKA_BATCH_SIZE", 100),
		env.GetDuration("KAFKA_FLUSH_INTERVAL", 2*time.Second),
	)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				publisher.Run(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			<-done
			return client.Close()
		},
	})

	return append(recorders, publisher), nil
}

func newGraphEngine(store *repositories.EntityStore) engines.TraversalEngine {
	return engines.NewGraphEngine(store)
}

func newRelationalEngine(store *repositories.EntityStore) engines.TraversalEngine {
	return engines.NewRelationalEngine(store)
}

func newQueryService(
	logger *slog.Logger,
	store *repositories.EntityStore,
	recorder telemetry.Recorder,
	traversalEngines []engines.TraversalEngine,
) *query.QueryService {
	service := query.NewQueryService(logger, store, recorder, traversalEngines...)
	logger.Info("Query service ready", "backends", service.Backends())
	return service
}

// newHTTPQuerier coloca o cache Redis na frente da fachada quando
// REDIS_HOSTS está configurado.
func newHTTPQuerier(lc fx.Lifecycle, logger *slog.Logger, service *query.QueryService) httpadapter.Querier {
	redisAddrs := env.GetStringSlice("REDIS_HOSTS")
	if len(redisAddrs) == 0 {
		return service
	}

	redisClient := redis.NewRedisClient(
		redisAddrs,
		env.GetInt("REDIS_POOL_SIZE", 10),
		env.GetDuration("REDIS_TTL", 10*time.Minute),
	)
	cached := query.NewCachedQueryService(logger, service, redisClient)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// O snapshot morre com o processo
			if err := cached.InvalidateSnapshot(ctx, service.SnapshotID()); err != nil {
				logger.Warn("Failed to invalidate cached queries", "error", err)
			}
			return redisClient.Close()
		},
	})

	return cached
}

func newServer(
	logger *slog.Logger,
	querier httpadapter.Querier,
	service *query.QueryService,
	registry *prometheus.Registry,
) (*httpadapter.Server, error) {
	defaultBackend, err := domain.ParseBackend(env.GetString("DEFAULT_BACKEND", string(domain.BackendGraph)))
	if err != nil {
		return nil, err
	}

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	return httpadapter.NewServer(logger, env.GetInt("SERVER_PORT", 8888), querier, service, defaultBackend, metricsHandler), nil
}

// registerServerHooks registers lifecycle hooks for the HTTP server
func registerServerHooks(lc fx.Lifecycle, logger *slog.Logger, srv *httpadapter.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Start server in a separate goroutine
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server forced to shutdown", "error", err)
				return err
			}
			logger.Info("Server exited gracefully")
			return nil
		},
	})
}
