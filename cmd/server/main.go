package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/St1cky1/team-dashboard/internal/api"
	grpcapi "github.com/St1cky1/team-dashboard/internal/api/grpc"
	"github.com/St1cky1/team-dashboard/internal/config"
	"github.com/St1cky1/team-dashboard/internal/infrastructure/client"
	"github.com/St1cky1/team-dashboard/internal/infrastructure/logger"
	"github.com/St1cky1/team-dashboard/internal/repository"
	"github.com/St1cky1/team-dashboard/internal/usecase"
	"github.com/St1cky1/team-dashboard/internal/worker"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped with error", zap.Error(err))
	}
}

// storage - выбранный бэкенд и то, что нужно закрыть при выходе
type storage struct {
	tasks     repository.ITaskRepository
	resources repository.IResourceRepository
	audit     repository.ITaskAuditRepository
	checks    map[string]api.HealthCheck
	closers   []func()
}

func (s *storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStorage(ctx context.Context, cfg *config.Config, lg *zap.Logger, today civil.Date) (*storage, error) {
	st := &storage{
		audit:  repository.NewMemoryAuditRepository(),
		checks: map[string]api.HealthCheck{},
	}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		st.tasks = repository.NewMemoryTaskRepository(repository.DemoTasks(today))
		st.resources = repository.NewMemoryResourceRepository(repository.DemoResources(time.Now()))

	case config.BackendXLSX:
		if err := os.MkdirAll(filepath.Dir(cfg.XLSXPath), 0o755); err != nil {
			return nil, fmt.Errorf("create xlsx dir: %w", err)
		}
		store := repository.NewXLSXStore(cfg.XLSXPath)
		st.tasks = store
		st.resources = store.Resources()

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		db, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		st.tasks = repository.NewGormTaskRepository(db)
		st.resources = repository.NewGormResourceRepository(db)
		st.checks["sqlite"] = sqlDB.PingContext
		st.closers = append(st.closers, func() { sqlDB.Close() })

	case config.BackendPostgres:
		dbURL := cfg.Database.URL()
		if err := runMigrations(cfg.MigrationsPath, dbURL, lg); err != nil {
			return nil, err
		}
		pg, err := client.NewPostgresClient(ctx, dbURL, client.DefaultPoolOptions(), lg)
		if err != nil {
			return nil, err
		}
		lg.Info("connected to postgres", zap.String("host", cfg.Database.Host))
		st.tasks = repository.NewTaskRepository(pg.Pool)
		st.resources = repository.NewResourceRepository(pg.Pool)
		st.audit = repository.NewTaskAuditRepository(pg.Pool)
		st.checks["postgres"] = pg.HealthCheck
		st.closers = append(st.closers, pg.Close)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	return st, nil
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.TimeLocation()
	if err != nil {
		return err
	}
	today := civil.DateOf(time.Now().In(loc))

	st, err := openStorage(ctx, cfg, lg, today)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	defer st.close()
	lg.Info("storage ready", zap.String("backend", cfg.StorageBackend))

	if cfg.SeedDemo && cfg.StorageBackend != config.BackendMemory {
		res, err := usecase.SeedDemoData(ctx, st.tasks, st.resources,
			repository.DemoTasks(today), repository.DemoResources(time.Now()), lg)
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		if !res.Skipped {
			lg.Info("demo data seeded", zap.Int("tasks", res.Tasks), zap.Int("resources", res.Resources))
		}
	}

	// кэш снимка задач в redis
	if cfg.RedisAddr != "" {
		rdb, err := client.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		st.tasks = repository.NewCachedTaskRepository(st.tasks, repository.NewRedisCache(rdb), cfg.CacheTTL, lg.Named("cache"))
		st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		lg.Info("task cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	}

	var (
		wg        sync.WaitGroup
		publisher usecase.AuditPublisher = client.NoopPublisher{}
	)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := client.NewRabbitMQClient(cfg.RabbitMQURL, lg)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		publisher = rabbitMQ

		auditWorker := worker.NewAuditWorker(rabbitMQ.URL(), st.audit, lg)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := auditWorker.Start(workerCtx); err != nil {
				lg.Error("audit worker stopped", zap.Error(err))
			}
		}()
	} else {
		lg.Info("RABBITMQ_URL is empty, audit log disabled")
	}

	taskService := usecase.NewTaskService(st.tasks, st.audit, publisher, usecase.TaskServiceConfig{
		TeamMembers: cfg.TeamMembers,
		Clients:     cfg.Clients,
		Location:    loc,
		Logger:      lg.Named("tasks"),
	})
	resourceService := usecase.NewResourceService(st.resources, publisher, lg.Named("resources"))

	metrics := api.NewMetrics()
	router := api.NewRouter(api.Handlers{
		Tasks:     api.NewTaskHandler(taskService, lg),
		Resources: api.NewResourceHandler(resourceService, lg),
		Health:    api.NewHealthHandler(st.checks),
		Metrics:   metrics,
	}, lg.Named("http"))

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		lg.Info("HTTP server listening", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcServer *grpcapi.GRPCServer
	if cfg.GRPCPort != "" {
		grpcServer = grpcapi.NewGRPCServer(taskService, lg.Named("grpc"), metrics.Registry())
		go func() {
			if err := grpcServer.Start(cfg.GRPCPort); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		lg.Info("shutdown signal received")
	case err = <-errCh:
		lg.Error("server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		lg.Warn("http shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}

	// дожидаемся отправки аудита, затем останавливаем воркер
	taskService.WaitAudits()
	resourceService.WaitAudits()
	workerCancel()
	wg.Wait()

	lg.Info("server stopped")
	return err
}

func runMigrations(source, dbURL string, lg *zap.Logger) error {
	m, err := migrate.New(source, dbURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	lg.Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
