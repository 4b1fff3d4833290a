package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/catonzio/plum-backend/internal/db"
	"github.com/catonzio/plum-backend/internal/observability"
	"github.com/catonzio/plum-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "plum-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	theDB := pg.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	// Schema migration and vector store readiness are independent; run them
	// together so startup waits on the slower of the two, not their sum.
	readyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	g, gctx := errgroup.WithContext(readyCtx)
	g.Go(func() error {
		if err := pg.AutoMigrateAll(); err != nil {
			return fmt.Errorf("postgres automigrate: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := clients.Vectors.Ready(gctx); err != nil {
			return fmt.Errorf("vector store not ready: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, reposet)
	orchestrator := wireAgents(log, clients)
	handlerset := wireHandlers(log, cfg, orchestrator, serviceset, clients)
	router := wireRouter(log, handlerset)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := fmt.Sprintf(":%d", a.Cfg.Port)
	a.Log.Info("Starting HTTP server", "addr", addr)
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
