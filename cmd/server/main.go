package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-builder/internal/adapter/backend"
	httpadapter "resume-builder/internal/adapter/http"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/session"
	"resume-builder/internal/usecase"
	"resume-builder/internal/ws"
	infra "resume-builder/pkg/infrastructure"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	// infra setup
	syncPool, err := infra.NewSyncPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Printf("warning: sync history DB not available: %v", err)
	} else {
		defer syncPool.Close()
		if err := migration.RunMigrations(ctx, syncPool); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	client, err := backend.NewClient(cfg.Backend.BaseURL, logger)
	if err != nil {
		log.Fatalf("backend client: %v", err)
	}

	cache := infra.NewPreviewCache(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Preview.CacheTTL, logger)
	defer cache.Close()
	renderer := infra.NewChromedpRenderer(cfg.Preview.ChromePath)

	runs := repo.NewSyncRunsRepo(syncPool)
	hub := ws.NewHub(logger)
	go hub.Run()

	h := httpadapter.NewHandler(httpadapter.Deps{
		Store:   session.NewStore(),
		Saver:   usecase.NewSynchronizer(client, runs, logger),
		Resumes: client,
		Printer: usecase.NewPrinter(renderer, cache, logger),
		History: runs,
		Hub:     hub,
		Logger:  logger,
	})
	app := httpadapter.NewApp(h)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.App.HTTPPort)
	}()
	log.Printf("resume builder listening on :%s (backend %s)", cfg.App.HTTPPort, client.BaseURL())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server failed: %v", err)
		}
	case <-sigCh:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
