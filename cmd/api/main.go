package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/castcall/travel-planner-api/internal/adapters/httpapi"
	memprojectrepo "github.com/castcall/travel-planner-api/internal/adapters/memory/projectrepo"
	postgres "github.com/castcall/travel-planner-api/internal/adapters/postgres"
	pgprojectrepo "github.com/castcall/travel-planner-api/internal/adapters/postgres/projectrepo"
	"github.com/castcall/travel-planner-api/internal/app/projects"
	platformclock "github.com/castcall/travel-planner-api/internal/platform/clock"
	"github.com/castcall/travel-planner-api/internal/platform/config"
	projectrepoport "github.com/castcall/travel-planner-api/internal/ports/out/projectrepo"
)

func main() {
	cfg, err := config.LoadAPIConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	clk := platformclock.NewSystemClock()

	var (
		repo    projectrepoport.Repository
		cleanup func()
	)
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		cleanup = pool.Close
		if err := postgres.Migrate(context.Background(), pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		repo = pgprojectrepo.NewRepo(pool)
	default:
		repo = memprojectrepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	projectsSvc := projects.NewService(repo, clk)
	handler := httpapi.NewRouter(httpapi.NewServer(projectsSvc, clk))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on :%s (storage=%s)", cfg.Port, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
