package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"notealog/internal/bootstrap"
	"notealog/internal/config"
	"notealog/internal/server"
	"notealog/internal/tracer"
	"notealog/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if err := database.Migrate(gormDB); err != nil {
		log.Panicf("Unable to migrate database: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, container.Logger)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Panicf("Unable to start consumer: %v", err)
	}
	if container.SchedulerService != nil {
		container.SchedulerService.Start()
		defer func() { <-container.SchedulerService.Stop().Done() }()
	}

	// 5. Run Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown()
	}()

	if err := srv.Run(); err != nil {
		container.Logger.Error("SERVER", "server stopped", map[string]interface{}{"error": err.Error()})
	}
}
