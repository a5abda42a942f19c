package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/avasilyev/fundbot/internal/campaign"
	"github.com/avasilyev/fundbot/internal/config"
	"github.com/avasilyev/fundbot/internal/database"
	"github.com/avasilyev/fundbot/internal/logger"
	"github.com/avasilyev/fundbot/internal/notification"
	"github.com/avasilyev/fundbot/internal/roster"
	mw "github.com/avasilyev/fundbot/pkg/middleware"
)

// @title        FundBot API
// @version      1.0
// @description  Group fundraising backend: roster, campaigns, payment tracking.
// @basePath     /api/v1
func main() {
	// .env is optional; production supplies real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.CreateTables(context.Background(), db); err != nil {
		zap.L().Fatal("failed to create schema", zap.Error(err))
	}

	zap.L().Info("connected to database")

	publisher, err := notification.NewAMQPPublisher(cfg.AMQPURL)
	if err != nil {
		zap.L().Fatal("failed to connect to queue", zap.Error(err))
	}
	defer publisher.Close()

	notifier := notification.NewNotifier(publisher, cfg.BroadcastBatch)

	coordinators := cfg.CoordinatorSet()
	coordinatorGate := mw.RequireCoordinator(coordinators)

	// Roster feature
	rosterRepo := roster.NewRepository(db)
	rosterService := roster.NewService(rosterRepo)
	rosterHandler := roster.NewHandler(rosterService, coordinators)

	// Campaign feature: the engine reads the roster snapshot directly
	// from the repository, never through the registration flow.
	campaignRepo := campaign.NewRepository(db)
	campaignService := campaign.NewService(campaignRepo, rosterRepo)
	campaignHandler := campaign.NewHandler(campaignService, rosterService, notifier)

	// Broadcast feature
	broadcastHandler := notification.NewHandler(notifier, rosterService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Identity)

		r.Mount("/roster", rosterHandler.Routes(coordinatorGate))
		r.Mount("/campaigns", campaignHandler.Routes(coordinatorGate))
		r.Mount("/broadcasts", broadcastHandler.Routes(coordinatorGate))
	})

	addr := ":" + cfg.Port
	zap.L().Info("server starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		zap.L().Fatal("server failed", zap.Error(err))
	}
}
