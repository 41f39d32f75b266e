package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"locallibrary/database"
	"locallibrary/internal/config"
	"locallibrary/internal/http-api/dto"
	"locallibrary/internal/http-api/handler"
	"locallibrary/internal/http-api/repository"
	"locallibrary/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterValidators(); err != nil {
		log.Fatalf("could not register validators: %v", err)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close(db)

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		// the site works without visit counts
		logger.Warn("redis unavailable, visit counter disabled", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	bookRepo := repository.NewBookRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	instanceRepo := repository.NewBookInstanceRepository(db)
	visits := repository.NewRedisVisitCounter(rdb, cfg.VisitTTL)

	// services
	svcs := handler.Services{
		Catalog:   service.NewCatalogService(bookRepo, instanceRepo, authorRepo, genreRepo, visits, logger),
		Books:     service.NewBookService(bookRepo, authorRepo, genreRepo),
		Authors:   service.NewAuthorService(authorRepo),
		Genres:    service.NewGenreService(genreRepo),
		Instances: service.NewInstanceService(instanceRepo, bookRepo),
		Loans:     service.NewLoanService(instanceRepo, userRepo, service.WithLogger(logger)),
		Auth:      service.NewAuthService(userRepo, refreshTokenRepo, cfg, logger),
	}

	router := handler.NewRouter(svcs, handler.RouterOptions{
		RequestTimeout: cfg.RequestTimeout,
		AuthRateLimit:  cfg.AuthRateLimit,
		AuthRateBurst:  cfg.AuthRateBurst,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errChan:
		logger.Error("server error", "error", err)
		database.Close(db)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return
	}
	logger.Info("server stopped gracefully")
}
