package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"santri_portal/internal/backend"
	"santri_portal/internal/config"
	"santri_portal/internal/handler"
	"santri_portal/internal/hijri"
	"santri_portal/internal/logger"
	"santri_portal/internal/service"
	"santri_portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func main() {
	// --- Configuration ---
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.IsDevelopment(), cfg.LogLevel)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	access, err := config.LoadAccessMap(cfg.RolesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.RolesFile).Msg("failed to load roles")
	}

	ctx := context.Background()

	// --- Session storage ---
	store, closeStore, err := config.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open session storage")
	}
	defer closeStore()
	log.Info().Str("driver", cfg.Storage.Driver).Msg("session storage ready")

	// --- Initialize Services ---
	sess := session.New(ctx, session.Config{
		Store:  store,
		Secure: !cfg.IsDevelopment(),
	})
	client := backend.New(backend.Config{
		BaseURL:    cfg.Backend.URL,
		Timeout:    cfg.Backend.Timeout,
		MaxRetries: cfg.Backend.MaxRetries,
	})

	router := handler.NewRouter(handler.Deps{
		Auth:      service.NewAuthService(client, sess),
		Profile:   service.NewProfileService(client, sess),
		Session:   sess,
		Converter: hijri.NewConverter(hijri.LoadLocation(cfg.DisplayTimezone)),
		Access:    access,
		Store:     store,
	})

	corsMW := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsMW.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("backend", cfg.Backend.URL).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
