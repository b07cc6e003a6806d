package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"santri_portal/internal/backend"
	"santri_portal/internal/config"
	"santri_portal/internal/logger"
	"santri_portal/internal/service"
	"santri_portal/internal/session"
	"santri_portal/internal/storage"
)

type Globals struct {
	Debug   bool
	Version string
	Stdout  io.Writer
}

func (g *Globals) out() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Globals) setupLogging() {
	level := "warn"
	if g.Debug {
		level = "debug"
	}
	logger.Setup(true, level)
}

// app holds what the session commands share with the gateway
type app struct {
	cfg     *config.Config
	store   storage.Store
	close   func()
	session session.AuthSession
	auth    service.AuthService
}

func (g *Globals) open(ctx context.Context) (*app, error) {
	g.setupLogging()
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, closeStore, err := config.OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	sess := session.New(ctx, session.Config{Store: store, Secure: !cfg.IsDevelopment()})
	client := backend.New(backend.Config{
		BaseURL:    cfg.Backend.URL,
		Timeout:    cfg.Backend.Timeout,
		MaxRetries: cfg.Backend.MaxRetries,
	})

	return &app{
		cfg:     cfg,
		store:   store,
		close:   closeStore,
		session: sess,
		auth:    service.NewAuthService(client, sess),
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func roleOf(st session.State) string {
	if st.Role == nil {
		return "-"
	}
	return *st.Role
}
