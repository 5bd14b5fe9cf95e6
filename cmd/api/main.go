package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tempo/internal/authn"
	"tempo/internal/config"
	"tempo/internal/httpserver"
	"tempo/internal/logger"
	"tempo/internal/models"
	"tempo/internal/session"
	"tempo/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	defaulted, err := cfg.Validate()
	if err != nil {
		lg.Fatalw("configuration invalid", "mode", cfg.Mode, "error", err)
	}
	for _, key := range defaulted {
		lg.Warnw("using development default for missing configuration", "key", key)
	}

	st := openStore(cfg, lg)
	defer st.Close()

	sessions, sessionStore := buildSessions(cfg, st, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cleaner := session.NewCleaner(sessionStore, cfg.SessionCleanupInterval, lg)
	go cleaner.Run(ctx)

	var provider authn.Provider
	if cfg.OnPrem() {
		provider, err = authn.NewSAML(cfg, st, sessions, lg)
		if err != nil {
			lg.Fatalw("saml setup failed", "error", err)
		}
	} else {
		provider, err = authn.NewBypass(cfg, st, sessions, lg)
		if err != nil {
			lg.Fatalw("auth setup failed", "error", err)
		}
		seedDevAdmin(ctx, cfg, st, lg)
	}

	router := httpserver.NewRouter(cfg, st, provider, lg)
	lg.Infow("listening", "port", cfg.Port, "mode", cfg.Mode)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}

// openStore selects the storage implementation once. A connect failure
// degrades to the fallback store instead of crashing; in on-prem mode the
// degradation stays visible through the health endpoint.
func openStore(cfg *config.Config, lg *zap.SugaredLogger) store.Store {
	if cfg.DatabaseURL == "" {
		lg.Warnw("no DATABASE_URL configured, using fallback storage", "mode", cfg.Mode)
		return store.NewFallback()
	}
	st, err := store.Open(cfg.DatabaseURL, lg)
	if err != nil {
		if cfg.OnPrem() {
			lg.Errorw("CRITICAL: on-premises mode degraded to fallback storage", "error", err)
		} else {
			lg.Warnw("database unavailable, using fallback storage", "error", err)
		}
		return store.NewFallback()
	}
	lg.Infow("relational storage ready")
	return st
}

// buildSessions picks the session store per deployment mode: database table
// on-premises, in-memory otherwise.
func buildSessions(cfg *config.Config, st store.Store, lg *zap.SugaredLogger) (*session.Manager, session.Store) {
	var backing session.Store
	if rel, ok := st.(*store.Relational); ok && cfg.OnPrem() {
		backing = session.NewDatabase(rel.DB(), lg)
	} else {
		if cfg.OnPrem() {
			lg.Errorw("CRITICAL: on-premises mode running with in-memory sessions")
		}
		backing = session.NewMemory()
	}
	return session.NewManager(backing, cfg.SessionTTL, cfg.OnPrem()), backing
}

func seedDevAdmin(ctx context.Context, cfg *config.Config, st store.Store, lg *zap.SugaredLogger) {
	if _, err := st.GetUserByEmail(ctx, cfg.DevUserEmail); err == nil {
		return
	}
	u := models.User{Email: cfg.DevUserEmail, FirstName: "Dev", LastName: "User", Role: models.RoleAdmin, IsActive: true}
	if _, err := st.CreateUser(ctx, &u); err != nil {
		lg.Debugw("dev admin seed skipped", "error", err)
		return
	}
	lg.Infow("seeded development admin", "email", cfg.DevUserEmail)
}
