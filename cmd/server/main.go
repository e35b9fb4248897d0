package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"moodjournal/internal/config"
	"moodjournal/internal/db"
	"moodjournal/internal/handlers"
	"moodjournal/internal/metrics"
	mw "moodjournal/internal/middleware"
	"moodjournal/internal/models"
	"moodjournal/internal/recap"
	"moodjournal/internal/sentiment"
	"moodjournal/internal/services"
	"moodjournal/internal/store/mongostore"
	"moodjournal/internal/store/sqlstore"
)

type entryStore interface {
	Create(ctx context.Context, e models.Entry) (models.Entry, error)
	Get(ctx context.Context, userID, id string) (models.Entry, error)
	Update(ctx context.Context, userID, id string, u models.EntryUpdate) (models.Entry, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]models.Entry, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]models.Entry, error)
	Ping(ctx context.Context) error
}

type recapStore interface {
	Latest(ctx context.Context, userID string) (models.WeeklyRecap, error)
	Upsert(ctx context.Context, userID, text string, generatedAt time.Time) (models.WeeklyRecap, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	entries, recaps, closeStore, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var enc *services.EncryptionService
	if cfg.EncryptionKey != "" {
		enc, err = services.NewEncryptionService([]byte(cfg.EncryptionKey))
		if err != nil {
			return fmt.Errorf("encryption: %w", err)
		}
		logger.Info("at-rest encryption enabled")
	}

	verifier, err := mw.NewVerifier(mw.VerifierConfig{
		HMACSecret:      []byte(cfg.Auth.JWTSecret),
		RSAPublicKeyPEM: []byte(cfg.Auth.JWTPublicKey),
		Issuer:          cfg.Auth.Issuer,
		Audience:        cfg.Auth.Audience,
	})
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	gen, breakerState := newGenerator(cfg.Recap, logger)
	loc := cfg.Location()

	classifier := sentiment.NewClassifier(nil)
	if cfg.SentimentLexicon != "" {
		scorer, err := sentiment.LoadLexicon(cfg.SentimentLexicon)
		if err != nil {
			return fmt.Errorf("sentiment lexicon: %w", err)
		}
		classifier = sentiment.NewClassifier(scorer)
		logger.Info("sentiment lexicon loaded", zap.String("path", cfg.SentimentLexicon))
	}

	entrySvc := services.NewEntryService(entries, classifier, enc, loc, logger.Named("entries"))
	recapSvc := services.NewRecapService(entries, recaps, gen, enc, loc, services.RecapOptions{
		Window:  cfg.Recap.Window,
		Timeout: cfg.Recap.Timeout,
	}, logger.Named("recap"))

	var origins []string
	if cfg.CORS.Enabled {
		origins = cfg.CORS.Origins()
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:         logger.Named("http"),
		Auth:           mw.NewAuthMiddleware(verifier, logger.Named("auth")),
		Entries:        handlers.NewEntryHandler(entrySvc, logger.Named("http")),
		Recaps:         handlers.NewRecapHandler(recapSvc, logger.Named("http")),
		Health:         handlers.NewHealthHandler(entries, breakerState, logger.Named("health")),
		CORSOrigins:    origins,
		Metrics:        cfg.Metrics,
		RecapRateLimit: cfg.Recap.RateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("timezone", loc.String()),
			zap.String("recap_provider", cfg.Recap.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

// openStores picks the backend from the DATABASE_URL scheme. SQL backends are
// migrated before use.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (entryStore, recapStore, func(), error) {
	kind, err := cfg.Database.Kind()
	if err != nil {
		return nil, nil, nil, err
	}

	switch kind {
	case config.StoreMongo:
		store, err := mongostore.Open(ctx, cfg.Database.URL, cfg.Database.MongoDatabase)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using mongodb store", zap.String("database", cfg.Database.MongoDatabase))
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(closeCtx); err != nil {
				logger.Warn("closing mongo client", zap.Error(err))
			}
		}
		return store.Entries(), store.Recaps(), closeFn, nil
	}

	conn, err := openSQL(ctx, kind, cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.RunMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, nil, fmt.Errorf("migrations: %w", err)
	}
	logger.Info("using sql store", zap.String("driver", conn.DriverName()))
	closeFn := func() {
		if err := conn.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
	}
	return sqlstore.NewEntryStore(conn), sqlstore.NewRecapStore(conn), closeFn, nil
}

func openSQL(ctx context.Context, kind config.StoreKind, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if kind == config.StoreSQLite {
		return db.OpenSQLite(ctx, cfg.SQLiteDSN())
	}
	return db.OpenPostgres(ctx, cfg.URL, db.Options{MaxOpenConns: cfg.MaxOpenConns})
}

// newGenerator builds the configured recap provider behind a circuit breaker.
// The returned func reports the breaker state for readiness output.
func newGenerator(cfg config.RecapConfig, logger *zap.Logger) (recap.Generator, func() string) {
	var gen recap.Generator
	switch cfg.Provider {
	case "anthropic":
		gen = recap.NewAnthropicGenerator(cfg.AnthropicKey, cfg.Model, cfg.MaxTokens)
	case "ollama":
		gen = recap.NewOllamaGenerator(cfg.OllamaHost, cfg.Model, &http.Client{})
	default:
		logger.Warn("recap generation disabled")
		return recap.Disabled{}, func() string { return "disabled" }
	}

	breaker := recap.NewBreakerGenerator(gen, recap.BreakerConfig{
		Name:             "recap-" + cfg.Provider,
		FailureThreshold: 3,
		Timeout:          30 * time.Second,
		OnStateChange: func(_, to gobreaker.State) {
			metrics.SetRecapBreakerState(int(to))
		},
	}, logger.Named("recap"))
	return breaker, breaker.State
}
