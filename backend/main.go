// Command backend is the Interlink collaborator service that accepts About Me
// submissions and invitations.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitea.kood.tech/petrkubec/interlink/internal/config"
	"gitea.kood.tech/petrkubec/interlink/internal/logging"
	"go.uber.org/zap"
)

const devJWTSecret = "your_secret_key_please_change_in_production"

var (
	jwtSecret = []byte(devJWTSecret)
	logger    = zap.NewNop()
)

func main() {
	var cfg config.Server
	if err := config.ParseEnv(&cfg); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	l, err := logging.New(cfg.Verbose, "")
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	logger = l
	defer func() { _ = logger.Sync() }()

	if err := run(cfg); err != nil {
		logger.Error("Backend stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Server) error {
	if cfg.JWTSecret != "" {
		jwtSecret = []byte(cfg.JWTSecret)
	} else if !cfg.Development() {
		return errors.New("JWT_SECRET must be set outside development")
	} else {
		logger.Warn("JWT_SECRET not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Database connection established")

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           withCORS(cfg.Origins, newMux(newPGStore(db), newHub())),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting Interlink backend", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMux(st Store, hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/register", registerHandler(st))
	mux.Handle("/login", loginHandler(st))

	// About Me card
	mux.Handle("/invoke", invokeHandler(st, hub))
	mux.Handle("/me/aboutme", meAboutMeHandler(st))
	mux.Handle("/me/invitations", DataLoaderMiddleware(st)(meInvitationsHandler(st)))
	mux.Handle("/ws/aboutme", wsAboutMeHandler(hub))

	// Health check endpoint for Docker
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}
