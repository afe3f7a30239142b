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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"picks-site-backend-go/internal/config"
	"picks-site-backend-go/internal/db"
	httpapi "picks-site-backend-go/internal/http"
	"picks-site-backend-go/internal/logger"
	"picks-site-backend-go/internal/migrations"
	"picks-site-backend-go/internal/repository"
	"picks-site-backend-go/internal/services"
	"picks-site-backend-go/internal/store"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, closeLogs, err := logger.Setup(cfg.LogLevel, cfg.AppEnv, cfg.LogDir, cfg.LogRetentionDays)
	if err != nil {
		log.Warn().Err(err).Msg("file logging disabled")
	}
	defer closeLogs()

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		closeLogs()
		os.Exit(1)
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, warning := range cfg.Warnings() {
		log.Warn().Msg(warning)
	}

	database, err := db.Open(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer database.Close()

	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		return migrations.Rollback(database, log)
	}
	if err := migrations.Apply(database, log); err != nil {
		return err
	}

	repos := repository.New(store.New(database))
	leads := services.NewLeadFeed()
	go leads.Run(ctx)

	server := httpapi.NewServer(cfg, repos, nil, leads, log)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.AppEnv).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
	server.Contacts.Wait()
	log.Info().Msg("shutdown complete")
	return nil
}

// hashPassword prints an ADMIN_PASSWORD_HASH value for the given password.
func hashPassword(args []string) error {
	if len(args) != 1 || args[0] == "" {
		return errors.New("usage: server hash-password <password>")
	}
	hash, err := services.HashPassword(args[0])
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
