package cli

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anjiri1684/digital_tests/auth"
	config "github.com/anjiri1684/digital_tests/configs"
	"github.com/anjiri1684/digital_tests/database"
	"github.com/anjiri1684/digital_tests/handlers"
	"github.com/anjiri1684/digital_tests/jobs"
	"github.com/anjiri1684/digital_tests/locales"
	"github.com/anjiri1684/digital_tests/metrics"
	"github.com/anjiri1684/digital_tests/notifications"
	"github.com/anjiri1684/digital_tests/routes"
	"github.com/anjiri1684/digital_tests/sessions"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd starts the HTTP API.
func NewServeCmd(envFile *string) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *envFile, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (defaults to PORT)")
	return cmd
}

func runServer(ctx context.Context, envFile, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	settings, db, err := openDatabase(envFile)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.SeedAdmin(db, settings); err != nil {
		return err
	}

	catalog, err := locales.New(settings.DefaultLanguage)
	if err != nil {
		return err
	}

	revocations, closeStore, err := revocationStore(ctx, settings)
	if err != nil {
		return err
	}
	defer closeStore()

	app := routes.NewApp(&handlers.Handler{
		DB:          db,
		Tokens:      auth.NewTokens(settings),
		Catalog:     catalog,
		Mailer:      notifications.NewMailer(settings),
		Revocations: revocations,
		Metrics:     metrics.New(),
		Settings:    settings,
	})

	port := portFlag
	if port == "" {
		port = settings.Port
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("✅ Server is running on port %s", port)
		return app.Listen(":" + port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("🔥 Server stopped: %v", err)
		return err
	}
	return nil
}

// revocationStore uses Redis when REDIS_URL is set, otherwise an in-process store swept by cron.
func revocationStore(ctx context.Context, settings config.Settings) (sessions.RevocationStore, func(), error) {
	if settings.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, logged-out sessions are tracked in memory")
		store := sessions.NewMemoryStore()
		scheduler, err := jobs.Start(store)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { <-scheduler.Stop().Done() }, nil
	}
	store, err := sessions.NewRedisStoreFromURL(ctx, settings.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Println("✅ Connected to Redis for session revocation")
	return store, func() {
		if err := store.Close(); err != nil {
			log.Printf("🔥 Failed to close Redis: %v", err)
		}
	}, nil
}
