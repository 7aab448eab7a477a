package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"partsapi/auth"
	"partsapi/config"
	"partsapi/handlers"
	"partsapi/payments"
	"partsapi/storage"
)

func main() {
	app := &cli.App{
		Name:  "partsapi",
		Usage: "parts shop REST API",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "dotenv files to load before reading the environment",
				Value: cli.NewStringSlice(".env"),
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply the postgres schema",
				Subcommands: []*cli.Command{
					{Name: "up", Action: migrateAction(false)},
					{Name: "down", Action: migrateAction(true)},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("partsapi failed")
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.StringSlice("env-file")...)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "text" {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		return storage.NewMongoStore(ctx, cfg.MongoConnString(), cfg.MongoDatabase)
	case config.DriverPostgres:
		return storage.NewPostgresStore(ctx, cfg.PostgresDSN)
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on exit")
		return storage.NewMemoryStore(), nil
	}
	return nil, errors.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	log.WithField("driver", cfg.StoreDriver).Info("connected to store")

	if cfg.StripeSecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY is not set, payment intents will fail")
	}
	h := handlers.New(
		store,
		auth.NewTokenService([]byte(cfg.TokenSecret), cfg.TokenTTL),
		payments.NewStripeGateway(cfg.StripeSecretKey, cfg.PaymentCurrency),
		log.StandardLogger(),
	)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.Router(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown")
		}
		return errors.Wrap(store.Close(shutdownCtx), "close store")
	})
	return g.Wait()
}

func migrateAction(down bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		if cfg.StoreDriver != config.DriverPostgres {
			log.WithField("driver", cfg.StoreDriver).Info("nothing to migrate")
			return nil
		}
		if err := storage.Migrate(cfg.PostgresDSN, down); err != nil {
			return err
		}
		log.WithField("down", down).Info("migrations applied")
		return nil
	}
}
