package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/auth"
	"storefront/catalog"
	"storefront/config"
	"storefront/controllers"
	"storefront/media"
	"storefront/notify"
	"storefront/orders"
	"storefront/routes"
	"storefront/store"
	"storefront/tasks"
	"storefront/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := cfg.Logger()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	adminInbox := cfg.OrderAdminEmail
	if adminInbox == "" {
		adminInbox = cfg.AdminEmail
	}
	notifier := notify.NewNotifier(publisher, cfg.FrontendURL, adminInbox)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return err
	}
	images := media.NewStore(cfg.UploadDir, cfg.UploadURLPrefix)

	runner := tasks.NewRunner(log, tasks.DefaultTimeout)
	products := catalog.NewService(backend.Products, images, notifier, runner, log)
	accounts := auth.NewService(backend.Users, utils.NewTokenIssuer(cfg.JWTSecret), notifier, runner, log,
		auth.Options{AdminEmail: cfg.AdminEmail})
	checkout := orders.NewService(backend.Orders, products, notifier, runner, log)

	h := controllers.New(products, accounts, checkout, images, log)
	app := routes.NewApp(h, routes.Options{
		AllowOrigins:    cfg.AllowOrigins,
		UploadDir:       images.Dir(),
		UploadURLPrefix: images.URLPrefix(),
		Logger:          log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port, "store", cfg.StoreDriver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("http shutdown", "error", err)
	}
	runner.Wait()

	return <-errCh
}

// newPublisher connects to RabbitMQ when configured and otherwise only
// logs outgoing notifications.
func newPublisher(cfg *config.Config, log *slog.Logger) (notify.Publisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		log.Warn("RABBITMQ_URL not set, notifications are only logged")
		return notify.LogPublisher{Log: log}, func() {}, nil
	}
	mq, err := notify.NewRabbitMQ(cfg.RabbitMQURL, cfg.NotifyExchange)
	if err != nil {
		return nil, nil, err
	}
	return mq, func() { _ = mq.Close() }, nil
}
