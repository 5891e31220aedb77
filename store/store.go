// Package store opens the configured persistence backend.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/auth"
	"storefront/catalog"
	"storefront/condb"
	"storefront/config"
	"storefront/orders"
	"storefront/store/memstore"
	"storefront/store/mongostore"
	"storefront/store/pgstore"
)

// Backend is one storage driver's repositories plus its shutdown hook.
type Backend struct {
	Products catalog.Repository
	Users    auth.UserRepository
	Orders   orders.Repository
	Close    func()
}

func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		s := memstore.New()
		log.Warn("using in-memory store, data is lost on restart")
		return &Backend{Products: s.Products(), Users: s.Users(), Orders: s.Orders(), Close: func() {}}, nil

	case config.DriverPostgres:
		pool, err := condb.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s := pgstore.New(pool)
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("connected to postgres")
		return &Backend{Products: s.Products(), Users: s.Users(), Orders: s.Orders(), Close: pool.Close}, nil

	case config.DriverMongo:
		client, db, err := condb.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		s := mongostore.New(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info("connected to mongodb", "database", cfg.MongoDB)
		return &Backend{
			Products: s.Products(),
			Users:    s.Users(),
			Orders:   s.Orders(),
			Close:    func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
