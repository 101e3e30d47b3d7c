package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/forever/internal"
	"github.com/dukerupert/forever/internal/domain"
	"github.com/dukerupert/forever/internal/mongodb"
	"github.com/dukerupert/forever/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// stores is the persistence backend selected by DATABASE_DRIVER.
type stores struct {
	products domain.ProductStore
	users    domain.UserStore
	ping     func(ctx context.Context) error
	close    func()
}

func openStores(ctx context.Context, cfg internal.DatabaseConfig, logger *slog.Logger) (*stores, error) {
	switch cfg.Driver {
	case "mongo":
		return openMongo(ctx, cfg, logger)
	default:
		return openPostgres(ctx, cfg, logger)
	}
}

func openPostgres(ctx context.Context, cfg internal.DatabaseConfig, logger *slog.Logger) (*stores, error) {
	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...", "driver", "postgres")
	sqlDB, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &stores{
		products: postgres.NewProductStore(pool),
		users:    postgres.NewUserStore(pool),
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg internal.DatabaseConfig, logger *slog.Logger) (*stores, error) {
	logger.Info("Connecting to database...", "driver", "mongo")
	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDatabase)

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return &stores{
		products: mongodb.NewProductStore(db),
		users:    mongodb.NewUserStore(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		},
	}, nil
}
