package repository

import (
	"context"
	"fmt"
	"time"

	"address-api/internal/config"
	"address-api/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const connectTimeout = 10 * time.Second

// Store is an address store the service can run against.
type Store interface {
	CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error)
	UpdateAddress(ctx context.Context, id string, address *models.Address) (*models.Address, error)
	DeleteAddress(ctx context.Context, id string) error
	FindAddressesNear(ctx context.Context, point models.GeoPoint, maxDistance float64) ([]models.Address, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the store selected by cfg.StoreDriver and prepares its geospatial index.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}

		repo := NewMongoRepository(client, cfg.MongoDatabase, cfg.MongoCollection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}

		logger.Info().
			Str("database", cfg.MongoDatabase).
			Str("collection", cfg.MongoCollection).
			Msg("connected to mongodb")
		return repo, nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to create postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("repository: failed to ping postgres: %w", err)
		}

		repo := NewPostgresRepository(pool, cfg.DBTable)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}

		logger.Info().Str("table", cfg.DBTable).Msg("connected to postgres")
		return repo, nil

	case config.DriverMemory:
		logger.Warn().Msg("using in-memory address store, data is lost on restart")
		return NewMemoryRepository(), nil
	}

	return nil, fmt.Errorf("repository: unknown store driver %q", cfg.StoreDriver)
}
