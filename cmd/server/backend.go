package main

import (
	"context"
	"fmt"

	"github.com/mehrbod2002/horizon/internal/config"
	"github.com/mehrbod2002/horizon/internal/repository"
	"github.com/mehrbod2002/horizon/internal/storage"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// backend bundles the repositories of the configured storage driver.
type backend struct {
	store       storage.Store
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	logRepo     repository.LogRepository
	closeFn     func()
}

func (b *backend) Close() {
	if err := b.store.Close(); err != nil {
		logrus.WithError(err).Warn("failed to close storage")
	}
	if b.closeFn != nil {
		b.closeFn()
	}
}

func localBackend(store storage.Store) *backend {
	return &backend{
		store:       store,
		userRepo:    repository.NewLocalUserRepository(store),
		sessionRepo: repository.NewSessionRepository(store),
		logRepo:     repository.NewLocalLogRepository(store),
	}
}

// openBackend keeps users, sessions and logs in the key-value store for the
// memory, file and postgres drivers. The mongo driver stores users and logs
// as documents and only sessions in its key-value collection.
func openBackend(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*backend, error) {
	driver, err := storage.ParseDriver(cfg.StorageDriver)
	if err != nil {
		return nil, err
	}

	switch driver {
	case storage.DriverMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		return localBackend(storage.NewMemoryStore()), nil

	case storage.DriverFile:
		store, err := storage.OpenFileStore(cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		return localBackend(store), nil

	case storage.DriverPostgres:
		store, err := storage.OpenPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return localBackend(store), nil

	case storage.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}

		userRepo := repository.NewUserRepository(client, cfg.MongoDB, "users")
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			client.Disconnect(context.Background())
			return nil, err
		}
		store := storage.NewMongoStore(client, cfg.MongoDB, "kv_store")
		return &backend{
			store:       store,
			userRepo:    userRepo,
			sessionRepo: repository.NewSessionRepository(store),
			logRepo:     repository.NewLogRepository(client, cfg.MongoDB, "logs"),
			closeFn: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.WithError(err).Warn("failed to disconnect from MongoDB")
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", driver)
}
