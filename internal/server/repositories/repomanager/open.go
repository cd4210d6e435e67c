package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/socialfeed/internal/server/config"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrUnsupportedScheme is returned by Open for DSNs it cannot route.
var ErrUnsupportedScheme = errors.New("unsupported database scheme")

// Kind reports the backend a DSN selects: "postgres", "mongodb" or "memory".
func Kind(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		return "postgres", nil
	case "mongodb", "mongodb+srv":
		return "mongodb", nil
	case "memory":
		return "memory", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// Open connects to the store named by cfg.DatabaseDSN and prepares its
// schema: goose migrations for PostgreSQL and indexes for MongoDB.
func Open(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	dsn := cfg.DatabaseDSN
	kind, err := Kind(dsn)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "postgres":
		return openPostgres(ctx, dsn)
	case "mongodb":
		return openMongo(ctx, dsn, cfg.MongoDatabase)
	default:
		return NewMemoryRepositoryManager(), nil
	}
}

func openPostgres(ctx context.Context, dsn string) (RepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	m := NewPostgresRepositoryManager(db)

	if err := m.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return m, nil
}

func openMongo(ctx context.Context, dsn, database string) (RepositoryManager, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	m := NewMongoRepositoryManager(client, database)

	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	if err := m.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}
