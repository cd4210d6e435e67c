package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoRepositoryManager vends MongoDB-backed repositories over one client.
type MongoRepositoryManager struct {
	client *mongo.Client
	users  *users.MongoRepository
	posts  *posts.MongoRepository
}

func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	db := client.Database(database)
	return &MongoRepositoryManager{
		client: client,
		users:  users.NewMongoRepository(db),
		posts:  posts.NewMongoRepository(db),
	}
}

func (m *MongoRepositoryManager) Users() users.Repository { return m.users }

func (m *MongoRepositoryManager) Posts() posts.Repository { return m.posts }

// RunInTx runs fn against the shared repositories. Multi-document
// transactions need a replica set, so the steps are not atomic here.
func (m *MongoRepositoryManager) RunInTx(ctx context.Context, fn TxFunc) error {
	return fn(ctx, m.users, m.posts)
}

// EnsureIndexes creates the unique and sort indexes both collections rely on.
func (m *MongoRepositoryManager) EnsureIndexes(ctx context.Context) error {
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return m.posts.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
