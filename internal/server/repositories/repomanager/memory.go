package repomanager

import (
	"context"

	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. It backs
// tests and local runs with DATABASE_DSN=memory://.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	posts *posts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		posts: posts.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Posts() posts.Repository { return m.posts }

func (m *MemoryRepositoryManager) RunInTx(ctx context.Context, fn TxFunc) error {
	return fn(ctx, m.users, m.posts)
}

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close(context.Context) error { return nil }
