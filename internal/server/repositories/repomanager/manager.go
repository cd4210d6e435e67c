// Package repomanager opens the configured store and vends its repositories.
// The backend is chosen by the DSN scheme: postgres://, mongodb:// or memory://.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/users"
)

// TxFunc receives repositories that take part in one unit of work.
type TxFunc func(ctx context.Context, users users.Repository, posts posts.Repository) error

// RepositoryManager owns a store connection.
type RepositoryManager interface {
	Users() users.Repository
	Posts() posts.Repository
	// RunInTx runs fn as one unit of work. Only the PostgreSQL backend makes
	// it atomic; the others run fn's steps in order.
	RunInTx(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
