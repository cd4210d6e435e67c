// Package graph exposes the feed over GraphQL. The schema is parsed once at
// startup and bound to a root Resolver that forwards every field to the
// services.
package graph

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/dmitrijs2005/socialfeed/internal/logging"
	"github.com/dmitrijs2005/socialfeed/internal/server/services"
	"github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var Schema string

// maxDepth bounds query nesting; the deepest legal query is four levels.
const maxDepth = 10

// NewSchema parses the schema and binds it to a resolver over the services.
func NewSchema(users *services.UserService, posts *services.PostService, logger logging.Logger) (*graphql.Schema, error) {
	l := logger.With("module", "graphql")

	s, err := graphql.ParseSchema(Schema, NewResolver(users, posts, l),
		graphql.MaxDepth(maxDepth),
		graphql.Logger(panicLogger{logger: l}),
	)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return s, nil
}

// panicLogger routes resolver panics to the structured logger.
type panicLogger struct {
	logger logging.Logger
}

func (p panicLogger) LogPanic(ctx context.Context, value interface{}) {
	p.logger.Error(ctx, "graphql: panic occurred", "panic", value)
}
