// Package users provides the user document repositories.
package users

import (
	"context"

	"github.com/dmitrijs2005/socialfeed/internal/server/models"
)

// Repository persists users. Lookups return common.ErrorNotFound when no
// user matches; Create returns a *common.UniqueViolation when the username
// or email is already registered.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
