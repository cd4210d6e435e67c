// Package services contains the server-side business logic behind the
// GraphQL resolvers. This file implements UserService: registration, login
// and account deletion.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/logging"
	"github.com/dmitrijs2005/socialfeed/internal/server/apperr"
	"github.com/dmitrijs2005/socialfeed/internal/server/auth"
	"github.com/dmitrijs2005/socialfeed/internal/server/config"
	"github.com/dmitrijs2005/socialfeed/internal/server/models"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/users"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Session is a user together with a freshly issued token.
type Session struct {
	User  *models.User
	Token string
}

// UserService handles registration, login and account deletion.
type UserService struct {
	repomanager      repomanager.RepositoryManager
	logger           logging.Logger
	validate         *validator.Validate
	jwtSecret        []byte
	validityDuration time.Duration
	bcryptCost       int
	now              func() time.Time
	newID            func() string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		repomanager:      m,
		logger:           logger.With("module", "users"),
		validate:         newValidator(),
		jwtSecret:        []byte(cfg.SecretKey),
		validityDuration: cfg.TokenValidityDuration,
		bcryptCost:       cfg.BcryptCost,
		now:              time.Now,
		newID:            uuid.NewString,
	}
}

// Register validates in, rejects a taken username or email, stores the new
// user and returns it with a token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := validateRegister(s.validate, in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users()

	if _, err := repo.GetUserByLogin(ctx, in.Username); err == nil {
		return nil, apperr.ErrUsernameTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, s.storeError(ctx, "lookup username", err)
	}

	if _, err := repo.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, apperr.ErrEmailTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, s.storeError(ctx, "lookup email", err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, s.storeError(ctx, "hash password", err)
	}

	user := &models.User{
		ID:           s.newID(),
		UserName:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.timestamp(),
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		// lost a race with a concurrent registration
		var uv *common.UniqueViolation
		if errors.As(err, &uv) {
			if uv.Field == "email" {
				return nil, apperr.ErrEmailTaken.WithCause(err)
			}
			return nil, apperr.ErrUsernameTaken.WithCause(err)
		}
		return nil, s.storeError(ctx, "create user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID, "username", created.UserName)

	return s.session(ctx, created)
}

// Login checks the password of the named user and returns a new token.
func (s *UserService) Login(ctx context.Context, userName, password string) (*Session, error) {
	if err := validate(s.validate, loginInput{Username: userName, Password: password}); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, s.storeError(ctx, "lookup username", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.ErrWrongCredentials
	}

	return s.session(ctx, user)
}

// DeleteUser removes the principal's account and every post it authored.
// The user is looked up live so a token for a deleted account fails here.
func (s *UserService) DeleteUser(ctx context.Context, p auth.Principal) (string, error) {
	user, err := s.repomanager.Users().GetUserByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", apperr.ErrUserNotFound
		}
		return "", s.storeError(ctx, "lookup user", err)
	}

	var removed int64
	err = s.repomanager.RunInTx(ctx, func(ctx context.Context, ur users.Repository, pr posts.Repository) error {
		n, err := pr.DeleteByUserName(ctx, p.Username)
		if err != nil {
			return err
		}
		removed = n
		return ur.Delete(ctx, user.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", apperr.ErrUserNotFound
		}
		return "", s.storeError(ctx, "delete user", err)
	}

	s.logger.Info(ctx, "user deleted", "user_id", user.ID, "posts_removed", removed)

	return "User deleted successfully", nil
}

func (s *UserService) session(ctx context.Context, u *models.User) (*Session, error) {
	token, err := auth.GenerateToken(auth.Principal{ID: u.ID, Email: u.Email, Username: u.UserName}, s.jwtSecret, s.validityDuration)
	if err != nil {
		return nil, s.storeError(ctx, "sign token", err)
	}
	return &Session{User: u, Token: token}, nil
}

func (s *UserService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *UserService) storeError(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "store failure", "op", op, "error", err)
	return apperr.Store(err)
}
