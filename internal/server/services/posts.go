package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/logging"
	"github.com/dmitrijs2005/socialfeed/internal/server/apperr"
	"github.com/dmitrijs2005/socialfeed/internal/server/auth"
	"github.com/dmitrijs2005/socialfeed/internal/server/models"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PostService implements the feed: posts, likes and comments. It owns the
// ownership checks; the repositories apply each change atomically.
type PostService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	validate    *validator.Validate
	now         func() time.Time
	newID       func() string
}

func NewPostService(m repomanager.RepositoryManager, logger logging.Logger) *PostService {
	return &PostService{
		repomanager: m,
		logger:      logger.With("module", "posts"),
		validate:    newValidator(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	list, err := s.repomanager.Posts().List(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "list posts", err)
	}
	return list, nil
}

func (s *PostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.repomanager.Posts().Get(ctx, postID)
	if err != nil {
		return nil, s.postError(ctx, "get post", err)
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, p auth.Principal, body string) (*models.Post, error) {
	if err := validate(s.validate, postInput{Body: body}); err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        s.newID(),
		Body:      body,
		UserName:  p.Username,
		CreatedAt: s.timestamp(),
		Comments:  []models.Comment{},
		Likes:     []models.Like{},
	}
	if err := s.repomanager.Posts().Create(ctx, post); err != nil {
		return nil, s.storeError(ctx, "create post", err)
	}

	s.logger.Info(ctx, "post created", "post_id", post.ID, "username", post.UserName)
	return post, nil
}

// Delete removes a post owned by p.
func (s *PostService) Delete(ctx context.Context, p auth.Principal, postID string) (string, error) {
	repo := s.repomanager.Posts()

	post, err := repo.Get(ctx, postID)
	if err != nil {
		return "", s.postError(ctx, "get post", err)
	}
	if post.UserName != p.Username {
		return "", apperr.ErrNotOwner
	}

	if err := repo.Delete(ctx, postID); err != nil {
		return "", s.postError(ctx, "delete post", err)
	}

	s.logger.Info(ctx, "post deleted", "post_id", postID, "username", p.Username)
	return "Post deleted successfully", nil
}

// ToggleLike likes the post as p, or unlikes it if p already did.
func (s *PostService) ToggleLike(ctx context.Context, p auth.Principal, postID string) (*models.Post, error) {
	like := models.Like{ID: s.newID(), UserName: p.Username, CreatedAt: s.timestamp()}

	post, err := s.repomanager.Posts().ToggleLike(ctx, postID, like)
	if err != nil {
		return nil, s.postError(ctx, "toggle like", err)
	}
	return post, nil
}

// AddComment puts a comment by p at the front of the post's comments.
func (s *PostService) AddComment(ctx context.Context, p auth.Principal, postID, body string) (*models.Post, error) {
	repo := s.repomanager.Posts()

	if _, err := repo.Get(ctx, postID); err != nil {
		return nil, s.postError(ctx, "get post", err)
	}
	if err := validate(s.validate, commentInput{Body: body}); err != nil {
		return nil, err
	}

	comment := models.Comment{ID: s.newID(), Body: body, UserName: p.Username, CreatedAt: s.timestamp()}

	post, err := repo.AddComment(ctx, postID, comment)
	if err != nil {
		return nil, s.postError(ctx, "add comment", err)
	}
	return post, nil
}

// DeleteComment removes a comment authored by p.
func (s *PostService) DeleteComment(ctx context.Context, p auth.Principal, postID, commentID string) (*models.Post, error) {
	repo := s.repomanager.Posts()

	post, err := repo.Get(ctx, postID)
	if err != nil {
		return nil, s.postError(ctx, "get post", err)
	}

	comment, ok := post.FindComment(commentID)
	if !ok {
		return nil, apperr.ErrCommentNotFound
	}
	if comment.UserName != p.Username {
		return nil, apperr.ErrNotOwner
	}

	post, err = repo.RemoveComment(ctx, postID, commentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperr.ErrCommentNotFound
		}
		return nil, s.storeError(ctx, "remove comment", err)
	}
	return post, nil
}

func (s *PostService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// postError maps a missing post to ErrPostNotFound and anything else to a
// logged store failure.
func (s *PostService) postError(ctx context.Context, op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return apperr.ErrPostNotFound
	}
	return s.storeError(ctx, op, err)
}

func (s *PostService) storeError(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "store failure", "op", op, "error", err)
	return apperr.Store(err)
}
