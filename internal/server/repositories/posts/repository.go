// Package posts provides the post document repositories. Comments and likes
// live inside the post document; every change to them is a single atomic
// store operation so concurrent requests cannot lose each other's updates.
package posts

import (
	"context"

	"github.com/dmitrijs2005/socialfeed/internal/server/models"
)

// Repository persists posts. Methods addressing a post by id return
// common.ErrorNotFound when it does not exist.
type Repository interface {
	Create(ctx context.Context, post *models.Post) error
	Get(ctx context.Context, id string) (*models.Post, error)
	// List returns every post, newest first.
	List(ctx context.Context) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUserName removes all posts authored by userName and returns
	// how many were removed.
	DeleteByUserName(ctx context.Context, userName string) (int64, error)
	// ToggleLike removes like.UserName's like when present and adds like
	// otherwise, then returns the updated post.
	ToggleLike(ctx context.Context, postID string, like models.Like) (*models.Post, error)
	// AddComment puts comment at the front of the post's comments.
	AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error)
	// RemoveComment deletes a comment by id; common.ErrorNotFound if either
	// the post or the comment is missing.
	RemoveComment(ctx context.Context, postID, commentID string) (*models.Post, error)
}
