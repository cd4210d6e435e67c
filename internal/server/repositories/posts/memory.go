package posts

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/server/models"
)

// MemoryRepository keeps posts in process memory. Each mutation holds the
// write lock for its whole read-modify-write, and posts leave the
// repository as deep copies.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts []*models.Post
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) indexOf(id string) int {
	return slices.IndexFunc(r.posts, func(p *models.Post) bool { return p.ID == id })
}

func (r *MemoryRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(post.ID) >= 0 {
		return common.ErrorAlreadyExists
	}
	r.posts = append(r.posts, post.Clone())
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	return r.posts[i].Clone(), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.Post, error) {
	r.mu.RLock()
	result := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		result = append(result, p.Clone())
	}
	r.mu.RUnlock()

	// newest first, ties by id as the SQL and Mongo stores order them
	slices.SortFunc(result, func(a, b *models.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return common.ErrorNotFound
	}
	r.posts = slices.Delete(r.posts, i, i+1)
	return nil
}

func (r *MemoryRepository) DeleteByUserName(_ context.Context, userName string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.posts)
	r.posts = slices.DeleteFunc(r.posts, func(p *models.Post) bool { return p.UserName == userName })
	return int64(before - len(r.posts)), nil
}

// update applies fn to the stored post under the write lock and returns a
// copy of the result.
func (r *MemoryRepository) update(id string, fn func(p *models.Post) error) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	if err := fn(r.posts[i]); err != nil {
		return nil, err
	}
	return r.posts[i].Clone(), nil
}

func (r *MemoryRepository) ToggleLike(_ context.Context, postID string, like models.Like) (*models.Post, error) {
	return r.update(postID, func(p *models.Post) error {
		i := slices.IndexFunc(p.Likes, func(l models.Like) bool { return l.UserName == like.UserName })
		if i >= 0 {
			p.Likes = slices.Delete(p.Likes, i, i+1)
		} else {
			p.Likes = append(p.Likes, like)
		}
		return nil
	})
}

func (r *MemoryRepository) AddComment(_ context.Context, postID string, comment models.Comment) (*models.Post, error) {
	return r.update(postID, func(p *models.Post) error {
		p.Comments = slices.Insert(p.Comments, 0, comment)
		return nil
	})
}

func (r *MemoryRepository) RemoveComment(_ context.Context, postID, commentID string) (*models.Post, error) {
	return r.update(postID, func(p *models.Post) error {
		i := slices.IndexFunc(p.Comments, func(c models.Comment) bool { return c.ID == commentID })
		if i < 0 {
			return common.ErrorNotFound
		}
		p.Comments = slices.Delete(p.Comments, i, i+1)
		return nil
	})
}

