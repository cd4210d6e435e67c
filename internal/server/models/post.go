package models

import (
	"slices"
	"time"
)

// Post is a text post. Comments and Likes are embedded in it.
type Post struct {
	ID string
	// Body is the post text.
	Body string
	// UserName is the author's username, fixed at creation.
	UserName  string
	CreatedAt time.Time
	// Comments are ordered most recent first.
	Comments []Comment
	// Likes hold at most one entry per username.
	Likes []Like
}

// Comment is embedded in a Post.
type Comment struct {
	ID        string
	Body      string
	UserName  string
	CreatedAt time.Time
}

// Like is embedded in a Post.
type Like struct {
	ID        string
	UserName  string
	CreatedAt time.Time
}

// LikeCount is derived from Likes.
func (p *Post) LikeCount() int { return len(p.Likes) }

// CommentCount is derived from Comments.
func (p *Post) CommentCount() int { return len(p.Comments) }

// LikedBy reports whether username has liked the post.
func (p *Post) LikedBy(username string) bool {
	return slices.ContainsFunc(p.Likes, func(l Like) bool { return l.UserName == username })
}

// FindComment returns the comment with id, or false.
func (p *Post) FindComment(id string) (Comment, bool) {
	i := slices.IndexFunc(p.Comments, func(c Comment) bool { return c.ID == id })
	if i < 0 {
		return Comment{}, false
	}
	return p.Comments[i], true
}

// Clone returns a deep copy so callers can hand a post out without sharing
// the embedded slices.
func (p *Post) Clone() *Post {
	c := *p
	c.Comments = slices.Clone(p.Comments)
	c.Likes = slices.Clone(p.Likes)
	return &c
}
