package graph

import (
	"github.com/dmitrijs2005/socialfeed/internal/server/models"
	"github.com/dmitrijs2005/socialfeed/internal/timex"
	"github.com/graph-gophers/graphql-go"
)

type userResolver struct {
	u     *models.User
	token string
}

func (r *userResolver) ID() graphql.ID    { return graphql.ID(r.u.ID) }
func (r *userResolver) Username() string  { return r.u.UserName }
func (r *userResolver) Email() string     { return r.u.Email }
func (r *userResolver) CreatedAt() string { return timex.FormatISO(r.u.CreatedAt) }
func (r *userResolver) Token() *string {
	if r.token == "" {
		return nil
	}
	return &r.token
}

// postResolver derives likeCount and commentCount from the slices it was
// loaded with.
type postResolver struct {
	p *models.Post
}

func (r *postResolver) ID() graphql.ID    { return graphql.ID(r.p.ID) }
func (r *postResolver) Body() string      { return r.p.Body }
func (r *postResolver) Username() string  { return r.p.UserName }
func (r *postResolver) CreatedAt() string { return timex.FormatISO(r.p.CreatedAt) }

func (r *postResolver) Comments() *[]*commentResolver {
	out := make([]*commentResolver, 0, len(r.p.Comments))
	for i := range r.p.Comments {
		out = append(out, &commentResolver{c: &r.p.Comments[i]})
	}
	return &out
}

func (r *postResolver) Likes() *[]*likeResolver {
	out := make([]*likeResolver, 0, len(r.p.Likes))
	for i := range r.p.Likes {
		out = append(out, &likeResolver{l: &r.p.Likes[i]})
	}
	return &out
}

func (r *postResolver) LikeCount() *int32 {
	n := int32(r.p.LikeCount())
	return &n
}

func (r *postResolver) CommentCount() *int32 {
	n := int32(r.p.CommentCount())
	return &n
}

type commentResolver struct {
	c *models.Comment
}

func (r *commentResolver) ID() graphql.ID    { return graphql.ID(r.c.ID) }
func (r *commentResolver) CreatedAt() string { return timex.FormatISO(r.c.CreatedAt) }
func (r *commentResolver) Username() string  { return r.c.UserName }
func (r *commentResolver) Body() string      { return r.c.Body }

type likeResolver struct {
	l *models.Like
}

func (r *likeResolver) ID() graphql.ID    { return graphql.ID(r.l.ID) }
func (r *likeResolver) CreatedAt() string { return timex.FormatISO(r.l.CreatedAt) }
func (r *likeResolver) Username() string  { return r.l.UserName }
