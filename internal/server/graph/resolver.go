package graph

import (
	"context"

	"github.com/dmitrijs2005/socialfeed/internal/logging"
	"github.com/dmitrijs2005/socialfeed/internal/server/apperr"
	"github.com/dmitrijs2005/socialfeed/internal/server/auth"
	"github.com/dmitrijs2005/socialfeed/internal/server/services"
	"github.com/graph-gophers/graphql-go"
)

// Resolver is the root for both Query and Mutation fields. Errors are
// returned as *apperr.Error so the executor renders their extensions.
type Resolver struct {
	users  *services.UserService
	posts  *services.PostService
	logger logging.Logger
}

func NewResolver(users *services.UserService, posts *services.PostService, logger logging.Logger) *Resolver {
	return &Resolver{users: users, posts: posts, logger: logger}
}

// fail tags err for the client.
func fail(err error) error {
	return apperr.From(err)
}

// principal reads the gate result the HTTP layer stored in ctx.
func principal(ctx context.Context) (auth.Principal, error) {
	p, err := auth.Require(ctx)
	if err != nil {
		return auth.Principal{}, fail(err)
	}
	return p, nil
}

// Queries

func (r *Resolver) GetPosts(ctx context.Context) (*[]*postResolver, error) {
	list, err := r.posts.List(ctx)
	if err != nil {
		return nil, fail(err)
	}
	result := make([]*postResolver, 0, len(list))
	for _, p := range list {
		result = append(result, &postResolver{p: p})
	}
	return &result, nil
}

func (r *Resolver) GetPost(ctx context.Context, args struct{ PostID graphql.ID }) (*postResolver, error) {
	p, err := r.posts.Get(ctx, string(args.PostID))
	if err != nil {
		return nil, fail(err)
	}
	return &postResolver{p: p}, nil
}

// Mutations

type registerArgs struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (r *Resolver) Register(ctx context.Context, args registerArgs) (*userResolver, error) {
	sess, err := r.users.Register(ctx, services.RegisterInput{
		Username:        args.Username,
		Email:           args.Email,
		Password:        args.Password,
		ConfirmPassword: args.ConfirmPassword,
	})
	if err != nil {
		r.logger.Info(ctx, "registration rejected", "username", args.Username, "kind", apperr.KindOf(err).String(), "reason", err.Error())
		return nil, fail(err)
	}
	return &userResolver{u: sess.User, token: sess.Token}, nil
}

type loginArgs struct {
	Username string
	Password string
}

func (r *Resolver) Login(ctx context.Context, args loginArgs) (*userResolver, error) {
	sess, err := r.users.Login(ctx, args.Username, args.Password)
	if err != nil {
		r.logger.Info(ctx, "login rejected", "username", args.Username, "kind", apperr.KindOf(err).String(), "reason", err.Error())
		return nil, fail(err)
	}
	return &userResolver{u: sess.User, token: sess.Token}, nil
}

func (r *Resolver) DeleteUser(ctx context.Context) (string, error) {
	p, err := principal(ctx)
	if err != nil {
		return "", err
	}
	msg, err := r.users.DeleteUser(ctx, p)
	if err != nil {
		return "", fail(err)
	}
	return msg, nil
}

func (r *Resolver) CreatePost(ctx context.Context, args struct{ Body string }) (*postResolver, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	post, err := r.posts.Create(ctx, p, args.Body)
	if err != nil {
		return nil, fail(err)
	}
	return &postResolver{p: post}, nil
}

func (r *Resolver) DeletePost(ctx context.Context, args struct{ PostID graphql.ID }) (string, error) {
	p, err := principal(ctx)
	if err != nil {
		return "", err
	}
	msg, err := r.posts.Delete(ctx, p, string(args.PostID))
	if err != nil {
		return "", fail(err)
	}
	return msg, nil
}

func (r *Resolver) LikePost(ctx context.Context, args struct{ PostID graphql.ID }) (*postResolver, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	post, err := r.posts.ToggleLike(ctx, p, string(args.PostID))
	if err != nil {
		return nil, fail(err)
	}
	return &postResolver{p: post}, nil
}

type createCommentArgs struct {
	PostID graphql.ID
	Body   string
}

func (r *Resolver) CreateComment(ctx context.Context, args createCommentArgs) (*postResolver, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	post, err := r.posts.AddComment(ctx, p, string(args.PostID), args.Body)
	if err != nil {
		return nil, fail(err)
	}
	return &postResolver{p: post}, nil
}

type deleteCommentArgs struct {
	PostID    graphql.ID
	CommentID graphql.ID
}

func (r *Resolver) DeleteComment(ctx context.Context, args deleteCommentArgs) (*postResolver, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	post, err := r.posts.DeleteComment(ctx, p, string(args.PostID), string(args.CommentID))
	if err != nil {
		return nil, fail(err)
	}
	return &postResolver{p: post}, nil
}
