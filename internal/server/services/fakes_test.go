package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/socialfeed/internal/logging"
	"github.com/dmitrijs2005/socialfeed/internal/server/config"
	"github.com/dmitrijs2005/socialfeed/internal/server/models"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/socialfeed/internal/server/repositories/users"
)

var errDB = errors.New("db down")

var testCfg = &config.Config{
	SecretKey:             "k",
	TokenValidityDuration: time.Hour,
	BcryptCost:            4,
}

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	t := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newServices(m repomanager.RepositoryManager) (*UserService, *PostService) {
	us := NewUserService(m, testCfg, logging.Discard())
	ps := NewPostService(m, logging.Discard())
	clock := fixedClock()
	us.now, ps.now = clock, clock
	return us, ps
}

// fakeUsersRepo only fails where told to and otherwise reports not found.
type fakeUsersRepo struct {
	getErr    error
	createErr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(context.Context, string) (*models.User, error) {
	return nil, f.getErr
}

func (f *fakeUsersRepo) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, f.getErr
}

func (f *fakeUsersRepo) GetUserByID(context.Context, string) (*models.User, error) {
	return nil, f.getErr
}

func (f *fakeUsersRepo) Delete(context.Context, string) error { return f.getErr }

// failingPostsRepo fails every call with err.
type failingPostsRepo struct {
	err error
}

func (f *failingPostsRepo) Create(context.Context, *models.Post) error { return f.err }
func (f *failingPostsRepo) Get(context.Context, string) (*models.Post, error) {
	return nil, f.err
}
func (f *failingPostsRepo) List(context.Context) ([]*models.Post, error) { return nil, f.err }
func (f *failingPostsRepo) Delete(context.Context, string) error         { return f.err }
func (f *failingPostsRepo) DeleteByUserName(context.Context, string) (int64, error) {
	return 0, f.err
}
func (f *failingPostsRepo) ToggleLike(context.Context, string, models.Like) (*models.Post, error) {
	return nil, f.err
}
func (f *failingPostsRepo) AddComment(context.Context, string, models.Comment) (*models.Post, error) {
	return nil, f.err
}
func (f *failingPostsRepo) RemoveComment(context.Context, string, string) (*models.Post, error) {
	return nil, f.err
}

type fakeRepoManager struct {
	u users.Repository
	p posts.Repository
}

func (m *fakeRepoManager) Users() users.Repository { return m.u }
func (m *fakeRepoManager) Posts() posts.Repository { return m.p }
func (m *fakeRepoManager) RunInTx(ctx context.Context, fn repomanager.TxFunc) error {
	return fn(ctx, m.u, m.p)
}
func (m *fakeRepoManager) Ping(context.Context) error  { return nil }
func (m *fakeRepoManager) Close(context.Context) error { return nil }
