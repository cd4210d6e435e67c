package users

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	u := &models.User{ID: "u-1", UserName: "alice", Email: "alice@example.com", PasswordHash: "h", CreatedAt: createdAt}
	got, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	byLogin, err := repo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byLogin.ID)

	byEmail, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byEmail.ID)

	byID, err := repo.GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.UserName)

	// returned values are copies
	byID.UserName = "mallory"
	again, _ := repo.GetUserByID(ctx, "u-1")
	assert.Equal(t, "alice", again.UserName)

	_, err = repo.GetUserByLogin(ctx, "bob")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_UniqueViolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.Create(ctx, &models.User{ID: "u-1", UserName: "alice", Email: "a@x.io"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		user  *models.User
		field string
	}{
		{"username", &models.User{ID: "u-2", UserName: "alice", Email: "b@x.io"}, "username"},
		{"email", &models.User{ID: "u-3", UserName: "bob", Email: "a@x.io"}, "email"},
		{"id", &models.User{ID: "u-1", UserName: "carol", Email: "c@x.io"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tt.user)
			require.ErrorIs(t, err, common.ErrorAlreadyExists)
			var uv *common.UniqueViolation
			require.ErrorAs(t, err, &uv)
			assert.Equal(t, tt.field, uv.Field)
		})
	}
}

func TestMemoryRepository_ConcurrentRegisterSameName(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, &models.User{
				ID:       string(rune('a' + i)),
				UserName: "alice",
				Email:    string(rune('a'+i)) + "@x.io",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)
}

func TestMemoryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.Create(ctx, &models.User{ID: "u-1", UserName: "alice", Email: "a@x.io"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "u-1"))
	require.ErrorIs(t, repo.Delete(ctx, "u-1"), common.ErrorNotFound)

	_, err = repo.GetUserByID(ctx, "u-1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
