package seed

import (
	"testing"

	"epowrite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_CreateUser_DryRun(t *testing.T) {
	f := NewFactory(nil, SeedOptions{DryRun: true, SkipBcrypt: true})

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.Username)
	assert.NotEmpty(t, user.Email)
	assert.NotEmpty(t, user.DisplayName)
	assert.False(t, user.IsModerator)
}

func TestFactory_CreateModerator_DryRun(t *testing.T) {
	f := NewFactory(nil, SeedOptions{DryRun: true, SkipBcrypt: true})

	user, err := f.CreateModerator()
	require.NoError(t, err)
	assert.True(t, user.IsModerator)
}

func TestFactory_CreateUser_Overrides(t *testing.T) {
	f := NewFactory(nil, SeedOptions{DryRun: true, SkipBcrypt: true})

	user, err := f.CreateUser(func(u *models.User) {
		u.Username = "fixed_name"
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed_name", user.Username)
}

func TestFactory_BuildPost(t *testing.T) {
	f := NewFactory(nil, SeedOptions{DryRun: true, MaxDays: 30})
	author := &models.User{ID: 9, Username: "author", DisplayName: "An Author"}

	post := f.BuildPost(author)
	assert.Equal(t, uint(9), post.AuthorID)
	assert.Equal(t, "An Author", post.AuthorName)
	assert.NotEmpty(t, post.Title)
	assert.NotEmpty(t, post.Body)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestFactory_CreatePostsBatch_DryRunAssignsIDs(t *testing.T) {
	f := NewFactory(nil, SeedOptions{DryRun: true})
	author := &models.User{ID: 1, Username: "author"}

	posts := []*models.Post{f.BuildPost(author), f.BuildPost(author), f.BuildPost(author)}
	require.NoError(t, f.CreatePostsBatch(posts))

	seen := map[uint]bool{}
	for _, p := range posts {
		assert.NotZero(t, p.ID)
		assert.False(t, seen[p.ID], "IDs must be unique")
		seen[p.ID] = true
	}
}

func TestSeed_DryRun(t *testing.T) {
	err := Seed(nil, Options{
		NumUsers: 10,
		NumPosts: 20,
		Factory:  SeedOptions{DryRun: true, SkipBcrypt: true},
	})
	require.NoError(t, err)
}
