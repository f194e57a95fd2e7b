package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"epowrite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moderatorRepo() *userRepoStub {
	repo := noopUserRepo()
	repo.isModeratorFn = func(_ context.Context, id uint) (bool, error) { return id == 1, nil }
	return repo
}

func TestModerationRoutes_RejectNonModerators(t *testing.T) {
	s, app := newTestServer(t, nil, moderatorRepo(), nil, 2)
	app.Get("/moderation/reported", s.GetReportedPosts)
	app.Get("/moderation/deleted", s.GetDeletedPosts)
	app.Delete("/moderation/posts/:id", s.SoftDeletePost)
	app.Post("/moderation/posts/:id/restore", s.RestorePost)
	app.Delete("/moderation/posts/:id/purge", s.HardDeletePost)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/moderation/reported", nil),
		httptest.NewRequest(http.MethodGet, "/moderation/deleted", nil),
		httptest.NewRequest(http.MethodDelete, "/moderation/posts/1", nil),
		httptest.NewRequest(http.MethodPost, "/moderation/posts/1/restore", nil),
		httptest.NewRequest(http.MethodDelete, "/moderation/posts/1/purge", nil),
	}
	for _, req := range requests {
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s %s", req.Method, req.URL.Path)
		_ = resp.Body.Close()
	}
}

func TestSoftDeletePost(t *testing.T) {
	var deletedID uint
	postRepo := noopPostRepo()
	postRepo.softDeleteFn = func(_ context.Context, id uint) (bool, error) {
		deletedID = id
		return true, nil
	}
	s, app := newTestServer(t, postRepo, moderatorRepo(), nil, 1)
	app.Delete("/moderation/posts/:id", s.SoftDeletePost)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/moderation/posts/7", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uint(7), deletedID)
}

func TestRestorePost_MissingPost(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.restoreFn = func(_ context.Context, id uint) (bool, error) {
		return false, models.NewNotFoundError("Post", id)
	}
	s, app := newTestServer(t, postRepo, moderatorRepo(), nil, 1)
	app.Post("/moderation/posts/:id/restore", s.RestorePost)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/moderation/posts/9/restore", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHardDeletePost_NotifiesAuthor(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.getByIDAnyStateFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 42, Title: "bad post"}, nil
	}
	var notified *models.Notification
	notifRepo := noopNotifRepo()
	notifRepo.createFn = func(_ context.Context, n *models.Notification) error {
		notified = n
		return nil
	}
	s, app := newTestServer(t, postRepo, moderatorRepo(), notifRepo, 1)
	app.Delete("/moderation/posts/:id/purge", s.HardDeletePost)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/moderation/posts/3/purge", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, notified)
	assert.Equal(t, uint(42), notified.UserID)
}

func TestGetReportedPosts(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.listReportedFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
		return []*models.Post{{ID: 1, Flagged: true}, {ID: 2, Flagged: true}}, nil
	}
	s, app := newTestServer(t, postRepo, moderatorRepo(), nil, 1)
	app.Get("/moderation/reported", s.GetReportedPosts)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/moderation/reported", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	assert.Len(t, posts, 2)
}
