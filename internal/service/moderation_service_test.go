package service

import (
	"context"
	"sync"
	"testing"

	"epowrite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notifRepoStub is a stub for repository.NotificationRepository.
type notifRepoStub struct {
	createFn     func(context.Context, *models.Notification) error
	listByUserFn func(context.Context, uint, int, int) ([]*models.Notification, error)
	deleteFn     func(context.Context, uint, uint) error
}

func (s *notifRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notifRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *notifRepoStub) Delete(ctx context.Context, id, userID uint) error {
	return s.deleteFn(ctx, id, userID)
}

func noopNotifRepo() *notifRepoStub {
	return &notifRepoStub{
		createFn:     func(_ context.Context, _ *models.Notification) error { return nil },
		listByUserFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Notification, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _, _ uint) error { return nil },
	}
}

func moderatorUserRepo() *userRepoStub {
	repo := noopUserRepo()
	repo.isModeratorFn = func(_ context.Context, id uint) (bool, error) { return id == 1, nil }
	return repo
}

func TestModerationService_RequiresModerator(t *testing.T) {
	t.Parallel()

	svc := NewModerationService(noopPostRepo(), moderatorUserRepo(), noopNotifRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"soft delete", func() error { _, err := svc.SoftDeletePost(ctx, 2, 10); return err }},
		{"restore", func() error { _, err := svc.RestorePost(ctx, 2, 10); return err }},
		{"hard delete", func() error { return svc.HardDeletePost(ctx, 2, 10) }},
		{"get for review", func() error { _, err := svc.GetPostForReview(ctx, 2, 10); return err }},
		{"list reported", func() error { _, err := svc.ListReported(ctx, 2, 20, 0); return err }},
		{"list deleted", func() error { _, err := svc.ListSoftDeleted(ctx, 2, 20, 0); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertUnauthorizedError(t, tt.call())
		})
	}
}

func TestModerationService_SoftDeletePost(t *testing.T) {
	t.Parallel()

	t.Run("hides the post and keeps interactions", func(t *testing.T) {
		var softDeleted bool
		postRepo := noopPostRepo()
		postRepo.softDeleteFn = func(_ context.Context, id uint) (bool, error) {
			softDeleted = true
			assert.Equal(t, uint(10), id)
			return true, nil
		}
		postRepo.getByIDAnyStateFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, LikedBy: []uint{3, 4}}, nil
		}
		svc := NewModerationService(postRepo, moderatorUserRepo(), noopNotifRepo())

		post, err := svc.SoftDeletePost(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.True(t, softDeleted)
		assert.Equal(t, []uint{3, 4}, post.LikedBy)
	})

	t.Run("repeat delete is a no-op", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.softDeleteFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
		svc := NewModerationService(postRepo, moderatorUserRepo(), noopNotifRepo())

		_, err := svc.SoftDeletePost(context.Background(), 1, 10)
		require.NoError(t, err)
	})

	t.Run("missing post", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.softDeleteFn = func(_ context.Context, id uint) (bool, error) {
			return false, models.NewNotFoundError("Post", id)
		}
		svc := NewModerationService(postRepo, moderatorUserRepo(), noopNotifRepo())

		_, err := svc.SoftDeletePost(context.Background(), 1, 10)
		assertNotFoundError(t, err)
	})
}

func TestModerationService_RestorePost(t *testing.T) {
	t.Parallel()

	t.Run("restores to live state", func(t *testing.T) {
		var restored bool
		postRepo := noopPostRepo()
		postRepo.restoreFn = func(_ context.Context, id uint) (bool, error) {
			restored = true
			assert.Equal(t, uint(10), id)
			return true, nil
		}
		svc := NewModerationService(postRepo, moderatorUserRepo(), noopNotifRepo())

		_, err := svc.RestorePost(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.True(t, restored)
	})

	t.Run("restoring a live post is a no-op", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.restoreFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
		svc := NewModerationService(postRepo, moderatorUserRepo(), noopNotifRepo())

		_, err := svc.RestorePost(context.Background(), 1, 10)
		require.NoError(t, err)
	})
}

func TestModerationService_HardDeletePost(t *testing.T) {
	t.Parallel()

	t.Run("deletes and notifies the author", func(t *testing.T) {
		var deleted bool
		var notified *models.Notification
		postRepo := noopPostRepo()
		postRepo.getByIDAnyStateFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 7, Title: "spam post"}, nil
		}
		postRepo.hardDeleteFn = func(_ context.Context, id uint) error {
			deleted = true
			assert.Equal(t, uint(10), id)
			return nil
		}
		notifRepo := noopNotifRepo()
		notifRepo.createFn = func(_ context.Context, n *models.Notification) error {
			notified = n
			return nil
		}
		svc := NewModerationService(postRepo, moderatorUserRepo(), notifRepo)

		err := svc.HardDeletePost(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.True(t, deleted)
		require.NotNil(t, notified)
		assert.Equal(t, uint(7), notified.UserID)
		assert.Contains(t, notified.Message, "spam post")
	})

	t.Run("notification failure does not undo the delete", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.getByIDAnyStateFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 7, Title: "spam post"}, nil
		}
		notifRepo := noopNotifRepo()
		notifRepo.createFn = func(_ context.Context, _ *models.Notification) error {
			return models.NewInternalError(assert.AnError)
		}
		svc := NewModerationService(postRepo, moderatorUserRepo(), notifRepo)

		err := svc.HardDeletePost(context.Background(), 1, 10)
		require.NoError(t, err)
	})
}

func TestModerationService_Queues(t *testing.T) {
	t.Parallel()

	t.Run("reported queue", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.listReportedFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
			assert.Equal(t, DefaultPageSize, limit)
			assert.Equal(t, 0, offset)
			return []*models.Post{{ID: 1, Flagged: true}}, nil
		}
		svc := NewModerationService(postRepo, moderatorUserRepo(), noopNotifRepo())

		posts, err := svc.ListReported(context.Background(), 1, 0, -1)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.True(t, posts[0].Flagged)
	})

	t.Run("deleted queue", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.listSoftDeletedFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
			assert.Equal(t, 5, limit)
			assert.Equal(t, 10, offset)
			return nil, nil
		}
		svc := NewModerationService(postRepo, moderatorUserRepo(), noopNotifRepo())

		_, err := svc.ListSoftDeleted(context.Background(), 1, 5, 10)
		require.NoError(t, err)
	})
}

// Concurrent soft-delete and restore on the same post must converge to a
// single lifecycle state, never an error.
func TestModerationService_ConcurrentLifecycleChanges(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	deleted := false
	postRepo := noopPostRepo()
	postRepo.softDeleteFn = func(_ context.Context, _ uint) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if deleted {
			return false, nil
		}
		deleted = true
		return true, nil
	}
	postRepo.restoreFn = func(_ context.Context, _ uint) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if !deleted {
			return false, nil
		}
		deleted = false
		return true, nil
	}
	svc := NewModerationService(postRepo, moderatorUserRepo(), noopNotifRepo())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.SoftDeletePost(ctx, 1, 10)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := svc.RestorePost(ctx, 1, 10)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
