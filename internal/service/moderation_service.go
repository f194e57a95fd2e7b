package service

import (
	"context"
	"fmt"
	"log/slog"

	"epowrite/internal/middleware"
	"epowrite/internal/models"
	"epowrite/internal/repository"
)

// ModerationService implements moderator-only lifecycle operations and the
// review queues. Every entry point re-checks the caller's moderator bit
// against the store; the auth token alone is not trusted for role decisions.
type ModerationService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository
}

func NewModerationService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
) *ModerationService {
	return &ModerationService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		notifRepo: notifRepo,
	}
}

func (s *ModerationService) requireModerator(ctx context.Context, userID uint) error {
	mod, err := s.userRepo.IsModerator(ctx, userID)
	if err != nil {
		return err
	}
	if !mod {
		return models.NewUnauthorizedError("Moderator privileges required")
	}
	return nil
}

// SoftDeletePost hides a post from all public surfaces. Repeating the call on
// an already-deleted post succeeds without changing anything; likes, comments
// and reports survive untouched for a later restore.
func (s *ModerationService) SoftDeletePost(ctx context.Context, moderatorID, postID uint) (*models.Post, error) {
	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}

	changed, err := s.postRepo.SoftDelete(ctx, postID)
	if err != nil {
		return nil, err
	}
	if changed {
		middleware.ModerationActions.WithLabelValues("soft_delete").Inc()
		middleware.Logger.InfoContext(ctx, "post soft-deleted",
			slog.Uint64("post_id", uint64(postID)),
			slog.Uint64("moderator_id", uint64(moderatorID)),
		)
	}
	return s.postRepo.GetByIDAnyState(ctx, postID)
}

// RestorePost brings a soft-deleted post back to the live state with its
// interaction history intact. Restoring a live post is a no-op.
func (s *ModerationService) RestorePost(ctx context.Context, moderatorID, postID uint) (*models.Post, error) {
	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}

	changed, err := s.postRepo.Restore(ctx, postID)
	if err != nil {
		return nil, err
	}
	if changed {
		middleware.ModerationActions.WithLabelValues("restore").Inc()
		middleware.Logger.InfoContext(ctx, "post restored",
			slog.Uint64("post_id", uint64(postID)),
			slog.Uint64("moderator_id", uint64(moderatorID)),
		)
	}
	return s.postRepo.GetByIDAnyState(ctx, postID)
}

// HardDeletePost permanently removes a post and notifies its author. Unlike
// soft deletion this is not reversible and is meant for content that must
// not be retained.
func (s *ModerationService) HardDeletePost(ctx context.Context, moderatorID, postID uint) error {
	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return err
	}

	post, err := s.postRepo.GetByIDAnyState(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.postRepo.HardDelete(ctx, postID); err != nil {
		return err
	}
	middleware.ModerationActions.WithLabelValues("hard_delete").Inc()
	middleware.Logger.InfoContext(ctx, "post permanently deleted",
		slog.Uint64("post_id", uint64(postID)),
		slog.Uint64("moderator_id", uint64(moderatorID)),
	)

	// Best-effort author notification; failure to notify must not undo the delete.
	notification := &models.Notification{
		UserID:  post.AuthorID,
		Message: fmt.Sprintf("Your post %q was removed by a moderator.", post.Title),
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to notify author of removal",
			slog.Uint64("author_id", uint64(post.AuthorID)),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// GetPostForReview returns a post in any lifecycle state, reports included.
func (s *ModerationService) GetPostForReview(ctx context.Context, moderatorID, postID uint) (*models.Post, error) {
	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByIDAnyState(ctx, postID)
}

// ListReported returns the review queue: live flagged posts ordered by most
// recent report.
func (s *ModerationService) ListReported(ctx context.Context, moderatorID uint, limit, offset int) ([]*models.Post, error) {
	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)
	return s.postRepo.ListReported(ctx, limit, offset)
}

// ListSoftDeleted returns posts awaiting restore or permanent removal.
func (s *ModerationService) ListSoftDeleted(ctx context.Context, moderatorID uint, limit, offset int) ([]*models.Post, error) {
	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)
	return s.postRepo.ListSoftDeleted(ctx, limit, offset)
}
