// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"strings"

	"epowrite/internal/middleware"
	"epowrite/internal/models"
	"epowrite/internal/repository"
)

const (
	maxTitleLen   = 200
	maxBodyLen    = 50000 // rich-text markup included
	maxCommentLen = 2000

	// DefaultPageSize is used when the caller does not specify a limit.
	DefaultPageSize = 20
	// MaxPageSize caps a single listing page.
	MaxPageSize = 100
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	AuthorID uint
	Title    string
	Body     string
	Media    string
}

type UpdatePostInput struct {
	UserID uint
	PostID uint
	Title  *string
	Body   *string
	Media  *string
}

type AddCommentInput struct {
	UserID uint
	PostID uint
	Body   string
}

type ReportPostInput struct {
	UserID uint
	PostID uint
	Reason models.ReportReason
}

type ListFeedInput struct {
	TitleFilter string
	Limit       int
	Offset      int
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// clampPage normalizes limit/offset to sane bounds.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	return nil
}

// validateBody checks length only. Body markup is stored verbatim; it is the
// renderer's job to interpret it.
func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return models.NewValidationError("Body is required")
	}
	if len(body) > maxBodyLen {
		return models.NewValidationError("Body too long (max 50000 characters)")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateBody(in.Body); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      in.Title,
		Body:       in.Body,
		Media:      in.Media,
		AuthorID:   author.ID,
		AuthorName: author.Name(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns a live post. Soft-deleted posts are indistinguishable from
// missing ones here.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// UpdatePost applies a partial edit to the caller's own post. Only title,
// body and media are editable; nil fields are left untouched. Concurrent
// likes, comments and reports are never overwritten because the update is
// restricted to exactly the changed columns.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
		fields["title"] = *in.Title
	}
	if in.Body != nil {
		if err := validateBody(*in.Body); err != nil {
			return nil, err
		}
		fields["body"] = *in.Body
	}
	if in.Media != nil {
		fields["media"] = *in.Media
	}
	if len(fields) == 0 {
		return nil, models.NewValidationError("No editable fields provided")
	}

	if err := s.postRepo.UpdateFields(ctx, in.PostID, fields); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID)
}

// ToggleLike flips the caller's like on a live post and returns the refreshed
// post. The membership flip itself is a single atomic store operation.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	// Existence check doubles as the lifecycle gate: deleted posts 404.
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if liked {
		middleware.PostInteractions.WithLabelValues("like").Inc()
	} else {
		middleware.PostInteractions.WithLabelValues("unlike").Inc()
	}
	return s.postRepo.GetByID(ctx, postID)
}

// AddComment appends a comment to a live post. Comments are append-only and
// carry the commenter's display name at the time of writing.
func (s *PostService) AddComment(ctx context.Context, in AddCommentInput) (*models.Post, error) {
	if strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if len(in.Body) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:     in.PostID,
		AuthorName: user.Name(),
		Body:       in.Body,
	}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	middleware.PostInteractions.WithLabelValues("comment").Inc()
	return s.postRepo.GetByID(ctx, in.PostID)
}

// ReportPost files an abuse report against a live post and flags it for
// moderator review. Duplicate reports from the same user are accepted; each
// is an independent entry in the review queue.
func (s *PostService) ReportPost(ctx context.Context, in ReportPostInput) (*models.Post, error) {
	if !in.Reason.Valid() {
		return nil, models.NewValidationError("Invalid report reason")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	reporter, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		PostID:       in.PostID,
		ReporterID:   reporter.ID,
		ReporterName: reporter.Name(),
		Reason:       in.Reason,
	}
	if err := s.postRepo.AddReport(ctx, report); err != nil {
		return nil, err
	}
	middleware.PostInteractions.WithLabelValues("report").Inc()
	return s.postRepo.GetByID(ctx, in.PostID)
}

// ListFeed returns the public feed: live posts, newest first, optionally
// filtered by a case-insensitive title substring.
func (s *PostService) ListFeed(ctx context.Context, in ListFeedInput) ([]*models.Post, error) {
	limit, offset := clampPage(in.Limit, in.Offset)
	return s.postRepo.ListFeed(ctx, strings.TrimSpace(in.TitleFilter), limit, offset)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	limit, offset = clampPage(limit, offset)
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset)
}
