package repository

import (
	"context"
	"time"

	"epowrite/internal/cache"
	"epowrite/internal/models"
	"epowrite/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations. Mutations are
// field-scoped: each statement touches only the column or child table it
// changes, so concurrent writers on the same post never clobber each other.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByIDAnyState(ctx context.Context, id uint) (*models.Post, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	ToggleLike(ctx context.Context, userID, postID uint) (liked bool, err error)
	AddComment(ctx context.Context, comment *models.Comment) error
	AddReport(ctx context.Context, report *models.Report) error
	SoftDelete(ctx context.Context, id uint) (changed bool, err error)
	Restore(ctx context.Context, id uint) (changed bool, err error)
	HardDelete(ctx context.Context, id uint) error
	ListFeed(ctx context.Context, titleFilter string, limit, offset int) ([]*models.Post, error)
	ListReported(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListSoftDeleted(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)
	UpdateAuthorName(ctx context.Context, authorID uint, name string) (int64, error)
}

type postRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer r.metrics.TrackQuery("create", "posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translateError(err, "Post", 0)
	}
	cache.InvalidateFeed(ctx)
	cache.InvalidateAuthorPosts(ctx, post.AuthorID)
	return nil
}

// GetByID returns a live post with its comments and liked-by set. Soft-deleted
// posts are invisible here; moderation reads go through GetByIDAnyState.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer r.metrics.TrackQuery("get", "posts")()
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Likes").
		First(&post, id).Error
	if err != nil {
		return nil, translateError(err, "Post", id)
	}
	post.PopulateLikedBy()
	return &post, nil
}

// GetByIDAnyState returns the post regardless of lifecycle state, including
// its reports. Intended for moderation reads.
func (r *postRepository) GetByIDAnyState(ctx context.Context, id uint) (*models.Post, error) {
	defer r.metrics.TrackQuery("get_any_state", "posts")()
	var post models.Post
	err := r.db.WithContext(ctx).Unscoped().
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Likes").
		Preload("Reports", func(db *gorm.DB) *gorm.DB {
			return db.Order("reports.created_at ASC, reports.id ASC")
		}).
		First(&post, id).Error
	if err != nil {
		return nil, translateError(err, "Post", id)
	}
	post.PopulateLikedBy()
	return &post, nil
}

// UpdateFields applies a partial update restricted to the given columns. Only
// live posts are updatable; a soft-deleted target reports NotFound.
func (r *postRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	defer r.metrics.TrackQuery("update_fields", "posts")()
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return translateError(result.Error, "Post", id)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// ToggleLike flips the like membership for (userID, postID) in a way that is
// safe under concurrent toggles of the same pair. The insert relies on the
// composite unique index; when it inserts nothing the like already existed
// and is removed by key instead. No read-then-write window exists.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	defer r.metrics.TrackQuery("toggle_like", "likes")()
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error != nil {
		return false, translateError(result.Error, "Post", postID)
	}
	if result.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID)
		return true, nil
	}

	// Like already present: this toggle removes it.
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error; err != nil {
		return false, translateError(err, "Post", postID)
	}
	cache.InvalidatePost(ctx, postID)
	return false, nil
}

func (r *postRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	defer r.metrics.TrackQuery("add_comment", "comments")()
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return translateError(err, "Post", comment.PostID)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

// AddReport appends the report and raises the post's flagged bit in one
// transaction. The flag is monotonic: it is only ever set here and never
// cleared by report-related code paths.
func (r *postRepository) AddReport(ctx context.Context, report *models.Report) error {
	defer r.metrics.TrackQuery("add_report", "reports")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", report.PostID).
			UpdateColumn("flagged", true).Error
	})
	if err != nil {
		return translateError(err, "Post", report.PostID)
	}
	cache.InvalidatePost(ctx, report.PostID)
	return nil
}

// SoftDelete marks a live post deleted. The WHERE clause carries the state
// predicate so repeating the call is a no-op rather than an error; changed
// reports whether this call performed the transition.
func (r *postRepository) SoftDelete(ctx context.Context, id uint) (bool, error) {
	defer r.metrics.TrackQuery("soft_delete", "posts")()
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Unscoped().
		Where("id = ? AND deleted_at IS NULL", id).
		UpdateColumn("deleted_at", time.Now().UTC())
	if result.Error != nil {
		return false, translateError(result.Error, "Post", id)
	}
	if result.RowsAffected > 0 {
		cache.InvalidatePost(ctx, id)
		return true, nil
	}
	return false, r.ensureExists(ctx, id)
}

// Restore clears the deletion mark. Same idempotency contract as SoftDelete.
func (r *postRepository) Restore(ctx context.Context, id uint) (bool, error) {
	defer r.metrics.TrackQuery("restore", "posts")()
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		UpdateColumn("deleted_at", nil)
	if result.Error != nil {
		return false, translateError(result.Error, "Post", id)
	}
	if result.RowsAffected > 0 {
		cache.InvalidatePost(ctx, id)
		return true, nil
	}
	return false, r.ensureExists(ctx, id)
}

// ensureExists distinguishes "already in the target state" from "no such
// post" after a conditional update touched zero rows.
func (r *postRepository) ensureExists(ctx context.Context, id uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Unscoped().
		Model(&models.Post{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return translateError(err, "Post", id)
	}
	if count == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

// HardDelete permanently removes the post; likes, comments and reports go
// with it via the cascade constraints.
func (r *postRepository) HardDelete(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("hard_delete", "posts")()
	result := r.db.WithContext(ctx).Unscoped().Delete(&models.Post{}, id)
	if result.Error != nil {
		return translateError(result.Error, "Post", id)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// ListFeed returns live posts newest first, optionally filtered by a
// case-insensitive title substring. Unfiltered windows are served through
// the cache, keyed by the exact (offset, limit) pair.
func (r *postRepository) ListFeed(ctx context.Context, titleFilter string, limit, offset int) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("list_feed", "posts")()

	fetch := func(dest *[]*models.Post) error {
		query := r.db.WithContext(ctx).
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("comments.created_at ASC, comments.id ASC")
			}).
			Preload("Likes")
		if titleFilter != "" {
			query = query.Where("title ILIKE ?", "%"+titleFilter+"%")
		}
		err := query.
			Order("created_at DESC, id DESC").
			Limit(limit).
			Offset(offset).
			Find(dest).Error
		if err != nil {
			return translateError(err, "Post", 0)
		}
		for _, p := range *dest {
			p.PopulateLikedBy()
		}
		return nil
	}

	var posts []*models.Post
	if titleFilter == "" && limit > 0 {
		if err := cache.CacheAside(ctx, cache.FeedKey(offset, limit), &posts, cache.FeedTTL, func() error {
			return fetch(&posts)
		}); err != nil {
			return nil, err
		}
		return posts, nil
	}

	if err := fetch(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListReported returns live flagged posts ordered by most recent report.
func (r *postRepository) ListReported(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("list_reported", "posts")()
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Reports", func(db *gorm.DB) *gorm.DB {
			return db.Order("reports.created_at ASC, reports.id ASC")
		}).
		Where("flagged = ?", true).
		Order(gorm.Expr(
			"(SELECT MAX(reports.created_at) FROM reports WHERE reports.post_id = posts.id) DESC NULLS LAST",
		)).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, translateError(err, "Post", 0)
	}
	return posts, nil
}

// ListSoftDeleted returns soft-deleted posts, most recently deleted first.
func (r *postRepository) ListSoftDeleted(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("list_soft_deleted", "posts")()
	var posts []*models.Post
	err := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, translateError(err, "Post", 0)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("list_by_author", "posts")()
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, translateError(err, "Post", 0)
	}
	return posts, nil
}

// UpdateAuthorName rewrites the denormalized author name on every post by the
// author, including soft-deleted ones. UpdateColumn skips updated_at so a
// rename does not resurface old posts in recency-ordered views.
func (r *postRepository) UpdateAuthorName(ctx context.Context, authorID uint, name string) (int64, error) {
	defer r.metrics.TrackQuery("update_author_name", "posts")()
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Unscoped().
		Where("author_id = ?", authorID).
		UpdateColumn("author_name", name)
	if result.Error != nil {
		return 0, translateError(result.Error, "Post", 0)
	}
	cache.InvalidateFeed(ctx)
	cache.InvalidateAuthorPosts(ctx, authorID)
	return result.RowsAffected, nil
}
