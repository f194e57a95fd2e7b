package server

import (
	"context"
	"testing"

	"epowrite/internal/config"
	"epowrite/internal/models"
	"epowrite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRepoStub is a function-field stub for repository.PostRepository.
type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, uint) (*models.Post, error)
	getByIDAnyStateFn  func(context.Context, uint) (*models.Post, error)
	updateFieldsFn     func(context.Context, uint, map[string]interface{}) error
	toggleLikeFn       func(context.Context, uint, uint) (bool, error)
	addCommentFn       func(context.Context, *models.Comment) error
	addReportFn        func(context.Context, *models.Report) error
	softDeleteFn       func(context.Context, uint) (bool, error)
	restoreFn          func(context.Context, uint) (bool, error)
	hardDeleteFn       func(context.Context, uint) error
	listFeedFn         func(context.Context, string, int, int) ([]*models.Post, error)
	listReportedFn     func(context.Context, int, int) ([]*models.Post, error)
	listSoftDeletedFn  func(context.Context, int, int) ([]*models.Post, error)
	listByAuthorFn     func(context.Context, uint, int, int) ([]*models.Post, error)
	updateAuthorNameFn func(context.Context, uint, string) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByIDAnyState(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDAnyStateFn(ctx, id)
}
func (s *postRepoStub) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return s.updateFieldsFn(ctx, id, fields)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *postRepoStub) AddComment(ctx context.Context, comment *models.Comment) error {
	return s.addCommentFn(ctx, comment)
}
func (s *postRepoStub) AddReport(ctx context.Context, report *models.Report) error {
	return s.addReportFn(ctx, report)
}
func (s *postRepoStub) SoftDelete(ctx context.Context, id uint) (bool, error) {
	return s.softDeleteFn(ctx, id)
}
func (s *postRepoStub) Restore(ctx context.Context, id uint) (bool, error) {
	return s.restoreFn(ctx, id)
}
func (s *postRepoStub) HardDelete(ctx context.Context, id uint) error {
	return s.hardDeleteFn(ctx, id)
}
func (s *postRepoStub) ListFeed(ctx context.Context, titleFilter string, limit, offset int) ([]*models.Post, error) {
	return s.listFeedFn(ctx, titleFilter, limit, offset)
}
func (s *postRepoStub) ListReported(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listReportedFn(ctx, limit, offset)
}
func (s *postRepoStub) ListSoftDeleted(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listSoftDeletedFn(ctx, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) UpdateAuthorName(ctx context.Context, authorID uint, name string) (int64, error) {
	return s.updateAuthorNameFn(ctx, authorID, name)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:          func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:         func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getByIDAnyStateFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		updateFieldsFn:    func(_ context.Context, _ uint, _ map[string]interface{}) error { return nil },
		toggleLikeFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		addCommentFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		addReportFn:       func(_ context.Context, _ *models.Report) error { return nil },
		softDeleteFn:      func(_ context.Context, _ uint) (bool, error) { return true, nil },
		restoreFn:         func(_ context.Context, _ uint) (bool, error) { return true, nil },
		hardDeleteFn:      func(_ context.Context, _ uint) error { return nil },
		listFeedFn:        func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) { return nil, nil },
		listReportedFn:    func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listSoftDeletedFn: func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn:    func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		updateAuthorNameFn: func(_ context.Context, _ uint, _ string) (int64, error) {
			return 0, nil
		},
	}
}

// userRepoStub is a function-field stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByEmailFn        func(context.Context, string) (*models.User, error)
	getByUsernameFn     func(context.Context, string) (*models.User, error)
	createFn            func(context.Context, *models.User) error
	updateFn            func(context.Context, *models.User) error
	updateDisplayNameFn func(context.Context, uint, string) error
	isModeratorFn       func(context.Context, uint) (bool, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateDisplayName(ctx context.Context, id uint, name string) error {
	return s.updateDisplayNameFn(ctx, id, name)
}
func (s *userRepoStub) IsModerator(ctx context.Context, id uint) (bool, error) {
	return s.isModeratorFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "writer", DisplayName: "Writer"}, nil
		},
		getByEmailFn:        func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn:     func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		createFn:            func(_ context.Context, _ *models.User) error { return nil },
		updateFn:            func(_ context.Context, _ *models.User) error { return nil },
		updateDisplayNameFn: func(_ context.Context, _ uint, _ string) error { return nil },
		isModeratorFn:       func(_ context.Context, _ uint) (bool, error) { return false, nil },
	}
}

// notifRepoStub is a function-field stub for repository.NotificationRepository.
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

// newTestServer wires a Server onto stub repositories and returns a Fiber app
// with the given user pre-authenticated.
func newTestServer(t *testing.T, postRepo *postRepoStub, userRepo *userRepoStub, notifRepo *notifRepoStub, authedUser uint) (*Server, *fiber.App) {
	t.Helper()
	if postRepo == nil {
		postRepo = noopPostRepo()
	}
	if userRepo == nil {
		userRepo = noopUserRepo()
	}
	if notifRepo == nil {
		notifRepo = noopNotifRepo()
	}

	s := &Server{
		config:            &config.Config{JWTSecret: "test-secret"},
		postRepo:          postRepo,
		userRepo:          userRepo,
		notifRepo:         notifRepo,
		postService:       service.NewPostService(postRepo, userRepo),
		moderationService: service.NewModerationService(postRepo, userRepo, notifRepo),
		userService:       service.NewUserService(userRepo, postRepo),
		mediaService:      service.NewMediaService(&config.Config{UploadDir: t.TempDir()}),
	}

	app := fiber.New()
	if authedUser != 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", authedUser)
			return c.Next()
		})
	}
	return s, app
}
