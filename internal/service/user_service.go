package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"epowrite/internal/middleware"
	"epowrite/internal/models"
	"epowrite/internal/observability"
	"epowrite/internal/repository"
	"epowrite/internal/validation"
)

// UserService handles account lifecycle: signup, authentication, profile
// reads and the author rename flow.
type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type SignupInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

type UpdateProfileInput struct {
	UserID      uint
	DisplayName string
	Avatar      string
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

// Signup creates an account. Uniqueness violations on username or email come
// back as Conflict from the store; everything else is caught up front.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    string(hashed),
		DisplayName: strings.TrimSpace(in.DisplayName),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns the account. A missing user
// and a bad password produce the same Unauthorized error so login probing
// cannot distinguish them.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile changes avatar and display name. Display name changes go
// through RenameAuthor so denormalized post bylines stay consistent.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Avatar != "" {
		user.Avatar = in.Avatar
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if name := strings.TrimSpace(in.DisplayName); name != "" && name != user.DisplayName {
		if err := s.RenameAuthor(ctx, in.UserID, name); err != nil {
			return nil, err
		}
		user.DisplayName = name
	}
	return user, nil
}

const maxDisplayNameLen = 60

// RenameAuthor updates the account's display name and rewrites the
// denormalized author name on every post the user has written, soft-deleted
// ones included. The rewrite is a single bulk statement on the posts table.
func (s *UserService) RenameAuthor(ctx context.Context, userID uint, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return models.NewValidationError("Display name cannot be empty")
	}
	if len(newName) > maxDisplayNameLen {
		return models.NewValidationError("Display name too long (max 60 characters)")
	}

	if err := s.userRepo.UpdateDisplayName(ctx, userID, newName); err != nil {
		return err
	}

	observability.LogAsyncOperationStart(ctx, "rename_author_posts", map[string]interface{}{
		"user_id": userID,
	})
	rewritten, err := s.postRepo.UpdateAuthorName(ctx, userID, newName)
	if err != nil {
		observability.LogAsyncOperationError(ctx, "rename_author_posts", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	observability.LogAsyncOperationEnd(ctx, "rename_author_posts", map[string]interface{}{
		"user_id":       userID,
		"posts_updated": rewritten,
	})
	middleware.Logger.InfoContext(ctx, "author renamed", "user_id", userID, "posts_updated", rewritten)
	return nil
}
