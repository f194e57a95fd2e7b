// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"epowrite/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetReportedPosts handles GET /api/moderation/reported
// @Summary Review queue of live flagged posts, most recently reported first
// @Tags moderation
// @Produce json
// @Success 200 {array} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Router /moderation/reported [get]
func (s *Server) GetReportedPosts(c *fiber.Ctx) error {
	moderatorID := currentUserID(c)
	page := parsePagination(c, 20)

	posts, err := s.moderationService.ListReported(c.Context(), moderatorID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}

// GetDeletedPosts handles GET /api/moderation/deleted
// @Summary Soft-deleted posts awaiting restore or purge, most recently deleted first
// @Tags moderation
// @Produce json
// @Success 200 {array} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Router /moderation/deleted [get]
func (s *Server) GetDeletedPosts(c *fiber.Ctx) error {
	moderatorID := currentUserID(c)
	page := parsePagination(c, 20)

	posts, err := s.moderationService.ListSoftDeleted(c.Context(), moderatorID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}

// GetPostForReview handles GET /api/moderation/posts/:id
// @Summary Fetch a post in any lifecycle state, reports included
// @Tags moderation
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /moderation/posts/{id} [get]
func (s *Server) GetPostForReview(c *fiber.Ctx) error {
	moderatorID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.GetPostForReview(c.Context(), moderatorID, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// SoftDeletePost handles DELETE /api/moderation/posts/:id
// @Summary Hide a post from public surfaces; interactions are retained
// @Tags moderation
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /moderation/posts/{id} [delete]
func (s *Server) SoftDeletePost(c *fiber.Ctx) error {
	moderatorID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.SoftDeletePost(c.Context(), moderatorID, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// RestorePost handles POST /api/moderation/posts/:id/restore
// @Summary Bring a soft-deleted post back to the live state
// @Tags moderation
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /moderation/posts/{id}/restore [post]
func (s *Server) RestorePost(c *fiber.Ctx) error {
	moderatorID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.RestorePost(c.Context(), moderatorID, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// HardDeletePost handles DELETE /api/moderation/posts/:id/purge
// @Summary Permanently remove a post and notify its author
// @Tags moderation
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /moderation/posts/{id}/purge [delete]
func (s *Server) HardDeletePost(c *fiber.Ctx) error {
	moderatorID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.HardDeletePost(c.Context(), moderatorID, id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post permanently deleted"})
}
