// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"io"

	"epowrite/internal/models"
	"epowrite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia handles POST /api/media
// @Summary Upload a post attachment
// @Description Accepts a multipart image upload, normalizes it, and returns
// the URL to store in a post's media field.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} object{url=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /media [post]
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	userID := currentUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	url, err := s.mediaService.Upload(service.UploadMediaInput{
		UserID:      userID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

// ServeMedia handles GET /api/media/:name
// @Summary Serve a stored attachment
// @Tags media
// @Produce image/webp
// @Param name path string true "Stored media name"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /media/{name} [get]
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	path, err := s.mediaService.ResolveForServing(c.Params("name"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	c.Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.SendFile(path)
}
