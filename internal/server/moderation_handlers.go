package server

import (
	"strings"

	"inkshelf/internal/service"
	"inkshelf/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ScreenContentRequest is text a client wants checked before publishing it.
type ScreenContentRequest struct {
	ContentType string `json:"content_type"`
	ContentID   string `json:"content_id"`
	Text        string `json:"text"`
}

// ScreenContent godoc
// @Summary Screen user text
// @Description Checks text against the content rules. Rejected text may earn the author a strike.
// @Tags moderation
// @Accept json
// @Produce json
// @Param request body ScreenContentRequest true "Text to screen"
// @Success 200 {object} service.ModerationOutcome
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /moderation/screen [post]
func (s *Server) ScreenContent(c *fiber.Ctx) error {
	var req ScreenContentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	req.ContentType = strings.TrimSpace(strings.ToLower(req.ContentType))
	if err := validation.ValidateScreenText(req.ContentType, req.Text); err != nil {
		return invalidInput(c, err)
	}

	outcome, err := s.moderationService.ModerateContent(c.UserContext(), service.ModerateContentInput{
		UserID:      currentUserID(c),
		ContentType: req.ContentType,
		ContentID:   strings.TrimSpace(req.ContentID),
		Text:        req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(outcome)
}

// GetUserModeratedContent godoc
// @Summary List a user's screened content
// @Description Screening verdicts for one author, newest first.
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset"
// @Success 200 {array} models.ModeratedContent
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/moderated-content [get]
func (s *Server) GetUserModeratedContent(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)
	rows, err := s.moderationService.ListModeratedContent(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rows)
}
