package server

import (
	"inkshelf/internal/featureflags"
	"inkshelf/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyActivity godoc
// @Summary List my library activity
// @Description Newest first. Available when the activity_feed flag is on for the caller.
// @Tags users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.ActivityLog
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me/activity [get]
func (s *Server) GetMyActivity(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if !s.featureFlags.Enabled(featureflags.ActivityFeed, userID) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Activity feed is not available"})
	}

	page := parsePagination(c, 20)
	entries, err := s.activityLogger.List(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entries)
}
