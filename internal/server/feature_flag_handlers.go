package server

import (
	"strconv"

	"inkshelf/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags reports the configured rollout switches and how they
// evaluate for one user: the caller, or the user named by ?user_id=.
// @Summary Feature flags
// @Tags admin
// @Produce json
// @Param user_id query int false "Evaluate for this user instead of the caller"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid user ID"))
		}
		userID = uint(id)
	}

	return c.JSON(fiber.Map{
		"user_id":   userID,
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
