package server

import (
	"strings"
	"time"

	"inkshelf/internal/middleware"
	"inkshelf/internal/models"
	"inkshelf/internal/service"
	"inkshelf/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// IssueStrikeRequest is the body of an admin-issued strike.
type IssueStrikeRequest struct {
	Reason   models.StrikeReason   `json:"reason"`
	Severity models.StrikeSeverity `json:"severity"`
	Notes    string                `json:"notes"`
}

// BanRequest is the body of an admin ban. A missing duration bans permanently.
type BanRequest struct {
	DurationDays *int   `json:"duration_days"`
	Reason       string `json:"reason"`
}

// GetMyBanStatus godoc
// @Summary Get my ban status
// @Description Returns the caller's effective ban status. Reachable while banned.
// @Tags users
// @Produce json
// @Success 200 {object} service.BanStatus
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me/ban-status [get]
func (s *Server) GetMyBanStatus(c *fiber.Ctx) error {
	status, err := s.strikeService.CheckBanStatus(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(status)
}

// GetUserBanStatus godoc
// @Summary Get a user's ban status
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} service.BanStatus
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/ban-status [get]
func (s *Server) GetUserBanStatus(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	status, err := s.strikeService.CheckBanStatus(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(status)
}

// GetUserStrikes godoc
// @Summary List a user's strikes
// @Description Newest first. Pass active=true to hide expired strikes.
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Param active query bool false "Only active strikes"
// @Success 200 {array} models.Strike
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/strikes [get]
func (s *Server) GetUserStrikes(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var strikes []models.Strike
	if c.QueryBool("active", false) {
		strikes, err = s.strikeService.GetActiveStrikes(c.UserContext(), userID)
	} else {
		strikes, err = s.strikeService.GetAllStrikes(c.UserContext(), userID)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(strikes)
}

// IssueStrike godoc
// @Summary Issue a strike
// @Description Records a strike and applies the escalation for the new count.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body IssueStrikeRequest true "Strike"
// @Success 201 {object} service.BanResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/strikes [post]
func (s *Server) IssueStrike(c *fiber.Ctx) error {
	adminID := currentUserID(c)
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req IssueStrikeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := validation.ValidateStrike(req.Reason, req.Severity); err != nil {
		return invalidInput(c, err)
	}

	result, err := s.strikeService.AddStrike(c.UserContext(), userID, req.Reason, req.Severity, service.StrikeOptions{
		IssuedBy: &adminID,
		Notes:    strings.TrimSpace(req.Notes),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// RemoveUserStrike godoc
// @Summary Remove one strike
// @Description Deletes the strike and recounts. Never lifts a ban.
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Param strikeId path int true "Strike ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/strikes/{strikeId} [delete]
func (s *Server) RemoveUserStrike(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	strikeID, err := s.parseID(c, "strikeId")
	if err != nil {
		return nil
	}

	if err := s.strikeService.RemoveStrike(c.UserContext(), strikeID, userID); err != nil {
		return respondServiceError(c, err)
	}
	middleware.Logger.InfoContext(c.UserContext(), "strike removed by admin",
		"admin_id", currentUserID(c), "user_id", userID, "strike_id", strikeID)
	return c.JSON(fiber.Map{"message": "Strike removed"})
}

// ClearUserStrikes godoc
// @Summary Clear all strikes
// @Description Deletes every strike and zeroes the counter. Never lifts a ban.
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/strikes [delete]
func (s *Server) ClearUserStrikes(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.strikeService.ClearAllStrikes(c.UserContext(), userID); err != nil {
		return respondServiceError(c, err)
	}
	middleware.Logger.InfoContext(c.UserContext(), "strikes cleared by admin",
		"admin_id", currentUserID(c), "user_id", userID)
	return c.JSON(fiber.Map{"message": "Strikes cleared"})
}

// RecalculateUserStrikes godoc
// @Summary Recount active strikes
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/strikes/recalculate [post]
func (s *Server) RecalculateUserStrikes(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	count, err := s.strikeService.RecalculateStrikeCount(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user_id": userID, "strike_count": count})
}

// BanUser godoc
// @Summary Ban a user
// @Description A positive duration_days bans temporarily and replaces any current ban; omit it for a permanent ban.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body BanRequest true "Ban"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/ban [post]
func (s *Server) BanUser(c *fiber.Ctx) error {
	adminID := currentUserID(c)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if adminID == targetID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("cannot ban yourself"))
	}

	var req BanRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := validation.ValidateBan(req.DurationDays, req.Reason); err != nil {
		return invalidInput(c, err)
	}
	reason := strings.TrimSpace(req.Reason)

	if req.DurationDays != nil {
		until, err := s.strikeService.TempBan(c.UserContext(), targetID, *req.DurationDays, reason, &adminID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":      "User temporarily banned",
			"is_permanent": false,
			"banned_until": until,
		})
	}

	if err := s.strikeService.PermaBan(c.UserContext(), targetID, reason, &adminID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":      "User permanently banned",
		"is_permanent": true,
	})
}

// UnbanUser godoc
// @Summary Lift a ban
// @Description Clears the ban columns. Strikes are left untouched.
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/unban [post]
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.strikeService.Unban(c.UserContext(), targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unbanned"})
}

// GetBannedUsers godoc
// @Summary List banned users
// @Description Users whose ban is in effect now, most recently banned first.
// @Tags admin
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /admin/users/banned [get]
func (s *Server) GetBannedUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	users, err := s.userRepo.ListBanned(c.UserContext(), time.Now().UTC(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}
