package server

import (
	"strings"

	"inkshelf/internal/service"
	"inkshelf/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateReport godoc
// @Summary Report a user, review or comment
// @Tags moderation
// @Accept json
// @Produce json
// @Param request body service.CreateReportInput true "Report"
// @Success 201 {object} models.ModerationReport
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /reports [post]
func (s *Server) CreateReport(c *fiber.Ctx) error {
	var req service.CreateReportInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	req.TargetType = strings.TrimSpace(strings.ToLower(req.TargetType))
	if err := validation.ValidateReport(req.TargetType, req.TargetID, req.Reason, req.Details); err != nil {
		return invalidInput(c, err)
	}

	report, err := s.reportService.Create(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetAdminReports godoc
// @Summary List moderation reports
// @Tags admin
// @Produce json
// @Param status query string false "open, resolved or dismissed"
// @Param target_type query string false "user, review or comment"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.ModerationReport
// @Security BearerAuth
// @Router /admin/reports [get]
func (s *Server) GetAdminReports(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status"))
	targetType := strings.TrimSpace(c.Query("target_type"))
	page := parsePagination(c, 100)

	reports, err := s.reportService.List(c.UserContext(), status, targetType, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reports)
}

// ResolveAdminReport godoc
// @Summary Resolve or dismiss a report
// @Description Resolving with a strike issues it against the reported user.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Report ID"
// @Param request body service.ResolveReportInput true "Verdict"
// @Success 200 {object} service.ResolveReportResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/reports/{id}/resolve [post]
func (s *Server) ResolveAdminReport(c *fiber.Ctx) error {
	adminID := currentUserID(c)
	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.ResolveReportInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	req.Status = strings.TrimSpace(strings.ToLower(req.Status))
	if err := validation.ValidateReportResolution(req.Status); err != nil {
		return invalidInput(c, err)
	}
	if req.Strike != nil {
		if err := validation.ValidateStrike(req.Strike.Reason, req.Strike.Severity); err != nil {
			return invalidInput(c, err)
		}
	}

	result, err := s.reportService.Resolve(c.UserContext(), reportID, adminID, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
