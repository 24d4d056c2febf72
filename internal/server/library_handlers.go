package server

import (
	"inkshelf/internal/models"
	"inkshelf/internal/service"
	"inkshelf/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetBook godoc
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} models.Book
// @Failure 404 {object} models.ErrorResponse
// @Router /books/{id} [get]
func (s *Server) GetBook(c *fiber.Ctx) error {
	bookID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	book, err := s.bookRepo.GetByID(c.UserContext(), bookID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(book)
}

// GetLibrary godoc
// @Summary List my library
// @Description Most recently updated first, optionally filtered by status.
// @Tags library
// @Produce json
// @Param status query string false "Reading status"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.LibraryEntry
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /library [get]
func (s *Server) GetLibrary(c *fiber.Ctx) error {
	status := models.ReadingStatus(c.Query("status"))
	if err := validation.ValidateReadingStatus(status); err != nil {
		return invalidInput(c, err)
	}
	page := parsePagination(c, 50)

	entries, err := s.libraryService.ListEntries(c.UserContext(), currentUserID(c), status, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entries)
}

// AddLibraryEntry godoc
// @Summary Add a book to my library
// @Tags library
// @Accept json
// @Produce json
// @Param request body service.AddEntryInput true "Entry"
// @Success 201 {object} models.LibraryEntry
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /library [post]
func (s *Server) AddLibraryEntry(c *fiber.Ctx) error {
	var req service.AddEntryInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.BookID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("book_id is required"))
	}
	if err := validation.ValidateReadingStatus(req.Status); err != nil {
		return invalidInput(c, err)
	}

	entry, err := s.libraryService.AddEntry(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetLibraryEntry godoc
// @Summary Get one library entry
// @Tags library
// @Produce json
// @Param bookId path int true "Book ID"
// @Success 200 {object} models.LibraryEntry
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /library/{bookId} [get]
func (s *Server) GetLibraryEntry(c *fiber.Ctx) error {
	bookID, err := s.parseID(c, "bookId")
	if err != nil {
		return nil
	}
	entry, err := s.libraryService.GetEntry(c.UserContext(), currentUserID(c), bookID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entry)
}

// UpdateLibraryEntry godoc
// @Summary Update reading progress
// @Description Partial update. Absent fields are kept, null clears a field. Status and dates follow chapter and volume progress.
// @Tags library
// @Accept json
// @Produce json
// @Param bookId path int true "Book ID"
// @Param request body service.ProgressPatch true "Progress patch"
// @Success 200 {object} models.LibraryEntry
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /library/{bookId} [patch]
func (s *Server) UpdateLibraryEntry(c *fiber.Ctx) error {
	bookID, err := s.parseID(c, "bookId")
	if err != nil {
		return nil
	}

	var patch service.ProgressPatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidBody(c)
	}
	if patch.IsEmpty() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("no fields to update"))
	}
	if err := validation.ValidateProgressPatch(patch); err != nil {
		return invalidInput(c, err)
	}

	entry, err := s.libraryService.UpdateEntry(c.UserContext(), currentUserID(c), bookID, patch)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entry)
}

// DeleteLibraryEntry godoc
// @Summary Remove a book from my library
// @Tags library
// @Param bookId path int true "Book ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /library/{bookId} [delete]
func (s *Server) DeleteLibraryEntry(c *fiber.Ctx) error {
	bookID, err := s.parseID(c, "bookId")
	if err != nil {
		return nil
	}
	if err := s.libraryService.RemoveEntry(c.UserContext(), currentUserID(c), bookID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
