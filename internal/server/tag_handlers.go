package server

import (
	"stackit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTags handles GET /api/tags
// @Summary List tags with question counts
// @Tags tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (s *Server) GetTags(c *fiber.Ctx) error {
	ctx := c.Context()

	tags, err := s.tagRepo.ListWithCounts(ctx)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(tags)
}

// GetQuestionsByTag handles GET /api/tags/:name/questions
// @Summary List questions carrying a tag
// @Tags tags
// @Produce json
// @Param name path string true "Tag name"
// @Success 200 {array} models.Question
// @Failure 404 {object} object{error=string}
// @Router /tags/{name}/questions [get]
func (s *Server) GetQuestionsByTag(c *fiber.Ctx) error {
	ctx := c.Context()
	name := c.Params("name")
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Tag name is required"))
	}

	if _, err := s.tagRepo.GetByName(ctx, name); err != nil {
		return models.RespondWithAppError(c, err)
	}

	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	questions, err := s.questionRepo.GetByTag(ctx, name, page.Limit, page.Offset, userID, c.Query("sort", "recent"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(questions)
}
