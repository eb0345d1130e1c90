package server

import (
	"time"

	"stackit/internal/models"
	"stackit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetQuestions handles GET /api/questions?sort=recent|votes|unanswered&tag=...
// @Summary List questions
// @Tags questions
// @Produce json
// @Param sort query string false "Sort order" Enums(recent, votes, unanswered)
// @Param tag query string false "Filter by tag"
// @Success 200 {array} models.Question
// @Router /questions [get]
func (s *Server) GetQuestions(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	questions, err := s.questionService.ListQuestions(ctx, service.ListQuestionsInput{
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: userID,
		Sort:          c.Query("sort", "recent"),
		Tag:           c.Query("tag"),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(questions)
}

// SearchQuestions handles GET /api/questions/search?q=...
// @Summary Search questions by title and description
// @Tags questions
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} models.Question
// @Router /questions/search [get]
func (s *Server) SearchQuestions(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")

	page := parsePagination(c, 10)
	userID, _ := s.optionalUserID(c)

	questions, err := s.questionService.SearchQuestions(ctx, q, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(questions)
}

// GetQuestion handles GET /api/questions/:id
// @Summary Get a question by ID
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} object{error=string}
// @Router /questions/{id} [get]
func (s *Server) GetQuestion(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	question, err := s.questionService.GetQuestion(ctx, id, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(question)
}

// RecordQuestionView handles POST /api/questions/:id/view
// @Summary Record a view on a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} models.Question
// @Router /questions/{id}/view [post]
func (s *Server) RecordQuestionView(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	question, err := s.questionService.ViewQuestion(ctx, id, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(question)
}

// CreateQuestion handles POST /api/questions
// @Summary Ask a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,description=string,code=string,tags=[]string} true "Question"
// @Success 201 {object} models.Question
// @Failure 400 {object} object{error=string}
// @Router /questions [post]
func (s *Server) CreateQuestion(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Code        string   `json:"code,omitempty"`
		Tags        []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.CreateQuestion(ctx, service.CreateQuestionInput{
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Tags:        req.Tags,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishBroadcastEvent(EventQuestionCreated, map[string]interface{}{
		"question_id": question.ID,
		"author_id":   question.AuthorID,
		"title":       question.Title,
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(question)
}

// UpdateQuestion handles PUT /api/questions/:id
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} models.Question
// @Failure 403 {object} object{error=string}
// @Router /questions/{id} [put]
func (s *Server) UpdateQuestion(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	questionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Code        string   `json:"code,omitempty"`
		Tags        []string `json:"tags"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.UpdateQuestion(ctx, service.UpdateQuestionInput{
		UserID:      userID,
		QuestionID:  questionID,
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Tags:        req.Tags,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(question)
}

// DeleteQuestion handles DELETE /api/questions/:id. Deleting a question also
// removes its answers, their votes, and its notifications.
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Router /questions/{id} [delete]
func (s *Server) DeleteQuestion(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	questionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.questionService.DeleteQuestion(ctx, service.DeleteQuestionInput{
		UserID:     userID,
		QuestionID: questionID,
	}); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Question deleted"})
}

// GetUserQuestions handles GET /api/users/:id/questions
// @Summary List questions asked by a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Question
// @Router /users/{id}/questions [get]
func (s *Server) GetUserQuestions(c *fiber.Ctx) error {
	ctx := c.Context()
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	questions, err := s.questionService.GetUserQuestions(ctx, userIDParam, page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(questions)
}
