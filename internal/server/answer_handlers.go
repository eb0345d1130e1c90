package server

import (
	"time"

	"stackit/internal/models"
	"stackit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAnswers handles GET /api/questions/:id/answers
// @Summary List answers for a question, accepted answer first
// @Tags answers
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {array} models.Answer
// @Router /questions/{id}/answers [get]
func (s *Server) GetAnswers(c *fiber.Ctx) error {
	ctx := c.Context()
	questionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	answers, err := s.answerService.GetAnswers(ctx, questionID, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(answers)
}

// CreateAnswer handles POST /api/questions/:id/answers
// @Summary Answer a question
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body object{content=string,code=string} true "Answer"
// @Success 201 {object} models.Answer
// @Failure 400 {object} object{error=string}
// @Router /questions/{id}/answers [post]
func (s *Server) CreateAnswer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	questionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
		Code    string `json:"code,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.answerService.CreateAnswer(ctx, service.CreateAnswerInput{
		AuthorID:   userID,
		QuestionID: questionID,
		Content:    req.Content,
		Code:       req.Code,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	payload := map[string]interface{}{
		"question_id": answer.QuestionID,
		"answer_id":   answer.ID,
		"author_id":   answer.AuthorID,
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	s.publishQuestionEvent(answer.QuestionID, EventAnswerCreated, payload)

	// The question author gets a persistent notification plus a live nudge,
	// unless they answered their own question.
	question, qerr := s.questionService.GetQuestion(ctx, answer.QuestionID, 0)
	if qerr == nil && question.AuthorID != userID {
		s.publishUserEvent(question.AuthorID, EventNotificationCreated, payload)
	}

	return c.Status(fiber.StatusCreated).JSON(answer)
}

// UpdateAnswer handles PUT /api/answers/:id
// @Summary Update an answer
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Success 200 {object} models.Answer
// @Failure 403 {object} object{error=string}
// @Router /answers/{id} [put]
func (s *Server) UpdateAnswer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	answerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
		Code    string `json:"code,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.answerService.UpdateAnswer(ctx, service.UpdateAnswerInput{
		UserID:   userID,
		AnswerID: answerID,
		Content:  req.Content,
		Code:     req.Code,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(answer)
}

// ToggleAccepted handles POST /api/questions/:id/answers/:answerId/accept.
// Calling it on an already-accepted answer withdraws the acceptance.
// @Summary Accept or un-accept an answer
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param answerId path int true "Answer ID"
// @Success 200 {object} models.Answer
// @Failure 403 {object} object{error=string}
// @Router /questions/{id}/answers/{answerId}/accept [post]
func (s *Server) ToggleAccepted(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	questionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	answerID, err := s.parseID(c, "answerId")
	if err != nil {
		return nil
	}

	answer, err := s.answerService.ToggleAccepted(ctx, service.ToggleAcceptedInput{
		UserID:     userID,
		QuestionID: questionID,
		AnswerID:   answerID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishQuestionEvent(questionID, EventAnswerAccepted, map[string]interface{}{
		"question_id": questionID,
		"answer_id":   answer.ID,
		"is_accepted": answer.IsAccepted,
	})
	if answer.IsAccepted && answer.AuthorID != userID {
		s.publishUserEvent(answer.AuthorID, EventAnswerAccepted, map[string]interface{}{
			"question_id": questionID,
			"answer_id":   answer.ID,
		})
	}

	return c.JSON(answer)
}

// DeleteAnswer handles DELETE /api/answers/:id
// @Summary Delete an answer
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Answer ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Router /answers/{id} [delete]
func (s *Server) DeleteAnswer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	answerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.answerService.DeleteAnswer(ctx, service.DeleteAnswerInput{
		UserID:   userID,
		AnswerID: answerID,
	}); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Answer deleted"})
}

// GetUserAnswers handles GET /api/users/:id/answers
// @Summary List answers written by a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Answer
// @Router /users/{id}/answers [get]
func (s *Server) GetUserAnswers(c *fiber.Ctx) error {
	ctx := c.Context()
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)

	answers, err := s.answerService.GetUserAnswers(ctx, userIDParam, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(answers)
}
