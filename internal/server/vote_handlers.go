package server

import (
	"stackit/internal/models"
	"stackit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CastVote handles POST /api/votes. Casting the same direction twice retracts
// the vote; casting the opposite direction switches it.
// @Summary Cast, switch, or retract a vote
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{content_type=string,content_id=int,direction=string} true "Vote"
// @Success 200 {object} repository.VoteResult
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /votes [post]
func (s *Server) CastVote(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		ContentType string `json:"content_type"`
		ContentID   uint   `json:"content_id"`
		Direction   string `json:"direction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.voteService.CastVote(ctx, service.CastVoteInput{
		UserID:      userID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Direction:   req.Direction,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if req.ContentType == models.ContentQuestion {
		s.publishQuestionEvent(req.ContentID, EventVoteUpdated, map[string]interface{}{
			"content_type": req.ContentType,
			"content_id":   req.ContentID,
			"votes":        result.Votes,
		})
	}

	return c.JSON(result)
}
