package service

import (
	"context"

	"stackit/internal/models"
	"stackit/internal/repository"
)

type VoteService struct {
	voteRepo repository.VoteRepository
}

type CastVoteInput struct {
	UserID      uint
	ContentType string
	ContentID   uint
	Direction   string
}

func NewVoteService(voteRepo repository.VoteRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo}
}

// CastVote validates the cast and delegates to the ledger. Casting the same
// direction twice retracts the vote; casting the opposite direction switches it.
func (s *VoteService) CastVote(ctx context.Context, in CastVoteInput) (*repository.VoteResult, error) {
	if !models.ValidContentType(in.ContentType) {
		return nil, models.NewValidationError("Invalid content type")
	}
	if !models.ValidDirection(in.Direction) {
		return nil, models.NewValidationError("Invalid vote direction")
	}
	if in.ContentID == 0 {
		return nil, models.NewValidationError("Content ID is required")
	}
	return s.voteRepo.CastVote(ctx, in.UserID, in.ContentType, in.ContentID, in.Direction)
}

func (s *VoteService) GetUserVote(ctx context.Context, userID uint, contentType string, contentID uint) (string, error) {
	if !models.ValidContentType(contentType) {
		return "", models.NewValidationError("Invalid content type")
	}
	return s.voteRepo.GetUserVote(ctx, userID, contentType, contentID)
}
