package repository

import (
	"context"
	"errors"

	"stackit/internal/cache"
	"stackit/internal/models"
	"stackit/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteResult reports the outcome of a cast: the new tally on the content and
// the caller's resulting direction ("" when the vote was retracted).
type VoteResult struct {
	Votes    int    `json:"votes"`
	UserVote string `json:"userVote"`
}

// VoteRepository defines persistence operations for the vote ledger.
type VoteRepository interface {
	CastVote(ctx context.Context, userID uint, contentType string, contentID uint, direction string) (*VoteResult, error)
	GetUserVote(ctx context.Context, userID uint, contentType string, contentID uint) (string, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func directionValue(direction string) int {
	if direction == models.VoteUp {
		return 1
	}
	return -1
}

// CastVote applies, switches, or retracts a vote in one transaction. The
// ledger row for (user, content) is locked for the duration so two rapid
// casts by the same user serialize, and the tally column is adjusted with a
// relative update so concurrent voters never overwrite each other.
func (r *voteRepository) CastVote(ctx context.Context, userID uint, contentType string, contentID uint, direction string) (*VoteResult, error) {
	var result VoteResult
	outcome := "applied"

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		var delta int
		newDirection := direction

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND content_type = ? AND content_id = ?", userID, contentType, contentID).
			First(&existing).Error

		switch {
		case err == nil && existing.Direction == direction:
			// Same direction again retracts the vote.
			if err := tx.Unscoped().Delete(&existing).Error; err != nil {
				return err
			}
			delta = -directionValue(direction)
			newDirection = ""
			outcome = "retracted"
		case err == nil:
			// Switching direction cancels the old vote and applies the new one.
			existing.Direction = direction
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			delta = 2 * directionValue(direction)
			outcome = "switched"
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{
				UserID:      userID,
				ContentType: contentType,
				ContentID:   contentID,
				Direction:   direction,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			delta = directionValue(direction)
		default:
			return err
		}

		table := "questions"
		if contentType == models.ContentAnswer {
			table = "answers"
		}
		update := tx.Table(table).
			Where("id = ? AND deleted_at IS NULL", contentID).
			UpdateColumn("votes", gorm.Expr("votes + ?", delta))
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return models.NewNotFoundError("Content", contentID)
		}

		var votes int
		if err := tx.Table(table).Select("votes").Where("id = ?", contentID).Scan(&votes).Error; err != nil {
			return err
		}

		result = VoteResult{Votes: votes, UserVote: newDirection}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}

	observability.VotesCast.WithLabelValues(contentType, outcome).Inc()
	if contentType == models.ContentQuestion {
		cache.InvalidateQuestion(ctx, contentID)
	}
	cache.InvalidateQuestionLists(ctx)
	return &result, nil
}

func (r *voteRepository) GetUserVote(ctx context.Context, userID uint, contentType string, contentID uint) (string, error) {
	var vote models.Vote
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND content_type = ? AND content_id = ?", userID, contentType, contentID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", models.NewInternalError(err)
	}
	return vote.Direction, nil
}
