package repository

import (
	"context"
	"errors"

	"stackit/internal/cache"
	"stackit/internal/models"

	"gorm.io/gorm"
)

// AnswerRepository defines persistence operations for answers.
type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer, notification *models.Notification) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID uint, currentUserID uint) ([]*models.Answer, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Answer, error)
	Update(ctx context.Context, answer *models.Answer) error
	SetAccepted(ctx context.Context, answerID, questionID uint, accepted bool) error
	Delete(ctx context.Context, id uint, questionID uint) error
}

type answerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository returns a new AnswerRepository implementation.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// Create stores the answer, bumps the question's answer counter, and, when a
// notification is provided, records it in the same transaction so the
// question author never sees a count without the answer or vice versa.
func (r *answerRepository) Create(ctx context.Context, answer *models.Answer, notification *models.Notification) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}

		update := tx.Model(&models.Question{}).
			Where("id = ?", answer.QuestionID).
			UpdateColumn("answers_count", gorm.Expr("answers_count + ?", 1))
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return models.NewNotFoundError("Question", answer.QuestionID)
		}

		if notification != nil {
			notification.AnswerID = answer.ID
			if err := tx.Create(notification).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateQuestion(ctx, answer.QuestionID)
	cache.InvalidateQuestionLists(ctx)
	return nil
}

func (r *answerRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Answer, error) {
	var answer models.Answer
	err := r.applyAnswerDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		First(&answer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Answer", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &answer, nil
}

// ListByQuestion returns a question's answers with the accepted answer first,
// then by vote tally.
func (r *answerRepository) ListByQuestion(ctx context.Context, questionID uint, currentUserID uint) ([]*models.Answer, error) {
	var answers []*models.Answer
	err := r.applyAnswerDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Where("question_id = ?", questionID).
		Order("is_accepted DESC, votes DESC, created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return answers, nil
}

// ListByAuthor returns a user's answers, newest first, for the profile page.
func (r *answerRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Answer, error) {
	var answers []*models.Answer
	err := readDB(r.db).WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&answers).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return answers, nil
}

func (r *answerRepository) applyAnswerDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select(
			"answers.*, "+
				"(SELECT direction FROM votes WHERE votes.content_type = 'answer' AND votes.content_id = answers.id AND votes.user_id = ?) as user_vote",
			currentUserID,
		)
	}
	return db.Select("answers.*, '' as user_vote")
}

func (r *answerRepository) Update(ctx context.Context, answer *models.Answer) error {
	if err := r.db.WithContext(ctx).Save(answer).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateQuestion(ctx, answer.QuestionID)
	return nil
}

// adjustReputation shifts a user's reputation counter inside the caller's
// transaction.
func adjustReputation(tx *gorm.DB, userID uint, delta int) error {
	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", delta)).Error
}

// SetAccepted marks the answer accepted or not and settles the reputation
// bonus in the same transaction: the target author gains it on accept and
// loses it on un-accept, and an author whose answer is displaced by the new
// acceptance loses it too. Accepting also clears the flag on every other
// answer of the question so at most one stays accepted.
func (r *answerRepository) SetAccepted(ctx context.Context, answerID, questionID uint, accepted bool) error {
	var touched []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.Answer
		if err := tx.Select("id", "author_id", "is_accepted").
			Where("id = ? AND question_id = ?", answerID, questionID).
			First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Answer", answerID)
			}
			return err
		}

		if accepted {
			var displaced []models.Answer
			if err := tx.Select("id", "author_id").
				Where("question_id = ? AND id <> ? AND is_accepted = ?", questionID, answerID, true).
				Find(&displaced).Error; err != nil {
				return err
			}
			for _, prev := range displaced {
				if err := tx.Model(&models.Answer{}).
					Where("id = ?", prev.ID).
					UpdateColumn("is_accepted", false).Error; err != nil {
					return err
				}
				if err := adjustReputation(tx, prev.AuthorID, -models.AcceptedAnswerReputation); err != nil {
					return err
				}
				touched = append(touched, prev.AuthorID)
			}
		}

		if target.IsAccepted == accepted {
			return nil
		}
		if err := tx.Model(&models.Answer{}).
			Where("id = ?", target.ID).
			UpdateColumn("is_accepted", accepted).Error; err != nil {
			return err
		}

		delta := models.AcceptedAnswerReputation
		if !accepted {
			delta = -models.AcceptedAnswerReputation
		}
		if err := adjustReputation(tx, target.AuthorID, delta); err != nil {
			return err
		}
		touched = append(touched, target.AuthorID)
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateQuestion(ctx, questionID)
	for _, userID := range touched {
		cache.InvalidateUser(ctx, userID)
	}
	return nil
}

// Delete removes the answer, its vote ledger rows and its notifications, and
// decrements the question's answer counter. Deleting the accepted answer
// takes back its author's reputation bonus.
func (r *answerRepository) Delete(ctx context.Context, id uint, questionID uint) error {
	var revoked uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.Answer
		if err := tx.Select("id", "author_id", "is_accepted").
			First(&target, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Answer", id)
			}
			return err
		}

		if err := tx.Unscoped().
			Where("content_type = ? AND content_id = ?", models.ContentAnswer, id).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("answer_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Answer{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Answer", id)
		}

		if target.IsAccepted {
			if err := adjustReputation(tx, target.AuthorID, -models.AcceptedAnswerReputation); err != nil {
				return err
			}
			revoked = target.AuthorID
		}

		return tx.Model(&models.Question{}).
			Where("id = ? AND answers_count > 0", questionID).
			UpdateColumn("answers_count", gorm.Expr("answers_count - ?", 1)).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateQuestion(ctx, questionID)
	cache.InvalidateQuestionLists(ctx)
	if revoked != 0 {
		cache.InvalidateUser(ctx, revoked)
	}
	return nil
}
