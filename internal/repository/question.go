package repository

import (
	"context"
	"errors"

	"stackit/internal/cache"
	"stackit/internal/models"

	"gorm.io/gorm"
)

// QuestionRepository defines the interface for question data operations
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question, tags []string) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Question, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Question, error)
	GetByTag(ctx context.Context, tag string, limit, offset int, currentUserID uint, sort string) ([]*models.Question, error)
	List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Question, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Question, error)
	Update(ctx context.Context, question *models.Question, tags []string) error
	IncrementViews(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

// questionRepository implements QuestionRepository
type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := ensureTags(tx, tags)
		if err != nil {
			return err
		}
		question.Tags = resolved
		return tx.Create(question).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateQuestionLists(ctx)
	cache.InvalidateTags(ctx)
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Question, error) {
	var question models.Question
	key := cache.QuestionKey(id)

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, key, &question, cache.QuestionTTL, func() error {
			return r.applyQuestionDetails(readDB(r.db).WithContext(ctx), 0).
				Preload("Author").
				Preload("Tags").
				First(&question, id).Error
		})
	} else {
		err = r.applyQuestionDetails(readDB(r.db).WithContext(ctx), currentUserID).
			Preload("Author").
			Preload("Tags").
			First(&question, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Question", id)
		}
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}
	return &question, nil
}

func (r *questionRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := r.applyQuestionDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Tags").
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

func (r *questionRepository) GetByTag(ctx context.Context, tag string, limit, offset int, currentUserID uint, sort string) ([]*models.Question, error) {
	var questions []*models.Question
	base := r.applyQuestionDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Tags").
		Joins("JOIN question_tags qt ON qt.question_id = questions.id").
		Joins("JOIN tags t ON t.id = qt.tag_id").
		Where("t.name = ?", tag)
	err := r.applySort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

func (r *questionRepository) List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Question, error) {
	var questions []*models.Question
	base := r.applyQuestionDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Tags")
	err := r.applySort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

// applySort appends the ORDER BY (and optional WHERE) clause for the requested sort type.
func (r *questionRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "votes":
		return db.Order("votes DESC, created_at DESC")
	case "unanswered":
		return db.
			Where("answers_count = 0").
			Order("created_at DESC")
	default: // "recent" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

func (r *questionRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	var questions []*models.Question
	like := "%" + query + "%"
	err := r.applyQuestionDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Tags").
		Where("title LIKE ? OR description LIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

// applyQuestionDetails adds a subquery fetching the viewer's vote in a single query.
func (r *questionRepository) applyQuestionDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select(
			"questions.*, "+
				"(SELECT direction FROM votes WHERE votes.content_type = 'question' AND votes.content_id = questions.id AND votes.user_id = ?) as user_vote",
			currentUserID,
		)
	}
	return db.Select("questions.*, '' as user_vote")
}

func (r *questionRepository) Update(ctx context.Context, question *models.Question, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tags != nil {
			resolved, err := ensureTags(tx, tags)
			if err != nil {
				return err
			}
			if err := tx.Model(question).Association("Tags").Replace(resolved); err != nil {
				return err
			}
		}
		return tx.Save(question).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateQuestion(ctx, question.ID)
	cache.InvalidateQuestionLists(ctx)
	return nil
}

// IncrementViews bumps the view counter atomically so concurrent reads never
// lose increments.
func (r *questionRepository) IncrementViews(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Question", id)
	}
	cache.Invalidate(ctx, cache.QuestionKey(id))
	return nil
}

// Delete removes the question together with its answers, the vote ledger rows
// for the question and each answer, and the notifications that point at it.
func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	var acceptedAuthors []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answerIDs []uint
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ?", id).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}

		// The accepted answer goes down with the question, so its author's
		// bonus goes with it.
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND is_accepted = ?", id, true).
			Pluck("author_id", &acceptedAuthors).Error; err != nil {
			return err
		}
		for _, authorID := range acceptedAuthors {
			if err := adjustReputation(tx, authorID, -models.AcceptedAnswerReputation); err != nil {
				return err
			}
		}

		if len(answerIDs) > 0 {
			if err := tx.Unscoped().
				Where("content_type = ? AND content_id IN ?", models.ContentAnswer, answerIDs).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().
			Where("content_type = ? AND content_id = ?", models.ContentQuestion, id).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Question{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Question", id)
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
	cache.InvalidateQuestion(ctx, id)
	cache.InvalidateQuestionLists(ctx)
	cache.InvalidateTags(ctx)
	for _, authorID := range acceptedAuthors {
		cache.InvalidateUser(ctx, authorID)
	}
	return nil
}
