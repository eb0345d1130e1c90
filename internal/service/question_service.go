// Package service implements the application's business logic.
package service

import (
	"context"
	"strings"

	"stackit/internal/models"
	"stackit/internal/repository"
)

const (
	maxTitleLen       = 300
	maxDescriptionLen = 50000
	maxCodeLen        = 50000
	maxTagsPerItem    = 5
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
}

type CreateQuestionInput struct {
	AuthorID    uint
	Title       string
	Description string
	Code        string
	Tags        []string
}

type ListQuestionsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
	Sort          string
	Tag           string
}

type UpdateQuestionInput struct {
	UserID      uint
	QuestionID  uint
	Title       string
	Description string
	Code        string
	Tags        []string
}

type DeleteQuestionInput struct {
	UserID     uint
	QuestionID uint
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		userRepo:     userRepo,
	}
}

func validateQuestionFields(title, description, code string, tags []string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(description) == "" {
		return models.NewValidationError("Description is required")
	}
	if len(description) > maxDescriptionLen {
		return models.NewValidationError("Description too long (max 50000 characters)")
	}
	if len(code) > maxCodeLen {
		return models.NewValidationError("Code too long (max 50000 characters)")
	}
	if len(tags) > maxTagsPerItem {
		return models.NewValidationError("Too many tags (max 5)")
	}
	return nil
}

func (s *QuestionService) CreateQuestion(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	if err := validateQuestionFields(in.Title, in.Description, in.Code, in.Tags); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	question := &models.Question{
		Title:        in.Title,
		Description:  in.Description,
		Code:         in.Code,
		AuthorID:     author.ID,
		AuthorName:   author.Username,
		AuthorAvatar: author.Avatar,
	}
	if err := s.questionRepo.Create(ctx, question, in.Tags); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByID(ctx, question.ID, in.AuthorID)
}

func (s *QuestionService) GetQuestion(ctx context.Context, id uint, currentUserID uint) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	return question, nil
}

// ViewQuestion fetches a question and records the view. The view count in the
// returned question includes this request's view.
func (s *QuestionService) ViewQuestion(ctx context.Context, id uint, currentUserID uint) (*models.Question, error) {
	if err := s.questionRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByID(ctx, id, currentUserID)
}

func (s *QuestionService) ListQuestions(ctx context.Context, in ListQuestionsInput) ([]*models.Question, error) {
	if in.Tag != "" {
		return s.questionRepo.GetByTag(ctx, in.Tag, in.Limit, in.Offset, in.CurrentUserID, in.Sort)
	}
	return s.questionRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID, in.Sort)
}

func (s *QuestionService) SearchQuestions(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.questionRepo.Search(ctx, query, limit, offset, currentUserID)
}

func (s *QuestionService) GetUserQuestions(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	return s.questionRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, in UpdateQuestionInput) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, in.QuestionID, in.UserID)
	if err != nil {
		return nil, err
	}

	if question.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own questions")
	}

	// Empty fields mean "leave unchanged"; tags are replaced only when sent.
	if in.Title != "" {
		question.Title = in.Title
	}
	if in.Description != "" {
		question.Description = in.Description
	}
	if in.Code != "" {
		question.Code = in.Code
	}

	if err := validateQuestionFields(question.Title, question.Description, question.Code, in.Tags); err != nil {
		return nil, err
	}

	if err := s.questionRepo.Update(ctx, question, in.Tags); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByID(ctx, in.QuestionID, in.UserID)
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, in DeleteQuestionInput) error {
	question, err := s.questionRepo.GetByID(ctx, in.QuestionID, in.UserID)
	if err != nil {
		return err
	}

	if question.AuthorID != in.UserID {
		return models.NewForbiddenError("You can only delete your own questions")
	}

	return s.questionRepo.Delete(ctx, in.QuestionID)
}
