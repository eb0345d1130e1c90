package service

import (
	"context"
	"strings"

	"stackit/internal/models"
	"stackit/internal/repository"
)

type AnswerService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
}

type CreateAnswerInput struct {
	AuthorID   uint
	QuestionID uint
	Content    string
	Code       string
}

type UpdateAnswerInput struct {
	UserID   uint
	AnswerID uint
	Content  string
	Code     string
}

type ToggleAcceptedInput struct {
	UserID     uint
	QuestionID uint
	AnswerID   uint
}

type DeleteAnswerInput struct {
	UserID   uint
	AnswerID uint
}

func NewAnswerService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
) *AnswerService {
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
	}
}

// CreateAnswer stores the answer and notifies the question author, unless the
// author is answering their own question.
func (s *AnswerService) CreateAnswer(ctx context.Context, in CreateAnswerInput) (*models.Answer, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxDescriptionLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if len(in.Code) > maxCodeLen {
		return nil, models.NewValidationError("Code too long (max 50000 characters)")
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	question, err := s.questionRepo.GetByID(ctx, in.QuestionID, 0)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		QuestionID:   question.ID,
		Content:      in.Content,
		Code:         in.Code,
		AuthorID:     author.ID,
		AuthorName:   author.Username,
		AuthorAvatar: author.Avatar,
	}

	var notification *models.Notification
	if question.AuthorID != author.ID {
		notification = &models.Notification{
			RecipientID:   question.AuthorID,
			SenderID:      author.ID,
			SenderName:    author.Username,
			Type:          models.NotificationNewAnswer,
			QuestionID:    question.ID,
			QuestionTitle: question.Title,
		}
	}

	if err := s.answerRepo.Create(ctx, answer, notification); err != nil {
		return nil, err
	}
	return s.answerRepo.GetByID(ctx, answer.ID, in.AuthorID)
}

func (s *AnswerService) GetAnswers(ctx context.Context, questionID uint, currentUserID uint) ([]*models.Answer, error) {
	if _, err := s.questionRepo.GetByID(ctx, questionID, 0); err != nil {
		return nil, err
	}
	return s.answerRepo.ListByQuestion(ctx, questionID, currentUserID)
}

// GetUserAnswers returns the answers a user has written, for their profile.
func (s *AnswerService) GetUserAnswers(ctx context.Context, authorID uint, limit, offset int) ([]*models.Answer, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	return s.answerRepo.ListByAuthor(ctx, authorID, limit, offset)
}

func (s *AnswerService) UpdateAnswer(ctx context.Context, in UpdateAnswerInput) (*models.Answer, error) {
	answer, err := s.answerRepo.GetByID(ctx, in.AnswerID, in.UserID)
	if err != nil {
		return nil, err
	}

	if answer.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own answers")
	}

	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	answer.Content = in.Content
	answer.Code = in.Code

	if err := s.answerRepo.Update(ctx, answer); err != nil {
		return nil, err
	}
	return s.answerRepo.GetByID(ctx, in.AnswerID, in.UserID)
}

// ToggleAccepted flips the accepted flag on an answer. Only the question
// author may accept; accepting one answer clears any previously accepted one,
// and the repository moves the reputation bonus along with the flag.
func (s *AnswerService) ToggleAccepted(ctx context.Context, in ToggleAcceptedInput) (*models.Answer, error) {
	question, err := s.questionRepo.GetByID(ctx, in.QuestionID, 0)
	if err != nil {
		return nil, err
	}
	if question.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("Only the question author can accept an answer")
	}

	answer, err := s.answerRepo.GetByID(ctx, in.AnswerID, in.UserID)
	if err != nil {
		return nil, err
	}
	if answer.QuestionID != question.ID {
		return nil, models.NewValidationError("Answer does not belong to this question")
	}

	accepted := !answer.IsAccepted
	if err := s.answerRepo.SetAccepted(ctx, answer.ID, question.ID, accepted); err != nil {
		return nil, err
	}

	return s.answerRepo.GetByID(ctx, in.AnswerID, in.UserID)
}

func (s *AnswerService) DeleteAnswer(ctx context.Context, in DeleteAnswerInput) error {
	answer, err := s.answerRepo.GetByID(ctx, in.AnswerID, in.UserID)
	if err != nil {
		return err
	}

	if answer.AuthorID != in.UserID {
		return models.NewForbiddenError("You can only delete your own answers")
	}

	return s.answerRepo.Delete(ctx, in.AnswerID, answer.QuestionID)
}
