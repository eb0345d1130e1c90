package service

import (
	"context"
	"testing"

	"stackit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// questionRepoStub, userRepoStub and the assert helpers are defined in
// question_service_test.go (same package).

// answerRepoStub is a stub for repository.AnswerRepository.
type answerRepoStub struct {
	createFn         func(context.Context, *models.Answer, *models.Notification) error
	getByIDFn        func(context.Context, uint, uint) (*models.Answer, error)
	listByQuestionFn func(context.Context, uint, uint) ([]*models.Answer, error)
	listByAuthorFn   func(context.Context, uint, int, int) ([]*models.Answer, error)
	updateFn         func(context.Context, *models.Answer) error
	setAcceptedFn    func(context.Context, uint, uint, bool) error
	deleteFn         func(context.Context, uint, uint) error
}

func (s *answerRepoStub) Create(ctx context.Context, answer *models.Answer, notification *models.Notification) error {
	return s.createFn(ctx, answer, notification)
}
func (s *answerRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Answer, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *answerRepoStub) ListByQuestion(ctx context.Context, questionID, currentUserID uint) ([]*models.Answer, error) {
	return s.listByQuestionFn(ctx, questionID, currentUserID)
}
func (s *answerRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Answer, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *answerRepoStub) Update(ctx context.Context, answer *models.Answer) error {
	return s.updateFn(ctx, answer)
}
func (s *answerRepoStub) SetAccepted(ctx context.Context, answerID, questionID uint, accepted bool) error {
	return s.setAcceptedFn(ctx, answerID, questionID, accepted)
}
func (s *answerRepoStub) Delete(ctx context.Context, id, questionID uint) error {
	return s.deleteFn(ctx, id, questionID)
}

func noopAnswerRepo() *answerRepoStub {
	return &answerRepoStub{
		createFn: func(_ context.Context, _ *models.Answer, _ *models.Notification) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id}, nil
		},
		listByQuestionFn: func(_ context.Context, _, _ uint) ([]*models.Answer, error) { return nil, nil },
		listByAuthorFn:   func(_ context.Context, _ uint, _, _ int) ([]*models.Answer, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Answer) error { return nil },
		setAcceptedFn:    func(_ context.Context, _, _ uint, _ bool) error { return nil },
		deleteFn:         func(_ context.Context, _, _ uint) error { return nil },
	}
}

func TestAnswerService_CreateAnswer_Validation(t *testing.T) {
	t.Parallel()

	svc := NewAnswerService(noopAnswerRepo(), noopQuestionRepo(), noopUserRepo())
	_, err := svc.CreateAnswer(context.Background(), CreateAnswerInput{
		AuthorID: 1, QuestionID: 2, Content: "   ",
	})
	assertValidationError(t, err)
}

func TestAnswerService_CreateAnswer_NotifiesQuestionAuthor(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
		return &models.Question{ID: id, AuthorID: 42, Title: "How do I test this?"}, nil
	}
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "responder"}, nil
	}

	var captured *models.Notification
	answers := noopAnswerRepo()
	answers.createFn = func(_ context.Context, a *models.Answer, n *models.Notification) error {
		a.ID = 10
		captured = n
		return nil
	}

	svc := NewAnswerService(answers, questions, users)
	_, err := svc.CreateAnswer(context.Background(), CreateAnswerInput{
		AuthorID: 7, QuestionID: 3, Content: "Use a stub.",
	})
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, uint(42), captured.RecipientID)
	assert.Equal(t, uint(7), captured.SenderID)
	assert.Equal(t, "responder", captured.SenderName)
	assert.Equal(t, models.NotificationNewAnswer, captured.Type)
	assert.Equal(t, "How do I test this?", captured.QuestionTitle)
}

func TestAnswerService_CreateAnswer_SelfAnswerSkipsNotification(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
		return &models.Question{ID: id, AuthorID: 7}, nil
	}

	var captured *models.Notification
	var createCalled bool
	answers := noopAnswerRepo()
	answers.createFn = func(_ context.Context, a *models.Answer, n *models.Notification) error {
		a.ID = 11
		captured = n
		createCalled = true
		return nil
	}

	svc := NewAnswerService(answers, questions, noopUserRepo())
	_, err := svc.CreateAnswer(context.Background(), CreateAnswerInput{
		AuthorID: 7, QuestionID: 3, Content: "Answering my own question.",
	})
	require.NoError(t, err)
	require.True(t, createCalled)
	assert.Nil(t, captured)
}

func TestAnswerService_ToggleAccepted_OnlyQuestionAuthor(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
		return &models.Question{ID: id, AuthorID: 2}, nil
	}

	svc := NewAnswerService(noopAnswerRepo(), questions, noopUserRepo())
	_, err := svc.ToggleAccepted(context.Background(), ToggleAcceptedInput{
		UserID: 1, QuestionID: 5, AnswerID: 9,
	})
	assertForbiddenError(t, err)
}

func TestAnswerService_ToggleAccepted_WrongQuestion(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
		return &models.Question{ID: id, AuthorID: 1}, nil
	}
	answers := noopAnswerRepo()
	answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
		return &models.Answer{ID: id, QuestionID: 999}, nil
	}

	svc := NewAnswerService(answers, questions, noopUserRepo())
	_, err := svc.ToggleAccepted(context.Background(), ToggleAcceptedInput{
		UserID: 1, QuestionID: 5, AnswerID: 9,
	})
	assertValidationError(t, err)
}

func TestAnswerService_ToggleAccepted_FlipsFlag(t *testing.T) {
	t.Parallel()

	t.Run("accept", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, AuthorID: 1}, nil
		}
		answers := noopAnswerRepo()
		answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, QuestionID: 5, AuthorID: 30, IsAccepted: false}, nil
		}
		var acceptedState bool
		answers.setAcceptedFn = func(_ context.Context, answerID, questionID uint, accepted bool) error {
			assert.Equal(t, uint(9), answerID)
			assert.Equal(t, uint(5), questionID)
			acceptedState = accepted
			return nil
		}

		svc := NewAnswerService(answers, questions, noopUserRepo())
		_, err := svc.ToggleAccepted(context.Background(), ToggleAcceptedInput{
			UserID: 1, QuestionID: 5, AnswerID: 9,
		})
		require.NoError(t, err)
		assert.True(t, acceptedState)
	})

	t.Run("un-accept", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, AuthorID: 1}, nil
		}
		answers := noopAnswerRepo()
		answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, QuestionID: 5, AuthorID: 30, IsAccepted: true}, nil
		}
		var acceptedState bool
		answers.setAcceptedFn = func(_ context.Context, _, _ uint, accepted bool) error {
			acceptedState = accepted
			return nil
		}

		svc := NewAnswerService(answers, questions, noopUserRepo())
		_, err := svc.ToggleAccepted(context.Background(), ToggleAcceptedInput{
			UserID: 1, QuestionID: 5, AnswerID: 9,
		})
		require.NoError(t, err)
		assert.False(t, acceptedState)
	})
}

func TestAnswerService_UpdateAnswer_NonOwner(t *testing.T) {
	t.Parallel()

	answers := noopAnswerRepo()
	answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
		return &models.Answer{ID: id, AuthorID: 2}, nil
	}

	svc := NewAnswerService(answers, noopQuestionRepo(), noopUserRepo())
	_, err := svc.UpdateAnswer(context.Background(), UpdateAnswerInput{
		UserID: 1, AnswerID: 9, Content: "edited",
	})
	assertForbiddenError(t, err)
}

func TestAnswerService_DeleteAnswer_NonOwner(t *testing.T) {
	t.Parallel()

	answers := noopAnswerRepo()
	answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
		return &models.Answer{ID: id, AuthorID: 2, QuestionID: 5}, nil
	}
	answers.deleteFn = func(_ context.Context, _, _ uint) error {
		t.Fatal("delete must not be reached for a non-owner")
		return nil
	}

	svc := NewAnswerService(answers, noopQuestionRepo(), noopUserRepo())
	err := svc.DeleteAnswer(context.Background(), DeleteAnswerInput{UserID: 1, AnswerID: 9})
	assertForbiddenError(t, err)
}
