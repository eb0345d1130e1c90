package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stackit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// questionRepoStub is a stub for repository.QuestionRepository.
type questionRepoStub struct {
	createFn         func(context.Context, *models.Question, []string) error
	getByIDFn        func(context.Context, uint, uint) (*models.Question, error)
	getByUserIDFn    func(context.Context, uint, int, int, uint) ([]*models.Question, error)
	getByTagFn       func(context.Context, string, int, int, uint, string) ([]*models.Question, error)
	listFn           func(context.Context, int, int, uint, string) ([]*models.Question, error)
	searchFn         func(context.Context, string, int, int, uint) ([]*models.Question, error)
	updateFn         func(context.Context, *models.Question, []string) error
	incrementViewsFn func(context.Context, uint) error
	deleteFn         func(context.Context, uint) error
}

func (s *questionRepoStub) Create(ctx context.Context, question *models.Question, tags []string) error {
	return s.createFn(ctx, question, tags)
}
func (s *questionRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Question, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *questionRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *questionRepoStub) GetByTag(ctx context.Context, tag string, limit, offset int, currentUserID uint, sort string) ([]*models.Question, error) {
	return s.getByTagFn(ctx, tag, limit, offset, currentUserID, sort)
}
func (s *questionRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Question, error) {
	return s.listFn(ctx, limit, offset, currentUserID, sort)
}
func (s *questionRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	return s.searchFn(ctx, query, limit, offset, currentUserID)
}
func (s *questionRepoStub) Update(ctx context.Context, question *models.Question, tags []string) error {
	return s.updateFn(ctx, question, tags)
}
func (s *questionRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *questionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopQuestionRepo() *questionRepoStub {
	return &questionRepoStub{
		createFn: func(_ context.Context, _ *models.Question, _ []string) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id}, nil
		},
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Question, error) {
			return nil, nil
		},
		getByTagFn: func(_ context.Context, _ string, _, _ int, _ uint, _ string) ([]*models.Question, error) {
			return nil, nil
		},
		listFn: func(_ context.Context, _, _ int, _ uint, _ string) ([]*models.Question, error) {
			return nil, nil
		},
		searchFn: func(_ context.Context, _ string, _, _ int, _ uint) ([]*models.Question, error) {
			return nil, nil
		},
		updateFn:         func(_ context.Context, _ *models.Question, _ []string) error { return nil },
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn              func(context.Context, uint) (*models.User, error)
	getByIDWithQuestionsFn func(context.Context, uint, int) (*models.User, error)
	getByEmailFn           func(context.Context, string) (*models.User, error)
	getByUsernameFn        func(context.Context, string) (*models.User, error)
	createFn               func(context.Context, *models.User) error
	updateFn               func(context.Context, *models.User) error
	deleteFn               func(context.Context, uint) error
	listFn                 func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithQuestions(ctx context.Context, id uint, limit int) (*models.User, error) {
	return s.getByIDWithQuestionsFn(ctx, id, limit)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "someone"}, nil
		},
		getByIDWithQuestionsFn: func(_ context.Context, id uint, _ int) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn:       func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:           func(_ context.Context, _ *models.User) error { return nil },
		updateFn:           func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:           func(_ context.Context, _ uint) error { return nil },
		listFn:             func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

// assertForbiddenError asserts that err is an AppError with code FORBIDDEN.
func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
}

func TestQuestionService_CreateQuestion_Validation(t *testing.T) {
	t.Parallel()

	svc := NewQuestionService(noopQuestionRepo(), noopUserRepo())

	tests := []struct {
		name  string
		input CreateQuestionInput
	}{
		{
			name:  "empty title",
			input: CreateQuestionInput{AuthorID: 1, Title: "   ", Description: "body"},
		},
		{
			name:  "title too long",
			input: CreateQuestionInput{AuthorID: 1, Title: strings.Repeat("x", 301), Description: "body"},
		},
		{
			name:  "empty description",
			input: CreateQuestionInput{AuthorID: 1, Title: "How do I do the thing?", Description: ""},
		},
		{
			name: "too many tags",
			input: CreateQuestionInput{
				AuthorID:    1,
				Title:       "How do I do the thing?",
				Description: "body",
				Tags:        []string{"a", "b", "c", "d", "e", "f"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateQuestion(context.Background(), tt.input)
			assertValidationError(t, err)
		})
	}
}

func TestQuestionService_CreateQuestion_DenormalizesAuthor(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "gopher", Avatar: "https://example.com/a.png"}, nil
	}

	var created *models.Question
	questions := noopQuestionRepo()
	questions.createFn = func(_ context.Context, q *models.Question, _ []string) error {
		q.ID = 7
		created = q
		return nil
	}

	svc := NewQuestionService(questions, users)
	_, err := svc.CreateQuestion(context.Background(), CreateQuestionInput{
		AuthorID:    3,
		Title:       "How do I range over a channel?",
		Description: "Details here",
		Tags:        []string{"go"},
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(3), created.AuthorID)
	assert.Equal(t, "gopher", created.AuthorName)
	assert.Equal(t, "https://example.com/a.png", created.AuthorAvatar)
}

func TestQuestionService_ListQuestions_TagRouting(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	var taggedCalls, listCalls int
	questions.getByTagFn = func(_ context.Context, tag string, _, _ int, _ uint, sort string) ([]*models.Question, error) {
		taggedCalls++
		assert.Equal(t, "go", tag)
		assert.Equal(t, "votes", sort)
		return nil, nil
	}
	questions.listFn = func(_ context.Context, _, _ int, _ uint, _ string) ([]*models.Question, error) {
		listCalls++
		return nil, nil
	}

	svc := NewQuestionService(questions, noopUserRepo())

	_, err := svc.ListQuestions(context.Background(), ListQuestionsInput{Tag: "go", Sort: "votes"})
	require.NoError(t, err)
	_, err = svc.ListQuestions(context.Background(), ListQuestionsInput{})
	require.NoError(t, err)

	assert.Equal(t, 1, taggedCalls)
	assert.Equal(t, 1, listCalls)
}

func TestQuestionService_SearchQuestions_EmptyQuery(t *testing.T) {
	t.Parallel()

	svc := NewQuestionService(noopQuestionRepo(), noopUserRepo())
	_, err := svc.SearchQuestions(context.Background(), "   ", 20, 0, 0)
	assertValidationError(t, err)
}

func TestQuestionService_ViewQuestion_CountsFirst(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	var incremented bool
	questions.incrementViewsFn = func(_ context.Context, id uint) error {
		incremented = true
		assert.Equal(t, uint(4), id)
		return nil
	}
	questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
		require.True(t, incremented, "view must be recorded before the fetch")
		return &models.Question{ID: id, Views: 10}, nil
	}

	svc := NewQuestionService(questions, noopUserRepo())
	question, err := svc.ViewQuestion(context.Background(), 4, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, question.Views)
}

func TestQuestionService_ViewQuestion_NotFound(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	questions.incrementViewsFn = func(_ context.Context, id uint) error {
		return models.NewNotFoundError("Question", id)
	}

	svc := NewQuestionService(questions, noopUserRepo())
	_, err := svc.ViewQuestion(context.Background(), 99, 0)
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestQuestionService_UpdateQuestion_OwnershipAndPatch(t *testing.T) {
	t.Parallel()

	t.Run("non-author is rejected", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, AuthorID: 2, Title: "t", Description: "d"}, nil
		}
		svc := NewQuestionService(questions, noopUserRepo())
		_, err := svc.UpdateQuestion(context.Background(), UpdateQuestionInput{
			UserID: 1, QuestionID: 5, Title: "new",
		})
		assertForbiddenError(t, err)
	})

	t.Run("empty fields keep existing values", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{
				ID: id, AuthorID: 1,
				Title: "original title", Description: "original body", Code: "fmt.Println(42)",
			}, nil
		}
		var updated *models.Question
		questions.updateFn = func(_ context.Context, q *models.Question, _ []string) error {
			updated = q
			return nil
		}
		svc := NewQuestionService(questions, noopUserRepo())
		_, err := svc.UpdateQuestion(context.Background(), UpdateQuestionInput{
			UserID: 1, QuestionID: 5, Description: "edited body",
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "original title", updated.Title)
		assert.Equal(t, "edited body", updated.Description)
		assert.Equal(t, "fmt.Println(42)", updated.Code)
	})
}

func TestQuestionService_DeleteQuestion_NonAuthor(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
		return &models.Question{ID: id, AuthorID: 9}, nil
	}
	questions.deleteFn = func(_ context.Context, _ uint) error {
		t.Fatal("delete must not be reached for a non-author")
		return nil
	}

	svc := NewQuestionService(questions, noopUserRepo())
	err := svc.DeleteQuestion(context.Background(), DeleteQuestionInput{UserID: 1, QuestionID: 5})
	assertForbiddenError(t, err)
}
