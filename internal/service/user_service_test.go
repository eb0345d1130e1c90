package service

import (
	"context"
	"strings"
	"testing"

	"stackit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub and noopUserRepo are defined in question_service_test.go (same package).

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	t.Run("invalid username", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "original"}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Username: strings.Repeat("x", 31),
		})
		assertValidationError(t, err)
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "original", Bio: "old bio", Avatar: "old.png"}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, user *models.User) error {
		saved = user
		return nil
	}

	svc := NewUserService(repo)
	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: 1,
		Bio:    "new bio",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "original", user.Username)
	assert.Equal(t, "new bio", user.Bio)
	assert.Equal(t, "old.png", user.Avatar)
}
