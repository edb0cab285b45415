package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"catalogadmin/internal/cache"
	apperrors "catalogadmin/internal/errors"
	"catalogadmin/internal/model"
)

func TestUserService_GetUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.User{ID: 5, Name: "Ana", Role: model.RoleAdmin}, nil).Once()

	svc := NewUserService(mockRepo, new(MockTokenStore), c)
	for i := 0; i < 3; i++ {
		user, err := svc.Get(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, "Ana", user.Name)
		assert.Equal(t, model.RoleAdmin, user.Role)
	}
	assert.True(t, mr.Exists("user:5"))
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateRefusesWhenCacheCannotBeCleared(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.User{ID: 5, Name: "Ana", Role: model.RoleAdmin}, nil)

	svc := NewUserService(mockRepo, new(MockTokenStore), c)
	_, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	require.True(t, mr.Exists("user:5"))

	mr.SetError("LOADING redis is loading")
	role := string(model.RoleUser)
	_, err = svc.Update(context.Background(), 5, UpdateUserInput{Role: &role})
	require.Error(t, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	mr.SetError("")
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	user, err := svc.Update(context.Background(), 5, UpdateUserInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.False(t, mr.Exists("user:5"))
}

func TestUserService_GetNotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := NewUserService(mockRepo, new(MockTokenStore), nil).Get(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_List(t *testing.T) {
	mockRepo := new(MockUserRepository)
	q := model.ListQuery{Page: 2, PerPage: 2, Search: "ana"}
	mockRepo.On("List", mock.Anything, q).Return([]model.User{{ID: 3}}, int64(3), nil)

	users, meta, err := NewUserService(mockRepo, new(MockTokenStore), nil).List(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, model.PageMeta{CurrentPage: 2, PerPage: 2, Total: 3, LastPage: 2}, meta)
}

func TestUserService_Update(t *testing.T) {
	tests := []struct {
		name          string
		input         func() UpdateUserInput
		setupMock     func(*MockUserRepository)
		expectedError error
		check         func(*testing.T, *model.User)
	}{
		{
			name: "partial update keeps other fields",
			input: func() UpdateUserInput {
				role := "admin"
				return UpdateUserInput{Role: &role}
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, Name: "Bo", Email: "bo@example.com", Role: model.RoleUser}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.Equal(t, "Bo", u.Name)
				assert.Equal(t, "bo@example.com", u.Email)
				assert.Equal(t, model.RoleAdmin, u.Role)
			},
		},
		{
			name: "email taken by someone else",
			input: func() UpdateUserInput {
				email := "taken@example.com"
				return UpdateUserInput{Email: &email}
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, Email: "bo@example.com"}, nil)
				m.On("EmailTaken", mock.Anything, "taken@example.com", uint(4)).Return(true, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name: "missing user",
			input: func() UpdateUserInput {
				return UpdateUserInput{}
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(4)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			user, err := NewUserService(mockRepo, new(MockTokenStore), nil).Update(context.Background(), 4, tt.input())
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			tt.check(t, user)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	admin := &model.User{ID: 1, Role: model.RoleAdmin}

	t.Run("cannot delete self", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		err := NewUserService(mockRepo, new(MockTokenStore), nil).Delete(context.Background(), admin, 1)

		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "id")
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("revokes tokens then deletes", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenStore)
		mockRepo.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2}, nil)
		mockTokens.On("RevokeAllForUser", mock.Anything, uint(2)).Return(nil)
		mockRepo.On("Delete", mock.Anything, uint(2)).Return(nil)

		require.NoError(t, NewUserService(mockRepo, mockTokens, nil).Delete(context.Background(), admin, 2))
		mockRepo.AssertExpectations(t)
		mockTokens.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

		err := NewUserService(mockRepo, new(MockTokenStore), nil).Delete(context.Background(), admin, 3)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
