package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) UpdateUserPreferences(ctx context.Context, userID string, prefs models.UserPreferences) (*models.User, error) {
	args := m.Called(ctx, userID, prefs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetNotificationPreferences(ctx context.Context, userID string) (*models.NotificationPreferences, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.NotificationPreferences), args.Bool(1), args.Error(2)
}

func (m *MockRepository) UpdateNotificationPreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error {
	args := m.Called(ctx, userID, prefs)
	return args.Error(0)
}

func TestUserService_NotificationPreferences(t *testing.T) {
	stored := models.DefaultNotificationPreferences()
	stored.EmailNotifications = true
	stored.DoseLimit.Threshold = 80

	tests := []struct {
		name  string
		setup func(r *MockRepository)
		want  models.NotificationPreferences
	}{
		{
			name: "stored",
			setup: func(r *MockRepository) {
				r.On("GetNotificationPreferences", mock.Anything, "u1").Return(&stored, true, nil).Once()
			},
			want: stored,
		},
		{
			name: "never saved",
			setup: func(r *MockRepository) {
				r.On("GetNotificationPreferences", mock.Anything, "u1").Return(nil, false, nil).Once()
			},
			want: models.DefaultNotificationPreferences(),
		},
		{
			name: "read error falls back to defaults",
			setup: func(r *MockRepository) {
				r.On("GetNotificationPreferences", mock.Anything, "u1").Return(nil, false, errors.New("bad json")).Once()
			},
			want: models.DefaultNotificationPreferences(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setup(repo)
			svc := NewUserService(repo, sl.NewDiscardLogger())

			assert.Equal(t, tt.want, svc.NotificationPreferences(context.Background(), "u1"))
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdatePreferences(t *testing.T) {
	prefs := models.UserPreferences{Timezone: "Europe/Moscow", Theme: "dark"}
	updated := &models.User{ID: "u1", Preferences: prefs}

	repo := new(MockRepository)
	repo.On("UpdateUserPreferences", mock.Anything, "u1", prefs).Return(updated, nil).Once()
	repo.On("UpdateUserPreferences", mock.Anything, "u2", prefs).Return(nil, errors.New("db down")).Once()
	svc := NewUserService(repo, sl.NewDiscardLogger())

	got, err := svc.UpdatePreferences(context.Background(), "u1", prefs)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = svc.UpdatePreferences(context.Background(), "u2", prefs)
	assert.EqualError(t, err, "db down")
	repo.AssertExpectations(t)
}

func TestUserService_UpdateNotificationPreferences(t *testing.T) {
	prefs := models.DefaultNotificationPreferences()
	repo := new(MockRepository)
	repo.On("UpdateNotificationPreferences", mock.Anything, "u1", prefs).Return(nil).Once()

	err := NewUserService(repo, sl.NewDiscardLogger()).UpdateNotificationPreferences(context.Background(), "u1", prefs)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
