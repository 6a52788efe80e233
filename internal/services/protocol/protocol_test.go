package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListProtocols(ctx context.Context, userID string, includeInactive bool) ([]models.Protocol, error) {
	args := m.Called(ctx, userID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Protocol), args.Error(1)
}

func (m *MockRepository) GetProtocol(ctx context.Context, userID, id string) (*models.Protocol, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Protocol), args.Error(1)
}

func (m *MockRepository) CreateProtocol(ctx context.Context, pr models.Protocol) (*models.Protocol, error) {
	args := m.Called(ctx, pr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Protocol), args.Error(1)
}

func (m *MockRepository) UpdateProtocol(ctx context.Context, userID, id string, pr models.Protocol) (*models.Protocol, error) {
	args := m.Called(ctx, userID, id, pr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Protocol), args.Error(1)
}

func (m *MockRepository) DeleteProtocol(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockRepository) GetPeptide(ctx context.Context, userID, id string) (*models.Peptide, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Peptide), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

func f64(v float64) *float64 { return &v }

func TestProtocolService_Create(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)
	inactive := false

	tests := []struct {
		name       string
		req        models.DummyProtocol
		setupMocks func(r *MockRepository, c *MockCache)
		wantErr    error
	}{
		{
			name: "custom schedule with days",
			req: models.DummyProtocol{
				PeptideID:      "p1",
				Name:           "Twice a week",
				WeeklyTarget:   f64(500),
				ScheduleType:   models.ScheduleCustom,
				ScheduleConfig: models.ScheduleConfig{Days: []string{"monday", "thursday"}},
				StartDate:      start,
				IsActive:       &inactive,
			},
			setupMocks: func(r *MockRepository, c *MockCache) {
				r.On("GetPeptide", mock.Anything, "u1", "p1").Return(&models.Peptide{ID: "p1"}, nil).Once()
				r.On("CreateProtocol", mock.Anything, mock.MatchedBy(func(pr models.Protocol) bool {
					return pr.UserID == "u1" && !pr.IsActive && len(pr.ScheduleConfig.Days) == 2
				})).Return(&models.Protocol{ID: "pr1"}, nil).Once()
				c.On("InvalidatePrefix", mock.Anything, "progress:u1:").Return(nil).Once()
			},
		},
		{
			name: "active by default",
			req: models.DummyProtocol{
				PeptideID:    "p1",
				Name:         "Daily",
				DailyTarget:  f64(250),
				ScheduleType: models.ScheduleDaily,
				StartDate:    start,
			},
			setupMocks: func(r *MockRepository, c *MockCache) {
				r.On("GetPeptide", mock.Anything, "u1", "p1").Return(&models.Peptide{ID: "p1"}, nil).Once()
				r.On("CreateProtocol", mock.Anything, mock.MatchedBy(func(pr models.Protocol) bool {
					return pr.IsActive
				})).Return(&models.Protocol{ID: "pr1"}, nil).Once()
				c.On("InvalidatePrefix", mock.Anything, "progress:u1:").Return(nil).Once()
			},
		},
		{
			name: "custom schedule without days",
			req: models.DummyProtocol{
				PeptideID:    "p1",
				Name:         "Broken",
				ScheduleType: models.ScheduleCustom,
				StartDate:    start,
			},
			setupMocks: func(_ *MockRepository, _ *MockCache) {},
			wantErr:    ErrInvalidSchedule,
		},
		{
			name: "end before start",
			req: models.DummyProtocol{
				PeptideID:    "p1",
				Name:         "Broken",
				ScheduleType: models.ScheduleDaily,
				StartDate:    start,
				EndDate:      &before,
			},
			setupMocks: func(_ *MockRepository, _ *MockCache) {},
			wantErr:    ErrInvalidSchedule,
		},
		{
			name: "unknown peptide",
			req: models.DummyProtocol{
				PeptideID:    "p9",
				Name:         "Daily",
				ScheduleType: models.ScheduleDaily,
				StartDate:    start,
			},
			setupMocks: func(r *MockRepository, _ *MockCache) {
				r.On("GetPeptide", mock.Anything, "u1", "p9").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrUnknownPeptide,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			c := new(MockCache)
			tt.setupMocks(repo, c)
			svc := NewProtocolService(repo, c, sl.NewDiscardLogger())

			pr, err := svc.Create(context.Background(), "u1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "CreateProtocol", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "pr1", pr.ID)
			}
			repo.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestProtocolService_Delete(t *testing.T) {
	repo := new(MockRepository)
	c := new(MockCache)
	repo.On("DeleteProtocol", mock.Anything, "u1", "pr1").Return(repository.ErrNotFound).Once()

	err := NewProtocolService(repo, c, sl.NewDiscardLogger()).Delete(context.Background(), "u1", "pr1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	c.AssertNotCalled(t, "InvalidatePrefix", mock.Anything, mock.Anything)
}
