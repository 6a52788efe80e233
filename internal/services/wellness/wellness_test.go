package services

import (
	"context"
	"errors"
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

func (m *MockRepository) ListWellnessMetrics(ctx context.Context, userID string, filter models.WellnessFilter) ([]models.WellnessMetric, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WellnessMetric), args.Error(1)
}

func (m *MockRepository) CreateWellnessMetric(ctx context.Context, metric models.WellnessMetric) (*models.WellnessMetric, error) {
	args := m.Called(ctx, metric)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WellnessMetric), args.Error(1)
}

func (m *MockRepository) GetInjection(ctx context.Context, userID, id string) (*models.Injection, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Injection), args.Error(1)
}

func TestWellnessService_Create(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	req := models.DummyWellnessMetric{
		MetricType: models.MetricWeight,
		Value:      81.4,
		Unit:       "kg",
		Timestamp:  time.Date(2024, 3, 6, 9, 0, 0, 0, moscow),
	}

	tests := []struct {
		name    string
		repoErr error
	}{
		{name: "created"},
		{name: "storage error", repoErr: errors.New("insert failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			call := repo.On("CreateWellnessMetric", mock.Anything, mock.MatchedBy(func(m models.WellnessMetric) bool {
				return m.UserID == "u1" &&
					m.Timestamp.Location() == time.UTC &&
					m.Timestamp.Equal(req.Timestamp) &&
					m.Value == 81.4
			})).Once()
			if tt.repoErr != nil {
				call.Return(nil, tt.repoErr)
			} else {
				call.Return(&models.WellnessMetric{ID: "w1", MetricType: models.MetricWeight}, nil)
			}

			m, err := NewWellnessService(repo, sl.NewDiscardLogger()).Create(context.Background(), "u1", req)
			if tt.repoErr != nil {
				assert.ErrorIs(t, err, tt.repoErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "w1", m.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestWellnessService_CreateLinkedInjection(t *testing.T) {
	injectionID := "i-foreign"
	req := models.DummyWellnessMetric{
		MetricType:  models.MetricEnergyLevel,
		Value:       7,
		Timestamp:   time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
		InjectionID: &injectionID,
	}

	t.Run("injection of another user", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetInjection", mock.Anything, "u1", injectionID).Return(nil, repository.ErrNotFound).Once()

		_, err := NewWellnessService(repo, sl.NewDiscardLogger()).Create(context.Background(), "u1", req)
		assert.ErrorIs(t, err, ErrUnknownInjection)
		repo.AssertNotCalled(t, "CreateWellnessMetric", mock.Anything, mock.Anything)
	})

	t.Run("own injection", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetInjection", mock.Anything, "u1", injectionID).Return(&models.Injection{ID: injectionID}, nil).Once()
		repo.On("CreateWellnessMetric", mock.Anything, mock.MatchedBy(func(m models.WellnessMetric) bool {
			return m.InjectionID != nil && *m.InjectionID == injectionID
		})).Return(&models.WellnessMetric{ID: "w1"}, nil).Once()

		m, err := NewWellnessService(repo, sl.NewDiscardLogger()).Create(context.Background(), "u1", req)
		require.NoError(t, err)
		assert.Equal(t, "w1", m.ID)
		repo.AssertExpectations(t)
	})
}

func TestWellnessService_List(t *testing.T) {
	filter := models.WellnessFilter{MetricType: models.MetricMood, Limit: 10}
	repo := new(MockRepository)
	repo.On("ListWellnessMetrics", mock.Anything, "u1", filter).
		Return([]models.WellnessMetric{{ID: "w1"}, {ID: "w2"}}, nil).Once()

	got, err := NewWellnessService(repo, sl.NewDiscardLogger()).List(context.Background(), "u1", filter)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
