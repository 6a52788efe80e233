package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peptide-tracker/internal/cache"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListPeptides(ctx context.Context, userID string, filter models.PeptideFilter) ([]models.Peptide, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Peptide), args.Error(1)
}

func (m *MockRepository) ListPeptideTemplates(ctx context.Context) ([]models.PeptideTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PeptideTemplate), args.Error(1)
}

func (m *MockRepository) GetPeptide(ctx context.Context, userID, id string) (*models.Peptide, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Peptide), args.Error(1)
}

func (m *MockRepository) CreatePeptide(ctx context.Context, p models.Peptide) (*models.Peptide, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Peptide), args.Error(1)
}

func (m *MockRepository) UpdatePeptide(ctx context.Context, userID, id string, p models.Peptide) (*models.Peptide, error) {
	args := m.Called(ctx, userID, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Peptide), args.Error(1)
}

func (m *MockRepository) DeletePeptide(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func strPtr(s string) *string { return &s }

func TestPeptideService_TemplatesCached(t *testing.T) {
	c, mr := newTestCache(t)
	repo := new(MockRepository)
	templates := []models.PeptideTemplate{{ID: "t1", Name: "BPC-157", Category: models.CategoryRecovery, IsActive: true}}
	repo.On("ListPeptideTemplates", mock.Anything).Return(templates, nil).Once()

	svc := NewPeptideService(repo, c, sl.NewDiscardLogger(), time.Minute)

	got, err := svc.Templates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, templates, got)
	assert.True(t, mr.Exists(TemplatesCacheKey))

	got, err = svc.Templates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BPC-157", got[0].Name)

	repo.AssertNumberOfCalls(t, "ListPeptideTemplates", 1)
}

func TestPeptideService_TemplatesCacheDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	repo := new(MockRepository)
	repo.On("ListPeptideTemplates", mock.Anything).Return([]models.PeptideTemplate{{ID: "t1"}}, nil).Once()

	got, err := NewPeptideService(repo, c, sl.NewDiscardLogger(), time.Minute).Templates(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestPeptideService_Create(t *testing.T) {
	c, _ := newTestCache(t)
	repo := new(MockRepository)
	req := models.DummyPeptide{
		Name:     "Custom blend",
		Category: models.CategoryOther,
		TypicalDoseRange: models.DoseRange{
			Min: 100, Max: 200, Unit: models.UnitMcg, Frequency: models.FrequencyDaily,
		},
	}
	repo.On("CreatePeptide", mock.Anything, mock.MatchedBy(func(p models.Peptide) bool {
		return p.IsCustom && p.OwnedBy("u1") && p.Name == "Custom blend"
	})).Return(&models.Peptide{ID: "p1", Name: "Custom blend"}, nil).Once()

	p, err := NewPeptideService(repo, c, sl.NewDiscardLogger(), time.Minute).Create(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	repo.AssertExpectations(t)
}

func TestPeptideService_UpdateAndDeleteOwnership(t *testing.T) {
	tests := []struct {
		name    string
		peptide *models.Peptide
		getErr  error
		wantErr error
	}{
		{name: "own peptide", peptide: &models.Peptide{ID: "p1", UserID: strPtr("u1")}},
		{name: "global template", peptide: &models.Peptide{ID: "p1"}, wantErr: ErrForbidden},
		{name: "not visible", getErr: repository.ErrNotFound, wantErr: repository.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCache(t)
			repo := new(MockRepository)
			if tt.getErr != nil {
				repo.On("GetPeptide", mock.Anything, "u1", "p1").Return(nil, tt.getErr)
			} else {
				repo.On("GetPeptide", mock.Anything, "u1", "p1").Return(tt.peptide, nil)
			}
			if tt.wantErr == nil {
				repo.On("UpdatePeptide", mock.Anything, "u1", "p1", mock.Anything).Return(tt.peptide, nil).Once()
				repo.On("DeletePeptide", mock.Anything, "u1", "p1").Return(nil).Once()
			}
			svc := NewPeptideService(repo, c, sl.NewDiscardLogger(), time.Minute)

			_, updateErr := svc.Update(context.Background(), "u1", "p1", models.DummyPeptide{Name: "x"})
			deleteErr := svc.Delete(context.Background(), "u1", "p1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, updateErr, tt.wantErr)
				assert.ErrorIs(t, deleteErr, tt.wantErr)
			} else {
				assert.NoError(t, updateErr)
				assert.NoError(t, deleteErr)
			}

			repo.AssertExpectations(t)
		})
	}
}
