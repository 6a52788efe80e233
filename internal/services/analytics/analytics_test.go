package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
	"github.com/magabrotheeeer/peptide-tracker/internal/report"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/archive"
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

func (m *MockRepository) ListInjections(ctx context.Context, userID string, filter models.InjectionFilter) ([]models.Injection, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Injection), args.Error(1)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Put(ctx context.Context, userID, fileName, contentType string, body []byte) (*archive.Object, error) {
	args := m.Called(ctx, userID, fileName, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*archive.Object), args.Error(1)
}

var (
	now    = time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC)
	period = models.DateRange{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
	}
)

// setupRepo: два ежедневных протокола, пять инъекций первого пептида по 100 mcg в 09:00.
func setupRepo() *MockRepository {
	target := 100.0
	protocols := []models.Protocol{
		{
			ID: "pr1", PeptideID: "p1", PeptideName: "BPC-157", Name: "Daily BPC",
			DailyTarget: &target, ScheduleType: models.ScheduleDaily,
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
		},
		{
			ID: "pr2", PeptideID: "p2", PeptideName: "TB-500", Name: "Daily TB",
			DailyTarget: &target, ScheduleType: models.ScheduleDaily,
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
		},
	}
	var injections []models.Injection
	for d := 1; d <= 5; d++ {
		injections = append(injections, models.Injection{
			PeptideID:     "p1",
			Dose:          100,
			DoseUnit:      models.UnitMcg,
			InjectionSite: models.InjectionSite{Location: models.LocationAbdomen, Side: models.SideLeft},
			Timestamp:     time.Date(2024, 3, d, 9, 0, 0, 0, time.UTC),
		})
	}

	repo := new(MockRepository)
	repo.On("ListProtocols", mock.Anything, "u1", true).Return(protocols, nil)
	repo.On("ListInjections", mock.Anything, "u1", mock.MatchedBy(func(f models.InjectionFilter) bool {
		return f.From.Equal(period.Start) && f.To.Equal(period.End)
	})).Return(injections, nil)
	return repo
}

func newService(repo Repository, store Archive) *AnalyticsService {
	svc := NewAnalyticsService(repo, store, sl.NewDiscardLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func TestAnalyticsService_Adherence(t *testing.T) {
	tests := []struct {
		name    string
		filter  models.AnalyticsFilter
		wantIDs []string
	}{
		{"all protocols", models.AnalyticsFilter{DateRange: period}, []string{"pr1", "pr2"}},
		{"filtered", models.AnalyticsFilter{DateRange: period, ProtocolIDs: []string{"pr1"}}, []string{"pr1"}},
		{"unknown protocol", models.AnalyticsFilter{DateRange: period, ProtocolIDs: []string{"missing"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newService(setupRepo(), nil).Adherence(context.Background(), "u1", tt.filter)
			require.NoError(t, err)
			require.NotNil(t, result)

			var ids []string
			for _, a := range result {
				ids = append(ids, a.ProtocolID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	result, err := newService(setupRepo(), nil).Adherence(context.Background(), "u1", models.AnalyticsFilter{DateRange: period})
	require.NoError(t, err)
	assert.Equal(t, 10, result[0].TotalPlannedDoses)
	assert.Equal(t, 5, result[0].ActualDoses)
	assert.Equal(t, 50.0, result[0].AdherencePercentage)
	assert.Equal(t, 0, result[1].ActualDoses)
	assert.Equal(t, 10, result[1].MissedDoses)
}

func TestAnalyticsService_SitesTimingVariance(t *testing.T) {
	svc := newService(setupRepo(), nil)
	filter := models.AnalyticsFilter{DateRange: period}

	sites, err := svc.Sites(context.Background(), "u1", filter)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, 100.0, sites[0].UsagePercentage)
	assert.True(t, sites[0].Overused)

	timing, err := svc.Timing(context.Background(), "u1", filter)
	require.NoError(t, err)
	assert.Equal(t, "09:00", timing.AverageTime)
	assert.Equal(t, 100.0, timing.ConsistencyScore)

	variance, err := svc.Variance(context.Background(), "u1", filter)
	require.NoError(t, err)
	require.Len(t, variance, 1)
	assert.Equal(t, "pr1", variance[0].ProtocolID)
	assert.Zero(t, variance[0].StandardDeviation)
	assert.Equal(t, models.TrendStable, variance[0].Trend)
}

func TestAnalyticsService_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListProtocols", mock.Anything, "u1", true).Return(nil, errors.New("db down"))

	svc := newService(repo, nil)
	_, err := svc.Comprehensive(context.Background(), "u1", models.AnalyticsFilter{DateRange: period})
	assert.EqualError(t, err, "db down")
	repo.AssertNotCalled(t, "ListInjections", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsService_Export(t *testing.T) {
	filter := models.AnalyticsFilter{DateRange: period}

	t.Run("csv file", func(t *testing.T) {
		out, err := newService(setupRepo(), nil).Export(context.Background(), "u1", report.FormatCSV, filter, false)
		require.NoError(t, err)
		assert.Nil(t, out.Object)
		assert.Equal(t, "peptide-analytics.csv", out.Document.FileName)
		assert.True(t, strings.HasPrefix(string(out.Document.Body), "PROTOCOL ADHERENCE\n"))
	})

	t.Run("archive not configured", func(t *testing.T) {
		out, err := newService(setupRepo(), nil).Export(context.Background(), "u1", report.FormatText, filter, true)
		require.NoError(t, err)
		assert.Nil(t, out.Object)
		assert.Equal(t, "text/plain", out.Document.ContentType)
	})

	t.Run("archived", func(t *testing.T) {
		store := new(MockArchive)
		obj := &archive.Object{Key: "reports/u1/key", URL: "http://minio/reports/u1/key?sig", ExpiresAt: now.Add(15 * time.Minute)}
		store.On("Put", mock.Anything, "u1", "peptide-analytics-report.txt", "text/plain", mock.Anything).Return(obj, nil).Once()

		out, err := newService(setupRepo(), store).Export(context.Background(), "u1", report.FormatPDF, filter, true)
		require.NoError(t, err)
		assert.Equal(t, obj, out.Object)
		store.AssertExpectations(t)
	})

	t.Run("archive error", func(t *testing.T) {
		store := new(MockArchive)
		store.On("Put", mock.Anything, "u1", "peptide-analytics.csv", "text/csv", mock.Anything).Return(nil, errors.New("bucket missing")).Once()

		_, err := newService(setupRepo(), store).Export(context.Background(), "u1", report.FormatCSV, filter, true)
		assert.ErrorContains(t, err, "bucket missing")
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := newService(setupRepo(), nil).Export(context.Background(), "u1", report.Format("xlsx"), filter, false)
		assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
	})
}
