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

func (m *MockRepository) GetNotificationPreferences(ctx context.Context, userID string) (*models.NotificationPreferences, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.NotificationPreferences), args.Bool(1), args.Error(2)
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

func (m *MockRepository) CreateAlertIfAbsent(ctx context.Context, alert models.Alert) (*models.Alert, bool, error) {
	args := m.Called(ctx, alert)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Alert), args.Bool(1), args.Error(2)
}

func (m *MockRepository) ListAlerts(ctx context.Context, userID string, unreadOnly bool, now time.Time) ([]models.Alert, error) {
	args := m.Called(ctx, userID, unreadOnly, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Alert), args.Error(1)
}

func (m *MockRepository) MarkAlertRead(ctx context.Context, userID, alertID string) error {
	args := m.Called(ctx, userID, alertID)
	return args.Error(0)
}

func (m *MockRepository) DismissAlert(ctx context.Context, userID, alertID string) error {
	args := m.Called(ctx, userID, alertID)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, message any) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// now — среда 6 марта 2024, 12:00 UTC.
var now = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

// fixture: 640 из 700 mcg за неделю (91%) четырьмя инъекциями подряд в одно место.
func fixture() ([]models.Protocol, []models.Injection) {
	target := 100.0
	protocols := []models.Protocol{{
		ID:           "pr1",
		UserID:       "u1",
		PeptideID:    "p1",
		PeptideName:  "BPC-157",
		Name:         "Daily BPC",
		DailyTarget:  &target,
		ScheduleType: models.ScheduleDaily,
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
	}}
	var injections []models.Injection
	for d := 3; d <= 6; d++ {
		injections = append(injections, models.Injection{
			UserID:        "u1",
			PeptideID:     "p1",
			Dose:          160,
			DoseUnit:      models.UnitMcg,
			InjectionSite: models.InjectionSite{Location: models.LocationAbdomen, Side: models.SideLeft},
			Timestamp:     time.Date(2024, 3, d, 9, 0, 0, 0, time.UTC),
		})
	}
	return protocols, injections
}

func setupData(repo *MockRepository, prefs *models.NotificationPreferences) {
	protocols, injections := fixture()
	if prefs != nil {
		repo.On("GetNotificationPreferences", mock.Anything, "u1").Return(prefs, true, nil).Once()
	} else {
		repo.On("GetNotificationPreferences", mock.Anything, "u1").Return(nil, false, nil).Once()
	}
	repo.On("ListProtocols", mock.Anything, "u1", false).Return(protocols, nil).Once()
	repo.On("ListInjections", mock.Anything, "u1", mock.MatchedBy(func(f models.InjectionFilter) bool {
		return f.From.Equal(time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC)) && f.To.Equal(now)
	})).Return(injections, nil).Once()
}

func newService(repo Repository, publisher Publisher) *AlertService {
	svc := NewAlertService(repo, publisher, sl.NewDiscardLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func TestAlertService_CalculateAlerts(t *testing.T) {
	repo := new(MockRepository)
	setupData(repo, nil)

	var saved []models.Alert
	repo.On("CreateAlertIfAbsent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(models.Alert)) }).
		Return(&models.Alert{ID: "a1", AlertType: models.AlertProtocolMilestone}, true, nil)

	counts, err := newService(repo, nil).CalculateAlerts(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, models.AlertCounts{DoseLimit: 1, MissedDose: 0, SiteRotation: 1, Milestones: 3}, counts)
	assert.Equal(t, 5, counts.Total())
	require.Len(t, saved, 5)
	assert.Equal(t, models.AlertDoseLimitWarning, saved[0].AlertType)
	assert.Equal(t, models.AlertSiteRotationReminder, saved[1].AlertType)
	assert.Equal(t, "2024-03-03:25", saved[2].Window)
	repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestAlertService_CalculateAlertsDeduplicated(t *testing.T) {
	repo := new(MockRepository)
	setupData(repo, nil)
	repo.On("CreateAlertIfAbsent", mock.Anything, mock.Anything).Return(nil, false, nil)

	counts, err := newService(repo, nil).CalculateAlerts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, counts.Total())
}

func TestAlertService_CalculateAlertsSaveErrorsAreSkipped(t *testing.T) {
	repo := new(MockRepository)
	setupData(repo, nil)
	repo.On("CreateAlertIfAbsent", mock.Anything, mock.MatchedBy(func(a models.Alert) bool {
		return a.AlertType == models.AlertSiteRotationReminder
	})).Return(nil, false, errors.New("insert failed"))
	repo.On("CreateAlertIfAbsent", mock.Anything, mock.Anything).Return(&models.Alert{ID: "a1"}, true, nil)

	counts, err := newService(repo, nil).CalculateAlerts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.AlertCounts{DoseLimit: 1, Milestones: 3}, counts)
}

func TestAlertService_CalculateAlertsDisabledRules(t *testing.T) {
	prefs := models.DefaultNotificationPreferences()
	prefs.DoseLimit.Enabled = false
	prefs.SiteRotation.Enabled = false
	prefs.ProtocolMilestones.Milestones = []float64{100}

	repo := new(MockRepository)
	setupData(repo, &prefs)

	counts, err := newService(repo, nil).CalculateAlerts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, counts.Total())
	repo.AssertNotCalled(t, "CreateAlertIfAbsent", mock.Anything, mock.Anything)
}

func TestAlertService_CalculateAlertsEmail(t *testing.T) {
	tests := []struct {
		name        string
		quietHours  models.QuietHours
		wantEmails  int
		wantGetUser bool
	}{
		{
			name:        "outside quiet hours",
			quietHours:  models.QuietHours{Enabled: true, StartTime: "22:00", EndTime: "08:00"},
			wantEmails:  5,
			wantGetUser: true,
		},
		{
			name:       "inside quiet hours",
			quietHours: models.QuietHours{Enabled: true, StartTime: "11:00", EndTime: "13:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := models.DefaultNotificationPreferences()
			prefs.EmailNotifications = true
			prefs.QuietHours = tt.quietHours

			repo := new(MockRepository)
			publisher := new(MockPublisher)
			setupData(repo, &prefs)
			repo.On("CreateAlertIfAbsent", mock.Anything, mock.Anything).
				Return(&models.Alert{ID: "a1", Title: "title"}, true, nil)
			if tt.wantGetUser {
				repo.On("GetUser", mock.Anything, "u1").
					Return(&models.User{ID: "u1", Email: "user@example.com", Username: "user"}, nil).Once()
			}
			publisher.On("Publish", mock.Anything, mock.MatchedBy(func(msg models.AlertEmail) bool {
				return msg.Email == "user@example.com" && msg.Title == "title"
			})).Return(nil)

			_, err := newService(repo, publisher).CalculateAlerts(context.Background(), "u1")
			require.NoError(t, err)

			publisher.AssertNumberOfCalls(t, "Publish", tt.wantEmails)
			repo.AssertExpectations(t)
		})
	}
}

func TestAlertService_CalculateAlertsLoadError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetNotificationPreferences", mock.Anything, "u1").Return(nil, false, errors.New("bad json")).Once()
	repo.On("ListProtocols", mock.Anything, "u1", false).Return(nil, errors.New("db down")).Once()

	_, err := newService(repo, nil).CalculateAlerts(context.Background(), "u1")
	assert.EqualError(t, err, "db down")
}

func TestAlertService_ListAndActions(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListAlerts", mock.Anything, "u1", true, now).Return([]models.Alert{{ID: "a1"}}, nil).Once()
	repo.On("MarkAlertRead", mock.Anything, "u1", "a1").Return(nil).Once()
	repo.On("DismissAlert", mock.Anything, "u1", "a2").Return(errors.New("record not found")).Once()

	svc := newService(repo, nil)

	alerts, err := svc.List(context.Background(), "u1", true)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
	assert.NoError(t, svc.MarkRead(context.Background(), "u1", "a1"))
	assert.Error(t, svc.Dismiss(context.Background(), "u1", "a2"))
	repo.AssertExpectations(t)
}
