package notificationsupdate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) UpdateNotificationPreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error {
	args := m.Called(ctx, userID, prefs)
	return args.Error(0)
}

func TestNotificationsUpdateHandler(t *testing.T) {
	valid := models.DefaultNotificationPreferences()
	invalid := models.DefaultNotificationPreferences()
	invalid.DoseLimit.Threshold = 150

	tests := []struct {
		name        string
		userID      string
		body        any
		callService bool
		mockErr     error
		wantCode    int
		wantError   string
	}{
		{name: "saved", userID: "u1", body: valid, callService: true, wantCode: http.StatusOK},
		{name: "unauthorized", body: valid, wantCode: http.StatusUnauthorized, wantError: "unauthorized"},
		{name: "threshold out of range", userID: "u1", body: invalid, wantCode: http.StatusUnprocessableEntity, wantError: "field Threshold is not a valid"},
		{name: "storage error", userID: "u1", body: valid, callService: true, mockErr: errors.New("db down"),
			wantCode: http.StatusInternalServerError, wantError: "could not update notification preferences"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				svc.On("UpdateNotificationPreferences", mock.Anything, "u1", valid).Return(tt.mockErr).Once()
			}

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPut, "/user/notification-preferences", bytes.NewReader(body))
			if tt.userID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, tt.userID))
			}
			rec := httptest.NewRecorder()

			New(sl.NewDiscardLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
			}
			svc.AssertExpectations(t)
		})
	}
}
