package analyticsexport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
	"github.com/magabrotheeeer/peptide-tracker/internal/report"
	analyticsservices "github.com/magabrotheeeer/peptide-tracker/internal/services/analytics"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/archive"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Export(ctx context.Context, userID string, format report.Format, filter models.AnalyticsFilter, toArchive bool) (*analyticsservices.Export, error) {
	args := m.Called(ctx, userID, format, filter, toArchive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analyticsservices.Export), args.Error(1)
}

var now = time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

func newRequest(query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/analytics/export?"+query, nil)
	return req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, "u1"))
}

func newHandler(svc Service) *Handler {
	h := New(sl.NewDiscardLogger(), svc)
	h.now = func() time.Time { return now }
	return h
}

func TestAnalyticsExportHandler(t *testing.T) {
	lastMonth := models.AnalyticsFilter{
		DateRange: models.DateRange{Start: now.AddDate(0, 0, -30), End: now},
	}

	t.Run("csv attachment", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Export", mock.Anything, "u1", report.FormatCSV, lastMonth, false).
			Return(&analyticsservices.Export{Document: &report.Document{
				FileName:    "peptide-analytics.csv",
				ContentType: "text/csv",
				Body:        []byte("Protocol Adherence\n"),
			}}, nil).Once()
		rec := httptest.NewRecorder()

		newHandler(svc).ServeHTTP(rec, newRequest(""))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="peptide-analytics.csv"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "Protocol Adherence\n", rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("archived", func(t *testing.T) {
		obj := &archive.Object{Key: "reports/u1/peptide-analytics-report.txt", URL: "https://s3.local/signed"}
		svc := new(ServiceMock)
		svc.On("Export", mock.Anything, "u1", report.FormatPDF, lastMonth, true).
			Return(&analyticsservices.Export{Document: &report.Document{}, Object: obj}, nil).Once()
		rec := httptest.NewRecorder()

		newHandler(svc).ServeHTTP(rec, newRequest("format=pdf&archive=true"))

		require.Equal(t, http.StatusCreated, rec.Code)
		var got struct {
			Data archive.Object `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, obj.URL, got.Data.URL)
		svc.AssertExpectations(t)
	})

	t.Run("unsupported format", func(t *testing.T) {
		svc := new(ServiceMock)
		rec := httptest.NewRecorder()

		newHandler(svc).ServeHTTP(rec, newRequest("format=xlsx"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"status":"Error","error":"unsupported format: \"xlsx\""}`, rec.Body.String())
		svc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Export", mock.Anything, "u1", report.FormatCSV, lastMonth, false).
			Return(nil, errors.New("db down")).Once()
		rec := httptest.NewRecorder()

		newHandler(svc).ServeHTTP(rec, newRequest("format=csv"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status":"Error","error":"failed to export analytics"}`, rec.Body.String())
	})
}
