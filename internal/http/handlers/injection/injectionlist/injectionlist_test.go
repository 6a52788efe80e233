package injectionlist

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
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, userID string, filter models.InjectionFilter) ([]models.Injection, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Injection), args.Error(1)
}

const peptideID = "3f2a9c1e-8b7d-4e6f-a5c4-2d1e0f9a8b7c"

func serve(svc Service, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, "u1"))
	rec := httptest.NewRecorder()
	New(sl.NewDiscardLogger(), svc).ServeHTTP(rec, req)
	return rec
}

func TestInjectionListHandler_Filters(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("List", mock.Anything, "u1", mock.MatchedBy(func(f models.InjectionFilter) bool {
		return f.PeptideID == peptideID &&
			f.Location == models.LocationThigh &&
			f.Search == "morning" &&
			f.Limit == 10 && f.Offset == 20 &&
			f.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			f.To.Equal(time.Date(2024, 3, 7, 23, 59, 59, 999000000, time.UTC))
	})).Return([]models.Injection{{ID: "i1"}}, nil).Once()

	rec := serve(svc, "/injections?peptideId="+peptideID+"&location=thigh&search=morning&limit=10&offset=20&startDate=2024-03-01&endDate=2024-03-07")

	assert.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Status string             `json:"status"`
		Data   []models.Injection `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "OK", got.Status)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "i1", got.Data[0].ID)
	svc.AssertExpectations(t)
}

func TestInjectionListHandler_Errors(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		svc := new(ServiceMock)
		rec := serve(svc, "/injections?startDate=03/01/2024")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed peptide id", func(t *testing.T) {
		svc := new(ServiceMock)
		rec := serve(svc, "/injections?peptideId=bpc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"status":"Error","error":"invalid peptideId: \"bpc\""}`, rec.Body.String())
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("db down")).Once()
		rec := serve(svc, "/injections")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status":"Error","error":"could not list injections"}`, rec.Body.String())
	})
}
