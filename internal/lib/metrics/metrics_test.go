package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandler_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/v1/injections/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/v1/injections/{id}", "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/injections/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/v1/injections/{id}", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(alertsCreated.WithLabelValues("missed_dose"))
	RecordAlertCreated("missed_dose")
	assert.Equal(t, before+1, testutil.ToFloat64(alertsCreated.WithLabelValues("missed_dose")))

	sentBefore := testutil.ToFloat64(emailsSent.WithLabelValues("sent"))
	RecordEmail(true)
	assert.Equal(t, sentBefore+1, testutil.ToFloat64(emailsSent.WithLabelValues("sent")))

	RecordExport("csv", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(exports.WithLabelValues("csv", "false")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordAlertCreated("dose_limit_warning")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "peptide_tracker_alerts_created_total"))
}
