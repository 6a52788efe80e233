// Package analyticsquery отдаёт аналитику пользователя за период: полный отчёт
// или один из его разделов.
package analyticsquery

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/request"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/response"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// Разделы аналитики.
const (
	TypeComprehensive = "comprehensive"
	TypeAdherence     = "adherence"
	TypeSites         = "sites"
	TypeTiming        = "timing"
	TypeVariance      = "variance"
)

// Service описывает интерфейс расчёта аналитики.
type Service interface {
	Comprehensive(ctx context.Context, userID string, filter models.AnalyticsFilter) (*models.ComprehensiveAnalytics, error)
	Adherence(ctx context.Context, userID string, filter models.AnalyticsFilter) ([]models.ProtocolAdherence, error)
	Sites(ctx context.Context, userID string, filter models.AnalyticsFilter) ([]models.SiteAnalytics, error)
	Timing(ctx context.Context, userID string, filter models.AnalyticsFilter) (*models.TimingPatterns, error)
	Variance(ctx context.Context, userID string, filter models.AnalyticsFilter) ([]models.DoseVariance, error)
}

// Handler отдаёт аналитику.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Аналитика
// @Description Без startDate и endDate период задаётся reportType (weekly, monthly, quarterly), по умолчанию 30 дней.
// @Tags Analytics
// @Produce  json
// @Security BearerAuth
// @Param type query string false "comprehensive, adherence, sites, timing или variance"
// @Param startDate query string false "Начало периода"
// @Param endDate query string false "Конец периода"
// @Param reportType query string false "weekly, monthly или quarterly"
// @Param protocolIds query string false "ID протоколов через запятую"
// @Success 200 {object} response.OKResponse{data=models.ComprehensiveAnalytics}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /analytics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.query"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	filter, err := request.AnalyticsFilter(r, h.now().UTC())
	if err != nil {
		log.Error("invalid query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = TypeComprehensive
	}
	log = log.With(slog.String("type", kind))

	var data any
	ctx := r.Context()
	switch kind {
	case TypeComprehensive:
		data, err = h.service.Comprehensive(ctx, userID, filter)
	case TypeAdherence:
		data, err = h.service.Adherence(ctx, userID, filter)
	case TypeSites:
		data, err = h.service.Sites(ctx, userID, filter)
	case TypeTiming:
		data, err = h.service.Timing(ctx, userID, filter)
	case TypeVariance:
		data, err = h.service.Variance(ctx, userID, filter)
	default:
		log.Error("unknown analytics type")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid analytics type"))
		return
	}
	if err != nil {
		log.Error("failed to calculate analytics", sl.Err(err))
		status, resp := response.FromError(err, "could not calculate analytics")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(data))
}
