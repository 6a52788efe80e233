// Package protocolprogress отдаёт недельный прогресс по активным протоколам
// и, по запросу, тренд за последние недели.
package protocolprogress

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

// Service описывает интерфейс расчёта прогресса.
type Service interface {
	WeeklyProgress(ctx context.Context, userID string, weekStart time.Time) (*models.WeeklyProgress, error)
	Trends(ctx context.Context, userID string, weeksBack int) ([]models.WeeklyTrend, error)
}

// Progress — ответ обработчика.
type Progress struct {
	*models.WeeklyProgress
	Trends []models.WeeklyTrend `json:"trends,omitempty"`
}

// Handler отдаёт прогресс.
type Handler struct {
	log        *slog.Logger
	service    Service
	trendWeeks int
}

// New создает новый экземпляр Handler. trendWeeks — глубина тренда в неделях.
func New(log *slog.Logger, service Service, trendWeeks int) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		trendWeeks: trendWeeks,
	}
}

// ServeHTTP godoc
// @Summary Недельный прогресс
// @Description Прогресс по протоколам, активным в неделю weekStart (по умолчанию текущая).
// @Tags Protocols
// @Produce  json
// @Security BearerAuth
// @Param weekStart query string false "Любой день недели, YYYY-MM-DD или RFC3339"
// @Param includeTrends query bool false "Добавить тренд"
// @Success 200 {object} response.OKResponse{data=Progress}
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /protocols/weekly-progress [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.protocol.progress"
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

	weekStart, err := request.Time(r, "weekStart", false)
	if err != nil {
		log.Error("bad week start", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	var start time.Time
	if weekStart != nil {
		start = *weekStart
	}

	wp, err := h.service.WeeklyProgress(r.Context(), userID, start)
	if err != nil {
		log.Error("failed to calculate weekly progress", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to fetch progress data"))
		return
	}
	resp := Progress{WeeklyProgress: wp}

	if request.Bool(r, "includeTrends") {
		resp.Trends, err = h.service.Trends(r.Context(), userID, h.trendWeeks)
		if err != nil {
			log.Error("failed to calculate trends", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to fetch progress data"))
			return
		}
	}

	render.JSON(w, r, response.OKWithData(resp))
}
