// Package wellnesslist отдаёт замеры самочувствия пользователя.
package wellnesslist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/request"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/response"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// Service описывает интерфейс выборки замеров.
type Service interface {
	List(ctx context.Context, userID string, filter models.WellnessFilter) ([]models.WellnessMetric, error)
}

// Handler отдаёт список замеров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список замеров самочувствия
// @Tags Wellness
// @Produce  json
// @Security BearerAuth
// @Param metricType query string false "Тип показателя"
// @Param startDate query string false "Начало периода"
// @Param endDate query string false "Конец периода"
// @Param injectionId query string false "ID инъекции"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.OKResponse{data=[]models.WellnessMetric}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /wellness-metrics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wellness.list"
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

	from, err := request.Time(r, "startDate", false)
	if err != nil {
		log.Error("invalid query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	to, err := request.Time(r, "endDate", true)
	if err != nil {
		log.Error("invalid query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	injectionID, err := request.QueryID(r, "injectionId")
	if err != nil {
		log.Error("invalid query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	q := r.URL.Query()
	limit, offset := request.Pagination(r)
	filter := models.WellnessFilter{
		MetricType:  models.MetricType(q.Get("metricType")),
		From:        from,
		To:          to,
		InjectionID: injectionID,
		Limit:       limit,
		Offset:      offset,
	}

	metrics, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		log.Error("failed to list wellness metrics", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list wellness metrics"))
		return
	}

	render.JSON(w, r, response.OKWithData(metrics))
}
