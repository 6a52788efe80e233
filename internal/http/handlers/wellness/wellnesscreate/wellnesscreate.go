// Package wellnesscreate записывает замер самочувствия.
package wellnesscreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/response"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// Service описывает интерфейс записи замера.
type Service interface {
	Create(ctx context.Context, userID string, req models.DummyWellnessMetric) (*models.WellnessMetric, error)
}

// Handler записывает замер.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Записать замер самочувствия
// @Tags Wellness
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyWellnessMetric true "Данные замера"
// @Success 201 {object} response.OKResponse{data=models.WellnessMetric}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или неизвестная инъекция"
// @Failure 500 {object} response.ErrorResponse
// @Router /wellness-metrics [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wellness.create"
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

	var req models.DummyWellnessMetric
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	metric, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to create wellness metric", sl.Err(err))
		status, resp := response.FromError(err, "could not create wellness metric")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("wellness metric created", slog.String("id", metric.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(metric))
}
