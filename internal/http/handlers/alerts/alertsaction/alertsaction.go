// Package alertsaction выполняет действие над уведомлениями: пересчёт правил,
// отметку о прочтении или отклонение.
package alertsaction

import (
	"context"
	"encoding/json"
	"fmt"
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

// Действия над уведомлениями.
const (
	ActionCalculate = "calculateAlerts"
	ActionMarkRead  = "markRead"
	ActionDismiss   = "dismiss"
)

// Service описывает интерфейс управления уведомлениями.
type Service interface {
	CalculateAlerts(ctx context.Context, userID string) (models.AlertCounts, error)
	MarkRead(ctx context.Context, userID, alertID string) error
	Dismiss(ctx context.Context, userID, alertID string) error
}

// Calculated — результат пересчёта уведомлений.
type Calculated struct {
	Message string             `json:"message"`
	Counts  models.AlertCounts `json:"counts"`
}

// Handler выполняет действие над уведомлениями.
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
// @Summary Действие над уведомлениями
// @Description calculateAlerts запускает все правила, markRead и dismiss требуют alertId.
// @Tags Alerts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.AlertAction true "Действие"
// @Success 200 {object} response.OKResponse{data=Calculated}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /alerts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.alerts.action"
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

	var req models.AlertAction
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
	log = log.With(slog.String("action", req.Action))

	if req.Action == ActionCalculate {
		counts, err := h.service.CalculateAlerts(r.Context(), userID)
		if err != nil {
			log.Error("failed to calculate alerts", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not calculate alerts"))
			return
		}
		render.JSON(w, r, response.OKWithData(Calculated{
			Message: fmt.Sprintf("Created %d new alerts", counts.Total()),
			Counts:  counts,
		}))
		return
	}

	if req.AlertID == "" {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("field AlertID is a required field"))
		return
	}

	var err error
	if req.Action == ActionMarkRead {
		err = h.service.MarkRead(r.Context(), userID, req.AlertID)
	} else {
		err = h.service.Dismiss(r.Context(), userID, req.AlertID)
	}
	if err != nil {
		log.Error("failed to update alert", slog.String("alert_id", req.AlertID), sl.Err(err))
		status, resp := response.FromError(err, "could not update alert")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OK())
}
