// Package alertslist отдаёт активные уведомления пользователя.
package alertslist

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

// Service описывает интерфейс получения уведомлений.
type Service interface {
	List(ctx context.Context, userID string, unreadOnly bool) ([]models.Alert, error)
}

// Handler отдаёт уведомления.
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
// @Summary Список уведомлений
// @Description Неотклонённые и непросроченные уведомления, новые первыми.
// @Tags Alerts
// @Produce  json
// @Security BearerAuth
// @Param unreadOnly query bool false "Только непрочитанные"
// @Success 200 {object} response.OKResponse{data=[]models.Alert}
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /alerts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.alerts.list"
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

	alerts, err := h.service.List(r.Context(), userID, request.Bool(r, "unreadOnly"))
	if err != nil {
		log.Error("failed to list alerts", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list alerts"))
		return
	}

	render.JSON(w, r, response.OKWithData(alerts))
}
