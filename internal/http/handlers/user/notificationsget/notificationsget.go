// Package notificationsget отдаёт настройки уведомлений пользователя.
package notificationsget

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/response"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// Service описывает интерфейс чтения настроек уведомлений.
type Service interface {
	NotificationPreferences(ctx context.Context, userID string) models.NotificationPreferences
}

// Handler отдаёт настройки уведомлений.
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
// @Summary Настройки уведомлений
// @Description Возвращает сохранённые настройки или значения по умолчанию.
// @Tags User
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse{data=models.NotificationPreferences}
// @Failure 401 {object} response.ErrorResponse
// @Router /user/notification-preferences [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.notificationsget"
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

	render.JSON(w, r, response.OKWithData(h.service.NotificationPreferences(r.Context(), userID)))
}
