// Package weeklysummary отдаёт сводку по инъекциям за последние 7 дней.
package weeklysummary

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/response"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// Service описывает интерфейс расчёта сводки.
type Service interface {
	WeeklySummary(ctx context.Context, userID string) (*models.WeeklySummary, error)
}

// Handler отдаёт недельную сводку.
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
// @Summary Сводка за неделю
// @Tags Injections
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse{data=models.WeeklySummary}
// @Failure 401 {object} response.ErrorResponse
// @Router /injections/weekly-summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.injection.weeklysummary"
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

	summary, err := h.service.WeeklySummary(r.Context(), userID)
	if err != nil {
		log.Error("failed to build weekly summary", sl.Err(err))
		status, resp := response.FromError(err, "could not build weekly summary")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(summary))
}
