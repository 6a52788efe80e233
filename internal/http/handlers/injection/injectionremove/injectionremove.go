// Package injectionremove удаляет запись об инъекции.
package injectionremove

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
)

// Service описывает интерфейс удаления инъекции.
type Service interface {
	Delete(ctx context.Context, userID, id string) error
}

// Handler удаляет инъекцию.
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
// @Summary Удалить инъекцию
// @Tags Injections
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID инъекции"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /injections/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.injection.remove"
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

	id, err := request.PathID(r, "id")
	if err != nil {
		log.Error("invalid path id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		log.Error("failed to delete injection", slog.String("id", id), sl.Err(err))
		status, resp := response.FromError(err, "could not delete injection")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("injection deleted", slog.String("id", id))
	render.JSON(w, r, response.OK())
}
