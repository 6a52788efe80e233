// Package injectionduplicate повторяет инъекцию с текущим временем.
package injectionduplicate

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

// Service описывает интерфейс копирования инъекции.
type Service interface {
	Duplicate(ctx context.Context, userID, id string) (*models.Injection, error)
}

// Handler копирует инъекцию.
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
// @Summary Повторить инъекцию
// @Description Создаёт копию инъекции с текущим временем и пометкой в заметках.
// @Tags Injections
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID исходной инъекции"
// @Success 201 {object} response.OKResponse{data=models.Injection}
// @Failure 404 {object} response.ErrorResponse
// @Router /injections/{id}/duplicate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.injection.duplicate"
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

	injection, err := h.service.Duplicate(r.Context(), userID, id)
	if err != nil {
		log.Error("failed to duplicate injection", slog.String("id", id), sl.Err(err))
		status, resp := response.FromError(err, "could not duplicate injection")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("injection duplicated", slog.String("source_id", id), slog.String("id", injection.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(injection))
}
