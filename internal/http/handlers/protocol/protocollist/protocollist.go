// Package protocollist отдаёт протоколы пользователя.
package protocollist

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

// Service описывает интерфейс получения списка протоколов.
type Service interface {
	List(ctx context.Context, userID string, includeInactive bool) ([]models.Protocol, error)
}

// Handler отдаёт список протоколов.
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
// @Summary Список протоколов
// @Description По умолчанию возвращаются только активные протоколы.
// @Tags Protocols
// @Produce  json
// @Security BearerAuth
// @Param includeInactive query bool false "Включить неактивные"
// @Success 200 {object} response.OKResponse{data=[]models.Protocol}
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /protocols [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.protocol.list"
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

	protocols, err := h.service.List(r.Context(), userID, request.Bool(r, "includeInactive"))
	if err != nil {
		log.Error("failed to list protocols", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list protocols"))
		return
	}

	render.JSON(w, r, response.OKWithData(protocols))
}
