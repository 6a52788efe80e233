// Package peptidetemplates отдаёт справочник пептидов.
package peptidetemplates

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/response"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// Service описывает интерфейс получения справочника.
type Service interface {
	Templates(ctx context.Context) ([]models.PeptideTemplate, error)
}

// Handler отдаёт справочник пептидов.
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
// @Summary Справочник пептидов
// @Tags Peptides
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse{data=[]models.PeptideTemplate}
// @Failure 500 {object} response.ErrorResponse
// @Router /peptides/templates [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.peptide.templates"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	templates, err := h.service.Templates(r.Context())
	if err != nil {
		log.Error("failed to list templates", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list templates"))
		return
	}

	render.JSON(w, r, response.OKWithData(templates))
}
