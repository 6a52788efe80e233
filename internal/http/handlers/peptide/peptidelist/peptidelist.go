// Package peptidelist реализует список пептидов пользователя.
package peptidelist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/response"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// Service описывает интерфейс получения пептидов.
type Service interface {
	List(ctx context.Context, userID string, filter models.PeptideFilter) ([]models.Peptide, error)
}

// Handler отдаёт пептиды пользователя.
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
// @Summary Список пептидов
// @Tags Peptides
// @Produce  json
// @Security BearerAuth
// @Param category query string false "Категория"
// @Param isCustom query bool false "Только собственные"
// @Param search query string false "Поиск по названию"
// @Success 200 {object} response.OKResponse{data=[]models.Peptide}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /peptides [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.peptide.list"
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

	q := r.URL.Query()
	filter := models.PeptideFilter{Search: q.Get("search")}
	if c := q.Get("category"); c != "" {
		category := models.PeptideCategory(c)
		filter.Category = &category
	}
	if v := q.Get("isCustom"); v != "" {
		isCustom, err := strconv.ParseBool(v)
		if err != nil {
			log.Error("invalid isCustom", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid isCustom"))
			return
		}
		filter.IsCustom = &isCustom
	}

	peptides, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		log.Error("failed to list peptides", sl.Err(err))
		status, resp := response.FromError(err, "could not list peptides")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("list peptides", slog.Int("count", len(peptides)))
	render.JSON(w, r, response.OKWithData(peptides))
}
