// Package peptidecreate создаёт собственный пептид пользователя.
package peptidecreate

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

// Service описывает интерфейс создания пептида.
type Service interface {
	Create(ctx context.Context, userID string, req models.DummyPeptide) (*models.Peptide, error)
}

// Handler создаёт пептид.
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
// @Summary Создать пептид
// @Tags Peptides
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPeptide true "Данные пептида"
// @Success 201 {object} response.OKResponse{data=models.Peptide}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /peptides [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.peptide.create"
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

	var req models.DummyPeptide
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
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

	peptide, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to create peptide", sl.Err(err))
		status, resp := response.FromError(err, "could not create peptide")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("peptide created", slog.String("id", peptide.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(peptide))
}
