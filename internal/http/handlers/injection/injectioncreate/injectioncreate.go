// Package injectioncreate реализует HTTP-обработчик записи новой инъекции.
//
// Пептид инъекции должен существовать и быть доступен пользователю.
package injectioncreate

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

// Service описывает интерфейс создания инъекции.
type Service interface {
	Create(ctx context.Context, userID string, req models.DummyInjection) (*models.Injection, error)
}

// Handler создаёт инъекцию.
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
// @Summary Записать инъекцию
// @Tags Injections
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyInjection true "Данные инъекции"
// @Success 201 {object} response.OKResponse{data=models.Injection}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или неизвестный пептид"
// @Failure 500 {object} response.ErrorResponse
// @Router /injections [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.injection.create"
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

	var req models.DummyInjection
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

	injection, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to create injection", sl.Err(err))
		status, resp := response.FromError(err, "could not create injection")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("injection created", slog.String("id", injection.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(injection))
}
