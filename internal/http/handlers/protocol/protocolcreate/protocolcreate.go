// Package protocolcreate создаёт протокол приёма пептида.
//
// Расписание проверяется сервисом: custom требует хотя бы один день недели.
package protocolcreate

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

// Service описывает интерфейс создания протокола.
type Service interface {
	Create(ctx context.Context, userID string, req models.DummyProtocol) (*models.Protocol, error)
}

// Handler создаёт протокол.
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
// @Summary Создать протокол
// @Tags Protocols
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyProtocol true "Данные протокола"
// @Success 201 {object} response.OKResponse{data=models.Protocol}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации, расписания или неизвестный пептид"
// @Failure 500 {object} response.ErrorResponse
// @Router /protocols [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.protocol.create"
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

	var req models.DummyProtocol
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

	protocol, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		log.Error("failed to create protocol", sl.Err(err))
		status, resp := response.FromError(err, "could not create protocol")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("protocol created", slog.String("id", protocol.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(protocol))
}
