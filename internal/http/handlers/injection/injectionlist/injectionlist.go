// Package injectionlist реализует список инъекций с фильтрами и пагинацией.
package injectionlist

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

// Service описывает интерфейс получения инъекций.
type Service interface {
	List(ctx context.Context, userID string, filter models.InjectionFilter) ([]models.Injection, error)
}

// Handler отдаёт инъекции пользователя.
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
// @Summary Список инъекций
// @Description Инъекции пользователя, новые первыми.
// @Tags Injections
// @Produce  json
// @Security BearerAuth
// @Param peptideId query string false "ID пептида"
// @Param protocolId query string false "ID протокола"
// @Param startDate query string false "Начало периода (RFC3339 или YYYY-MM-DD)"
// @Param endDate query string false "Конец периода (RFC3339 или YYYY-MM-DD)"
// @Param location query string false "Место инъекции"
// @Param search query string false "Поиск по заметкам и названию пептида"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.OKResponse{data=[]models.Injection}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /injections [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.injection.list"
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

	from, err := request.Time(r, "startDate", false)
	if err != nil {
		log.Error("invalid query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	to, err := request.Time(r, "endDate", true)
	if err != nil {
		log.Error("invalid query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	peptideID, err := request.QueryID(r, "peptideId")
	if err != nil {
		log.Error("invalid query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	protocolID, err := request.QueryID(r, "protocolId")
	if err != nil {
		log.Error("invalid query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	q := r.URL.Query()
	limit, offset := request.Pagination(r)
	filter := models.InjectionFilter{
		PeptideID:  peptideID,
		ProtocolID: protocolID,
		From:       from,
		To:         to,
		Location:   models.InjectionLocation(q.Get("location")),
		Search:     q.Get("search"),
		Limit:      limit,
		Offset:     offset,
	}

	injections, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		log.Error("failed to list injections", sl.Err(err))
		status, resp := response.FromError(err, "could not list injections")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("list injections", slog.Int("count", len(injections)))
	render.JSON(w, r, response.OKWithData(injections))
}
