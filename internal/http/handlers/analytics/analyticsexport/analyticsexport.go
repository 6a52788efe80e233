// Package analyticsexport выгружает аналитический отчёт файлом или
// складывает его в архив и возвращает ссылку на скачивание.
package analyticsexport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/request"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/response"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
	"github.com/magabrotheeeer/peptide-tracker/internal/report"
	analyticsservices "github.com/magabrotheeeer/peptide-tracker/internal/services/analytics"
)

// Service описывает интерфейс выгрузки отчёта.
type Service interface {
	Export(ctx context.Context, userID string, format report.Format, filter models.AnalyticsFilter, toArchive bool) (*analyticsservices.Export, error)
}

// Handler выгружает отчёт.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Выгрузка отчёта
// @Description Возвращает файл (csv или текстовый отчёт). С archive=true отчёт сохраняется в хранилище и возвращается ссылка.
// @Tags Analytics
// @Produce  text/csv
// @Produce  text/plain
// @Produce  json
// @Security BearerAuth
// @Param format query string false "csv, pdf или txt"
// @Param archive query bool false "Сохранить в архив"
// @Param startDate query string false "Начало периода"
// @Param endDate query string false "Конец периода"
// @Param reportType query string false "weekly, monthly или quarterly"
// @Param protocolIds query string false "ID протоколов через запятую"
// @Success 200 {file} file
// @Success 201 {object} response.OKResponse "Ссылка на архивный отчёт"
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /analytics/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.export"
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

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		log.Error("invalid format", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	filter, err := request.AnalyticsFilter(r, h.now().UTC())
	if err != nil {
		log.Error("invalid query", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	export, err := h.service.Export(r.Context(), userID, format, filter, request.Bool(r, "archive"))
	if err != nil {
		log.Error("failed to export analytics", sl.Err(err))
		status, resp := response.FromError(err, "failed to export analytics")
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	if export.Object != nil {
		log.Info("report archived", slog.String("key", export.Object.Key))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.OKWithData(export.Object))
		return
	}

	doc := export.Document
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		log.Error("failed to write report", sl.Err(err))
	}
}
