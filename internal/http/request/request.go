// Package request разбирает общие параметры запроса: пагинацию, даты, флаги
// и фильтр аналитики.
package request

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/peptide-tracker/internal/analytics"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Pagination возвращает limit и offset из query. Некорректные значения заменяются
// значениями по умолчанию, limit ограничен сверху.
func Pagination(r *http.Request) (int, int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Bool возвращает значение флага name, отсутствие флага означает false.
func Bool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// Time разбирает параметр name в формате RFC3339 или YYYY-MM-DD. Для дат без
// времени при endOfDay возвращается конец дня. Пустой параметр даёт nil.
func Time(r *http.Request, name string, endOfDay bool) (*time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(week.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, value)
	}
	if endOfDay {
		t = t.Add(week.Day - time.Millisecond)
	}
	return &t, nil
}

// AnalyticsFilter собирает фильтр аналитики из startDate, endDate, reportType
// и списка protocolIds через запятую.
func AnalyticsFilter(r *http.Request, now time.Time) (models.AnalyticsFilter, error) {
	q := r.URL.Query()
	dr, err := analytics.ParseDateRange(q.Get("startDate"), q.Get("endDate"), models.ReportType(q.Get("reportType")), now)
	if err != nil {
		return models.AnalyticsFilter{}, err
	}

	var ids []string
	for _, id := range strings.Split(q.Get("protocolIds"), ",") {
		if id = strings.TrimSpace(id); id == "" {
			continue
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return models.AnalyticsFilter{}, fmt.Errorf("invalid protocolIds: %q", id)
		}
		ids = append(ids, parsed.String())
	}
	return models.AnalyticsFilter{DateRange: dr, ProtocolIDs: ids}, nil
}

// PathID возвращает параметр пути name в каноническом виде UUID.
func PathID(r *http.Request, name string) (string, error) {
	return parseID(name, chi.URLParam(r, name))
}

// QueryID возвращает параметр name из query. Пустое значение допустимо,
// непустое должно быть UUID.
func QueryID(r *http.Request, name string) (string, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return "", nil
	}
	return parseID(name, value)
}

func parseID(name, value string) (string, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %q", name, value)
	}
	return id.String(), nil
}
