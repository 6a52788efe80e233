package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/peptide-tracker/internal/analytics"
	"github.com/magabrotheeeer/peptide-tracker/internal/report"
	authservices "github.com/magabrotheeeer/peptide-tracker/internal/services/auth"
	injectionservices "github.com/magabrotheeeer/peptide-tracker/internal/services/injection"
	peptideservices "github.com/magabrotheeeer/peptide-tracker/internal/services/peptide"
	protocolservices "github.com/magabrotheeeer/peptide-tracker/internal/services/protocol"
	wellnessservices "github.com/magabrotheeeer/peptide-tracker/internal/services/wellness"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/repository"
)

// FromError подбирает HTTP-статус и ответ для ошибки сервиса.
// Для неизвестных ошибок возвращается 500 с сообщением fallback.
func FromError(err error, fallback string) (int, ErrorResponse) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, Error("not found")
	case errors.Is(err, authservices.ErrInvalidCredentials):
		return http.StatusUnauthorized, Error("invalid credentials")
	case errors.Is(err, peptideservices.ErrForbidden):
		return http.StatusForbidden, Error("forbidden")
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, Error("already exists")
	case errors.Is(err, injectionservices.ErrUnknownPeptide),
		errors.Is(err, injectionservices.ErrUnknownProtocol),
		errors.Is(err, wellnessservices.ErrUnknownInjection),
		errors.Is(err, protocolservices.ErrUnknownPeptide),
		errors.Is(err, protocolservices.ErrInvalidSchedule),
		errors.Is(err, repository.ErrInvalidReference):
		return http.StatusUnprocessableEntity, Error(err.Error())
	case errors.Is(err, analytics.ErrInvalidDateRange),
		errors.Is(err, report.ErrUnsupportedFormat):
		return http.StatusBadRequest, Error(err.Error())
	default:
		return http.StatusInternalServerError, Error(fallback)
	}
}
