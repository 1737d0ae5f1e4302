package http

import (
	"errors"
	"net/http"

	"github.com/Flarenzy/fortimigrate/internal/domain"
)

var unprocessable = []error{
	domain.ErrRangeExhausted,
	domain.ErrUnknownDHCPOption,
	domain.ErrUnknownLeaseTime,
	domain.ErrInvalidDomainName,
	domain.ErrMalformedHexOption,
	domain.ErrTooManyExclusions,
	domain.ErrVLANsDisabled,
}

// statusForError maps a service error onto a status code and the message
// safe to show to clients.
func statusForError(err error, notFound string) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, notFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	}
	for _, target := range unprocessable {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity, err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func (a *API) respondError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status, msg := statusForError(err, notFound)
	if status == http.StatusInternalServerError {
		a.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err.Error())
	}
	a.respond(w, r, status, ErrorResponse{Error: msg})
}
