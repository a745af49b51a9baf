package server

import (
	"errors"
	"net/http"

	"github.com/desertthunder/moviweb/internal/services"
	"github.com/desertthunder/moviweb/internal/shared"
	"github.com/desertthunder/moviweb/internal/web"
)

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrUniqueViolation), errors.Is(err, shared.ErrForeignKeyViolation):
		return http.StatusConflict
	case errors.Is(err, shared.ErrLookupMiss):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrLookupUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, shared.ErrMissingCredentials):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// userMessage returns the text shown on the error page.
// Lookup misses show the provider's own message; internal errors stay generic.
func userMessage(err error, status int) string {
	var miss *services.LookupMissError
	switch {
	case errors.As(err, &miss):
		return miss.Message
	case errors.Is(err, shared.ErrUniqueViolation):
		return "That name is already taken."
	case errors.Is(err, shared.ErrForeignKeyViolation):
		return "The record is still referenced by other records."
	case errors.Is(err, shared.ErrLookupUnavailable):
		return "The movie lookup service is unavailable. Try again later."
	case errors.Is(err, shared.ErrMissingCredentials):
		return "Movie lookup is not configured."
	case status >= http.StatusInternalServerError:
		return "Something went wrong."
	default:
		return err.Error()
	}
}

// renderError logs err and renders the error page with status.
func (a *app) renderError(w http.ResponseWriter, r *http.Request, err error, status int, backURL string) {
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFromContext(r.Context()))
	} else {
		a.logger.Debug("request rejected", "path", r.URL.Path, "error", err, "status", status)
	}

	page := web.ErrorPage{
		Status:  status,
		Title:   http.StatusText(status),
		Message: userMessage(err, status),
		BackURL: backURL,
	}
	if rerr := a.renderer.RenderHTTP(w, status, web.PageError, page); rerr != nil {
		a.logger.Error("failed to render error page", "error", rerr)
		http.Error(w, page.Message, status)
	}
}

// fail maps err with [StatusFor] and renders the error page.
func (a *app) fail(w http.ResponseWriter, r *http.Request, err error, backURL string) {
	a.renderError(w, r, err, StatusFor(err), backURL)
}
