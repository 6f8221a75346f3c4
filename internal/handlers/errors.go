package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/handlers/render"
	"github.com/nkiryanov/clubhouse/internal/logger"
)

// serviceError renders known service errors with matching status
// Unknown errors are logged with msg and hidden behind 500
func serviceError(w http.ResponseWriter, err error, l logger.Logger, msg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		render.ServiceError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apperrors.ErrInsufficientStock),
		errors.Is(err, apperrors.ErrMemberAlreadyExists),
		errors.Is(err, apperrors.ErrMatchAlreadyExists):
		render.ServiceError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidStatus),
		errors.Is(err, apperrors.ErrInvalidEventType),
		errors.Is(err, apperrors.ErrInvalidInterval):
		render.ServiceError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		l.Error(msg, "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pathID parses uuid path parameter; on failure the error response is already written
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		render.FieldError(w, name, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
