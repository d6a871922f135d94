package handler

import (
	"errors"
	"net/http"
	"strings"

	"quill/internal/domain"
	"quill/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Failures from the
// generation and storage taxonomy carry a user-facing notice; technical
// detail never leaves the server.
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError
	var genErr *domain.GenerationError
	var storageErr *domain.StorageError

	switch {
	case errors.As(err, &genErr):
		respondNotice(w, genErr.StatusCode(), err)
	case errors.As(err, &storageErr):
		respondNotice(w, storageErr.StatusCode(), err)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrQuota):
		respondNotice(w, http.StatusPaymentRequired, err)
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondNotice writes a problem response whose detail is the notice message
func respondNotice(w http.ResponseWriter, status int, err error) {
	notice := domain.NoticeFor(err)
	if notice == nil {
		// Cancelled requests have nothing to show
		httputil.RespondError(w, status, domain.DefaultMessage(domain.KindCancelled))
		return
	}
	httputil.RespondErrorWithExtras(w, status, notice.Message, map[string]interface{}{
		"notice": notice,
	})
}

// splitList parses a comma-separated query value, dropping empty entries
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
