package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	"github.com/dmitrijs2005/passkeeper/internal/server/services"
)

var errBadBody = common.NewValidationError("", "invalid request body")

// statusFor maps service errors to status codes and public messages.
func statusFor(err error) (int, models.ErrorResponse) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, models.ErrorResponse{Error: ve.Error(), Field: ve.Field, Reason: ve.Reason}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrorResponse{Error: common.ErrInvalidCredentials.Error()}
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, models.ErrorResponse{Error: common.ErrorUnauthorized.Error()}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, models.ErrorResponse{Error: common.ErrorNotFound.Error()}
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, models.ErrorResponse{Error: common.ErrConflict.Error()}
	case errors.Is(err, services.ErrBackupDisabled):
		return http.StatusServiceUnavailable, models.ErrorResponse{Error: services.ErrBackupDisabled.Error()}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{Error: common.ErrorInternal.Error()}
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
