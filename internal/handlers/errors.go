package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// ErrorResponse is the body of every failed request.
// Kind names the rejection reason; Line is set for posting rejections tied to one line.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "Validation"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "Duplicate"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "Conflict"
	default:
		return http.StatusInternalServerError, ""
	}
}

// respondError writes the error response for err. Server-side failures are logged
// and reported with the generic fallback message instead of the internal error text.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var postingErr *apperrors.PostingError
	if errors.As(err, &postingErr) {
		logger.Warn("Posting rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: postingErr.Error(),
			Kind:  apperrors.KindName(postingErr.Kind),
			Line:  postingErr.Line,
		})
		return
	}

	status, kind := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: fallback})
		return
	}
	logger.Warn("Request failed", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Error: err.Error(), Kind: kind})
}

// badRequest reports a malformed request that never reached a service.
func badRequest(c *gin.Context, msg string, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg + ": " + err.Error(), Kind: "Validation"})
}

// requireUserID reads the authenticated user, writing a 401 when it is missing.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Kind: "Unauthorized"})
	}
	return userID, ok
}
