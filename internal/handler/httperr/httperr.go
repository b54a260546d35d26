package httperr

import (
	"log/slog"
	"net/http"

	"tour-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  int               `json:"-"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, fields map[string]string) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status, Message: msg, Errors: fields}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort maps a use case error onto the response envelope. Anything outside the
// business taxonomy is logged and reported as a 500 without details.
func Abort(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("unexpected error",
			"path", c.FullPath(),
			"error", err.Error(),
			"stack", errs.ExtractStackLines(err, 8))
		AbortWithError(c, status, err, "Internal server error", nil)
		return
	}

	var fields map[string]string
	var ve *errs.ValidationError
	if errs.As(err, &ve) {
		fields = ve.Fields
	}
	AbortWithError(c, status, err, errs.Message(err), fields)
}

func StatusOf(err error) int {
	switch {
	case errs.Is(err, errs.ErrValidation),
		errs.Is(err, errs.ErrCapacity),
		errs.Is(err, errs.ErrState),
		errs.Is(err, errs.ErrPayment):
		return http.StatusUnprocessableEntity
	case errs.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
