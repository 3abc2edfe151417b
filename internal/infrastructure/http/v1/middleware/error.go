package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/core/apperror"
	appctx "airsolutions/internal/core/context"
	"airsolutions/pkg/logger"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorHandler renders the last error registered on the context. Internal
// errors are logged in full and returned with an opaque request id only.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		renderError(c)
	}
}

// renderError writes the error response unless one was already written.
func renderError(c *gin.Context) {
	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	status, body := errorResponse(c, c.Errors.Last().Err)
	c.JSON(status, body)
}

func errorResponse(c *gin.Context, err error) (int, ErrorBody) {
	ctx := c.Request.Context()
	requestID := appctx.GetRequestID(ctx)

	appErr, ok := apperror.AsAppError(err)
	if !ok {
		appErr = apperror.NewInternal(err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(ctx, "unhandled error",
			"code", appErr.Code,
			"error", err,
		)
		return appErr.HTTPStatus, ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: map[string]any{"request_id": requestID},
		}
	}

	if appErr.Err != nil {
		logger.Debug(ctx, "request error", "code", appErr.Code, "cause", appErr.Err)
	}
	return appErr.HTTPStatus, ErrorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
}
