package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lessonplan-backend/internal/platform/apierr"
)

// StatusClientClosedRequest is written when the caller went away mid-generation.
const StatusClientClosedRequest = 499

type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, msg string, details any) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.JSON(status, ErrorBody{Error: msg, Code: code, Details: details})
}

// RespondAPIError writes err with the status it carries. Unclassified errors
// become a 500 with a generic message; the cause stays in the logs.
func RespondAPIError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 && ae.Status < http.StatusInternalServerError {
		RespondError(c, ae.Status, ae.Code, ae.Error(), nil)
		return
	}
	status, code := apierr.StatusOf(err)
	RespondError(c, status, code, "Erro interno do servidor.", nil)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
