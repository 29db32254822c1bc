package delivery

import (
	"errors"
	"net/http"

	"admin_console/internal/domain"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

// failWith writes err as a Fail envelope. Field-level validation details ride along in Data.
func failWith(c *gin.Context, prefix string, err error) {
	_ = c.Error(err)
	msg := domain.UserMessage(err)
	if prefix != "" && msg != prefix {
		msg = prefix + ": " + msg
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		c.JSON(mapErrorToStatus(err), Response{Status: "Fail", Message: msg, Data: ve.Fields})
		return
	}
	ErrorResponse(c, mapErrorToStatus(err), msg)
}

func mapErrorToStatus(err error) int {
	var (
		te *domain.TransportError
		ve *domain.ValidationError
		ue *domain.UploadError
		me *domain.MalformedIdentifierError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoDraft), errors.Is(err, domain.ErrSubmitInProgress):
		return http.StatusConflict
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &me):
		return http.StatusConflict
	case errors.As(err, &ue):
		return http.StatusBadGateway
	case errors.As(err, &te):
		if te.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
