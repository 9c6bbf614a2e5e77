package apierrors

import (
	"fmt"

	"tasktracker/pkg/translator"

	"github.com/gin-gonic/gin"
)

// JsonErr represents the JSON structure for apierrors.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err represents the error with a code and message.
type Err struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// CreateError generates a JsonErr with a translated message.
func CreateError(code int, msgKey string, lang string) JsonErr {
	return JsonErr{ErrDetails: Err{code, GetTransErrorMsg(msgKey, lang)}}
}

// GetTransErrorMsg retrieves the translated error message, or the key when
// no translation exists.
func GetTransErrorMsg(msgKey string, lang string) string {
	return translator.Localize(msgKey, lang)
}

// Abort writes the translated error envelope and stops the handler chain.
func Abort(c *gin.Context, code int, msgKey string, lang string) {
	c.AbortWithStatusJSON(code, CreateError(code, msgKey, lang))
}
