package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes the standard response envelope. err, when non-nil, is
// reduced to its message only; store/driver details never reach the
// client.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	var errMessage string
	if err != nil {
		errMessage = err.Error()
	}
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
		"errors":  errMessage,
		"status":  http.StatusText(status),
	})
}
