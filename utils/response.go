package utils

import (
	"fmt"

	"auctioner/internal/biddingerrors"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every authority response. The server writes
// Envelope[any]; clients decode Envelope[json.RawMessage] and unpack Data
// once they know the call succeeded.
type Envelope[T any] struct {
	Status  int                  `json:"status"`
	Message string               `json:"message"`
	Data    T                    `json:"data,omitempty"`
	Error   string               `json:"error,omitempty"`
	Reason  biddingerrors.Reason `json:"reason,omitempty"`
}

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope[any]{Status: status, Message: message, Data: data})
}

// JSONError aborts with a structured error response carrying the machine-readable rejection reason
func JSONError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, Envelope[any]{
		Status:  status,
		Message: message,
		Error:   fmt.Sprintf("%s: %v", message, err),
		Reason:  biddingerrors.ReasonOf(err),
	})
}
