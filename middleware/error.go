package middleware

import (
	"github.com/MarisolQZ/pipeline_end/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler handles errors collected on the context.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// a response was already written
		if c.Writer.Status() >= 400 {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			utils.HandleError(c, err.Err)
			return
		}
	}
}
