package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// InternalErrorMessage is the only detail a client sees for an unhandled error.
const InternalErrorMessage = "internal server error"

// ErrorHandler answers every request whose handler recorded an error with c.Error
// and wrote nothing. The error is logged and the client gets a generic 500.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")

		if c.Writer.Written() {
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": InternalErrorMessage})
	}
}
