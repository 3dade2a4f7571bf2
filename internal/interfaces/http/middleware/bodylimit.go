package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/labeldesk/backend/internal/interfaces/http/dto"
)

const errCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

// BodyLimit rejects requests whose declared Content-Length exceeds maxBytes
// and caps streaming bodies with a MaxBytesReader. Design payloads carry the
// full element list, so the limit guards against runaway uploads rather than
// normal saves.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(errCodeRequestTooLarge, "request body exceeds the configured limit"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
