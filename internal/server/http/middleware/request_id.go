package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polkiloo/vinylstore/internal/pkg/reqctx"
)

// RequestID assigns every request an id, echoes it back and stores a
// request scoped logger in the request context.
func RequestID(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(reqctx.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(reqctx.HeaderXRequestID, id)

		ctx := reqctx.WithRequestID(c.Request.Context(), id)
		ctx = reqctx.WithLogger(ctx, logger.With(slog.String("request_id", id)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
