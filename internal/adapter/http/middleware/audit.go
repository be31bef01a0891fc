package middleware

import (
	"encoding/json"
	"time"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminAudit records every successful admin-side mutation as a durable
// audit event, alongside the job reports the batch services write. Reads
// and failed requests are not recorded.
func AdminAudit(auditRepo ports.AuditRepository, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			return
		}

		var principal string
		if id, ok := PrincipalID(c); ok {
			principal = id.String()
		}

		detail, err := json.Marshal(map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"principal": principal,
			"client_ip": c.ClientIP(),
		})
		if err != nil {
			return
		}

		ev := &domain.AuditEvent{
			ID:        uuid.New(),
			Kind:      domain.AuditKindAdminAction,
			DateKey:   domain.DateKeyOf(time.Now()),
			Detail:    detail,
			CreatedAt: time.Now().UTC(),
		}
		if err := auditRepo.Create(c.Request.Context(), ev); err != nil {
			log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("failed to record admin action")
		}
	}
}
