package handler

import (
	"net/http"

	"ledger-gateway/internal/adapter/http/middleware"
	"ledger-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HealthCheck pings every registered dependency and reports per-dependency
// status. Any failing dependency degrades the overall status to 503.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

// principalMaySee reports whether the authenticated principal may read data
// scoped to sellerRef. Sellers see only themselves; admin and master see
// everything.
func principalMaySee(c *gin.Context, sellerRef uuid.UUID) bool {
	role := c.GetString(middleware.CtxRole)
	if role == middleware.RoleAdmin || role == middleware.RoleMaster {
		return true
	}
	id, ok := middleware.PrincipalID(c)
	return ok && id == sellerRef
}
