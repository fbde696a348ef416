package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmacy/backend/internal/infrastructure/logger"
	"github.com/pharmacy/backend/internal/interfaces/http/dto"
)

// Staff identity keys
const (
	StaffIDKey     = "staff_id"
	StaffHeaderKey = "X-Staff-ID"
)

// StaffMiddlewareConfig holds configuration for staff identity middleware
type StaffMiddlewareConfig struct {
	// Required determines if a staff identity is mandatory.
	// When false, requests without the header pass through and
	// handlers that need an identity reject them individually.
	Required bool
	// SkipPaths are paths that never require a staff identity
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultStaffConfig returns default staff middleware configuration
func DefaultStaffConfig() StaffMiddlewareConfig {
	return StaffMiddlewareConfig{
		Required:  false,
		SkipPaths: []string{"/health", "/api/v1/ping", "/api/v1/system/ping", "/api/v1/system/info"},
		Logger:    nil,
	}
}

// StaffContext extracts the acting staff member from the X-Staff-ID header
// and propagates it through the gin context and the request context, so
// request logs carry the staff_id field.
func StaffContext() gin.HandlerFunc {
	return StaffContextWithConfig(DefaultStaffConfig())
}

// StaffContextWithConfig returns staff identity middleware with custom configuration
func StaffContextWithConfig(cfg StaffMiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		raw := c.GetHeader(StaffHeaderKey)
		if raw == "" {
			if cfg.Required {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
					dto.ErrCodeBadRequest,
					"Missing "+StaffHeaderKey+" header",
				))
				return
			}
			c.Next()
			return
		}

		staffID, err := uuid.Parse(raw)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Rejected malformed staff ID header",
					zap.String("path", c.Request.URL.Path),
					zap.String("value", raw),
				)
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeValidationFormat,
				"Invalid "+StaffHeaderKey+" header: must be a UUID",
			))
			return
		}

		c.Set(StaffIDKey, staffID.String())

		// Enrich the request context so logger.L(ctx) picks up staff_id
		ctx, _ := logger.WithStaffID(c.Request.Context(), logger.FromContext(c.Request.Context()), staffID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetStaffID returns the staff ID stored by StaffContext, or empty string
func GetStaffID(c *gin.Context) string {
	return c.GetString(StaffIDKey)
}
