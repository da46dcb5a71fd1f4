package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paleteria/paleteria-pos/internal/platform/httpx"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
	"github.com/paleteria/paleteria-pos/internal/staff/domain"
	"github.com/paleteria/paleteria-pos/internal/staff/service"
)

const (
	ContextUsername = "staff_username"
	ContextRole     = "staff_role"
)

type StaffHandler struct {
	staffService service.StaffService
}

func NewStaffHandler(ss service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

func (h *StaffHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", h.Login)
	}
}

func (h *StaffHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	response, err := h.staffService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Login: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// RequireRole rejects requests without a valid bearer token for a role that
// allows min.
func RequireRole(ss service.StaffService, min domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := ss.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if !claims.Role.Allows(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role " + string(claims.Role) + " cannot access this resource"})
			return
		}

		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}
