package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxClaims    = "claims"
	ctxRequestID = "request_id"

	headerRequestID = "X-Request-ID"
)

// Setup installs the middleware every route shares.
func Setup(r *gin.Engine, allowedOrigins []string) {
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(CORS(allowedOrigins))
	r.Use(RequestLogger())
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(ctxRequestID),
			"remote_ip", c.ClientIP(),
		)
	}
}

func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, "+headerRequestID)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// Authenticate rejects requests without a valid, unrevoked access token and
// stores its claims on the context.
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			respondError(c, domain.Unauthenticated("missing or malformed authorization header"))
			return
		}
		claims, err := h.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// Authorize must run after Authenticate.
func Authorize(resource auth.Resource, action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if claims == nil {
			respondError(c, domain.Unauthenticated("authentication required"))
			return
		}
		if !auth.Allowed(claims.Role, resource, action) {
			respondError(c, domain.Forbidden("you do not have permission to %s %s", action, resource))
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
