package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/baxirbajja/Formajoy-api/config"
	"github.com/baxirbajja/Formajoy-api/internal/identity"
)

// identityCacheTTL bounds how long a deleted or demoted account can keep
// acting through the cache.
const identityCacheTTL = 10 * time.Minute

// AuthMiddleware authenticates the request: bearer token (header or cookie),
// verified claims, then the account loaded from the single table the role
// names — via the redis cache when available.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				handleAuthError(c, "Accès non autorisé, veuillez vous connecter")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c, "Format du header Authorization invalide")
				return
			}
			tokenStr = parts[1]
		}

		claims, err := identity.VerifyToken(tokenStr)
		if err != nil {
			handleAuthError(c, "Accès non autorisé, token invalide")
			return
		}

		cacheKey := fmt.Sprintf("account:%s:%d", claims.Role, claims.UserID)
		if config.RDB != nil {
			cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var summary identity.Summary
				if json.Unmarshal([]byte(cached), &summary) == nil {
					setContextAndProceed(c, summary)
					return
				}
				slog.Warn("failed to unmarshal cached identity", "key", cacheKey)
			} else if err != redis.Nil {
				slog.Error("redis GET failed", "error", err, "key", cacheKey)
			}
		}

		account, err := identity.NewResolver(config.DB).Resolve(claims)
		if err != nil {
			// A valid token for a vanished account is not the same event as a
			// forged token; it gets its own log line. Both are 401 outward.
			if errors.Is(err, identity.ErrAccountNotFound) {
				slog.Warn("valid token for a deleted account",
					"role", claims.Role, "user_id", claims.UserID)
			} else {
				slog.Error("identity resolution failed",
					"error", err, "role", claims.Role, "user_id", claims.UserID)
			}
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "Accès non autorisé")
			return
		}

		summary := account.Summarize()
		if config.RDB != nil {
			if data, err := json.Marshal(summary); err == nil {
				if err := config.RDB.Set(config.Ctx, cacheKey, data, identityCacheTTL).Err(); err != nil {
					slog.Error("failed to cache identity", "error", err, "key", cacheKey)
				}
			}
		}

		setContextAndProceed(c, summary)
	}
}

func setContextAndProceed(c *gin.Context, summary identity.Summary) {
	c.Set("user_id", summary.ID)
	c.Set("role", summary.Role)
	c.Set("email", summary.Email)
	c.Next()
}

// RequireRoles gates a route group to an explicit role list. Admin gets no
// implicit pass: routes wanting admin access list it.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": fmt.Sprintf("Le rôle %s n'est pas autorisé à accéder à cette ressource", role),
		})
		c.Abort()
	}
}

func handleAuthError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
	c.Abort()
}
