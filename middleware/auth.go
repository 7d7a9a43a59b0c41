package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	userRepo "coursebook/database/repository/user"
	"coursebook/models"
	"coursebook/utils"
)

// AuthUserKey is the gin context key holding the resolved identity.
const AuthUserKey = "authUser"

// AuthRequired exchanges a bearer token for a role-tagged identity and
// places it in the request context. The resolved identity is cached in
// Redis for an hour; a cache outage falls back to the user repository.
func AuthRequired(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}

		claims, err := utils.ExtractClaimsFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		ctx := context.Background()
		cacheKey := utils.AuthCachePrefix + claims.Subject

		authCache := utils.GetAuthCacheClient()
		if authCache != nil {
			cached, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil {
				var au models.AuthUser
				if jerr := json.Unmarshal([]byte(cached), &au); jerr == nil {
					_ = authCache.Expire(ctx, cacheKey, time.Hour).Err()
					c.Set(AuthUserKey, au)
					c.Next()
					return
				}
			} else if err != redis.Nil {
				utils.GetLogger().Warn("auth cache lookup failed, falling back to DB", zap.Error(err))
			}
		}

		u, err := users.GetByID(ctx, claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to resolve identity"})
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unknown user"})
			return
		}
		// An identity without an email is a data-integrity fault on our
		// side, not a client authentication failure.
		if u.Email == "" {
			utils.GetLogger().Error("resolved identity has no email", zap.String("userId", u.ID))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Identity record is incomplete"})
			return
		}

		role := u.Role
		if role == "" {
			role = "user"
		}
		au := models.AuthUser{ID: u.ID, Email: u.Email, Role: role}

		if authCache != nil {
			if data, jerr := json.Marshal(au); jerr == nil {
				_ = authCache.Set(ctx, cacheKey, data, time.Hour).Err()
			}
		}

		c.Set(AuthUserKey, au)
		c.Next()
	}
}

// CurrentUser returns the identity the auth middleware stored in the
// context.
func CurrentUser(c *gin.Context) (models.AuthUser, bool) {
	v, exists := c.Get(AuthUserKey)
	if !exists {
		return models.AuthUser{}, false
	}
	au, ok := v.(models.AuthUser)
	return au, ok
}
