package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/types"
	"decor-marketplace-server/utils"
)

const actorKey = "actor"

// AuthMiddleware validates the bearer token and loads the account behind it.
// The role comes from the stored account, so approvals take effect without a new login.
func AuthMiddleware(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required", "Please provide a valid token")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abortUnauthorized(c, "Invalid token format", "Token must be in format: Bearer <token>")
			return
		}

		authenticate(c, users, tokenString)
	}
}

// WebSocketAuthMiddleware reads the token from the query string, since browsers
// cannot set headers on a websocket upgrade
func WebSocketAuthMiddleware(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			abortUnauthorized(c, "Token required", "Please provide a valid token in query parameters")
			return
		}
		authenticate(c, users, tokenString)
	}
}

func authenticate(c *gin.Context, users repository.UserRepository, tokenString string) {
	claims, err := utils.VerifyToken(tokenString)
	if err != nil {
		log.Printf("🔍 Auth: token rejected for %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		abortUnauthorized(c, "Invalid token", "Token is invalid or expired")
		return
	}

	user, err := users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		abortUnauthorized(c, "User not found", "User associated with token not found")
		return
	}
	if !user.IsActive {
		abortUnauthorized(c, "User inactive", "User account is deactivated")
		return
	}

	c.Set("user", *user)
	c.Set("user_id", user.ID)
	c.Set(actorKey, types.Actor{ID: user.ID, Email: user.Email, Role: string(user.Role)})
	c.Next()
}

// RequireRoles allows the request through only for the listed roles
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		for _, role := range roles {
			if actor.Role == string(role) {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "You do not have permission to access this resource",
		})
		c.Abort()
	}
}

// ActorFrom returns the authenticated caller, or the zero Actor on public routes
func ActorFrom(c *gin.Context) types.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(types.Actor); ok {
			return actor
		}
	}
	return types.Actor{}
}

// SetActor is used by tests and internal callers that authenticate elsewhere
func SetActor(c *gin.Context, actor types.Actor) {
	c.Set(actorKey, actor)
	c.Set("user_id", actor.ID)
}

func abortUnauthorized(c *gin.Context, title, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   title,
		"message": message,
	})
	c.Abort()
}
