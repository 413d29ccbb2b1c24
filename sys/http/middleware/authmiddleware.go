package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"tidybook-api/res/auth"
	"tidybook-api/res/store"

	"github.com/gin-gonic/gin"
)

// SESSION USER GETTER

type contextKey string

var contextKeyCurrentUser = contextKey("currentUser")

func GetCurrentUser(ctx context.Context) *store.User {
	if val := ctx.Value(contextKeyCurrentUser); val != nil {
		if currentUser, ok := val.(*store.User); ok {
			return currentUser
		}
	}

	return nil
}

func GetCurrentUserKey() contextKey {
	return contextKeyCurrentUser
}

// AUTH MIDDLEWARE

// AuthMiddleware resolves the Bearer token into a user on the request
// context. Requests without an Authorization header pass through
// unauthenticated; handlers decide whether a user is required.
func AuthMiddleware(logger *log.Logger, storeImpl store.Store, authImpl auth.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		headerVal := c.GetHeader("Authorization")

		if len(headerVal) == 0 {
			c.Next()
			return
		}

		headerValParts := strings.Split(headerVal, " ")
		if len(headerValParts) != 2 || !strings.EqualFold(headerValParts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHENTICATED", "message": "Malformed Authorization header"},
			})
			return
		}

		var accessTokenClaims auth.AccessTokenClaims
		err := authImpl.ValidateToken(headerValParts[1], &accessTokenClaims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHENTICATED", "message": "Invalid Authorization header"},
			})
			return
		}

		currentUser, err := storeImpl.Users().Get(c.Request.Context(), accessTokenClaims.UserID)
		if err != nil || currentUser == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHENTICATED", "message": "Invalid Authorization header"},
			})
			return
		}

		ctx := context.WithValue(c.Request.Context(), contextKeyCurrentUser, currentUser)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
