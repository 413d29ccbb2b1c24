package http

import (
	"net/http"
	"time"

	"tidybook-api/res/auth"
	"tidybook-api/res/store"
	"tidybook-api/sys/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

const userDisplayNamePlaceholderDefault string = "User"

type authTokenRequest struct {
	GrantType string `json:"grantType"` // "google_oauth2" or "refresh_token"

	Code         string `json:"code"`
	RefreshToken string `json:"refreshToken"`
}

type authTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// handleAuthToken exchanges a Google OAuth2 authorization code or a refresh
// token for an access/refresh token pair.
func (api *API) handleAuthToken(c *gin.Context) {
	var req authTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "INVALID_REQUEST", "message": "malformed request body"},
		})
		return
	}

	switch req.GrantType {
	case "google_oauth2":
		api.authWithIdentityProvider(c, req.Code)
	case "refresh_token":
		api.authWithRefreshToken(c, req.RefreshToken)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "INVALID_REQUEST", "message": "unsupported grantType"},
		})
	}
}

func (api *API) authWithIdentityProvider(c *gin.Context, code string) {
	ctx := c.Request.Context()

	if middleware.GetCurrentUser(ctx) != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error": gin.H{"code": "FORBIDDEN", "message": "session already associated with a user"},
		})
		return
	}

	// 1. Social identity validation

	userMetadata, err := api.Auth.AuthorizationWithGoogle(ctx, code)
	if err != nil {
		api.Logger.Printf("Error authorizing Google access code: %s", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "INVALID_REQUEST", "message": "error authorizing google access code"},
		})
		return
	}

	// 2. Detect existing user

	var finalUserID string

	associatedUser, err := api.Store.Users().GetByGoogleIdentity(ctx, userMetadata.Identifier)
	if err != nil {
		api.Logger.Printf("Error retrieving user through google identifier: %s", err)
	}

	if associatedUser != nil { // user already registered, this is a login
		finalUserID = associatedUser.ID
	} else { // register the user
		userID := newUserID()
		userName := userDisplayNamePlaceholderDefault
		if userMetadata.DisplayName != nil && len(*userMetadata.DisplayName) > 0 {
			userName = *userMetadata.DisplayName
		}

		newUser, err := api.Store.Users().Create(ctx, userID, userName, userMetadata.Email, store.UserRoleCustomer, &userMetadata.Identifier)
		if err != nil {
			api.Logger.Printf("Error creating user: %s", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"code": "INTERNAL_ERROR", "message": "error creating user"},
			})
			return
		}

		if api.MailService != nil {
			if err := api.MailService.RegisterUser(ctx, newUser.ID, newUser.Email, newUser.DisplayName); err != nil {
				api.Logger.Printf("Warning: Failed to register user %s with mail service: %v", newUser.ID, err)
			}
		}

		if api.NotificationService != nil {
			if err := api.NotificationService.NotifyNewUserSignup(ctx, newUser.Email, newUser.DisplayName, newUser.ID); err != nil {
				api.Logger.Printf("Warning: Failed to send notification for user %s: %v", newUser.ID, err)
			}
		}

		finalUserID = newUser.ID
	}

	api.issueTokenPair(c, finalUserID)
}

func (api *API) authWithRefreshToken(c *gin.Context, token string) {
	ctx := c.Request.Context()

	// 1. Validate refresh token and associated session/user

	var claims auth.RefreshTokenClaims
	err := api.Auth.ValidateToken(token, &claims)
	if err != nil {
		api.Logger.Printf("Error validating refresh token: %s", err)
		respondInvalidRefreshToken(c)
		return
	}

	user, err := api.Store.Users().Get(ctx, claims.UserID)
	if err != nil || user == nil {
		api.Logger.Printf("Error retrieving user associated with the refresh token: %s", err)
		respondInvalidRefreshToken(c)
		return
	}

	err = api.Store.AuthSessions().DeleteExpired(ctx, time.Now().Add(-auth.RefreshTokenLifespanInHours*time.Hour))
	if err != nil {
		api.Logger.Printf("Error removing expired refresh session: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL_ERROR", "message": "error creating auth session"},
		})
		return
	}

	currentRefreshSession, err := api.Store.AuthSessions().Get(ctx, claims.RefreshTokenValue)
	if err != nil || currentRefreshSession == nil {
		api.Logger.Printf("Error retrieving refresh session: %s", err)
		respondInvalidRefreshToken(c)
		return
	}

	api.issueTokenPair(c, user.ID)
}

// issueTokenPair creates a refresh session and emits the JWT pair
func (api *API) issueTokenPair(c *gin.Context, userID string) {
	ctx := c.Request.Context()

	err := api.Store.AuthSessions().DeleteExpired(ctx, time.Now().Add(-auth.RefreshTokenLifespanInHours*time.Hour))
	if err != nil {
		api.Logger.Printf("Error removing expired refresh session: %s", err)
	}

	refreshTokenValue := "auth_refresh_tok:" + xid.New().String()

	refreshSession, err := api.Store.AuthSessions().Create(ctx, refreshTokenValue, userID)
	if err != nil {
		api.Logger.Printf("Error creating refresh session: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL_ERROR", "message": "error creating auth session"},
		})
		return
	}

	refreshToken, err := api.Auth.GenerateRefreshToken(userID, refreshSession.ID)
	if err != nil {
		api.Logger.Printf("Error generating refresh token: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL_ERROR", "message": "error creating auth session"},
		})
		return
	}

	accessToken, err := api.Auth.GenerateAccessToken(userID)
	if err != nil {
		api.Logger.Printf("Error generating access token: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL_ERROR", "message": "error creating auth session"},
		})
		return
	}

	c.JSON(http.StatusOK, authTokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

func respondInvalidRefreshToken(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "UNAUTHENTICATED", "message": "refresh token expired or malformed"},
	})
}

func newUserID() string {
	return "user_" + xid.New().String()
}
