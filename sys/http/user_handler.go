package http

import (
	"net/http"

	"tidybook-api/res/auth"
	"tidybook-api/sys/http/middleware"

	"github.com/gin-gonic/gin"
)

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// handleLogout revokes refresh sessions. With a refreshToken in the body only
// that session is revoked; an authenticated call without one signs the user
// out everywhere.
func (api *API) handleLogout(c *gin.Context) {
	ctx := c.Request.Context()

	var req logoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "malformed request body")
			return
		}
	}

	if req.RefreshToken != "" {
		var claims auth.RefreshTokenClaims
		if err := api.Auth.ValidateToken(req.RefreshToken, &claims); err != nil {
			api.Logger.Printf("Error validating refresh token on logout: %s", err)
			respondInvalidRefreshToken(c)
			return
		}

		if err := api.Store.AuthSessions().Delete(ctx, []string{claims.RefreshTokenValue}); err != nil {
			api.Logger.Printf("Error deleting refresh session: %s", err)
			respondInternalError(c)
			return
		}

		c.Status(http.StatusNoContent)
		return
	}

	currentUser := middleware.GetCurrentUser(ctx)
	if currentUser == nil {
		respondUnauthenticated(c)
		return
	}

	if err := api.Store.AuthSessions().DeleteAllByUser(ctx, currentUser.ID); err != nil {
		api.Logger.Printf("Error deleting auth sessions: %s", err)
		respondInternalError(c)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleDeleteAccount removes the calling user, their refresh sessions and
// their mail-service contact. Bookings keep their opaque party references.
func (api *API) handleDeleteAccount(c *gin.Context) {
	ctx := c.Request.Context()

	currentUser := middleware.GetCurrentUser(ctx)
	if currentUser == nil {
		respondUnauthenticated(c)
		return
	}

	// Remove the mail contact before the user row; the mail service is optional
	if api.MailService != nil {
		if err := api.MailService.RemoveUserByEmail(ctx, currentUser.Email); err != nil {
			api.Logger.Printf("Warning: Failed to remove user from email service: %v", err)
		}
	}

	if err := api.Store.AuthSessions().DeleteAllByUser(ctx, currentUser.ID); err != nil {
		api.Logger.Printf("Warning: Failed to delete auth sessions for user %s: %v", currentUser.ID, err)
	}

	if err := api.Store.Users().Delete(ctx, currentUser.ID); err != nil {
		api.Logger.Printf("Error deleting user %s: %s", currentUser.ID, err)
		respondInternalError(c)
		return
	}

	c.Status(http.StatusNoContent)
}
