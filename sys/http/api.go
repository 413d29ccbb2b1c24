// Package http exposes the booking platform as a REST API
package http

import (
	"log"

	"tidybook-api/res/auth"
	"tidybook-api/res/mail"
	"tidybook-api/res/notification"
	"tidybook-api/res/store"
	"tidybook-api/sys/booking"
	"tidybook-api/sys/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Config struct {
	Logger *log.Logger
	Store  store.Store
	Auth   auth.Auth

	Bookings *booking.Manager
	Events   *booking.EventHub

	MailService         mail.MailService
	NotificationService notification.NotificationService

	AllowedOrigins []string
	Environment    string
}

type API struct {
	*Config
}

func New(cfg *Config) *API {
	return &API{Config: cfg}
}

// Router assembles the gin engine with middleware and routes
func (api *API) Router() *gin.Engine {
	if api.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CSPMiddleware())

	corsConfig := cors.DefaultConfig()
	if len(api.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = api.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.Use(middleware.AuthMiddleware(api.Logger, api.Store, api.Auth))

	router.GET("/api/health", api.handleHealth)

	router.POST("/api/auth/token", api.handleAuthToken)
	router.POST("/api/auth/logout", api.handleLogout)

	router.DELETE("/api/users/me", api.handleDeleteAccount)

	router.GET("/api/providers", api.handleListProviders)
	router.POST("/api/providers", api.handleCreateProvider)
	router.GET("/api/providers/me", api.handleGetMyProvider)
	router.PUT("/api/providers/me", api.handleUpdateProvider)
	router.POST("/api/providers/me/areas", api.handleCreateServiceArea)
	router.DELETE("/api/providers/me/areas/:areaId", api.handleDeleteServiceArea)

	router.POST("/api/bookings", api.handleCreateBooking)
	router.GET("/api/bookings", api.handleListBookings)
	router.GET("/api/bookings/:id", api.handleGetBooking)
	router.POST("/api/bookings/:id/transition", api.handleTransition)
	router.GET("/api/bookings/:id/events", api.handleBookingEvents)

	return router
}

func (api *API) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
