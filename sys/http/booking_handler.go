package http

import (
	"net/http"
	"time"

	"tidybook-api/res/store"
	"tidybook-api/sys/booking"
	"tidybook-api/sys/http/middleware"

	"github.com/gin-gonic/gin"
)

func (api *API) handleCreateBooking(c *gin.Context) {
	currentUser := middleware.GetCurrentUser(c.Request.Context())

	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": booking.CodeInvalidRequest, "message": "malformed request body"},
		})
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = store.PaymentMethodStripe
	}

	result, err := api.Bookings.CreateBooking(c.Request.Context(), currentUser, &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	response := gin.H{
		"booking":           toBookingResponse(result.Booking),
		"pricing":           result.Quote,
		"estimatedResponse": result.EstimatedResponse,
	}
	if result.PaymentIntent != nil {
		response["payment"] = gin.H{
			"intentId":     result.PaymentIntent.ID,
			"clientSecret": result.PaymentIntent.ClientSecret,
			"status":       result.PaymentIntent.Status,
		}
	}

	c.JSON(http.StatusCreated, response)
}

func (api *API) handleGetBooking(c *gin.Context) {
	currentUser := middleware.GetCurrentUser(c.Request.Context())

	result, err := api.Bookings.GetBooking(c.Request.Context(), currentUser, c.Param("id"))
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": toBookingResponse(result)})
}

// handleListBookings lists the caller's bookings. role=customer (default)
// returns bookings they placed, role=provider the jobs assigned to them.
func (api *API) handleListBookings(c *gin.Context) {
	currentUser := middleware.GetCurrentUser(c.Request.Context())

	filters := parseBookingFilters(c)

	var bookings []*store.Booking
	var err error
	if c.Query("role") == "provider" {
		bookings, err = api.Bookings.ListProviderJobs(c.Request.Context(), currentUser, filters)
	} else {
		bookings, err = api.Bookings.ListCustomerBookings(c.Request.Context(), currentUser, filters)
	}
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": toBookingResponses(bookings)})
}

func (api *API) handleTransition(c *gin.Context) {
	currentUser := middleware.GetCurrentUser(c.Request.Context())

	var req booking.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": booking.CodeInvalidRequest, "message": "malformed request body"},
		})
		return
	}

	result, err := api.Bookings.ApplyTransition(c.Request.Context(), currentUser, c.Param("id"), &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": toBookingResponse(result)})
}

func parseBookingFilters(c *gin.Context) store.BookingFilters {
	filters := store.BookingFilters{
		Limit:   50,
		OrderBy: "service_date DESC",
	}

	if statusVal := c.Query("status"); statusVal != "" {
		status := store.BookingStatus(statusVal)
		filters.Status = &status
	}
	if serviceType := c.Query("serviceType"); serviceType != "" {
		filters.ServiceType = &serviceType
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.StartDate = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.EndDate = &t
		}
	}

	return filters
}
