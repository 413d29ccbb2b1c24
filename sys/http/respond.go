package http

import (
	"net/http"
	"time"

	"tidybook-api/res/store"
	"tidybook-api/sys/booking"

	"github.com/gin-gonic/gin"
)

// respondError translates an orchestrator error into an HTTP status and a
// structured payload. Unrecognized errors never leak their message.
func (api *API) respondError(c *gin.Context, err error) {
	bErr, ok := booking.AsError(err)
	if !ok {
		api.Logger.Printf("Unhandled error on %s %s: %s", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": booking.CodeInternal, "message": "internal error"},
		})
		return
	}

	status := statusForError(bErr)
	if status == http.StatusInternalServerError {
		api.Logger.Printf("Internal error on %s %s: %s", c.Request.Method, c.Request.URL.Path, bErr)
	}

	payload := gin.H{"code": bErr.Code, "message": bErr.Message}
	if len(bErr.Details) > 0 {
		payload["details"] = bErr.Details
	}
	c.JSON(status, gin.H{"error": payload})
}

func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "UNAUTHENTICATED", "message": "authorization required"},
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{"code": "INVALID_REQUEST", "message": message},
	})
}

func respondInternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{"code": "INTERNAL_ERROR", "message": "internal error"},
	})
}

func statusForError(err *booking.Error) int {
	switch err.Code {
	case booking.CodeUnauthenticated:
		return http.StatusUnauthorized
	case booking.CodeInvalidRequest,
		booking.CodeServiceAreaMismatch,
		booking.CodeServiceTypeMismatch,
		booking.CodeDurationTooShort,
		booking.CodeDateNotInFuture,
		booking.CodeUnknownAction:
		return http.StatusBadRequest
	case booking.CodeQuotaExceeded:
		return http.StatusForbidden
	case booking.CodeInvalidTransition:
		// Wrong party is a permission problem, wrong state a conflict
		if err.RoleMismatch {
			return http.StatusForbidden
		}
		return http.StatusConflict
	case booking.CodeNotFound, booking.CodeProviderUnavailable:
		return http.StatusNotFound
	case booking.CodeSlotTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bookingResponse is the wire shape of a booking
type bookingResponse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`

	CustomerID string `json:"customerId"`
	CleanerID  string `json:"cleanerId"`

	ServiceType   string  `json:"serviceType"`
	ServiceDate   string  `json:"serviceDate"`
	ServiceTime   string  `json:"serviceTime"`
	DurationHours float64 `json:"durationHours"`

	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`

	BasePrice      float64              `json:"basePrice"`
	AddOns         []store.BookingAddOn `json:"addOns,omitempty"`
	DiscountAmount float64              `json:"discountAmount"`
	TravelFee      float64              `json:"travelFee"`
	TotalAmount    float64              `json:"totalAmount"`

	PaymentMethod string  `json:"paymentMethod"`
	PaymentStatus string  `json:"paymentStatus"`
	PaymentIntent *string `json:"paymentIntentId,omitempty"`

	ConfirmationCode    *string    `json:"confirmationCode,omitempty"`
	ConfirmedAt         *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt         *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason  string     `json:"cancellationReason,omitempty"`
	CheckInTime         *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime        *time.Time `json:"checkOutTime,omitempty"`
	ActualDurationHours *float64   `json:"actualDurationHours,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func toBookingResponse(b *store.Booking) *bookingResponse {
	// Stored as JSON text; a decode failure just drops the breakdown
	addOns := b.AddOnList()

	return &bookingResponse{
		ID:        b.ID,
		Reference: b.Reference,
		Status:    string(b.Status),

		CustomerID: b.CustomerID,
		CleanerID:  b.CleanerID,

		ServiceType:   b.ServiceType,
		ServiceDate:   b.ServiceDate.Format("2006-01-02"),
		ServiceTime:   b.ServiceTime,
		DurationHours: b.DurationHours,

		Address: b.Address,
		City:    b.City,
		ZipCode: b.ZipCode,

		BasePrice:      b.BasePrice,
		AddOns:         addOns,
		DiscountAmount: b.DiscountAmount,
		TravelFee:      b.TravelFee,
		TotalAmount:    b.TotalAmount,

		PaymentMethod: string(b.PaymentMethod),
		PaymentStatus: string(b.PaymentStatus),
		PaymentIntent: b.PaymentIntentID,

		ConfirmationCode:    b.ConfirmationCode,
		ConfirmedAt:         b.ConfirmedAt,
		CancelledAt:         b.CancelledAt,
		CancellationReason:  b.CancellationReason,
		CheckInTime:         b.CheckInTime,
		CheckOutTime:        b.CheckOutTime,
		ActualDurationHours: b.ActualDurationHours,

		CreatedAt: b.CreatedAt,
	}
}

func toBookingResponses(bookings []*store.Booking) []*bookingResponse {
	responses := make([]*bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, toBookingResponse(b))
	}
	return responses
}
