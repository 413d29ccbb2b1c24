package http

import (
	"net/http"
	"time"

	"tidybook-api/sys/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The ownership check above the upgrade is the real gate; origin
	// restrictions are handled by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type statusEventMessage struct {
	BookingID  string    `json:"bookingId"`
	Reference  string    `json:"reference"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// handleBookingEvents upgrades the connection and streams status changes for
// one booking to a party of that booking.
func (api *API) handleBookingEvents(c *gin.Context) {
	currentUser := middleware.GetCurrentUser(c.Request.Context())

	// Ownership check runs before the upgrade so rejections stay plain HTTP
	b, err := api.Bookings.GetBooking(c.Request.Context(), currentUser, c.Param("id"))
	if err != nil {
		api.respondError(c, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		api.Logger.Printf("Error upgrading event stream for booking %s: %s", b.ID, err)
		return
	}
	defer conn.Close()

	events := api.Events.Subscribe(b.ID)
	defer api.Events.Unsubscribe(b.ID, events)

	// Reader goroutine notices the peer going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(wsPingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			err := conn.WriteJSON(statusEventMessage{
				BookingID:  event.BookingID,
				Reference:  event.Reference,
				Status:     string(event.Status),
				OccurredAt: event.OccurredAt,
			})
			if err != nil {
				return
			}
			if event.Status.IsTerminal() {
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "booking reached a terminal status"))
				return
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
