package booking

import (
	"context"
	"errors"
	"math"

	"tidybook-api/res/store"
)

// Action is a requested lifecycle transition
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
)

// Role identifies which side of the booking the caller is on
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

type transitionRule struct {
	from  []store.BookingStatus
	to    store.BookingStatus
	roles []Role
}

// transitionRules is the single authority on which actions exist, which
// statuses they apply to, and which party may request them.
var transitionRules = map[Action]transitionRule{
	ActionConfirm: {
		from:  []store.BookingStatus{store.BookingStatusPending},
		to:    store.BookingStatusConfirmed,
		roles: []Role{RoleProvider},
	},
	ActionCancel: {
		from: []store.BookingStatus{
			store.BookingStatusPending,
			store.BookingStatusConfirmed,
			store.BookingStatusInProgress,
		},
		to:    store.BookingStatusCancelled,
		roles: []Role{RoleCustomer, RoleProvider},
	},
	ActionStart: {
		from:  []store.BookingStatus{store.BookingStatusConfirmed},
		to:    store.BookingStatusInProgress,
		roles: []Role{RoleProvider},
	},
	ActionComplete: {
		from:  []store.BookingStatus{store.BookingStatusInProgress},
		to:    store.BookingStatusCompleted,
		roles: []Role{RoleProvider},
	},
}

// canTransition checks a requested action against the rules table. Role is
// checked before status so an unauthorized caller learns nothing about the
// booking's current state.
func canTransition(action Action, role Role, current store.BookingStatus) error {
	rule, ok := transitionRules[action]
	if !ok {
		return errUnknownAction(string(action))
	}

	roleAllowed := false
	for _, r := range rule.roles {
		if r == role {
			roleAllowed = true
			break
		}
	}
	if !roleAllowed {
		return errInvalidTransitionRole(action, role)
	}

	for _, from := range rule.from {
		if from == current {
			return nil
		}
	}
	return errInvalidTransitionState(action, string(current))
}

// resolveRole determines which side of the booking the caller is on.
// A user who is neither party has no role.
func resolveRole(booking *store.Booking, userID string) (Role, bool) {
	switch userID {
	case booking.CustomerID:
		return RoleCustomer, true
	case booking.CleanerID:
		return RoleProvider, true
	}
	return "", false
}

// TransitionRequest carries an action against an existing booking
type TransitionRequest struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
}

// ApplyTransition moves a booking through its lifecycle on behalf of the
// calling user, stamping the timestamps each transition owns.
func (m *Manager) ApplyTransition(ctx context.Context, currentUser *store.User, bookingID string, req *TransitionRequest) (*store.Booking, error) {
	if currentUser == nil {
		return nil, errUnauthenticated()
	}
	if req.Action == "" {
		return nil, errInvalidRequest("action", "required")
	}

	booking, err := m.Store.Bookings().Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound()
		}
		m.Logger.Printf("Error retrieving booking %s: %s", bookingID, err)
		return nil, errInternal(err)
	}

	role, isParty := resolveRole(booking, currentUser.ID)
	if !isParty {
		// Non-parties cannot tell a booking exists
		return nil, errNotFound()
	}

	if err := canTransition(req.Action, role, booking.Status); err != nil {
		return nil, err
	}

	now := m.clock()
	rule := transitionRules[req.Action]
	booking.Status = rule.to

	switch req.Action {
	case ActionConfirm:
		booking.ConfirmedAt = &now
		code, err := generateConfirmationCode()
		if err != nil {
			m.Logger.Printf("Error generating confirmation code for booking %s: %s", booking.ID, err)
			return nil, errInternal(err)
		}
		booking.ConfirmationCode = &code
	case ActionCancel:
		booking.CancelledAt = &now
		booking.CancelledByID = &currentUser.ID
		booking.CancellationReason = req.Reason
	case ActionStart:
		booking.CheckInTime = &now
	case ActionComplete:
		booking.CheckOutTime = &now
		if booking.CheckInTime != nil {
			hours := now.Sub(*booking.CheckInTime).Hours()
			rounded := math.Round(hours*10) / 10
			booking.ActualDurationHours = &rounded
		}
	}

	if err := m.Store.Bookings().Update(ctx, booking); err != nil {
		m.Logger.Printf("Error updating booking %s after %s: %s", booking.ID, req.Action, err)
		return nil, errInternal(err)
	}

	if req.Action == ActionCancel {
		m.notifyBookingCancelled(booking, role, req.Reason)
	}
	m.publishStatus(booking)

	return booking, nil
}

// notifyBookingCancelled dispatches the best-effort cancellation alert
func (m *Manager) notifyBookingCancelled(booking *store.Booking, cancelledBy Role, reason string) {
	if m.NotificationService == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()

		err := m.NotificationService.NotifyBookingCancelled(ctx, booking.Reference, string(cancelledBy), reason)
		if err != nil {
			m.Logger.Printf("Warning: failed to send cancellation notification for %s: %s", booking.Reference, err)
		}
	}()
}
