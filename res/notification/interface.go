package notification

import "context"

// NotificationService defines the interface for ops notification operations
type NotificationService interface {
	// NotifyNewUserSignup sends a notification when a new user signs up
	NotifyNewUserSignup(ctx context.Context, email, displayName, userID string) error
	// NotifyBookingCreated sends a notification when a booking is created
	NotifyBookingCreated(ctx context.Context, reference, serviceType, city string, totalAmount float64) error
	// NotifyBookingCancelled sends a notification when a booking is cancelled
	NotifyBookingCancelled(ctx context.Context, reference, cancelledByRole, reason string) error
}
