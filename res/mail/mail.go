package mail

import (
	"context"
)

// MailService defines the interface for email operations
type MailService interface {
	// RegisterUser registers a user with the email service
	RegisterUser(ctx context.Context, userID, email, displayName string) error

	// RemoveUserByEmail removes a user from the email service by email address
	RemoveUserByEmail(ctx context.Context, email string) error

	// SendBookingConfirmation sends the booking receipt email to the customer
	SendBookingConfirmation(ctx context.Context, email, reference, status string, totalAmount float64) error
}
