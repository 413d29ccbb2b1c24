package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const referencePrefix = "BK"

// NewReference generates the customer-facing booking reference: the UTC
// booking date plus a random suffix, e.g. "BK-20260831-4F7A2C".
func NewReference(t time.Time) (string, error) {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}
	return fmt.Sprintf(
		"%s-%s-%s",
		referencePrefix,
		t.UTC().Format("20060102"),
		strings.ToUpper(hex.EncodeToString(suffix)),
	), nil
}

// IsReference reports whether a lookup key looks like a booking reference
// rather than an internal ID
func IsReference(idOrReference string) bool {
	return strings.HasPrefix(idOrReference, referencePrefix+"-")
}

// generateConfirmationCode generates a cryptographically secure code handed
// to the customer when the provider confirms
func generateConfirmationCode() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate confirmation code: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
