package store

import "time"

type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER" // Regular customer (default sign-in)
	UserRoleProvider UserRole = "PROVIDER" // User owning an approved provider profile
	UserRoleAdmin    UserRole = "ADMIN"    // Platform administrator (set via env var)
)

type User struct {
	ID          string   `gorm:"primaryKey;size:50;unique"`
	DisplayName string   `gorm:"size:50;not null"`
	Role        UserRole `gorm:"size:50;not null;default:'CUSTOMER'"`

	GoogleIdentity *string `gorm:"size:256;unique"`
	Email          string  `gorm:"size:256;not null"`

	// Payment processor customer reference, set once the user first pays
	StripeCustomerID *string `gorm:"size:256"`

	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
}

// IsAdmin checks if the user has platform admin privileges
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// IsProvider checks if the user signed up through the provider flow
func (u *User) IsProvider() bool {
	return u.Role == UserRoleProvider
}

// IsCustomer checks if the user is a regular customer
func (u *User) IsCustomer() bool {
	return u.Role == UserRoleCustomer
}
