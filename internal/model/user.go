package model

import "time"

// UserRole enumerates user roles.
type UserRole string

const (
	// RoleAdmin is the administrator role. Admin accounts never expire.
	RoleAdmin UserRole = "ADMIN"
	// RoleUser is a learner account, optionally time-limited via ExpiryDate.
	RoleUser UserRole = "USER"
)

// User represents an application user. PhoneNumber is the identity key and
// must be unique within the user set.
type User struct {
	PhoneNumber string   `json:"phoneNumber"`
	Role        UserRole `json:"role"`
	Name        string   `json:"name,omitempty"`
	// ExpiryDate is an ISO date (or RFC 3339 timestamp) after which a USER
	// account can no longer log in. Empty means non-expiring.
	ExpiryDate string `json:"expiryDate,omitempty"`
}

// Expired reports whether the user's access window has elapsed at now.
// Admins and users without an expiry date never expire.
func (u User) Expired(now time.Time) bool {
	if u.Role != RoleUser || u.ExpiryDate == "" {
		return false
	}
	expiry, err := parseExpiry(u.ExpiryDate)
	if err != nil {
		// An unparseable date is treated as non-expiring; format checks
		// belong to the UI layer.
		return false
	}
	return now.After(expiry)
}

func parseExpiry(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// Date-only values expire at the end of that day.
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Nanosecond), nil
}
