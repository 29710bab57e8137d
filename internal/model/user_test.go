package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartquiz/smartquiz-server/internal/model"
)

func TestUser_Expired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		user    model.User
		expired bool
	}{
		{
			name:    "admin never expires",
			user:    model.User{Role: model.RoleAdmin, ExpiryDate: "2000-01-01"},
			expired: false,
		},
		{
			name:    "user without expiry date",
			user:    model.User{Role: model.RoleUser},
			expired: false,
		},
		{
			name:    "user past expiry date",
			user:    model.User{Role: model.RoleUser, ExpiryDate: "2000-01-01"},
			expired: true,
		},
		{
			name:    "user before expiry date",
			user:    model.User{Role: model.RoleUser, ExpiryDate: "2099-12-31"},
			expired: false,
		},
		{
			name:    "expiry day itself is still valid",
			user:    model.User{Role: model.RoleUser, ExpiryDate: "2025-06-15"},
			expired: false,
		},
		{
			name:    "rfc3339 timestamp in the past",
			user:    model.User{Role: model.RoleUser, ExpiryDate: "2025-06-15T09:00:00Z"},
			expired: true,
		},
		{
			name:    "unparseable date treated as non-expiring",
			user:    model.User{Role: model.RoleUser, ExpiryDate: "soon"},
			expired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.user.Expired(now))
		})
	}
}
