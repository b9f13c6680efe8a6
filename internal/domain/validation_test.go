package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{"Valid email", "test@example.com", nil},
		{"Valid email with subdomain", "user@mail.example.com", nil},
		{"Valid email with numbers", "user123@example.com", nil},
		{"Valid email with dots", "user.name@example.com", nil},
		{"Valid email with plus", "user+tag@example.com", nil},
		{"Uppercase is normalized before check", "USER@Example.COM", nil},
		{"Invalid email - no @", "testexample.com", ErrInvalidEmail},
		{"Invalid email - no domain", "test@", ErrInvalidEmail},
		{"Invalid email - no local part", "@example.com", ErrInvalidEmail},
		{"Invalid email - multiple @", "a@b@example.com", ErrInvalidEmail},
		{"Invalid email - empty", "", ErrInvalidEmail},
		{"Invalid email - only spaces", "   ", ErrInvalidEmail},
		{"Invalid email - too long", strings.Repeat("a", 250) + "@example.com", ErrEmailTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{"Lowercase passthrough", "user@example.com", "user@example.com"},
		{"Uppercase to lowercase", "USER@EXAMPLE.COM", "user@example.com"},
		{"Trim surrounding spaces", "  user@example.com  ", "user@example.com"},
		{"Mixed case and spaces", " Reader@Example.COM ", "reader@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEmail(tt.email))
		})
	}
}

func TestNewsletterStatusValid(t *testing.T) {
	assert.True(t, NewsletterStatusDraft.Valid())
	assert.True(t, NewsletterStatusScheduled.Valid())
	assert.True(t, NewsletterStatusSent.Valid())
	assert.True(t, NewsletterStatusFailed.Valid())
	assert.False(t, NewsletterStatus("published").Valid())
	assert.False(t, NewsletterStatus("").Valid())
}

func TestProjectIsNewsworthy(t *testing.T) {
	assert.True(t, (&Project{Status: ProjectStatusActive}).IsNewsworthy())
	assert.True(t, (&Project{Status: ProjectStatusInProgress}).IsNewsworthy())
	assert.False(t, (&Project{Status: ProjectStatusCompleted}).IsNewsworthy())
	assert.False(t, (&Project{Status: ProjectStatusArchived}).IsNewsworthy())
}

func TestUserRoles(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleSuper}).IsAdmin())
	assert.True(t, (&User{Role: RoleSuper}).IsSuper())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.False(t, (&User{Role: RoleAdmin}).IsSuper())
}
