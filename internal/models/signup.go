package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultReferralSource is recorded when the caller does not say where the signup came from.
const DefaultReferralSource = "direct"

// Signup represents a single waitlist registration.
type Signup struct {
	// ID is the unique identifier for the signup (UUID format).
	ID string `json:"id"`

	// Name is the display name typed into the form.
	Name string `json:"name"`

	// Email is the normalized (trimmed, lowercased) address.
	// It is unique across all signups.
	Email string `json:"email"`

	// Phone is free text; no format validation is applied.
	Phone string `json:"phone"`

	// Location is free text, usually "City, Country".
	Location string `json:"location"`

	// Instagram is the optional handle. Nil when not supplied.
	Instagram *string `json:"instagram"`

	// BibNumber is the "race bib" shown to the user, in [1000, 9998].
	// Not unique: two signups may draw the same number.
	BibNumber int `json:"bibNumber"`

	// SignupDate is when the signup was accepted (UTC).
	SignupDate time.Time `json:"signupDate"`

	// EmailConfirmed is false at creation.
	EmailConfirmed bool `json:"emailConfirmed"`

	// ReferralSource identifies the acquisition channel, "direct" by default.
	ReferralSource string `json:"referralSource"`

	// CreatedAt is the record creation time (UTC). Equal to SignupDate today.
	CreatedAt time.Time `json:"createdAt"`
}

// SignupInput is the form submission as received from the client.
type SignupInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Location       string `json:"location"`
	Instagram      string `json:"instagram"`
	ReferralSource string `json:"referralSource"`
}

// MissingFields reports whether any required field is empty after trimming.
func (in SignupInput) MissingFields() bool {
	for _, v := range []string{in.Name, in.Email, in.Phone, in.Location} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// NormalizeEmail trims and lowercases an address for comparison and storage keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewSignup builds a Signup from validated input with a fresh ID and timestamps.
func NewSignup(in SignupInput, bibNumber int, now time.Time) *Signup {
	now = now.UTC()

	var instagram *string
	if handle := strings.TrimSpace(in.Instagram); handle != "" {
		instagram = &handle
	}

	referral := strings.TrimSpace(in.ReferralSource)
	if referral == "" {
		referral = DefaultReferralSource
	}

	return &Signup{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Email:          NormalizeEmail(in.Email),
		Phone:          in.Phone,
		Location:       in.Location,
		Instagram:      instagram,
		BibNumber:      bibNumber,
		SignupDate:     now,
		EmailConfirmed: false,
		ReferralSource: referral,
		CreatedAt:      now,
	}
}

// InstagramOrEmpty returns the handle or "" for flat exports.
func (s *Signup) InstagramOrEmpty() string {
	if s.Instagram == nil {
		return ""
	}
	return *s.Instagram
}
