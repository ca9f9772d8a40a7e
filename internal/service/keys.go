package service

import "time"

// Store layout. Every signup lives under three keys; the counter is shared.
const (
	signupPrefix  = "waitlist:signup:"
	emailPrefix   = "waitlist:email:"
	byDatePrefix  = "waitlist:by_date:"
	totalCountKey = "waitlist:total_count"
)

// dateLayout buckets signups by UTC calendar day.
const dateLayout = "2006-01-02"

func signupKey(id string) string { return signupPrefix + id }

func emailKey(normalizedEmail string) string { return emailPrefix + normalizedEmail }

func dateBucket(t time.Time) string { return byDatePrefix + t.UTC().Format(dateLayout) + ":" }

func dateKey(t time.Time, id string) string { return dateBucket(t) + id }
