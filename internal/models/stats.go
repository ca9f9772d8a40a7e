package models

// Stats holds the counters displayed by the landing page and admin dashboard.
type Stats struct {
	// TotalSignups is the counter value, or the seeded baseline when no signup happened yet.
	TotalSignups int64 `json:"totalSignups"`

	// TodaySignups counts signups bucketed under the current UTC date.
	TodaySignups int `json:"todaySignups"`

	// Countries is either a fixed placeholder or the number of distinct countries seen.
	Countries int `json:"countries"`

	// GrowthRate is a percentage (placeholder or week-over-week growth).
	GrowthRate int `json:"growthRate"`

	// LastHourActivity is either random in [1, 5] or the signups created in the last hour.
	LastHourActivity int `json:"lastHourActivity"`
}
