// Package models defines the core domain models for the waitlist.
//
// # Models
//
//   - Signup: one person who joined the waitlist
//   - SignupInput: the raw form submission before validation
//   - Stats: the counters shown on the landing page
//
// # Storage Layout
//
// Models are persisted in a flat key-value store. A Signup is written once as a JSON
// document and referenced from two pointer keys (by email and by day). The store keys
// live in the service package; models stay free of storage concerns.
//
// # Lifecycle
//
// A Signup is created exactly once and never updated or deleted. EmailConfirmed is
// carried for the confirmation flow but nothing transitions it yet.
package models
