// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Token economy constants. These are product constants, not configuration:
// every paid studio action costs the same flat amount and every verified
// top-up credits the same fixed package.
const (
	// TokenCostPerGeneration is debited for each generation or AI edit.
	TokenCostPerGeneration = 5

	// FreeMonthlyTokens is the allotment granted at sign-up and restored
	// on every calendar month rollover.
	FreeMonthlyTokens = 200

	// PurchaseTokenAmount is credited for a verified top-up.
	PurchaseTokenAmount = 100

	// PurchasePriceINR is the fixed top-up price displayed on the payment QR.
	PurchasePriceINR = 10
)

// User represents a studio account with its token balance.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	Tokens       int       `json:"tokens"`
	// LastResetMonth is the calendar month (1-12) the free allotment was
	// last granted in. When it differs from the current month the balance
	// resets to FreeMonthlyTokens.
	LastResetMonth int       `json:"last_reset_month"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CanAfford reports whether the balance covers the given token cost.
func (u *User) CanAfford(cost int) bool {
	return u.Tokens >= cost
}

// NeedsMonthlyReset reports whether the free allotment is due: the stored
// reset month differs from the calendar month of now.
func (u *User) NeedsMonthlyReset(now time.Time) bool {
	return u.LastResetMonth != int(now.Month())
}
