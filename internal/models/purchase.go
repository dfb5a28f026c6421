package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase records one verified token top-up. The reference code is the
// bank transaction identifier (UTR) the user submitted; no external payment
// rail is consulted.
type Purchase struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Reference string    `json:"reference"`
	Tokens    int       `json:"tokens"`
	PriceINR  int       `json:"price_inr"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerationKind distinguishes the two paid gateway operations in the
// generation audit log.
type GenerationKind string

const (
	GenerationKindGenerate GenerationKind = "generate"
	GenerationKindEdit     GenerationKind = "edit"
)

// GenerationRecord is one row of the generation audit log: a successful
// paid gateway call and the tokens it consumed. The image payload itself is
// deliberately not stored.
type GenerationRecord struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Kind      GenerationKind `json:"kind"`
	Prompt    string         `json:"prompt"`
	Cost      int            `json:"cost"`
	CreatedAt time.Time      `json:"created_at"`
}
