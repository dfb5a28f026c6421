package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"thumbstudio/internal/models"
)

// GenerationStore appends to the generation audit log. Only successful paid
// gateway calls are recorded; image payloads never reach the database.
type GenerationStore struct {
	db *sql.DB
}

// NewGenerationStore returns a new GenerationStore backed by the given database.
func NewGenerationStore(db *sql.DB) *GenerationStore {
	return &GenerationStore{db: db}
}

// Log records one successful paid operation.
func (s *GenerationStore) Log(userID uuid.UUID, kind models.GenerationKind, prompt string, cost int) error {
	_, err := s.db.Exec(`
		INSERT INTO generations (user_id, kind, prompt, cost)
		VALUES ($1, $2, $3, $4)
	`, userID, kind, prompt, cost)
	if err != nil {
		return fmt.Errorf("log generation: %w", err)
	}
	return nil
}

// CountForUser returns how many paid operations the user has performed.
func (s *GenerationStore) CountForUser(userID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM generations WHERE user_id = $1
	`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count generations: %w", err)
	}
	return n, nil
}
