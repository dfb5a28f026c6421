package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"thumbstudio/internal/models"
)

// ErrDuplicateReference means the payment reference was already redeemed
// by this user. Each UTR credits tokens at most once.
var ErrDuplicateReference = errors.New("payment reference already used")

// PurchaseStore records verified token top-ups.
type PurchaseStore struct {
	db *sql.DB
}

// NewPurchaseStore returns a new PurchaseStore backed by the given database.
func NewPurchaseStore(db *sql.DB) *PurchaseStore {
	return &PurchaseStore{db: db}
}

// Create records a verified purchase and returns the stored row.
func (s *PurchaseStore) Create(userID uuid.UUID, reference string, tokens, priceINR int) (*models.Purchase, error) {
	p := &models.Purchase{}
	err := s.db.QueryRow(`
		INSERT INTO purchases (user_id, reference, tokens, price_inr)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, reference, tokens, price_inr, created_at
	`, userID, reference, tokens, priceINR).Scan(
		&p.ID, &p.UserID, &p.Reference, &p.Tokens, &p.PriceINR, &p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateReference
		}
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	return p, nil
}

// ListByUser returns the user's purchases, newest first.
func (s *PurchaseStore) ListByUser(userID uuid.UUID) ([]models.Purchase, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, reference, tokens, price_inr, created_at
		FROM purchases WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.Reference, &p.Tokens, &p.PriceINR, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
