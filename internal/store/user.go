// Package store provides database access methods for all ThumbStudio
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"thumbstudio/internal/models"
)

// UserStore handles all user-related database operations. It is the
// system of record for the token balance: every debit, credit, and monthly
// reset round-trips through here so balances survive restarts.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, display_name, tokens, last_reset_month, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName,
		&u.Tokens, &u.LastResetMonth, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password, the free monthly
// token allotment, and the current month as the last-reset month.
func (s *UserStore) Create(email, password, displayName string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := scanUser(s.db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, tokens, last_reset_month)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		email, string(hash), displayName, models.FreeMonthlyTokens, int(time.Now().Month())))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// DebitTokens atomically subtracts amount from the user's balance. The
// update is guarded so the balance can never go negative: ok is false and
// the balance unchanged when it would not cover the amount.
func (s *UserStore) DebitTokens(id uuid.UUID, amount int) (balance int, ok bool, err error) {
	err = s.db.QueryRow(`
		UPDATE users SET tokens = tokens - $1, updated_at = NOW()
		WHERE id = $2 AND tokens >= $1
		RETURNING tokens
	`, amount, id).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("debit tokens: %w", err)
	}
	return balance, true, nil
}

// CreditTokens atomically adds amount to the user's balance and returns the
// new balance. Used both for purchases and for refunding a failed paid action.
func (s *UserStore) CreditTokens(id uuid.UUID, amount int) (int, error) {
	var balance int
	err := s.db.QueryRow(`
		UPDATE users SET tokens = tokens + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING tokens
	`, amount, id).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("credit tokens: user %s not found", id)
	}
	if err != nil {
		return 0, fmt.Errorf("credit tokens: %w", err)
	}
	return balance, nil
}

// ResetMonthlyTokens restores the free allotment and records the given
// month as the last-reset month. The WHERE guard makes the reset idempotent
// under concurrent session restores within the same month.
func (s *UserStore) ResetMonthlyTokens(id uuid.UUID, month int) error {
	_, err := s.db.Exec(`
		UPDATE users SET tokens = $1, last_reset_month = $2, updated_at = NOW()
		WHERE id = $3 AND last_reset_month <> $2
	`, models.FreeMonthlyTokens, month, id)
	if err != nil {
		return fmt.Errorf("reset monthly tokens: %w", err)
	}
	return nil
}

// Delete removes a user record entirely. Cascades to the generation and
// purchase logs.
func (s *UserStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
