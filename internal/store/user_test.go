// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"
	"time"

	"thumbstudio/internal/models"
)

func TestUserCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	email := "store-create@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "hunter2secret", "Store Tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Tokens != models.FreeMonthlyTokens {
		t.Errorf("tokens: got %d, want %d", user.Tokens, models.FreeMonthlyTokens)
	}
	if user.LastResetMonth != int(time.Now().Month()) {
		t.Errorf("last reset month: got %d", user.LastResetMonth)
	}

	byEmail, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Error("FindByEmail did not return the created user")
	}

	byID, err := s.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.Email != email {
		t.Error("FindByID did not return the created user")
	}
}

func TestUserFindMissing(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	user, err := s.FindByEmail("no-such-user@test.local")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserCheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	email := "store-password@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "correct-horse", "Password Tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !s.CheckPassword(user, "correct-horse") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(user, "wrong-horse") {
		t.Error("wrong password accepted")
	}
}

func TestDebitTokensGuarded(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	email := "store-debit@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "hunter2secret", "Debit Tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	balance, ok, err := s.DebitTokens(user.ID, models.TokenCostPerGeneration)
	if err != nil {
		t.Fatalf("DebitTokens: %v", err)
	}
	if !ok {
		t.Fatal("debit should succeed with a full balance")
	}
	if balance != models.FreeMonthlyTokens-models.TokenCostPerGeneration {
		t.Errorf("balance: got %d", balance)
	}

	// Drain to zero, then confirm the guard refuses to go negative.
	if _, _, err := s.DebitTokens(user.ID, balance); err != nil {
		t.Fatalf("drain: %v", err)
	}
	_, ok, err = s.DebitTokens(user.ID, 1)
	if err != nil {
		t.Fatalf("DebitTokens: %v", err)
	}
	if ok {
		t.Error("debit succeeded on an empty balance")
	}
}

func TestCreditTokens(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	email := "store-credit@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "hunter2secret", "Credit Tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	balance, err := s.CreditTokens(user.ID, models.PurchaseTokenAmount)
	if err != nil {
		t.Fatalf("CreditTokens: %v", err)
	}
	if balance != models.FreeMonthlyTokens+models.PurchaseTokenAmount {
		t.Errorf("balance: got %d", balance)
	}
}

func TestResetMonthlyTokensIdempotent(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	email := "store-reset@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "hunter2secret", "Reset Tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Pretend the account last reset in a different month with a drained
	// balance.
	staleMonth := user.LastResetMonth%12 + 1
	if _, err := db.Exec(
		"UPDATE users SET tokens = 3, last_reset_month = $1 WHERE id = $2",
		staleMonth, user.ID,
	); err != nil {
		t.Fatalf("setup: %v", err)
	}

	currentMonth := int(time.Now().Month())
	if err := s.ResetMonthlyTokens(user.ID, currentMonth); err != nil {
		t.Fatalf("ResetMonthlyTokens: %v", err)
	}

	got, err := s.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Tokens != models.FreeMonthlyTokens {
		t.Errorf("tokens after reset: got %d", got.Tokens)
	}
	if got.LastResetMonth != currentMonth {
		t.Errorf("last reset month: got %d", got.LastResetMonth)
	}

	// Spend some tokens, then reset again for the same month: the guard
	// must not restore the balance twice.
	if _, _, err := s.DebitTokens(user.ID, 10); err != nil {
		t.Fatalf("DebitTokens: %v", err)
	}
	if err := s.ResetMonthlyTokens(user.ID, currentMonth); err != nil {
		t.Fatalf("second reset: %v", err)
	}
	got, _ = s.FindByID(user.ID)
	if got.Tokens != models.FreeMonthlyTokens-10 {
		t.Errorf("same-month reset changed balance: got %d", got.Tokens)
	}
}

func TestUserDelete(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	email := "store-delete@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "hunter2secret", "Delete Tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Delete(user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := s.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != nil {
		t.Error("user survived Delete")
	}
}
