package store

import (
	"errors"
	"testing"

	"thumbstudio/internal/models"
)

func TestPurchaseCreateAndList(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	purchases := NewPurchaseStore(db)
	email := "purchase-list@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := users.Create(email, "hunter2secret", "Shopper")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	first, err := purchases.Create(user.ID, "123456780001", models.PurchaseTokenAmount, models.PurchasePriceINR)
	if err != nil {
		t.Fatalf("Create purchase: %v", err)
	}
	if first.Tokens != models.PurchaseTokenAmount || first.PriceINR != models.PurchasePriceINR {
		t.Errorf("stored bundle: %+v", first)
	}

	if _, err := purchases.Create(user.ID, "123456780002", models.PurchaseTokenAmount, models.PurchasePriceINR); err != nil {
		t.Fatalf("second purchase: %v", err)
	}

	list, err := purchases.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("purchases: got %d, want 2", len(list))
	}
	if list[0].Reference != "123456780002" {
		t.Errorf("newest first ordering violated: %s", list[0].Reference)
	}
}

func TestPurchaseDuplicateReference(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	purchases := NewPurchaseStore(db)
	email := "purchase-dup@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := users.Create(email, "hunter2secret", "Shopper")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	if _, err := purchases.Create(user.ID, "99887766", models.PurchaseTokenAmount, models.PurchasePriceINR); err != nil {
		t.Fatalf("first redemption: %v", err)
	}

	_, err = purchases.Create(user.ID, "99887766", models.PurchaseTokenAmount, models.PurchasePriceINR)
	if !errors.Is(err, ErrDuplicateReference) {
		t.Fatalf("got %v, want ErrDuplicateReference", err)
	}
}

func TestGenerationLogAndCount(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	generations := NewGenerationStore(db)
	email := "generation-log@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := users.Create(email, "hunter2secret", "Generator")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	if err := generations.Log(user.ID, models.GenerationKindGenerate, "a red fox", models.TokenCostPerGeneration); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if err := generations.Log(user.ID, models.GenerationKindEdit, "add a hat", models.TokenCostPerGeneration); err != nil {
		t.Fatalf("Log: %v", err)
	}

	count, err := generations.CountForUser(user.ID)
	if err != nil {
		t.Fatalf("CountForUser: %v", err)
	}
	if count != 2 {
		t.Errorf("count: got %d, want 2", count)
	}
}
