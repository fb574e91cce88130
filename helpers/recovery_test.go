package helpers

import (
	"context"
	"errors"
	"testing"
	"time"

	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/utils"
)

func TestRecoveryFlow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := newUser(t, db, "owner@example.com")
	now := time.Now().In(utils.DefaultLocation())

	if _, err := RequestRecovery(ctx, db, "nobody@example.com", now); !errors.Is(err, structure.ErrNotFound) {
		t.Fatalf("unknown email: got %v", err)
	}

	first, err := RequestRecovery(ctx, db, user.Email, now)
	if err != nil {
		t.Fatalf("request recovery: %v", err)
	}

	if len(first.Hash) != RecoveryHashLength || first.User.Email != user.Email {
		t.Fatalf("unexpected recovery: %+v", first)
	}

	second, err := RequestRecovery(ctx, db, user.Email, now)
	if err != nil {
		t.Fatalf("request recovery again: %v", err)
	}

	// A new request replaces the previous one.
	if _, err := FindRecovery(ctx, db, first.Hash, now); !errors.Is(err, structure.ErrNotFound) {
		t.Fatalf("replaced request: got %v", err)
	}

	found, err := FindRecovery(ctx, db, second.Hash, now)
	if err != nil {
		t.Fatalf("find recovery: %v", err)
	}

	if found.User.ID != user.ID {
		t.Errorf("user = %s, want %s", found.User.ID, user.ID)
	}

	if _, err := FindRecovery(ctx, db, second.Hash, now.Add(recoveryLifetime+time.Minute)); !errors.Is(err, structure.ErrNotFound) {
		t.Errorf("expired request: got %v", err)
	}

	if _, err := FindRecovery(ctx, db, "short", now); !errors.Is(err, structure.ErrNotFound) {
		t.Errorf("malformed hash: got %v", err)
	}

	if err := CompleteRecovery(ctx, db, found, "a brand new passphrase", now); err != nil {
		t.Fatalf("complete recovery: %v", err)
	}

	updated := &models.User{}
	if err := db.First(updated, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}

	if !utils.ComparePasswordHash("a brand new passphrase", updated.Password) {
		t.Error("the password was not updated")
	}

	if _, err := FindRecovery(ctx, db, second.Hash, now); !errors.Is(err, structure.ErrNotFound) {
		t.Errorf("used request: got %v", err)
	}
}

func TestRecoveryScramblesPasswordAfterTooManyTries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := newUser(t, db, "owner@example.com")
	now := time.Now().In(utils.DefaultLocation())

	for i := 0; i < maxRecoveryTries; i++ {
		if _, err := RequestRecovery(ctx, db, user.Email, now); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	before := &models.User{}
	if err := db.First(before, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}

	if before.Password != "-" {
		t.Fatal("the password changed before reaching the limit")
	}

	if _, err := RequestRecovery(ctx, db, user.Email, now); err != nil {
		t.Fatalf("request over the limit: %v", err)
	}

	after := &models.User{}
	if err := db.First(after, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}

	if after.Password == "-" || after.LastPasswordChange == nil {
		t.Error("the password was not scrambled")
	}
}
