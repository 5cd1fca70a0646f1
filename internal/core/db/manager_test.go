package db_test

import (
	"context"
	"errors"
	"testing"

	"usersvc/internal/core/db"
	"usersvc/internal/core/db/dbtest"
)

func TestManager_TransactionDelegates(t *testing.T) {
	dbCtx := dbtest.New()
	manager := db.NewManager(dbCtx)

	var got db.Context
	err := manager.Transaction(context.Background(), func(inner db.Context) error {
		got = inner
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}
	if got != dbCtx {
		t.Error("test context must pass itself to fn")
	}
}

func TestManager_TransactionPropagatesError(t *testing.T) {
	manager := db.NewManager(dbtest.New())

	want := errors.New("boom")
	err := manager.Transaction(context.Background(), func(db.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want %v", err, want)
	}
}

func TestManager_NestedTransactionJoins(t *testing.T) {
	manager := db.NewManager(dbtest.New())

	calls := 0
	err := manager.Transaction(context.Background(), func(outer db.Context) error {
		return outer.RunInTransaction(context.Background(), func(inner db.Context) error {
			calls++
			if inner != outer {
				t.Error("nested call must join the same context")
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("nested transaction returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestManager_ContextReturnsHeld(t *testing.T) {
	dbCtx := dbtest.New()
	manager := db.NewManager(dbCtx)
	if manager.Context() != dbCtx {
		t.Error("Context must return the held context")
	}
}
