package user_test

import (
	"context"
	"errors"
	"testing"

	"usersvc/internal/core/apperror"
	"usersvc/internal/core/db"
	"usersvc/internal/core/db/dbtest"
	"usersvc/internal/core/id"
	"usersvc/internal/core/types"
	"usersvc/internal/domain/user"
)

func newTestService() (*user.Service, *memRepo, *recordingPublisher) {
	repo := newMemRepo()
	publisher := &recordingPublisher{}
	manager := db.NewManager(dbtest.New())
	return user.NewService(manager, repo, publisher), repo, publisher
}

func TestService_CreateUser(t *testing.T) {
	svc, _, publisher := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, user.CreateUser{Email: "a@x.com", Name: "Alice", Age: intPtr(30)})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id.IsNil(created.ID) {
		t.Error("created user has empty id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("created user has empty timestamps")
	}

	got, err := svc.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Email != "a@x.com" || got.Name != "Alice" || got.Age == nil || *got.Age != 30 {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	events := publisher.published()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	if events[0].Type != user.EventUserCreated {
		t.Errorf("event type = %s, want %s", events[0].Type, user.EventUserCreated)
	}
	if events[0].AggregateID != created.ID.String() {
		t.Errorf("event aggregate id = %s, want %s", events[0].AggregateID, created.ID)
	}
}

func TestService_CreateUser_DuplicateEmail(t *testing.T) {
	svc, repo, publisher := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, user.CreateUser{Email: "a@x.com", Name: "Alice"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.CreateUser(ctx, user.CreateUser{Email: "a@x.com", Name: "Clone"})
	if !apperror.IsDuplicate(err) {
		t.Fatalf("error = %v, want duplicate", err)
	}

	total, _ := repo.Count(ctx, dbtest.New())
	if total != 1 {
		t.Errorf("row count = %d, want 1 (no new row on rejection)", total)
	}
	if len(publisher.published()) != 1 {
		t.Error("no event must be published for a rejected create")
	}
}

func TestService_CreateUser_PublishFailureIsNonFatal(t *testing.T) {
	repo := newMemRepo()
	publisher := &recordingPublisher{err: errors.New("broker down")}
	svc := user.NewService(db.NewManager(dbtest.New()), repo, publisher)

	created, err := svc.CreateUser(context.Background(), user.CreateUser{Email: "a@x.com", Name: "Alice"})
	if err != nil {
		t.Fatalf("create must succeed despite publish failure, got: %v", err)
	}
	if created == nil {
		t.Fatal("expected created entity")
	}
}

func TestService_PatchUser_NameOnly(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateUser(ctx, user.CreateUser{Email: "a@x.com", Name: "Alice", Age: intPtr(30)})

	updated, err := svc.PatchUser(ctx, created.ID, user.Patch{Name: types.Value("New")})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if updated.Name != "New" {
		t.Errorf("name = %q, want New", updated.Name)
	}
	if updated.Email != "a@x.com" {
		t.Errorf("email changed to %q, want unchanged", updated.Email)
	}
	if updated.Age == nil || *updated.Age != 30 {
		t.Errorf("age changed to %v, want unchanged 30", updated.Age)
	}
}

func TestService_PatchUser_AgeNullClears(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateUser(ctx, user.CreateUser{Email: "a@x.com", Name: "Alice", Age: intPtr(30)})

	updated, err := svc.PatchUser(ctx, created.ID, user.Patch{Age: types.Null[int]()})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if updated.Age != nil {
		t.Errorf("age = %v, want nil after explicit null", *updated.Age)
	}
	if updated.Name != "Alice" || updated.Email != "a@x.com" {
		t.Errorf("unrelated fields changed: %+v", updated)
	}
}

func TestService_PatchUser_EmailMove(t *testing.T) {
	svc, repo, publisher := newTestService()
	ctx := context.Background()
	dbCtx := dbtest.New()

	created, _ := svc.CreateUser(ctx, user.CreateUser{Email: "a@x.com", Name: "Alice", Age: intPtr(30)})

	// Move to a free email.
	if _, err := svc.PatchUser(ctx, created.ID, user.Patch{Email: types.Value("b@x.com")}); err != nil {
		t.Fatalf("patch to free email failed: %v", err)
	}

	old, _ := repo.GetByEmail(ctx, dbCtx, "a@x.com")
	if old != nil {
		t.Error("old email still resolves")
	}
	moved, _ := repo.GetByEmail(ctx, dbCtx, "b@x.com")
	if moved == nil || moved.Name != "Alice" {
		t.Fatalf("new email does not resolve to Alice: %+v", moved)
	}

	// Patch to the same email again: no-op duplicate bypass.
	if _, err := svc.PatchUser(ctx, created.ID, user.Patch{Email: types.Value("b@x.com")}); err != nil {
		t.Fatalf("same-value patch must not conflict with itself: %v", err)
	}

	if got := len(publisher.published()); got != 3 {
		t.Errorf("published %d events, want 3 (1 create + 2 updates)", got)
	}
}

func TestService_PatchUser_EmptyPatchIsNoOp(t *testing.T) {
	svc, _, publisher := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateUser(ctx, user.CreateUser{Email: "a@x.com", Name: "Alice"})

	got, err := svc.PatchUser(ctx, created.ID, user.Patch{})
	if err != nil {
		t.Fatalf("empty patch failed: %v", err)
	}
	if !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("empty patch must not touch the row")
	}
	if len(publisher.published()) != 1 {
		t.Error("empty patch must not publish an update event")
	}
}

func TestService_DeleteUser(t *testing.T) {
	svc, _, publisher := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateUser(ctx, user.CreateUser{Email: "a@x.com", Name: "Alice"})

	if err := svc.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := svc.DeleteUser(ctx, created.ID); !apperror.IsNotFound(err) {
		t.Errorf("second delete error = %v, want not-found", err)
	}
	if err := svc.DeleteUser(ctx, id.New()); !apperror.IsNotFound(err) {
		t.Errorf("delete of unknown id error = %v, want not-found", err)
	}

	events := publisher.published()
	if len(events) != 2 {
		t.Fatalf("published %d events, want 2 (create + delete)", len(events))
	}
	if events[1].Type != user.EventUserDeleted {
		t.Errorf("event type = %s, want %s", events[1].Type, user.EventUserDeleted)
	}
	if events[1].Payload["email"] != "a@x.com" {
		t.Errorf("delete event payload email = %v, want a@x.com", events[1].Payload["email"])
	}
}

func TestService_ListUsers(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	const n = 15
	for i := 0; i < n; i++ {
		email := string(rune('a'+i)) + "@x.com"
		if _, err := svc.CreateUser(ctx, user.CreateUser{Email: email, Name: "User"}); err != nil {
			t.Fatalf("seed %d failed: %v", i, err)
		}
	}

	items, total, err := svc.ListUsers(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 10 {
		t.Errorf("page size = %d, want 10", len(items))
	}
	if total != n {
		t.Errorf("total = %d, want %d", total, n)
	}

	// Second page holds the remainder.
	items, _, err = svc.ListUsers(ctx, 10, 10)
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	if len(items) != n-10 {
		t.Errorf("second page size = %d, want %d", len(items), n-10)
	}

	// Offset past the end yields an empty page, not an error.
	items, total, err = svc.ListUsers(ctx, 10, 100)
	if err != nil {
		t.Fatalf("offset past end failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("page size = %d, want 0", len(items))
	}
	if total != n {
		t.Errorf("total = %d, want %d", total, n)
	}
}

func TestService_ListUsers_NegativeBounds(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.ListUsers(ctx, -1, 0); !apperror.IsValidation(err) {
		t.Errorf("negative limit error = %v, want validation", err)
	}
	if _, _, err := svc.ListUsers(ctx, 10, -1); !apperror.IsValidation(err) {
		t.Errorf("negative offset error = %v, want validation", err)
	}
}

func TestService_GetUser_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetUser(context.Background(), id.New())
	if !apperror.IsNotFound(err) {
		t.Errorf("error = %v, want not-found", err)
	}
}
