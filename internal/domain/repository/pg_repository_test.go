package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"resource_hub/internal/common"
	"resource_hub/internal/domain/model"
	"resource_hub/internal/domain/repository"
	"resource_hub/internal/platform/database"
	"resource_hub/internal/platform/logger"
)

// testDBEnv names a disposable PostgreSQL database; its tables are truncated.
const testDBEnv = "RESOURCE_HUB_TEST_DATABASE_URL"

var migrateOnce sync.Once

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	connStr := os.Getenv(testDBEnv)
	if connStr == "" {
		t.Skipf("%s not set", testDBEnv)
	}
	ctx := context.Background()
	log := logger.Discard()
	db, err := database.Connect(ctx, connStr, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var migrateErr error
	migrateOnce.Do(func() { migrateErr = database.Migrate(ctx, db, log) })
	if migrateErr != nil {
		t.Fatalf("migrate: %v", migrateErr)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE users, resources, requests`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func TestPgUserRepository(t *testing.T) {
	db := openTestDB(t)
	users := repository.NewPgUserRepository(db)
	ctx := context.Background()

	alice := &model.User{ID: uuid.NewString(), Username: "alice", HashedPassword: "x", Role: model.RoleUser, Status: model.UserStatusActive}
	if err := users.Create(ctx, alice); err != nil {
		t.Fatal(err)
	}
	if alice.CreatedAt.IsZero() {
		t.Error("created_at not returned")
	}

	dup := &model.User{ID: uuid.NewString(), Username: "alice", HashedPassword: "y", Role: model.RoleUser, Status: model.UserStatusActive}
	if err := users.Create(ctx, dup); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("duplicate username: err = %v, want ErrConflict", err)
	}

	alice.Role = model.RoleAdmin
	alice.Status = model.UserStatusSuspended
	if err := users.Update(ctx, alice); err != nil {
		t.Fatal(err)
	}
	got, err := users.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != alice.ID || got.Role != model.RoleAdmin || got.Status != model.UserStatusSuspended {
		t.Errorf("stored user = %+v", got)
	}

	if err := users.Delete(ctx, alice.ID); err != nil {
		t.Fatal(err)
	}
	if err := users.Delete(ctx, alice.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
	if _, err := users.FindByID(ctx, alice.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("find deleted: err = %v", err)
	}
}

func TestPgResourceRepositoryTagsAndPaging(t *testing.T) {
	db := openTestDB(t)
	resources := repository.NewPgResourceRepository(db)
	ctx := context.Background()

	tagSets := [][]string{{"go", "rust"}, {"java"}, nil, {"go"}, {"Go"}}
	ids := make([]string, len(tagSets))
	for i, tags := range tagSets {
		res := &model.Resource{
			ID: uuid.NewString(), Name: fmt.Sprintf("R%d", i), Slug: fmt.Sprintf("r%d", i),
			Link: "https://example.com", Category: "c", Type: "t", Tags: tags,
		}
		if err := resources.Create(ctx, res); err != nil {
			t.Fatal(err)
		}
		ids[i] = res.ID
		// created_at orders the listing.
		time.Sleep(2 * time.Millisecond)
	}

	got, err := resources.FindByID(ctx, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "rust" {
		t.Errorf("tags round trip = %q", got.Tags)
	}
	empty, err := resources.FindByID(ctx, ids[2])
	if err != nil {
		t.Fatal(err)
	}
	if empty.Tags == nil || len(empty.Tags) != 0 {
		t.Errorf("nil tags stored as %#v", empty.Tags)
	}

	page, total, err := resources.List(ctx, model.ResourceFilter{Tags: []string{"go", "java"}, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(page) != 3 {
		t.Fatalf("go|java: total=%d len=%d, want 3", total, len(page))
	}
	for i, want := range []string{ids[0], ids[1], ids[3]} {
		if page[i].ID != want {
			t.Errorf("go|java[%d] = %s, want %s", i, page[i].ID, want)
		}
	}

	page, total, err = resources.List(ctx, model.ResourceFilter{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 || len(page) != 1 || page[0].ID != ids[4] {
		t.Errorf("last page: total=%d len=%d", total, len(page))
	}

	missing := &model.Resource{ID: uuid.NewString(), Name: "x", Link: "https://x.io", Category: "c", Type: "t"}
	if err := resources.Update(ctx, missing); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("update missing: err = %v", err)
	}
}

func TestPgRequestRepository(t *testing.T) {
	db := openTestDB(t)
	requests := repository.NewPgRequestRepository(db)
	ctx := context.Background()

	req := &model.Request{
		ID: uuid.NewString(), UserName: "alice", ResourceName: "Rust Book", ResourceType: "Book",
		RequestDate: time.Now().UTC().Truncate(time.Microsecond), Status: model.RequestStatusPending,
	}
	if err := requests.Create(ctx, req); err != nil {
		t.Fatal(err)
	}

	req.Status = model.RequestStatusApproved
	if err := requests.Update(ctx, req); err != nil {
		t.Fatal(err)
	}
	got, err := requests.FindByID(ctx, req.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.RequestStatusApproved || !got.RequestDate.Equal(req.RequestDate) {
		t.Errorf("stored request = %+v", got)
	}

	list, total, err := requests.List(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(list) != 1 {
		t.Errorf("list: total=%d len=%d", total, len(list))
	}

	if err := requests.Delete(ctx, req.ID); err != nil {
		t.Fatal(err)
	}
	if err := requests.Delete(ctx, req.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}
