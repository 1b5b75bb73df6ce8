package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"resource_hub/internal/common"
	"resource_hub/internal/domain/model"
	"resource_hub/internal/platform/events"
)

func newRequest() CreateRequestRequest {
	return CreateRequestRequest{UserName: "alice", ResourceName: "Rust Book", ResourceType: "Book"}
}

func TestCreateRequestDefaults(t *testing.T) {
	f := newFixture()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.requests.now = func() time.Time { return fixed }

	r, err := f.requests.Create(context.Background(), newRequest())
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != model.RequestStatusPending {
		t.Errorf("status = %q", r.Status)
	}
	if !r.RequestDate.Equal(fixed) {
		t.Errorf("requestDate = %v, want %v", r.RequestDate, fixed)
	}
}

func TestCreateRequestExplicitFields(t *testing.T) {
	f := newFixture()
	when := time.Date(2025, 12, 24, 8, 0, 0, 0, time.FixedZone("X", 3600))
	req := newRequest()
	req.RequestDate = &when
	req.Status = model.RequestStatusApproved

	r, err := f.requests.Create(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != model.RequestStatusApproved || !r.RequestDate.Equal(when) {
		t.Errorf("unexpected request %+v", r)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	f := newFixture()
	req := newRequest()
	req.Status = "done"
	_, err := f.requests.Create(context.Background(), req)
	var vErr *common.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "status" {
		t.Fatalf("err = %v", err)
	}
	if vErr.Message != "status must be one of [pending approved rejected]" {
		t.Errorf("message = %q", vErr.Message)
	}

	req = newRequest()
	req.ResourceName = ""
	_, err = f.requests.Create(context.Background(), req)
	if !errors.As(err, &vErr) || vErr.Field != "resourceName" {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdateRequestStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	r, err := f.requests.Create(ctx, newRequest())
	if err != nil {
		t.Fatal(err)
	}

	approved := model.RequestStatusApproved
	updated, err := f.requests.Update(ctx, r.ID, UpdateRequestRequest{Status: &approved})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != approved || updated.UserName != "alice" {
		t.Errorf("unexpected %+v", updated)
	}

	// Same status again: nothing is written and no event is published.
	again, err := f.requests.Update(ctx, r.ID, UpdateRequestRequest{Status: &approved})
	if err != nil {
		t.Fatal(err)
	}
	if !again.UpdatedAt.Equal(updated.UpdatedAt) {
		t.Errorf("updatedAt moved on a no-op update: %v -> %v", updated.UpdatedAt, again.UpdatedAt)
	}

	rejected := model.RequestStatusRejected
	if _, err := f.requests.Update(ctx, r.ID, UpdateRequestRequest{Status: &rejected}); err != nil {
		t.Fatal(err)
	}
	want := []string{
		events.RequestCreated,
		events.RequestUpdated, events.RequestStatusChanged,
		events.RequestUpdated, events.RequestStatusChanged,
	}
	if got := f.events.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestUpdateRequestUnknown(t *testing.T) {
	f := newFixture()
	rejected := model.RequestStatusRejected
	_, err := f.requests.Update(context.Background(), "0b8a2a3e-7c4f-4a8e-9a59-000000000000", UpdateRequestRequest{Status: &rejected})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestListAndDeleteRequests(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		r, err := f.requests.Create(ctx, newRequest())
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, r.ID)
	}

	page, err := f.requests.List(ctx, model.NewPage(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || len(page.Data) != 2 {
		t.Fatalf("total=%d len=%d", page.Total, len(page.Data))
	}

	if err := f.requests.Delete(ctx, ids[0]); err != nil {
		t.Fatal(err)
	}
	if err := f.requests.Delete(ctx, ids[0]); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
	page, err = f.requests.List(ctx, model.NewPage(1, 10))
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Errorf("total = %d", page.Total)
	}
}
