package audit_test

import (
	"testing"
	"time"

	"github.com/dealroom-et/dealroom/internal/app/store/audit"
	"github.com/dealroom-et/dealroom/internal/testutil"
)

func TestStore_LogAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	before := time.Now().UTC().Add(-time.Second)
	events := []audit.Event{
		{Category: audit.CategoryAdmin, EventType: audit.EventRegistrationApproved, Actor: "staffer", TargetID: "r1", Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventRegistrationRejected, Actor: "staffer", TargetID: "r2", Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailed, Success: false, FailureReason: "wrong password"},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	admin, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(admin) != 2 {
		t.Fatalf("admin events = %d, want 2", len(admin))
	}
	for _, e := range admin {
		if e.ID.IsZero() {
			t.Error("expected generated ID")
		}
		if e.Timestamp.Before(before) {
			t.Errorf("timestamp %v not set", e.Timestamp)
		}
	}

	byTarget, err := store.Query(ctx, audit.QueryFilter{TargetID: "r2"})
	if err != nil {
		t.Fatalf("Query by target: %v", err)
	}
	if len(byTarget) != 1 || byTarget[0].EventType != audit.EventRegistrationRejected {
		t.Errorf("unexpected target query result %+v", byTarget)
	}

	n, err := store.Count(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}
