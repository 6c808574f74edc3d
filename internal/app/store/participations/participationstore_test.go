package participationstore

import (
	"errors"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/volunteerhub/internal/testutil"
)

func enrolledCount(t *testing.T, f *testutil.Fixtures, p models.Project) int {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var got models.Project
	err := f.DB().Collection("projects").FindOne(ctx, bson.M{"_id": p.ID}).Decode(&got)
	if err != nil {
		t.Fatalf("failed to reload project: %v", err)
	}
	return got.EnrolledCount
}

func TestJoin_EnrollsAndIncrements(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	p := f.CreateProject(ctx, "Trail Cleanup", lead.ID, nil)

	store := New(db)
	if err := store.Join(ctx, v.ID, p.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	joined, err := store.Exists(ctx, v.ID, p.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !joined {
		t.Error("expected enrollment to exist after join")
	}
	if n := enrolledCount(t, f, p); n != 1 {
		t.Errorf("enrolled_count: got %d, want 1", n)
	}
}

func TestJoin_DuplicateRejectedWithoutDoubleCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	p := f.CreateProject(ctx, "Trail Cleanup", lead.ID, nil)

	store := New(db)
	if err := store.Join(ctx, v.ID, p.ID); err != nil {
		t.Fatalf("first Join failed: %v", err)
	}
	err := store.Join(ctx, v.ID, p.ID)
	if !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("second Join: got %v, want ErrAlreadyJoined", err)
	}

	if n := enrolledCount(t, f, p); n != 1 {
		t.Errorf("enrolled_count after duplicate join: got %d, want 1", n)
	}
	if n, err := store.CountByProject(ctx, p.ID); err != nil || n != 1 {
		t.Errorf("ledger count: got %d (err %v), want 1", n, err)
	}
}

func TestJoin_ConcurrentDuplicatesOneWinner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	p := f.CreateProject(ctx, "Trail Cleanup", lead.ID, nil)

	store := New(db)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Join(ctx, v.ID, p.ID)
		}(i)
	}
	wg.Wait()

	var wins, dups int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyJoined):
			dups++
		default:
			t.Fatalf("unexpected join error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("winners: got %d, want 1", wins)
	}
	if dups != attempts-1 {
		t.Errorf("duplicates: got %d, want %d", dups, attempts-1)
	}
	if n, _ := store.CountByProject(ctx, p.ID); n != 1 {
		t.Errorf("ledger count: got %d, want 1", n)
	}
	if n := enrolledCount(t, f, p); n != 1 {
		t.Errorf("enrolled_count: got %d, want 1", n)
	}
}

func TestJoin_FullProjectRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v1 := f.CreateVolunteer(ctx, "Vol One", "vol1@test.com")
	v2 := f.CreateVolunteer(ctx, "Vol Two", "vol2@test.com")
	cap := 1
	p := f.CreateProject(ctx, "Tiny Project", lead.ID, &cap)

	store := New(db)
	if err := store.Join(ctx, v1.ID, p.ID); err != nil {
		t.Fatalf("first Join failed: %v", err)
	}
	if err := store.Join(ctx, v2.ID, p.ID); !errors.Is(err, ErrProjectFull) {
		t.Fatalf("second Join: got %v, want ErrProjectFull", err)
	}
}

func TestJoin_UnlimitedCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	p := f.CreateProject(ctx, "Open Project", lead.ID, nil)

	store := New(db)
	for i := 0; i < 5; i++ {
		v := f.CreateVolunteer(ctx, "Vol", "vol"+string(rune('a'+i))+"@test.com")
		if err := store.Join(ctx, v.ID, p.ID); err != nil {
			t.Fatalf("Join %d failed: %v", i, err)
		}
	}
	if n := enrolledCount(t, f, p); n != 5 {
		t.Errorf("enrolled_count: got %d, want 5", n)
	}
}

func TestJoin_ProjectStateChecks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	draft := f.CreateProjectWithStatus(ctx, "Draft Project", lead.ID, nil, "draft")
	done := f.CreateProjectWithStatus(ctx, "Done Project", lead.ID, nil, "completed")

	store := New(db)
	if err := store.Join(ctx, v.ID, draft.ID); !errors.Is(err, ErrProjectNotActive) {
		t.Errorf("join draft: got %v, want ErrProjectNotActive", err)
	}
	if err := store.Join(ctx, v.ID, done.ID); !errors.Is(err, ErrProjectNotActive) {
		t.Errorf("join completed: got %v, want ErrProjectNotActive", err)
	}

	missing := f.CreateProject(ctx, "Gone", lead.ID, nil)
	if _, err := db.Collection("projects").DeleteOne(ctx, bson.M{"_id": missing.ID}); err != nil {
		t.Fatalf("failed to delete project: %v", err)
	}
	if err := store.Join(ctx, v.ID, missing.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("join missing: got %v, want ErrProjectNotFound", err)
	}
}

func TestLeave_RemovesAndDecrements(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	p := f.CreateProject(ctx, "Trail Cleanup", lead.ID, nil)

	store := New(db)
	if err := store.Join(ctx, v.ID, p.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	left, err := store.Leave(ctx, v.ID, p.ID)
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if !left {
		t.Error("expected left=true for an enrolled user")
	}
	if n := enrolledCount(t, f, p); n != 0 {
		t.Errorf("enrolled_count: got %d, want 0", n)
	}

	// Leaving again is a no-op, not an error.
	left, err = store.Leave(ctx, v.ID, p.ID)
	if err != nil {
		t.Fatalf("second Leave failed: %v", err)
	}
	if left {
		t.Error("expected left=false when not enrolled")
	}
	if n := enrolledCount(t, f, p); n != 0 {
		t.Errorf("enrolled_count after idempotent leave: got %d, want 0", n)
	}
}

func TestLeave_NeverDrivesCounterNegative(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	p := f.CreateProject(ctx, "Trail Cleanup", lead.ID, nil)

	// Enrollment row exists but the counter already reads zero (drift).
	f.CreateParticipation(ctx, v.ID, p.ID)
	_, err := db.Collection("projects").UpdateOne(ctx,
		bson.M{"_id": p.ID}, bson.M{"$set": bson.M{"enrolled_count": 0}})
	if err != nil {
		t.Fatalf("failed to force counter: %v", err)
	}

	store := New(db)
	left, err := store.Leave(ctx, v.ID, p.ID)
	if err != nil || !left {
		t.Fatalf("Leave: left=%v err=%v", left, err)
	}
	if n := enrolledCount(t, f, p); n != 0 {
		t.Errorf("enrolled_count: got %d, want 0 (never negative)", n)
	}
}

func TestPurgeUser_RemovesAllAndDecrements(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	other := f.CreateVolunteer(ctx, "Other", "other@test.com")
	p1 := f.CreateProject(ctx, "Project One", lead.ID, nil)
	p2 := f.CreateProject(ctx, "Project Two", lead.ID, nil)

	store := New(db)
	for _, p := range []models.Project{p1, p2} {
		if err := store.Join(ctx, v.ID, p.ID); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
	}
	if err := store.Join(ctx, other.ID, p1.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	removed, err := store.PurgeUser(ctx, v.ID)
	if err != nil {
		t.Fatalf("PurgeUser failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed: got %d, want 2", removed)
	}

	if n := enrolledCount(t, f, p1); n != 1 {
		t.Errorf("p1 enrolled_count: got %d, want 1 (other volunteer remains)", n)
	}
	if n := enrolledCount(t, f, p2); n != 0 {
		t.Errorf("p2 enrolled_count: got %d, want 0", n)
	}
	if ids, _ := store.ProjectIDsByUser(ctx, v.ID); len(ids) != 0 {
		t.Errorf("purged user still enrolled in %d projects", len(ids))
	}
	if joined, _ := store.Exists(ctx, other.ID, p1.ID); !joined {
		t.Error("other volunteer's enrollment must survive the purge")
	}
}

func TestPurgeUser_NoEnrollments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")

	store := New(db)
	removed, err := store.PurgeUser(ctx, v.ID)
	if err != nil {
		t.Fatalf("PurgeUser failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed: got %d, want 0", removed)
	}
}

func TestDeleteByProject_ClearsLedger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	p := f.CreateProject(ctx, "Doomed Project", lead.ID, nil)
	keep := f.CreateProject(ctx, "Kept Project", lead.ID, nil)

	store := New(db)
	for i := 0; i < 3; i++ {
		v := f.CreateVolunteer(ctx, "Vol", "vol"+string(rune('a'+i))+"@test.com")
		if err := store.Join(ctx, v.ID, p.ID); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		if i == 0 {
			if err := store.Join(ctx, v.ID, keep.ID); err != nil {
				t.Fatalf("Join failed: %v", err)
			}
		}
	}

	n, err := store.DeleteByProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("DeleteByProject failed: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted: got %d, want 3", n)
	}
	if m, _ := store.CountByProject(ctx, p.ID); m != 0 {
		t.Errorf("ledger rows remain: %d", m)
	}
	if m, _ := store.CountByProject(ctx, keep.ID); m != 1 {
		t.Errorf("kept project ledger: got %d, want 1", m)
	}
}

func TestRecompute_RepairsDrift(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	low := f.CreateProject(ctx, "Counter Low", lead.ID, nil)
	high := f.CreateProject(ctx, "Counter High", lead.ID, nil)
	ok := f.CreateProject(ctx, "Counter OK", lead.ID, nil)

	store := New(db)
	for i, p := range []models.Project{low, high, ok} {
		v := f.CreateVolunteer(ctx, "Vol", "vol"+string(rune('a'+i))+"@test.com")
		if err := store.Join(ctx, v.ID, p.ID); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
	}

	// Force drift in both directions.
	for id, n := range map[primitive.ObjectID]int{low.ID: 0, high.ID: 7} {
		_, err := db.Collection("projects").UpdateOne(ctx,
			bson.M{"_id": id}, bson.M{"$set": bson.M{"enrolled_count": n}})
		if err != nil {
			t.Fatalf("failed to force counter: %v", err)
		}
	}

	res, err := store.Recompute(ctx)
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if res.Checked != 3 {
		t.Errorf("checked: got %d, want 3", res.Checked)
	}
	if res.Adjusted != 2 {
		t.Errorf("adjusted: got %d, want 2", res.Adjusted)
	}

	for _, p := range []models.Project{low, high, ok} {
		if n := enrolledCount(t, f, p); n != 1 {
			t.Errorf("%s enrolled_count: got %d, want 1", p.Title, n)
		}
	}
}

func TestRecompute_ZeroesOrphanCounter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	p := f.CreateProject(ctx, "No Ledger Rows", lead.ID, nil)
	_, err := db.Collection("projects").UpdateOne(ctx,
		bson.M{"_id": p.ID}, bson.M{"$set": bson.M{"enrolled_count": 4}})
	if err != nil {
		t.Fatalf("failed to force counter: %v", err)
	}

	store := New(db)
	res, err := store.Recompute(ctx)
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if res.Adjusted != 1 {
		t.Errorf("adjusted: got %d, want 1", res.Adjusted)
	}
	if n := enrolledCount(t, f, p); n != 0 {
		t.Errorf("enrolled_count: got %d, want 0", n)
	}
}
