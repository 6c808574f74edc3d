package userstore

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/dalemusser/volunteerhub/internal/testutil"
)

func TestResolveIdentity_CreatesVolunteer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	u, err := store.ResolveIdentity(ctx, "google-sub-1", "New@Example.COM", "  New Person  ")
	if err != nil {
		t.Fatalf("ResolveIdentity failed: %v", err)
	}

	if u.Role != "volunteer" {
		t.Errorf("role: got %q, want volunteer", u.Role)
	}
	if u.Status != "active" {
		t.Errorf("status: got %q, want active", u.Status)
	}
	if u.Email != "new@example.com" {
		t.Errorf("email not normalized: got %q", u.Email)
	}
	if u.FullName != "New Person" {
		t.Errorf("name not trimmed: got %q", u.FullName)
	}
}

func TestResolveIdentity_FindsByAuthID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	first, err := store.ResolveIdentity(ctx, "google-sub-1", "person@example.com", "Person")
	if err != nil {
		t.Fatalf("first ResolveIdentity failed: %v", err)
	}

	// Same identity, different profile email: the auth_id match wins.
	again, err := store.ResolveIdentity(ctx, "google-sub-1", "changed@example.com", "Person")
	if err != nil {
		t.Fatalf("second ResolveIdentity failed: %v", err)
	}
	if again.ID != first.ID {
		t.Error("expected the same account for the same auth_id")
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("user count: got %d, want 1", n)
	}
}

func TestResolveIdentity_LinksExistingEmailAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	existing, err := store.CreatePasswordUser(ctx, "Pat", "pat@example.com", "$2a$12$hash")
	if err != nil {
		t.Fatalf("CreatePasswordUser failed: %v", err)
	}

	linked, err := store.ResolveIdentity(ctx, "google-sub-9", "pat@example.com", "Pat")
	if err != nil {
		t.Fatalf("ResolveIdentity failed: %v", err)
	}
	if linked.ID != existing.ID {
		t.Error("expected the existing account, not a new one")
	}
	if linked.AuthID == nil || *linked.AuthID != "google-sub-9" {
		t.Errorf("auth_id not linked: got %v", linked.AuthID)
	}
}

func TestCreatePasswordUser_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if _, err := store.CreatePasswordUser(ctx, "Pat", "pat@example.com", "$2a$12$hash"); err != nil {
		t.Fatalf("CreatePasswordUser failed: %v", err)
	}
	_, err := store.CreatePasswordUser(ctx, "Other Pat", "PAT@example.com", "$2a$12$hash2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
}

func TestChangeRole_PurgesVolunteerEnrollments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@test.com")
	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	p1 := f.CreateProject(ctx, "Project One", lead.ID, nil)
	p2 := f.CreateProject(ctx, "Project Two", lead.ID, nil)
	f.CreateParticipation(ctx, v.ID, p1.ID)
	f.CreateParticipation(ctx, v.ID, p2.ID)

	store := New(db)
	if err := store.ChangeRole(ctx, admin.ID, v.ID, "lead"); err != nil {
		t.Fatalf("ChangeRole failed: %v", err)
	}

	got, err := store.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Role != "lead" {
		t.Errorf("role: got %q, want lead", got.Role)
	}

	n, err := db.Collection("participations").CountDocuments(ctx, bson.M{"user_id": v.ID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("enrollments after promotion: got %d, want 0", n)
	}

	for _, pid := range []any{p1.ID, p2.ID} {
		var proj struct {
			EnrolledCount int `bson:"enrolled_count"`
		}
		if err := db.Collection("projects").FindOne(ctx, bson.M{"_id": pid}).Decode(&proj); err != nil {
			t.Fatalf("reload project failed: %v", err)
		}
		if proj.EnrolledCount != 0 {
			t.Errorf("enrolled_count: got %d, want 0", proj.EnrolledCount)
		}
	}
}

func TestChangeRole_SelfChangeForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@test.com")

	store := New(db)
	err := store.ChangeRole(ctx, admin.ID, admin.ID, "volunteer")
	if !errors.Is(err, ErrSelfRoleChange) {
		t.Fatalf("got %v, want ErrSelfRoleChange", err)
	}

	got, _ := store.GetByID(ctx, admin.ID)
	if got.Role != "admin" {
		t.Errorf("role changed despite rejection: %q", got.Role)
	}
}

func TestChangeRole_BadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")

	store := New(db)
	if err := store.ChangeRole(ctx, admin.ID, v.ID, "superuser"); !errors.Is(err, ErrBadRole) {
		t.Fatalf("got %v, want ErrBadRole", err)
	}
}

func TestChangeRole_SameRoleNoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@test.com")
	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	p := f.CreateProject(ctx, "Project", lead.ID, nil)
	f.CreateParticipation(ctx, v.ID, p.ID)

	store := New(db)
	if err := store.ChangeRole(ctx, admin.ID, v.ID, "volunteer"); err != nil {
		t.Fatalf("ChangeRole failed: %v", err)
	}

	// Enrollment survives a no-op change.
	n, _ := db.Collection("participations").CountDocuments(ctx, bson.M{"user_id": v.ID})
	if n != 1 {
		t.Errorf("enrollments: got %d, want 1", n)
	}
}

func TestChangeRole_DemotionToVolunteerKeepsNothingToPurge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@test.com")
	lead := f.CreateLead(ctx, "Lead", "lead@test.com")

	store := New(db)
	if err := store.ChangeRole(ctx, admin.ID, lead.ID, "volunteer"); err != nil {
		t.Fatalf("ChangeRole failed: %v", err)
	}
	got, _ := store.GetByID(ctx, lead.ID)
	if got.Role != "volunteer" {
		t.Errorf("role: got %q, want volunteer", got.Role)
	}
}

func TestToggleBan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")

	store := New(db)
	next, err := store.ToggleBan(ctx, admin.ID, v.ID)
	if err != nil {
		t.Fatalf("ToggleBan failed: %v", err)
	}
	if next != "banned" {
		t.Errorf("status: got %q, want banned", next)
	}

	next, err = store.ToggleBan(ctx, admin.ID, v.ID)
	if err != nil {
		t.Fatalf("second ToggleBan failed: %v", err)
	}
	if next != "active" {
		t.Errorf("status: got %q, want active", next)
	}

	if _, err := store.ToggleBan(ctx, admin.ID, admin.ID); !errors.Is(err, ErrSelfBan) {
		t.Errorf("self ban: got %v, want ErrSelfBan", err)
	}
}

func TestLeadAccessRequestFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")

	store := New(db)
	if err := store.RequestLeadAccess(ctx, v.ID); err != nil {
		t.Fatalf("RequestLeadAccess failed: %v", err)
	}

	pending, err := store.ListLeadRequests(ctx)
	if err != nil {
		t.Fatalf("ListLeadRequests failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != v.ID {
		t.Fatalf("pending requests: got %d", len(pending))
	}

	// Reject: request cleared, standing rejection recorded.
	if err := store.ResolveLeadRequest(ctx, admin.ID, v.ID, false); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	got, _ := store.GetByID(ctx, v.ID)
	if got.LeadAccessRequested || !got.LeadAccessRejected {
		t.Errorf("after reject: requested=%v rejected=%v", got.LeadAccessRequested, got.LeadAccessRejected)
	}

	// A rejected user cannot re-request.
	if err := store.RequestLeadAccess(ctx, v.ID); !errors.Is(err, ErrLeadRequestRejected) {
		t.Fatalf("re-request: got %v, want ErrLeadRequestRejected", err)
	}
}

func TestResolveLeadRequest_ApprovePromotesAndClearsRejection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := f.CreateAdmin(ctx, "Admin", "admin@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	if err := New(db).RequestLeadAccess(ctx, v.ID); err != nil {
		t.Fatalf("RequestLeadAccess failed: %v", err)
	}

	store := New(db)
	if err := store.ResolveLeadRequest(ctx, admin.ID, v.ID, true); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	got, _ := store.GetByID(ctx, v.ID)
	if got.Role != "lead" {
		t.Errorf("role: got %q, want lead", got.Role)
	}
	if got.LeadAccessRequested {
		t.Error("request flag should be cleared after approval")
	}
	if got.LeadAccessRejected {
		t.Error("rejection flag should be cleared after approval")
	}
}

func TestAddReport_DuplicatePerReporterAndProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	otherLead := f.CreateLead(ctx, "Other Lead", "lead2@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	p1 := f.CreateProject(ctx, "Project One", lead.ID, nil)
	p2 := f.CreateProject(ctx, "Project Two", lead.ID, nil)

	store := New(db)
	if err := store.AddReport(ctx, v.ID, lead.ID, p1.ID, "no-show"); err != nil {
		t.Fatalf("AddReport failed: %v", err)
	}
	if err := store.AddReport(ctx, v.ID, lead.ID, p1.ID, "still a no-show"); !errors.Is(err, ErrDuplicateReport) {
		t.Fatalf("duplicate report: got %v, want ErrDuplicateReport", err)
	}

	// Different project or different reporter is fine.
	if err := store.AddReport(ctx, v.ID, lead.ID, p2.ID, "no-show again"); err != nil {
		t.Fatalf("report on second project failed: %v", err)
	}
	if err := store.AddReport(ctx, v.ID, otherLead.ID, p1.ID, "agreed"); err != nil {
		t.Fatalf("report by second lead failed: %v", err)
	}

	got, _ := store.GetByID(ctx, v.ID)
	if len(got.Reports) != 3 {
		t.Errorf("reports: got %d, want 3", len(got.Reports))
	}
}

func TestClearReportsAndListReported(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := f.CreateLead(ctx, "Lead", "lead@test.com")
	v := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	f.CreateVolunteer(ctx, "Clean", "clean@test.com")
	p := f.CreateProject(ctx, "Project", lead.ID, nil)

	store := New(db)
	if err := store.AddReport(ctx, v.ID, lead.ID, p.ID, "no-show"); err != nil {
		t.Fatalf("AddReport failed: %v", err)
	}

	reported, err := store.ListReported(ctx)
	if err != nil {
		t.Fatalf("ListReported failed: %v", err)
	}
	if len(reported) != 1 || reported[0].ID != v.ID {
		t.Fatalf("reported: got %d users", len(reported))
	}

	if err := store.ClearReports(ctx, v.ID); err != nil {
		t.Fatalf("ClearReports failed: %v", err)
	}
	reported, err = store.ListReported(ctx)
	if err != nil {
		t.Fatalf("ListReported failed: %v", err)
	}
	if len(reported) != 0 {
		t.Errorf("reported after clear: got %d, want 0", len(reported))
	}
}

func TestUpdateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v := f.CreateVolunteer(ctx, "Old Name", "vol@test.com")

	store := New(db)
	if err := store.UpdateName(ctx, v.ID, "  New Name  "); err != nil {
		t.Fatalf("UpdateName failed: %v", err)
	}

	got, _ := store.GetByID(ctx, v.ID)
	if got.FullName != "New Name" {
		t.Errorf("full_name: got %q", got.FullName)
	}
	if got.FullNameCI != "new name" {
		t.Errorf("full_name_ci: got %q", got.FullNameCI)
	}
}
