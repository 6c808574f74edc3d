package projectpolicy

import (
	"testing"

	"github.com/dalemusser/volunteerhub/internal/testutil"
)

func TestCanManageProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateLead(ctx, "Owner", "owner@test.com")
	otherLead := f.CreateLead(ctx, "Other", "other@test.com")
	admin := f.CreateAdmin(ctx, "Admin", "admin@test.com")
	vol := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	p := f.CreateProject(ctx, "Project", owner.ID, nil)

	cases := []struct {
		name string
		user testutil.TestUser
		want bool
	}{
		{"owning lead", testutil.AsUser(owner.ID, owner.FullName, owner.Email, "lead"), true},
		{"other lead", testutil.AsUser(otherLead.ID, otherLead.FullName, otherLead.Email, "lead"), false},
		{"admin", testutil.AsUser(admin.ID, admin.FullName, admin.Email, "admin"), true},
		{"volunteer", testutil.AsUser(vol.ID, vol.FullName, vol.Email, "volunteer"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := testutil.NewAuthenticatedRequest("GET", "/lead/projects/"+p.ID.Hex(), tc.user)
			got, err := CanManageProject(ctx, db, r, p.ID)
			if err != nil {
				t.Fatalf("CanManageProject failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		r := testutil.NewRequest("GET", "/lead/projects/"+p.ID.Hex())
		got, err := CanManageProject(ctx, db, r, p.ID)
		if err != nil {
			t.Fatalf("CanManageProject failed: %v", err)
		}
		if got {
			t.Error("anonymous request must not manage projects")
		}
	})
}

func TestCanViewProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateLead(ctx, "Owner", "owner@test.com")
	vol := f.CreateVolunteer(ctx, "Vol", "vol@test.com")
	active := f.CreateProject(ctx, "Active", owner.ID, nil)
	draft := f.CreateProjectWithStatus(ctx, "Draft", owner.ID, nil, "draft")

	anon := testutil.NewRequest("GET", "/projects/"+active.ID.Hex())
	if ok, err := CanViewProject(ctx, db, anon, active.ID, active.Status); err != nil || !ok {
		t.Errorf("anonymous view of active project: ok=%v err=%v", ok, err)
	}

	if ok, _ := CanViewProject(ctx, db, anon, draft.ID, draft.Status); ok {
		t.Error("anonymous request must not see drafts")
	}

	volReq := testutil.NewAuthenticatedRequest("GET", "/projects/"+draft.ID.Hex(),
		testutil.AsUser(vol.ID, vol.FullName, vol.Email, "volunteer"))
	if ok, _ := CanViewProject(ctx, db, volReq, draft.ID, draft.Status); ok {
		t.Error("volunteers must not see drafts")
	}

	ownerReq := testutil.NewAuthenticatedRequest("GET", "/projects/"+draft.ID.Hex(),
		testutil.AsUser(owner.ID, owner.FullName, owner.Email, "lead"))
	if ok, err := CanViewProject(ctx, db, ownerReq, draft.ID, draft.Status); err != nil || !ok {
		t.Errorf("owner view of own draft: ok=%v err=%v", ok, err)
	}
}
