package usecases

import (
	"context"
	"encoding/json"
	"testing"

	"hoa-server/entities"
	"hoa-server/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type maintenanceFixture struct {
	repos    *repositories.Repositories
	uc       *MaintenanceUseCase
	notifier *recordingNotifier
	events   *recordingPublisher

	admin        *entities.User
	owner        *entities.User
	otherOwner   *entities.User
	tenantUser   *entities.User
	tenant       *entities.Tenant
	strangerUser *entities.User
	unit         *entities.Unit
	otherUnit    *entities.Unit
	vendor       *entities.Vendor
}

func newMaintenanceFixture(t *testing.T) *maintenanceFixture {
	t.Helper()
	ctx := context.Background()
	f := &maintenanceFixture{
		repos:    newRepos(t),
		notifier: &recordingNotifier{},
		events:   &recordingPublisher{},
	}
	f.uc = NewMaintenanceUseCase(f.repos, f.notifier, f.events)

	f.admin = seedUser(t, f.repos, "admin@example.com", entities.RoleAdmin)
	f.owner = seedUser(t, f.repos, "owner@example.com", entities.RoleOwner)
	_, err := f.repos.Users.UpdateProfile(ctx, f.owner.ID, map[string]interface{}{"phone": "+15550100"})
	require.NoError(t, err)
	f.otherOwner = seedUser(t, f.repos, "other.owner@example.com", entities.RoleOwner)
	f.tenantUser, f.tenant = seedTenant(t, f.repos, "tenant@example.com")
	f.strangerUser, _ = seedTenant(t, f.repos, "stranger@example.com")

	property := seedProperty(t, f.repos, "Oak Park", &f.admin.ID)
	f.unit = seedUnit(t, f.repos, property.ID, "101", f.owner.ID)
	f.otherUnit = seedUnit(t, f.repos, property.ID, "102", f.otherOwner.ID)
	require.NoError(t, f.repos.Units.SetTenant(ctx, f.unit.ID, f.tenant.ID))

	f.vendor = &entities.Vendor{Name: "Fix-It", Email: "jobs@fixit.example.com"}
	require.NoError(t, f.repos.Vendors.Create(ctx, f.vendor))
	return f
}

func (f *maintenanceFixture) file(t *testing.T, by *entities.User, unitID uint, title string) *entities.MaintenanceRequest {
	t.Helper()
	req, err := f.uc.Create(context.Background(), actorFor(by), CreateMaintenanceInput{UnitID: unitID, Title: title})
	require.NoError(t, err)
	return req
}

func requestIDs(reqs []entities.MaintenanceRequest) []uint {
	out := make([]uint, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.ID)
	}
	return out
}

func TestCreateAttributesTenantToOwnProfile(t *testing.T) {
	f := newMaintenanceFixture(t)

	req := f.file(t, f.tenantUser, f.unit.ID, "Leaky faucet")
	require.NotNil(t, req.ReporterID)
	assert.Equal(t, f.tenant.ID, *req.ReporterID)
	assert.Nil(t, req.OwnerID)
	assert.Equal(t, entities.StatusReported, req.Status)
	assert.Equal(t, entities.PriorityMedium, req.Priority)
	assert.Equal(t, entities.TagNone, req.TagState)
	assert.Contains(t, f.events.events, EventMaintenanceCreated)

	byOwner := f.file(t, f.owner, f.unit.ID, "Broken gate")
	assert.Nil(t, byOwner.ReporterID)
	require.NotNil(t, byOwner.OwnerID)
	assert.Equal(t, f.owner.ID, *byOwner.OwnerID)
}

func TestEventsReachOnlyRequestParties(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	req := f.file(t, f.tenantUser, f.unit.ID, "Leaky faucet")
	assert.ElementsMatch(t, []uint{f.owner.ID, f.tenantUser.ID}, f.events.audiences[EventMaintenanceCreated])

	f.file(t, f.otherOwner, f.otherUnit.ID, "Private issue")
	assert.ElementsMatch(t, []uint{f.otherOwner.ID}, f.events.audiences[EventMaintenanceCreated])

	require.NoError(t, f.uc.Delete(ctx, actorFor(f.admin), req.ID))
	assert.ElementsMatch(t, []uint{f.owner.ID, f.tenantUser.ID}, f.events.audiences[EventMaintenanceDeleted])
}

func TestCreateRejectsBadInput(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, actorFor(f.owner), CreateMaintenanceInput{UnitID: f.unit.ID, Priority: "URGENT", CategoryOther: "much too long for this field"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "priority")
	assert.Contains(t, verr.Fields, "categoryOther")

	_, err = f.uc.Create(ctx, actorFor(f.owner), CreateMaintenanceInput{UnitID: 999, Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	noProfile := seedUser(t, f.repos, "ghost@example.com", entities.RoleTenant)
	_, err = f.uc.Create(ctx, actorFor(noProfile), CreateMaintenanceInput{UnitID: f.unit.ID, Title: "x"})
	assert.ErrorIs(t, err, ErrTenantProfileNotFound)
}

func TestListIsRoleScoped(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	mine := f.file(t, f.tenantUser, f.unit.ID, "Leaky faucet")
	elsewhere := f.file(t, f.otherOwner, f.otherUnit.ID, "Cracked window")

	got, err := f.uc.List(ctx, actorFor(f.tenantUser), 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{mine.ID}, requestIDs(got))

	got, err = f.uc.List(ctx, actorFor(f.strangerUser), 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.uc.List(ctx, actorFor(f.owner), 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{mine.ID}, requestIDs(got))

	got, err = f.uc.List(ctx, actorFor(f.admin), 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{mine.ID, elsewhere.ID}, requestIDs(got))

	got, err = f.uc.List(ctx, actorFor(f.admin), f.otherUnit.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{elsewhere.ID}, requestIDs(got))

	got, err = f.uc.ListByUnit(ctx, f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{mine.ID}, requestIDs(got))
}

func TestRequestTagOwnerOnly(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	req := f.file(t, f.tenantUser, f.unit.ID, "Roof leak")

	_, err := f.uc.RequestTag(ctx, actorFor(f.otherOwner), req.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	tagged, err := f.uc.RequestTag(ctx, actorFor(f.owner), req.ID)
	require.NoError(t, err)
	assert.True(t, tagged.PendingTagRequest())
	assert.False(t, tagged.IsHOAIssue())

	_, err = f.uc.RequestTag(ctx, actorFor(f.owner), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApproveTagNotifiesOwnersAndVendor(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	req, err := f.uc.Create(ctx, actorFor(f.tenantUser), CreateMaintenanceInput{UnitID: f.unit.ID, Title: "Roof leak", VendorID: &f.vendor.ID})
	require.NoError(t, err)
	_, err = f.uc.RequestTag(ctx, actorFor(f.owner), req.ID)
	require.NoError(t, err)

	approved, err := f.uc.ApproveTag(ctx, req.ID, true)
	require.NoError(t, err)
	assert.False(t, approved.PendingTagRequest())
	assert.True(t, approved.IsHOAIssue())

	stored, err := f.repos.Maintenance.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TagHOAIssue, stored.TagState)

	assert.ElementsMatch(t, []string{
		"email:owner@example.com",
		"sms:+15550100",
		"email:jobs@fixit.example.com",
	}, f.notifier.recipients())
}

func TestApproveTagSkipsSMSWithoutPhone(t *testing.T) {
	f := newMaintenanceFixture(t)
	req := f.file(t, f.otherOwner, f.otherUnit.ID, "Cracked window")

	_, err := f.uc.ApproveTag(context.Background(), req.ID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"email:other.owner@example.com"}, f.notifier.recipients())
}

func TestDeclineTag(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()

	pending := f.file(t, f.tenantUser, f.unit.ID, "Mold")
	_, err := f.uc.RequestTag(ctx, actorFor(f.owner), pending.ID)
	require.NoError(t, err)
	declined, err := f.uc.ApproveTag(ctx, pending.ID, false)
	require.NoError(t, err)
	assert.Equal(t, entities.TagNone, declined.TagState)

	// a decline leaves an accepted HOA issue alone
	accepted := f.file(t, f.tenantUser, f.unit.ID, "Sinkhole")
	_, err = f.uc.ApproveTag(ctx, accepted.ID, true)
	require.NoError(t, err)
	still, err := f.uc.ApproveTag(ctx, accepted.ID, false)
	require.NoError(t, err)
	assert.False(t, still.PendingTagRequest())
	assert.True(t, still.IsHOAIssue())

	// owners hear about declines too, the vendor does not
	assert.Contains(t, f.notifier.recipients(), "email:owner@example.com")
	assert.NotContains(t, f.notifier.recipients(), "email:jobs@fixit.example.com")
}

func TestLinkIsStarShapedAndIdempotent(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	a := f.file(t, f.tenantUser, f.unit.ID, "A")
	b := f.file(t, f.tenantUser, f.unit.ID, "B")
	c := f.file(t, f.tenantUser, f.unit.ID, "C")

	links, created, err := f.uc.Link(ctx, actorFor(f.admin), []uint{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	require.Len(t, links, 2)
	pairs := [][2]uint{}
	for _, l := range links {
		pairs = append(pairs, [2]uint{l.RequestAID, l.RequestBID})
	}
	assert.ElementsMatch(t, [][2]uint{{a.ID, b.ID}, {a.ID, c.ID}}, pairs)

	_, created, err = f.uc.Link(ctx, actorFor(f.admin), []uint{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	assert.Zero(t, created)

	_, created, err = f.uc.Link(ctx, actorFor(f.admin), []uint{b.ID, a.ID, b.ID})
	require.NoError(t, err)
	assert.Zero(t, created, "links are undirected and duplicates are skipped")

	stored, err := f.repos.Maintenance.GetLinks(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	none, err := f.repos.Maintenance.GetLinks(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLinkValidation(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	a := f.file(t, f.tenantUser, f.unit.ID, "A")

	_, _, err := f.uc.Link(ctx, actorFor(f.admin), []uint{a.ID})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "ids")

	_, _, err = f.uc.Link(ctx, actorFor(f.admin), []uint{a.ID, 999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAuthorization(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	req := f.file(t, f.tenantUser, f.unit.ID, "Noisy pipes")

	err := f.uc.Delete(ctx, actorFor(f.strangerUser), req.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	err = f.uc.Delete(ctx, actorFor(f.otherOwner), req.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	unchanged, err := f.repos.Maintenance.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Noisy pipes", unchanged.Title)

	require.NoError(t, f.uc.Delete(ctx, actorFor(f.tenantUser), req.ID))
	_, err = f.repos.Maintenance.GetByID(ctx, req.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	byOwner := f.file(t, f.tenantUser, f.unit.ID, "Loose tile")
	require.NoError(t, f.uc.Delete(ctx, actorFor(f.owner), byOwner.ID))

	byAdmin := f.file(t, f.otherOwner, f.otherUnit.ID, "Dead lamp")
	require.NoError(t, f.uc.Delete(ctx, actorFor(f.admin), byAdmin.ID))
	assert.ErrorIs(t, f.uc.Delete(ctx, actorFor(f.admin), byAdmin.ID), ErrNotFound)
}

func TestUpdate(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	req := f.file(t, f.tenantUser, f.unit.ID, "Leak")

	status, priority := "SOMEDAY", "NOW"
	_, err := f.uc.Update(ctx, req.ID, MaintenanceUpdate{Status: &status, Priority: &priority})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")
	assert.Contains(t, verr.Fields, "priority")

	yes := true
	_, err = f.uc.Update(ctx, req.ID, MaintenanceUpdate{PendingTagRequest: &yes, IsHOAIssue: &yes})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "isHOAIssue")

	status, title := "IN_PROGRESS", "Big leak"
	updated, err := f.uc.Update(ctx, req.ID, MaintenanceUpdate{Status: &status, Title: &title, IsHOAIssue: &yes})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInProgress, updated.Status)
	assert.Equal(t, "Big leak", updated.Title)
	assert.Equal(t, entities.TagHOAIssue, updated.TagState)

	_, err = f.uc.Update(ctx, 999, MaintenanceUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReportsEveryInvalidField(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	req := f.file(t, f.tenantUser, f.unit.ID, "Leak")

	status, yes := "SOMEDAY", true
	_, err := f.uc.Update(ctx, req.ID, MaintenanceUpdate{Status: &status, PendingTagRequest: &yes, IsHOAIssue: &yes})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")
	assert.Contains(t, verr.Fields, "pendingTagRequest")
	assert.Contains(t, verr.Fields, "isHOAIssue")

	unchanged, err := f.repos.Maintenance.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.Status, unchanged.Status)
	assert.Equal(t, req.TagState, unchanged.TagState)
}

func TestUpdateFieldsReportsWrongTypes(t *testing.T) {
	f := newMaintenanceFixture(t)
	ctx := context.Background()
	req := f.file(t, f.tenantUser, f.unit.ID, "Leak")

	raw := map[string]json.RawMessage{
		"status":            json.RawMessage(`5`),
		"isHOAIssue":        json.RawMessage(`"yes"`),
		"priority":          json.RawMessage(`"NOW"`),
		"pendingTagRequest": json.RawMessage(`true`),
		"unknown":           json.RawMessage(`{}`),
	}
	_, err := f.uc.UpdateFields(ctx, req.ID, raw)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a string", verr.Fields["status"])
	assert.Equal(t, "must be a boolean", verr.Fields["isHOAIssue"])
	assert.Contains(t, verr.Fields, "priority")
	assert.NotContains(t, verr.Fields, "unknown")

	updated, err := f.uc.UpdateFields(ctx, req.ID, map[string]json.RawMessage{
		"status": json.RawMessage(`"SCHEDULED"`),
		"notes":  json.RawMessage(`"vendor booked"`),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusScheduled, updated.Status)
	assert.Equal(t, "vendor booked", updated.Notes)
}

func TestMaintenanceJSONFlags(t *testing.T) {
	req := entities.MaintenanceRequest{ID: 3, TagState: entities.TagPendingReview}
	b, err := req.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"pendingTagRequest":true`)
	assert.Contains(t, string(b), `"isHOAIssue":false`)
	assert.Contains(t, string(b), `"tagState":"PENDING_REVIEW"`)
}
