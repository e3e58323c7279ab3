package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"hoa-server/cache"
	"hoa-server/confs"
	"hoa-server/db/dbtest"
	"hoa-server/entities"
	"hoa-server/repositories"
	"hoa-server/services"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []entities.Notification
}

func (r *recordingNotifier) Enqueue(ns ...entities.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, ns...)
}

func (r *recordingNotifier) recipients() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, string(n.Channel)+":"+n.To)
	}
	return out
}

type recordingPublisher struct {
	mu        sync.Mutex
	events    []string
	audiences map[string][]uint
}

func (r *recordingPublisher) Publish(event string, _ interface{}, userIDs []uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if r.audiences == nil {
		r.audiences = make(map[string][]uint)
	}
	r.audiences[event] = userIDs
}

func newRepos(t *testing.T) *repositories.Repositories {
	t.Helper()
	return repositories.NewPgRepositories(dbtest.New(t))
}

func newTokens() *services.TokenService {
	return services.NewTokenService(confs.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}, cache.NewMemoryRevocations())
}

// seedUser stores a user with a placeholder hash; use AuthUseCase when the
// password has to work.
func seedUser(t *testing.T, repos *repositories.Repositories, email string, role entities.Role) *entities.User {
	t.Helper()
	u := &entities.User{Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func seedTenant(t *testing.T, repos *repositories.Repositories, email string) (*entities.User, *entities.Tenant) {
	t.Helper()
	u := seedUser(t, repos, email, entities.RoleTenant)
	tenant := &entities.Tenant{UserID: u.ID}
	require.NoError(t, repos.Tenants.Create(context.Background(), tenant))
	return u, tenant
}

func seedUnit(t *testing.T, repos *repositories.Repositories, propertyID uint, number string, ownerIDs ...uint) *entities.Unit {
	t.Helper()
	ctx := context.Background()
	unit := &entities.Unit{PropertyID: propertyID, UnitNumber: number, Status: entities.UnitVacant}
	require.NoError(t, repos.Units.Create(ctx, unit))
	for _, id := range ownerIDs {
		require.NoError(t, repos.Units.AddOwner(ctx, unit.ID, id))
	}
	return unit
}

func seedProperty(t *testing.T, repos *repositories.Repositories, title string, managerID *uint) *entities.Property {
	t.Helper()
	p := &entities.Property{Title: title, ManagerID: managerID}
	require.NoError(t, repos.Properties.Create(context.Background(), p))
	return p
}

func actorFor(u *entities.User) Actor {
	return Actor{UserID: u.ID, Email: u.Email, Role: u.Role}
}
