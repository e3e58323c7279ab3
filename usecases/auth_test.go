package usecases

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"hoa-server/entities"
	"hoa-server/repositories"
	"hoa-server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupRequiresWhitelistOrRole(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	auth := NewAuthUseCase(repos, newTokens())

	_, err := auth.Signup(ctx, SignupInput{Email: "stranger@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrUnauthorizedSignup)

	exists, err := repos.Users.EmailExists(ctx, "stranger@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSignupValidation(t *testing.T) {
	auth := NewAuthUseCase(newRepos(t), newTokens())

	_, err := auth.Signup(context.Background(), SignupInput{Email: "not-an-email"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")

	_, err = auth.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "pw", Role: "janitor"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "role")
}

func TestSignupConsumesWhitelistOnce(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	auth := NewAuthUseCase(repos, newTokens())
	require.NoError(t, repos.Whitelist.Upsert(ctx, "tina@example.com", entities.RoleTenant))

	user, err := auth.Signup(ctx, SignupInput{
		Email:     " Tina@Example.com ",
		Password:  "secret",
		FirstName: "Tina",
		LastName:  "Tenant",
	})
	require.NoError(t, err)
	assert.Equal(t, "tina@example.com", user.Email)
	assert.Equal(t, entities.RoleTenant, user.Role)
	assert.Equal(t, "Tina Tenant", user.Name)
	require.NotNil(t, user.Tenant)

	tenant, err := repos.Tenants.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Tenant.ID, tenant.ID)

	_, err = repos.Whitelist.GetByEmail(ctx, "tina@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = auth.Signup(ctx, SignupInput{Email: "tina@example.com", Password: "again"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestSignupTenantOccupiesUnits(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	auth := NewAuthUseCase(repos, newTokens())
	property := seedProperty(t, repos, "Maple Court", nil)
	unit := seedUnit(t, repos, property.ID, "1A")

	user, err := auth.Signup(ctx, SignupInput{Email: "t@example.com", Password: "pw", Role: "tenant", UnitIDs: []uint{unit.ID}})
	require.NoError(t, err)

	got, err := repos.Units.GetByID(ctx, unit.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TenantID)
	assert.Equal(t, user.Tenant.ID, *got.TenantID)
	assert.Equal(t, entities.UnitOccupied, got.Status)
}

func TestSignupWithUnknownUnitRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	auth := NewAuthUseCase(repos, newTokens())
	require.NoError(t, repos.Whitelist.Upsert(ctx, "o@example.com", entities.RoleOwner))

	_, err := auth.Signup(ctx, SignupInput{Email: "o@example.com", Password: "pw", UnitIDs: []uint{999}})
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := repos.Users.EmailExists(ctx, "o@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
	_, err = repos.Whitelist.GetByEmail(ctx, "o@example.com")
	assert.NoError(t, err, "whitelist entry must survive a failed signup")
}

func TestOverwriteCodeTakeover(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	auth := NewAuthUseCase(repos, newTokens())
	admin := NewAdminUseCase(repos)

	previous := seedUser(t, repos, "old.owner@example.com", entities.RoleOwner)
	property := seedProperty(t, repos, "Birch Row", nil)
	unitA := seedUnit(t, repos, property.ID, "1", previous.ID)
	unitB := seedUnit(t, repos, property.ID, "2", previous.ID)

	code, err := admin.GenerateOverwriteCode(ctx, GenerateCodeInput{PropertyID: &property.ID, AllUnits: true})
	require.NoError(t, err)
	assert.Len(t, code.Code, 16)
	assert.WithinDuration(t, time.Now().Add(15*24*time.Hour), code.ExpiresAt, time.Minute)

	user, err := auth.Signup(ctx, SignupInput{Email: "new.owner@example.com", Password: "newpass", Role: "OWNER", Code: code.Code})
	require.NoError(t, err)

	for _, id := range []uint{unitA.ID, unitB.ID} {
		unit, err := repos.Units.GetByID(ctx, id)
		require.NoError(t, err)
		require.Len(t, unit.Owners, 1)
		assert.Equal(t, user.ID, unit.Owners[0].ID)
	}

	displaced, err := repos.Users.GetByID(ctx, previous.ID)
	require.NoError(t, err)
	assert.Equal(t, "new.owner+displaced"+uintString(previous.ID)+"@example.com", displaced.Email)
	assert.Equal(t, user.PasswordHash, displaced.PasswordHash)
	assert.True(t, services.CheckPassword(displaced.PasswordHash, "newpass"))

	_, err = repos.OverwriteCodes.FindUsable(ctx, code.Code, time.Now())
	assert.ErrorIs(t, err, repositories.ErrNotFound, "code must be marked used")

	_, err = auth.Signup(ctx, SignupInput{Email: "third@example.com", Password: "pw", Role: "OWNER", Code: code.Code})
	assert.ErrorIs(t, err, ErrInvalidCode)
	exists, err := repos.Users.EmailExists(ctx, "third@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOverwriteCodeRestrictsUnits(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	auth := NewAuthUseCase(repos, newTokens())
	admin := NewAdminUseCase(repos)
	property := seedProperty(t, repos, "Cedar", nil)
	covered := seedUnit(t, repos, property.ID, "1")
	other := seedUnit(t, repos, property.ID, "2")

	code, err := admin.GenerateOverwriteCode(ctx, GenerateCodeInput{UnitIDs: []uint{covered.ID}})
	require.NoError(t, err)

	_, err = auth.Signup(ctx, SignupInput{Email: "x@example.com", Password: "pw", Role: "OWNER", Code: code.Code, UnitIDs: []uint{other.ID}})
	assert.ErrorIs(t, err, ErrInvalidCode)

	// the failed attempt did not burn the code
	user, err := auth.Signup(ctx, SignupInput{Email: "x@example.com", Password: "pw", Role: "OWNER", Code: code.Code, UnitIDs: []uint{covered.ID}})
	require.NoError(t, err)
	unit, err := repos.Units.GetByID(ctx, covered.ID)
	require.NoError(t, err)
	require.Len(t, unit.Owners, 1)
	assert.Equal(t, user.ID, unit.Owners[0].ID)
}

func TestExpiredOrUsedCodeCreatesNoUser(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	auth := NewAuthUseCase(repos, newTokens())
	property := seedProperty(t, repos, "Elm", nil)
	unit := seedUnit(t, repos, property.ID, "1")
	require.NoError(t, repos.Whitelist.Upsert(ctx, "late@example.com", entities.RoleOwner))

	expired := &entities.OverwriteCode{Code: "expired-code", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repos.OverwriteCodes.Create(ctx, expired, []uint{unit.ID}))
	used := &entities.OverwriteCode{Code: "used-code", ExpiresAt: time.Now().Add(time.Hour), Used: true}
	require.NoError(t, repos.OverwriteCodes.Create(ctx, used, []uint{unit.ID}))

	for _, code := range []string{"expired-code", "used-code", "no-such-code"} {
		_, err := auth.Signup(ctx, SignupInput{Email: "late@example.com", Password: "pw", Code: code})
		assert.ErrorIs(t, err, ErrInvalidCode, code)

		exists, err := repos.Users.EmailExists(ctx, "late@example.com")
		require.NoError(t, err)
		assert.False(t, exists, code)
	}

	_, err := repos.Whitelist.GetByEmail(ctx, "late@example.com")
	require.NoError(t, err, "whitelist entry is restored by the rollback")

	// retrying with a fresh code succeeds cleanly
	fresh := &entities.OverwriteCode{Code: "fresh-code", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repos.OverwriteCodes.Create(ctx, fresh, []uint{unit.ID}))
	user, err := auth.Signup(ctx, SignupInput{Email: "late@example.com", Password: "pw", Code: "fresh-code"})
	require.NoError(t, err)
	assert.Equal(t, entities.RoleOwner, user.Role)
}

func TestLoginAndRefreshRotation(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	auth := NewAuthUseCase(repos, newTokens())

	admin, created, err := auth.EnsureAdmin(ctx, "Admin@Example.com", "hunter2")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entities.RoleAdmin, admin.Role)

	again, created, err := auth.EnsureAdmin(ctx, "admin@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	_, err = auth.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	pair, err := auth.Login(ctx, "ADMIN@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	rotated, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "a rotated refresh token cannot be replayed")

	_, err = auth.Refresh(ctx, rotated.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "access tokens are not refresh tokens")

	_, err = auth.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestDisplacedEmail(t *testing.T) {
	assert.Equal(t, "jane+displaced7@example.com", displacedEmail("jane@example.com", 7))
	assert.Equal(t, "jane+displaced7", displacedEmail("jane", 7))
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestConcurrentRefreshIsSingleUse(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	auth := NewAuthUseCase(repos, newTokens())
	_, _, err := auth.EnsureAdmin(ctx, "admin@example.com", "hunter2")
	require.NoError(t, err)
	pair, err := auth.Login(ctx, "admin@example.com", "hunter2")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := auth.Refresh(ctx, pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	}
	assert.Equal(t, 1, succeeded)
}
