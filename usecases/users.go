package usecases

import (
	"context"
	"errors"

	"hoa-server/entities"
	"hoa-server/repositories"
)

var profileFields = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"name":      "name",
	"phone":     "phone",
	"street":    "street",
	"city":      "city",
	"state":     "state",
	"zip":       "zip",
	"country":   "country",
}

type UserUseCase struct {
	repos *repositories.Repositories
}

func NewUserUseCase(repos *repositories.Repositories) *UserUseCase {
	return &UserUseCase{repos: repos}
}

func (uc *UserUseCase) Me(ctx context.Context, actor Actor) (*entities.User, error) {
	u, err := uc.repos.Users.GetByID(ctx, actor.UserID)
	return u, notFound(err)
}

// UpdateProfile patches contact fields only; email, password and role
// cannot be changed here.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, actor Actor, patch map[string]interface{}) (*entities.User, error) {
	updates, err := allowList(patch, profileFields)
	if err != nil {
		return nil, err
	}
	u, err := uc.repos.Users.UpdateProfile(ctx, actor.UserID, updates)
	return u, notFound(err)
}

func (uc *UserUseCase) Delete(ctx context.Context, actor Actor) error {
	return notFound(uc.repos.Users.Delete(ctx, actor.UserID))
}

type TenantUseCase struct {
	repos *repositories.Repositories
}

func NewTenantUseCase(repos *repositories.Repositories) *TenantUseCase {
	return &TenantUseCase{repos: repos}
}

func (uc *TenantUseCase) List(ctx context.Context) ([]entities.Tenant, error) {
	return uc.repos.Tenants.GetAll(ctx)
}

func (uc *TenantUseCase) Get(ctx context.Context, id uint) (*entities.Tenant, error) {
	t, err := uc.repos.Tenants.GetByID(ctx, id)
	return t, notFound(err)
}

// Create attaches a tenant profile to an existing TENANT user.
func (uc *TenantUseCase) Create(ctx context.Context, userID uint) (*entities.Tenant, error) {
	user, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	if user.Role != entities.RoleTenant {
		return nil, &ValidationError{Fields: map[string]string{"userId": "user is not a TENANT"}}
	}
	tenant := &entities.Tenant{UserID: userID}
	if err := uc.repos.Tenants.Create(ctx, tenant); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, &ValidationError{Fields: map[string]string{"userId": "user already has a tenant profile"}}
		}
		return nil, err
	}
	return uc.repos.Tenants.GetByID(ctx, tenant.ID)
}

// AssignUnit makes the tenant the occupant of a unit.
func (uc *TenantUseCase) AssignUnit(ctx context.Context, tenantID, unitID uint) (*entities.Tenant, error) {
	if _, err := uc.repos.Tenants.GetByID(ctx, tenantID); err != nil {
		return nil, notFound(err)
	}
	if err := uc.repos.Units.SetTenant(ctx, unitID, tenantID); err != nil {
		return nil, unitErr(err)
	}
	return uc.repos.Tenants.GetByID(ctx, tenantID)
}

func (uc *TenantUseCase) Delete(ctx context.Context, id uint) error {
	return notFound(uc.repos.Tenants.Delete(ctx, id))
}
