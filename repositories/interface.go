package repositories

import (
	"context"
	"time"

	"hoa-server/entities"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateCredentials(ctx context.Context, id uint, email, passwordHash, salt string) error
	UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) (*entities.User, error)
	Delete(ctx context.Context, id uint) error
}

type WhitelistRepository interface {
	GetByEmail(ctx context.Context, email string) (*entities.WhitelistedUser, error)
	GetAll(ctx context.Context) ([]entities.WhitelistedUser, error)
	Upsert(ctx context.Context, email string, role entities.Role) error
	Delete(ctx context.Context, id uint) error
}

type TenantRepository interface {
	Create(ctx context.Context, tenant *entities.Tenant) error
	GetByID(ctx context.Context, id uint) (*entities.Tenant, error)
	GetByUserID(ctx context.Context, userID uint) (*entities.Tenant, error)
	GetAll(ctx context.Context) ([]entities.Tenant, error)
	Delete(ctx context.Context, id uint) error
}

type PropertyRepository interface {
	Create(ctx context.Context, property *entities.Property) error
	GetByID(ctx context.Context, id uint) (*entities.Property, error)
	GetAll(ctx context.Context) ([]entities.Property, error)
	GetByManagerID(ctx context.Context, managerID uint) ([]entities.Property, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*entities.Property, error)
	Delete(ctx context.Context, id uint) error
}

type UnitRepository interface {
	Create(ctx context.Context, unit *entities.Unit) error
	GetByID(ctx context.Context, id uint) (*entities.Unit, error)
	GetAll(ctx context.Context) ([]entities.Unit, error)
	GetByPropertyID(ctx context.Context, propertyID uint) ([]entities.Unit, error)
	IDsByPropertyID(ctx context.Context, propertyID uint) ([]uint, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*entities.Unit, error)
	Delete(ctx context.Context, id uint) error
	SetTenant(ctx context.Context, unitID, tenantID uint) error
	AddOwner(ctx context.Context, unitID, userID uint) error
	ReplaceOwners(ctx context.Context, unitID uint, userIDs ...uint) error
}

// MaintenanceFilter narrows a maintenance listing. Zero fields are ignored.
type MaintenanceFilter struct {
	UnitID     uint
	ReporterID uint
	// OwnedBy keeps only requests on units that have this user as an owner.
	OwnedBy uint
}

type MaintenanceRepository interface {
	Create(ctx context.Context, req *entities.MaintenanceRequest) error
	GetByID(ctx context.Context, id uint) (*entities.MaintenanceRequest, error)
	List(ctx context.Context, filter MaintenanceFilter) ([]entities.MaintenanceRequest, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*entities.MaintenanceRequest, error)
	SetTagState(ctx context.Context, id uint, state entities.TagState) error
	Delete(ctx context.Context, id uint) error
	// Link inserts the given edges, skipping pairs that already exist, and
	// returns how many were created.
	Link(ctx context.Context, links []entities.LinkedRequest) (int, error)
	GetLinks(ctx context.Context, requestID uint) ([]entities.LinkedRequest, error)
}

type OverwriteCodeRepository interface {
	Create(ctx context.Context, code *entities.OverwriteCode, unitIDs []uint) error
	// FindUsable returns the unused code valid at now.
	FindUsable(ctx context.Context, code string, now time.Time) (*entities.OverwriteCode, error)
	// MarkUsed flips the used flag only if it is still unset; it returns
	// ErrNotFound when another redemption got there first.
	MarkUsed(ctx context.Context, id, userID uint) error
}

type PaymentRepository interface {
	CrudRepository[entities.Payment]
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

type ContactRepository interface {
	Create(ctx context.Context, req *entities.ContactRequest) error
}

// CrudRepository covers the plain record-keeping entities.
type CrudRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id uint) (*T, error)
	GetAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*T, error)
	Delete(ctx context.Context, id uint) error
}
