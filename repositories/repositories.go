package repositories

import (
	"context"

	"hoa-server/db"
	"hoa-server/entities"
)

// Repositories bundles every repository bound to one database handle.
type Repositories struct {
	db db.Database

	Users          UserRepository
	Whitelist      WhitelistRepository
	Tenants        TenantRepository
	Properties     PropertyRepository
	Units          UnitRepository
	Maintenance    MaintenanceRepository
	OverwriteCodes OverwriteCodeRepository
	Vendors        CrudRepository[entities.Vendor]
	Leases         CrudRepository[entities.Lease]
	Payments       PaymentRepository
	Expenses       CrudRepository[entities.Expense]
	Messages       CrudRepository[entities.Message]
	Contacts       ContactRepository
}

func NewPgRepositories(database db.Database) *Repositories {
	return &Repositories{
		db:             database,
		Users:          NewUserPgRepository(database),
		Whitelist:      NewWhitelistPgRepository(database),
		Tenants:        NewTenantPgRepository(database),
		Properties:     NewPropertyPgRepository(database),
		Units:          NewUnitPgRepository(database),
		Maintenance:    NewMaintenancePgRepository(database),
		OverwriteCodes: NewOverwriteCodePgRepository(database),
		Vendors:        NewCrudPgRepository[entities.Vendor](database, "name ASC"),
		Leases:         NewCrudPgRepository[entities.Lease](database, "start_date DESC", "Unit", "Tenant", "Tenant.User"),
		Payments:       NewPaymentPgRepository(database),
		Expenses:       NewCrudPgRepository[entities.Expense](database, "incurred_on DESC", "Property"),
		Messages:       NewCrudPgRepository[entities.Message](database, "created_at DESC", "Sender", "Recipient"),
		Contacts:       NewContactPgRepository(database),
	}
}

// Transaction runs fn with repositories bound to a single transaction.
// Every call inside fn must go through tx; an error rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.Transaction(ctx, func(txdb db.Database) error {
		return fn(NewPgRepositories(txdb))
	})
}
