package repositories

import (
	"context"

	"hoa-server/db"
	"hoa-server/entities"
)

type tenantPgRepository struct {
	db db.Database
}

func NewTenantPgRepository(database db.Database) TenantRepository {
	return &tenantPgRepository{db: database}
}

func (r *tenantPgRepository) Create(ctx context.Context, tenant *entities.Tenant) error {
	return translate(r.db.GetDB().WithContext(ctx).Create(tenant).Error)
}

func (r *tenantPgRepository) GetByID(ctx context.Context, id uint) (*entities.Tenant, error) {
	var tenant entities.Tenant
	if err := r.db.GetDB().WithContext(ctx).Preload("User").Preload("Units").First(&tenant, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

func (r *tenantPgRepository) GetByUserID(ctx context.Context, userID uint) (*entities.Tenant, error) {
	var tenant entities.Tenant
	if err := r.db.GetDB().WithContext(ctx).Where("user_id = ?", userID).First(&tenant).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

func (r *tenantPgRepository) GetAll(ctx context.Context) ([]entities.Tenant, error) {
	var tenants []entities.Tenant
	err := r.db.GetDB().WithContext(ctx).Preload("User").Preload("Units").Order("created_at DESC").Find(&tenants).Error
	return tenants, err
}

func (r *tenantPgRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.GetDB().WithContext(ctx).Delete(&entities.Tenant{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
