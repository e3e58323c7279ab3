package repositories

import (
	"context"

	"hoa-server/db"
	"hoa-server/entities"

	"gorm.io/gorm/clause"
)

type unitPgRepository struct {
	db db.Database
}

func NewUnitPgRepository(database db.Database) UnitRepository {
	return &unitPgRepository{db: database}
}

func (r *unitPgRepository) Create(ctx context.Context, unit *entities.Unit) error {
	return translate(r.db.GetDB().WithContext(ctx).Create(unit).Error)
}

func (r *unitPgRepository) GetByID(ctx context.Context, id uint) (*entities.Unit, error) {
	var unit entities.Unit
	err := r.db.GetDB().WithContext(ctx).Preload("Owners").Preload("Tenant").First(&unit, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &unit, nil
}

func (r *unitPgRepository) GetAll(ctx context.Context) ([]entities.Unit, error) {
	var units []entities.Unit
	err := r.db.GetDB().WithContext(ctx).Preload("Owners").Order("property_id, unit_number").Find(&units).Error
	return units, err
}

func (r *unitPgRepository) GetByPropertyID(ctx context.Context, propertyID uint) ([]entities.Unit, error) {
	var units []entities.Unit
	err := r.db.GetDB().WithContext(ctx).Preload("Owners").Preload("Tenant").
		Where("property_id = ?", propertyID).Order("unit_number").Find(&units).Error
	return units, err
}

func (r *unitPgRepository) IDsByPropertyID(ctx context.Context, propertyID uint) ([]uint, error) {
	var ids []uint
	err := r.db.GetDB().WithContext(ctx).Model(&entities.Unit{}).
		Where("property_id = ?", propertyID).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func (r *unitPgRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*entities.Unit, error) {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.Unit{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	return r.GetByID(ctx, id)
}

func (r *unitPgRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.GetDB().WithContext(ctx).Delete(&entities.Unit{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTenant points the unit at a tenant and marks it occupied.
func (r *unitPgRepository) SetTenant(ctx context.Context, unitID, tenantID uint) error {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.Unit{}).Where("id = ?", unitID).Updates(map[string]interface{}{
		"tenant_id": tenantID,
		"status":    entities.UnitOccupied,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *unitPgRepository) AddOwner(ctx context.Context, unitID, userID uint) error {
	if err := r.exists(ctx, unitID); err != nil {
		return err
	}
	return r.insertOwners(ctx, unitID, []uint{userID})
}

// ReplaceOwners leaves the unit with exactly the given owner set.
func (r *unitPgRepository) ReplaceOwners(ctx context.Context, unitID uint, userIDs ...uint) error {
	if err := r.exists(ctx, unitID); err != nil {
		return err
	}
	if err := r.db.GetDB().WithContext(ctx).Exec("DELETE FROM unit_owners WHERE unit_id = ?", unitID).Error; err != nil {
		return err
	}
	return r.insertOwners(ctx, unitID, userIDs)
}

func (r *unitPgRepository) insertOwners(ctx context.Context, unitID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, map[string]interface{}{"unit_id": unitID, "user_id": id})
	}
	err := r.db.GetDB().WithContext(ctx).Table("unit_owners").
		Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
	return translate(err)
}

func (r *unitPgRepository) exists(ctx context.Context, unitID uint) error {
	var count int64
	if err := r.db.GetDB().WithContext(ctx).Model(&entities.Unit{}).Where("id = ?", unitID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
