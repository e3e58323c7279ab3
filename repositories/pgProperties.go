package repositories

import (
	"context"

	"hoa-server/db"
	"hoa-server/entities"
)

type propertyPgRepository struct {
	db db.Database
}

func NewPropertyPgRepository(database db.Database) PropertyRepository {
	return &propertyPgRepository{db: database}
}

// Create inserts the property together with any units attached to it.
func (r *propertyPgRepository) Create(ctx context.Context, property *entities.Property) error {
	return translate(r.db.GetDB().WithContext(ctx).Create(property).Error)
}

func (r *propertyPgRepository) GetByID(ctx context.Context, id uint) (*entities.Property, error) {
	var property entities.Property
	err := r.db.GetDB().WithContext(ctx).Preload("Units").Preload("Units.Owners").First(&property, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &property, nil
}

func (r *propertyPgRepository) GetAll(ctx context.Context) ([]entities.Property, error) {
	var properties []entities.Property
	err := r.db.GetDB().WithContext(ctx).Preload("Units").Order("created_at DESC").Find(&properties).Error
	return properties, err
}

func (r *propertyPgRepository) GetByManagerID(ctx context.Context, managerID uint) ([]entities.Property, error) {
	var properties []entities.Property
	err := r.db.GetDB().WithContext(ctx).Preload("Units").
		Where("manager_id = ?", managerID).Order("title ASC").Find(&properties).Error
	return properties, err
}

func (r *propertyPgRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*entities.Property, error) {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.Property{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	return r.GetByID(ctx, id)
}

func (r *propertyPgRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.GetDB().WithContext(ctx).Delete(&entities.Property{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
