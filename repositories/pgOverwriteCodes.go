package repositories

import (
	"context"
	"time"

	"hoa-server/db"
	"hoa-server/entities"
)

type overwriteCodePgRepository struct {
	db db.Database
}

func NewOverwriteCodePgRepository(database db.Database) OverwriteCodeRepository {
	return &overwriteCodePgRepository{db: database}
}

func (r *overwriteCodePgRepository) Create(ctx context.Context, code *entities.OverwriteCode, unitIDs []uint) error {
	units := make([]entities.Unit, 0, len(unitIDs))
	for _, id := range unitIDs {
		units = append(units, entities.Unit{ID: id})
	}
	return r.db.Transaction(ctx, func(tx db.Database) error {
		if err := tx.GetDB().Omit("Units").Create(code).Error; err != nil {
			return translate(err)
		}
		rows := make([]map[string]interface{}, 0, len(units))
		for _, u := range units {
			rows = append(rows, map[string]interface{}{"overwrite_code_id": code.ID, "unit_id": u.ID})
		}
		if len(rows) > 0 {
			if err := tx.GetDB().Table("overwrite_code_units").Create(rows).Error; err != nil {
				return translate(err)
			}
		}
		code.Units = units
		return nil
	})
}

func (r *overwriteCodePgRepository) FindUsable(ctx context.Context, code string, now time.Time) (*entities.OverwriteCode, error) {
	var oc entities.OverwriteCode
	err := r.db.GetDB().WithContext(ctx).Preload("Units").
		Where("code = ? AND used = ? AND expires_at > ?", code, false, now).
		First(&oc).Error
	if err != nil {
		return nil, translate(err)
	}
	return &oc, nil
}

func (r *overwriteCodePgRepository) MarkUsed(ctx context.Context, id, userID uint) error {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.OverwriteCode{}).
		Where("id = ? AND used = ?", id, false).
		Updates(map[string]interface{}{"used": true, "used_by_id": userID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
