package repositories

import (
	"context"

	"hoa-server/db"
	"hoa-server/entities"

	"gorm.io/gorm"
)

type maintenancePgRepository struct {
	db db.Database
}

func NewMaintenancePgRepository(database db.Database) MaintenanceRepository {
	return &maintenancePgRepository{db: database}
}

func (r *maintenancePgRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.GetDB().WithContext(ctx).
		Preload("Unit").
		Preload("Unit.Owners").
		Preload("Reporter").
		Preload("Reporter.User").
		Preload("Owner").
		Preload("Vendor")
}

func (r *maintenancePgRepository) Create(ctx context.Context, req *entities.MaintenanceRequest) error {
	return translate(r.db.GetDB().WithContext(ctx).Create(req).Error)
}

func (r *maintenancePgRepository) GetByID(ctx context.Context, id uint) (*entities.MaintenanceRequest, error) {
	var req entities.MaintenanceRequest
	if err := r.withRelations(ctx).First(&req, id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

// List returns matching requests, newest first.
func (r *maintenancePgRepository) List(ctx context.Context, filter MaintenanceFilter) ([]entities.MaintenanceRequest, error) {
	q := r.withRelations(ctx)
	if filter.UnitID != 0 {
		q = q.Where("unit_id = ?", filter.UnitID)
	}
	if filter.ReporterID != 0 {
		q = q.Where("reporter_id = ?", filter.ReporterID)
	}
	if filter.OwnedBy != 0 {
		q = q.Where("unit_id IN (SELECT unit_id FROM unit_owners WHERE user_id = ?)", filter.OwnedBy)
	}
	var reqs []entities.MaintenanceRequest
	err := q.Order("created_at DESC").Order("id DESC").Find(&reqs).Error
	return reqs, err
}

func (r *maintenancePgRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*entities.MaintenanceRequest, error) {
	if len(updates) > 0 {
		res := r.db.GetDB().WithContext(ctx).Model(&entities.MaintenanceRequest{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *maintenancePgRepository) SetTagState(ctx context.Context, id uint, state entities.TagState) error {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.MaintenanceRequest{}).
		Where("id = ?", id).Update("tag_state", state)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *maintenancePgRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.GetDB().WithContext(ctx).Delete(&entities.MaintenanceRequest{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Link treats an edge as undirected: (a,b) is skipped when (a,b) or (b,a)
// is already stored.
func (r *maintenancePgRepository) Link(ctx context.Context, links []entities.LinkedRequest) (int, error) {
	created := 0
	err := r.db.Transaction(ctx, func(tx db.Database) error {
		for i := range links {
			link := links[i]
			var count int64
			err := tx.GetDB().Model(&entities.LinkedRequest{}).
				Where("(request_a_id = ? AND request_b_id = ?) OR (request_a_id = ? AND request_b_id = ?)",
					link.RequestAID, link.RequestBID, link.RequestBID, link.RequestAID).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.GetDB().Create(&link).Error; err != nil {
				return translate(err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (r *maintenancePgRepository) GetLinks(ctx context.Context, requestID uint) ([]entities.LinkedRequest, error) {
	var links []entities.LinkedRequest
	err := r.db.GetDB().WithContext(ctx).
		Where("request_a_id = ? OR request_b_id = ?", requestID, requestID).
		Order("id").Find(&links).Error
	return links, err
}
