package repositories

import (
	"context"

	"hoa-server/db"
	"hoa-server/entities"
)

type contactPgRepository struct {
	db db.Database
}

func NewContactPgRepository(database db.Database) ContactRepository {
	return &contactPgRepository{db: database}
}

func (r *contactPgRepository) Create(ctx context.Context, req *entities.ContactRequest) error {
	return r.db.GetDB().WithContext(ctx).Create(req).Error
}
