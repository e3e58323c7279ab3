package repositories

import (
	"context"

	"hoa-server/db"

	"gorm.io/gorm/clause"
)

// crudPgRepository is the shared implementation behind the record-keeping
// resources (vendors, leases, expenses, messages).
type crudPgRepository[T any] struct {
	db       db.Database
	preloads []string
	order    string
}

func NewCrudPgRepository[T any](database db.Database, order string, preloads ...string) CrudRepository[T] {
	return &crudPgRepository[T]{db: database, preloads: preloads, order: order}
}

func (r *crudPgRepository[T]) Create(ctx context.Context, item *T) error {
	return translate(r.db.GetDB().WithContext(ctx).Omit(clause.Associations).Create(item).Error)
}

func (r *crudPgRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var item T
	q := r.db.GetDB().WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	if err := q.First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *crudPgRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	var items []T
	q := r.db.GetDB().WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	if r.order != "" {
		q = q.Order(r.order)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *crudPgRepository[T]) Update(ctx context.Context, id uint, updates map[string]interface{}) (*T, error) {
	var model T
	res := r.db.GetDB().WithContext(ctx).Model(&model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *crudPgRepository[T]) Delete(ctx context.Context, id uint) error {
	var model T
	res := r.db.GetDB().WithContext(ctx).Delete(&model, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
