package repositories

import (
	"context"
	"time"

	"hoa-server/db"
	"hoa-server/entities"
)

type paymentPgRepository struct {
	CrudRepository[entities.Payment]
	db db.Database
}

func NewPaymentPgRepository(database db.Database) PaymentRepository {
	return &paymentPgRepository{
		CrudRepository: NewCrudPgRepository[entities.Payment](database, "due_date DESC"),
		db:             database,
	}
}

// MarkOverdue flags every pending payment whose due date is before now.
func (r *paymentPgRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.Payment{}).
		Where("status = ? AND due_date < ?", entities.PaymentPending, now).
		Update("status", entities.PaymentOverdue)
	return res.RowsAffected, res.Error
}
