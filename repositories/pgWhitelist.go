package repositories

import (
	"context"

	"hoa-server/db"
	"hoa-server/entities"

	"gorm.io/gorm/clause"
)

type whitelistPgRepository struct {
	db db.Database
}

func NewWhitelistPgRepository(database db.Database) WhitelistRepository {
	return &whitelistPgRepository{db: database}
}

func (r *whitelistPgRepository) GetByEmail(ctx context.Context, email string) (*entities.WhitelistedUser, error) {
	var entry entities.WhitelistedUser
	err := r.db.GetDB().WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&entry).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *whitelistPgRepository) GetAll(ctx context.Context) ([]entities.WhitelistedUser, error) {
	var entries []entities.WhitelistedUser
	err := r.db.GetDB().WithContext(ctx).Order("email ASC").Find(&entries).Error
	return entries, err
}

func (r *whitelistPgRepository) Upsert(ctx context.Context, email string, role entities.Role) error {
	entry := entities.WhitelistedUser{Email: normalizeEmail(email), Role: role}
	return r.db.GetDB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(&entry).Error
}

func (r *whitelistPgRepository) Delete(ctx context.Context, id uint) error {
	return r.db.GetDB().WithContext(ctx).Delete(&entities.WhitelistedUser{}, id).Error
}
