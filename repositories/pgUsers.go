package repositories

import (
	"context"
	"strings"

	"hoa-server/db"
	"hoa-server/entities"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(ctx context.Context, user *entities.User) error {
	user.Email = normalizeEmail(user.Email)
	return translate(r.db.GetDB().WithContext(ctx).Create(user).Error)
}

func (r *userPgRepository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().WithContext(ctx).Preload("Tenant").First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userPgRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userPgRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.GetDB().WithContext(ctx).Model(&entities.User{}).
		Where("email = ?", normalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

func (r *userPgRepository) UpdateCredentials(ctx context.Context, id uint, email, passwordHash, salt string) error {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"email":    normalizeEmail(email),
		"password": passwordHash,
		"salt":     salt,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userPgRepository) UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) (*entities.User, error) {
	if len(updates) > 0 {
		res := r.db.GetDB().WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *userPgRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.GetDB().WithContext(ctx).Delete(&entities.User{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
