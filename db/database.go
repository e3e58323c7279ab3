package db

import (
	"context"

	"gorm.io/gorm"
)

type Database interface {
	GetDB() *gorm.DB
	// Transaction runs fn against a transactional handle; any error rolls
	// back every write made through it.
	Transaction(ctx context.Context, fn func(tx Database) error) error
}

type GormDatabase struct {
	DB *gorm.DB
}

func (g *GormDatabase) GetDB() *gorm.DB { return g.DB }

func (g *GormDatabase) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormDatabase{DB: tx})
	})
}
