package services

import (
	"context"

	"gorm.io/gorm"
)

// Accessor performs one backend round trip per call. It never retries and never caches.
type Accessor struct {
	db       *gorm.DB
	pageSize int
}

func NewAccessor(db *gorm.DB, pageSize int) *Accessor {
	return &Accessor{db: db, pageSize: pageSize}
}

func (v *Accessor) conn(ctx context.Context) *gorm.DB {
	return v.db.WithContext(ctx)
}
