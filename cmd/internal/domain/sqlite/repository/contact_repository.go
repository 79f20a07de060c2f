package repository

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/domain/sqlite"
	"context"
	"errors"

	"gorm.io/gorm"
)

type DefaultContactRepository struct {
	db    *gorm.DB
	retry *sqlite.Retrier
}

func NewContactRepository(db *gorm.DB, retry *sqlite.Retrier) *DefaultContactRepository {
	return &DefaultContactRepository{db: db, retry: retry}
}

func (r *DefaultContactRepository) FindByID(ctx context.Context, id int) (*entity.Contact, error) {
	var contact entity.Contact
	err := r.retry.Do(ctx, "find contact", func(ctx context.Context) error {
		return r.db.WithContext(ctx).First(&contact, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *DefaultContactRepository) FindAll(ctx context.Context) ([]*entity.Contact, error) {
	var contacts []*entity.Contact
	err := r.retry.Do(ctx, "find contacts", func(ctx context.Context) error {
		contacts = nil
		return r.db.WithContext(ctx).Order("name asc").Find(&contacts).Error
	})
	return contacts, err
}
