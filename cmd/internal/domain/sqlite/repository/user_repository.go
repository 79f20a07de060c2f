package repository

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/domain/sqlite"
	"context"
	"errors"

	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db    *gorm.DB
	retry *sqlite.Retrier
}

func NewUserRepository(db *gorm.DB, retry *sqlite.Retrier) *DefaultUserRepository {
	return &DefaultUserRepository{db: db, retry: retry}
}

func (u *DefaultUserRepository) FindByID(ctx context.Context, id int) (*entity.User, error) {
	var user entity.User
	err := u.retry.Do(ctx, "find user", func(ctx context.Context) error {
		return u.db.WithContext(ctx).First(&user, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := u.retry.Do(ctx, "find user by username", func(ctx context.Context) error {
		return u.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	err := u.retry.Do(ctx, "find users", func(ctx context.Context) error {
		users = nil
		return u.db.WithContext(ctx).Order("username asc").Find(&users).Error
	})
	return users, err
}
