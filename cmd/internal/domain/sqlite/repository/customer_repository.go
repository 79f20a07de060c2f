package repository

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/domain/sqlite"
	"context"
	"errors"

	"gorm.io/gorm"
)

type DefaultCustomerRepository struct {
	db    *gorm.DB
	retry *sqlite.Retrier
}

func NewCustomerRepository(db *gorm.DB, retry *sqlite.Retrier) *DefaultCustomerRepository {
	return &DefaultCustomerRepository{db: db, retry: retry}
}

func (c *DefaultCustomerRepository) FindByID(ctx context.Context, id int) (*entity.Customer, error) {
	var customer entity.Customer
	err := c.retry.Do(ctx, "find customer", func(ctx context.Context) error {
		return c.db.WithContext(ctx).First(&customer, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *DefaultCustomerRepository) FindAll(ctx context.Context) ([]*entity.Customer, error) {
	var customers []*entity.Customer
	err := c.retry.Do(ctx, "find customers", func(ctx context.Context) error {
		customers = nil
		return c.db.WithContext(ctx).Order("id asc").Find(&customers).Error
	})
	return customers, err
}

func (c *DefaultCustomerRepository) Save(ctx context.Context, customer *entity.Customer) error {
	return c.retry.Do(ctx, "save customer", func(ctx context.Context) error {
		return c.db.WithContext(ctx).Save(customer).Error
	})
}

// Delete removes the customer together with all of its appointments.
func (c *DefaultCustomerRepository) Delete(ctx context.Context, customer *entity.Customer) error {
	return c.retry.Do(ctx, "delete customer", func(ctx context.Context) error {
		return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := tx.Where("customer_id = ?", customer.ID).Delete(&entity.Appointment{}).Error
			if err != nil {
				return err
			}
			return tx.Delete(customer).Error
		})
	})
}
