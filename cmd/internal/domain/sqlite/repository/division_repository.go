package repository

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/domain/sqlite"
	"context"
	"errors"

	"gorm.io/gorm"
)

type DefaultDivisionRepository struct {
	db    *gorm.DB
	retry *sqlite.Retrier
}

func NewDivisionRepository(db *gorm.DB, retry *sqlite.Retrier) *DefaultDivisionRepository {
	return &DefaultDivisionRepository{db: db, retry: retry}
}

func (d *DefaultDivisionRepository) FindByID(ctx context.Context, id int) (*entity.Division, error) {
	var division entity.Division
	err := d.retry.Do(ctx, "find division", func(ctx context.Context) error {
		return d.db.WithContext(ctx).First(&division, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &division, nil
}

func (d *DefaultDivisionRepository) FindByCountryID(ctx context.Context, countryID int) ([]*entity.Division, error) {
	var divisions []*entity.Division
	err := d.retry.Do(ctx, "find divisions", func(ctx context.Context) error {
		divisions = nil
		return d.db.WithContext(ctx).Where("country_id = ?", countryID).Order("name asc").Find(&divisions).Error
	})
	return divisions, err
}

func (d *DefaultDivisionRepository) FindAllCountries(ctx context.Context) ([]*entity.Country, error) {
	var countries []*entity.Country
	err := d.retry.Do(ctx, "find countries", func(ctx context.Context) error {
		countries = nil
		return d.db.WithContext(ctx).Order("id asc").Find(&countries).Error
	})
	return countries, err
}
