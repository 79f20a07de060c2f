package sqlite

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/utils"
	"fmt"

	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedActor = "script"

// Seed fills an empty database with the reference countries, divisions,
// contacts and two users (test/test and admin/admin). It does nothing when
// any user already exists.
func Seed(db *gorm.DB) error {
	var users int64
	if err := db.Model(&entity.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		countries := []*entity.Country{
			{ID: 1, Name: "U.S"},
			{ID: 2, Name: "UK"},
			{ID: 3, Name: "Canada"},
		}
		if err := tx.Create(countries).Error; err != nil {
			return fmt.Errorf("seeding countries: %w", err)
		}

		divisions := []*entity.Division{
			{ID: 1, CountryID: 1, Name: "Alabama"},
			{ID: 29, CountryID: 1, Name: "New York"},
			{ID: 31, CountryID: 1, Name: "Texas"},
			{ID: 101, CountryID: 2, Name: "England"},
			{ID: 103, CountryID: 2, Name: "Scotland"},
			{ID: 60, CountryID: 3, Name: "Ontario"},
			{ID: 61, CountryID: 3, Name: "Québec"},
		}
		if err := tx.Create(divisions).Error; err != nil {
			return fmt.Errorf("seeding divisions: %w", err)
		}

		contacts := []*entity.Contact{
			{Name: "Anika Costa", Email: "acoasta@company.com"},
			{Name: "Daniel Garcia", Email: "dgarcia@company.com"},
			{Name: "Li Lee", Email: "llee@company.com"},
		}
		if err := tx.Create(contacts).Error; err != nil {
			return fmt.Errorf("seeding contacts: %w", err)
		}

		now := utils.NowUTC()
		for _, name := range []string{"test", "admin"} {
			hash, err := bcrypt.GenerateFromPassword([]byte(name), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user := &entity.User{
				Username:     name,
				PasswordHash: string(hash),
				CreatedAt:    now,
				UpdatedAt:    now,
				CreatedBy:    seedActor,
				UpdatedBy:    seedActor,
			}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("seeding user %s: %w", name, err)
			}
		}

		log.Infof("seeded reference data: %d countries, %d divisions, %d contacts", len(countries), len(divisions), len(contacts))
		return nil
	})
}
