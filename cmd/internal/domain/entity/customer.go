package entity

type Customer struct {
	ID          int    `gorm:"primaryKey"`
	DivisionID  int    `gorm:"not null;index"` // References: divisions(id)
	Name        string `gorm:"not null"`
	Address     string `gorm:"not null"`
	PostalCode  string `gorm:"not null"`
	PhoneNumber string `gorm:"not null"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt   int64  `gorm:"not null;autoUpdateTime:milli"`
	CreatedBy   string `gorm:"not null"`
	UpdatedBy   string `gorm:"not null"`
}
