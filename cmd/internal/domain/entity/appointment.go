package entity

type Appointment struct {
	ID          int    `gorm:"primaryKey"`
	ContactID   int    `gorm:"not null;index"` // References: contacts(id)
	CustomerID  int    `gorm:"not null;index"` // References: customers(id)
	UserID      int    `gorm:"not null;index"` // References: users(id)
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Location    string `gorm:"not null"`
	Type        string `gorm:"not null;index"`
	StartsAt    int64  `gorm:"not null;index"`
	EndsAt      int64  `gorm:"not null"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt   int64  `gorm:"not null;autoUpdateTime:milli"`
	CreatedBy   string `gorm:"not null"`
	UpdatedBy   string `gorm:"not null"`
}
