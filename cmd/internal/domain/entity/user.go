package entity

type User struct {
	ID           int    `gorm:"primaryKey"`
	Username     string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:milli"`
	CreatedBy    string `gorm:"not null"`
	UpdatedBy    string `gorm:"not null"`
}
