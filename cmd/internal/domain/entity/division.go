package entity

type Country struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

type Division struct {
	ID        int    `gorm:"primaryKey"`
	CountryID int    `gorm:"not null;index"` // References: countries(id)
	Name      string `gorm:"not null"`
}
