package db_models

type Point struct {
	BaseModel
	Name      string  `gorm:"not null"`
	Email     string  `gorm:"not null"`
	Whatsapp  string  `gorm:"not null"`
	Image     string
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	City      string  `gorm:"not null;index:idx_points_location,priority:2"`
	UF        string  `gorm:"column:uf;type:char(2);not null;index:idx_points_location,priority:1"`

	Items []PointItem `gorm:"foreignKey:PointID;constraint:OnDelete:CASCADE"`
}
