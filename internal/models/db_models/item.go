package db_models

// Item is a recyclable material category. Rows come from the seed catalog
// and are never written by end users.
type Item struct {
	BaseModel
	Title string `gorm:"unique;not null"`
	Image string `gorm:"not null"`
}
