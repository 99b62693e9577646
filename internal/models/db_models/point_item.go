package db_models

// PointItem is one membership edge between a point and an item. The composite
// primary key keeps every (point, item) pair unique.
type PointItem struct {
	PointID int64 `gorm:"primaryKey;autoIncrement:false"`
	ItemID  int64 `gorm:"primaryKey;autoIncrement:false;index"`

	Item Item `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT"`
}
