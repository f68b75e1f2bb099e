package model

import "time"

// Category carries display metadata for a sector label. Name matches EtfInfo.Sector.
type Category struct {
	Cid         uint      `gorm:"column:cid;primaryKey;autoIncrement" json:"cid"`
	Name        string    `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:varchar(255)" json:"description"`
	SortOrder   int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	Status      int8      `gorm:"column:status;default:1" json:"status"`
	ItemCount   int       `gorm:"column:item_count;default:0" json:"item_count"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Category) TableName() string {
	return "category"
}

const CategoryActive int8 = 1

// DescriptionOr returns the description, or fallback when it is blank.
func (c *Category) DescriptionOr(fallback string) string {
	if c == nil || c.Description == "" {
		return fallback
	}
	return c.Description
}
