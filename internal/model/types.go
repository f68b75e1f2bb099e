package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
memo. etf_info, etf_netasset, calendar are filled by the ingestion job and only read here.
etf_netasset.time is a DATE column, so datatypes.Date keeps it free of a time-of-day part.
*/
type EtfInfo struct {
	ThsCode     string          `gorm:"column:ths_code;type:varchar(20);primaryKey"`
	ChineseName string          `gorm:"column:chinese_name"`
	StartDay    *datatypes.Date `gorm:"column:start_day"`
	EndDay      *datatypes.Date `gorm:"column:end_day"`
	Sector      string          `gorm:"column:sector;index"`
}

func (EtfInfo) TableName() string {
	return "etf_info"
}

type EtfNetAsset struct {
	ThsCode        string         `gorm:"column:ths_code;type:varchar(20);primaryKey"`
	Time           datatypes.Date `gorm:"column:time;primaryKey"`
	NetAssetValue  *float64       `gorm:"column:net_asset_value"`
	AdjustedNav    *float64       `gorm:"column:adjusted_nav"`
	AccumulatedNav *float64       `gorm:"column:accumulated_nav"`
	Premium        *float64       `gorm:"column:premium"`
	PremiumRatio   *float64       `gorm:"column:premium_ratio"`
}

func (EtfNetAsset) TableName() string {
	return "etf_netasset"
}

// Day returns the NAV date in ISO form.
func (n EtfNetAsset) Day() string {
	return time.Time(n.Time).Format(DateLayout)
}

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"type:varchar(100);not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "user_info"
}

type UserCollection struct {
	CollectID   uint      `gorm:"column:collect_id;primaryKey;autoIncrement"`
	UserID      uint      `gorm:"column:user_id;not null;uniqueIndex:uk_user_cid"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Cid         uint      `gorm:"column:cid;not null;uniqueIndex:uk_user_cid"`
	Category    Category  `gorm:"foreignKey:Cid;references:Cid;constraint:OnDelete:CASCADE"`
	CollectTime time.Time `gorm:"column:collect_time;autoCreateTime"`
}

func (UserCollection) TableName() string {
	return "user_collection"
}

// CollectedSector is a watchlist row joined with its category.
type CollectedSector struct {
	CollectID   uint      `json:"collect_id"`
	UserID      uint      `json:"user_id"`
	Cid         uint      `json:"cid"`
	CollectTime time.Time `json:"collect_time"`
	Sector      string    `json:"sector"`
	Description string    `json:"description"`
	ItemCount   int       `json:"item_count"`
	SortOrder   int       `json:"sort_order"`
}
