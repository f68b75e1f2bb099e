package model

import "time"

const (
	DateLayout    = "2006-01-02"
	CompactLayout = "20060102"
)

// CalendarDay is one row of the externally ingested trading calendar.
// Flags are tri-state: NULL means the ingestion job never resolved the day.
type CalendarDay struct {
	Day          string  `gorm:"column:Day;type:varchar(8);primaryKey"`
	IsTradingDay *int8   `gorm:"column:IsTradingDay"`
	IsWorkingDay *int8   `gorm:"column:IsWorkingDay"`
	Comments     *string `gorm:"column:Comments"`
	FetchHoliday *int8   `gorm:"column:FetchHoliday"`
	UpdateTime   *string `gorm:"column:UpdateTime"`
}

func (CalendarDay) TableName() string {
	return "calendar"
}

// Trading reports whether the day is flagged tradable. Unknown counts as not tradable.
func (c CalendarDay) Trading() bool {
	return c.IsTradingDay != nil && *c.IsTradingDay == 1
}

func (c CalendarDay) Date() (time.Time, error) {
	return time.Parse(CompactLayout, c.Day)
}
