package models

import "time"

// RevenueSnapshot represents a daily snapshot of company-wide revenue
type RevenueSnapshot struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotAt time.Time `gorm:"type:date;not null;uniqueIndex:idx_snapshot_day" json:"snapshot_at"`

	// Revenue state at snapshot time
	Total           float64 `gorm:"type:decimal(12,2);not null" json:"total"`
	TotalThisMonth  float64 `gorm:"type:decimal(12,2);not null" json:"total_this_month"`
	TotalOccasional float64 `gorm:"type:decimal(12,2);not null" json:"total_occasional"`
	RentCount       int     `gorm:"type:int;not null" json:"rent_count"`
	OccasionalCount int     `gorm:"type:int;not null" json:"occasional_count"`

	// Change detection
	HasChanged bool   `gorm:"type:boolean;default:false" json:"has_changed"`
	ChangeNote string `gorm:"type:text" json:"change_note,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (RevenueSnapshot) TableName() string {
	return "revenue_snapshots"
}
