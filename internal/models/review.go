package models

import "time"

// Review is tenant feedback on a unit, rated 1..5
type Review struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UnitID   int64 `gorm:"type:bigint;not null;index" json:"unit_id"`
	TenantID int64 `gorm:"type:bigint;not null;index" json:"tenant_id"`

	Rating  int    `gorm:"type:int;not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Review) TableName() string {
	return "reviews"
}
