package models

import "time"

// Contract is the signed agreement backing a rental relationship
type Contract struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UnitID   int64 `gorm:"type:bigint;not null;index" json:"unit_id"`
	TenantID int64 `gorm:"type:bigint;not null;index" json:"tenant_id"`

	StartDate string   `gorm:"type:varchar(10);not null" json:"start_date"`
	EndDate   string   `gorm:"type:varchar(10);not null" json:"end_date"`
	Deposit   *float64 `gorm:"type:decimal(10,2)" json:"deposit,omitempty"`
	Terms     string   `gorm:"type:text" json:"terms,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Contract) TableName() string {
	return "contracts"
}
