package models

import "time"

type Unit struct {
	// 基本情報
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	BuildingID *int64 `gorm:"type:bigint;index" json:"building_id,omitempty"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	City       string `gorm:"type:varchar(100);index" json:"city,omitempty"`
	District   string `gorm:"type:varchar(100);index" json:"district,omitempty"`

	// 賃貸条件
	PricePerDay     *float64 `gorm:"type:decimal(10,2)" json:"price_per_day,omitempty"`
	OwnerID         *int64   `gorm:"type:bigint;index" json:"owner_id,omitempty"`
	OwnerPercentage *float64 `gorm:"type:decimal(5,2)" json:"owner_percentage,omitempty"`

	// ステータス管理
	Status UnitStatus `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	Notes  string     `gorm:"type:text" json:"notes,omitempty"`

	// タイムスタンプ
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index:idx_units_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// UnitStatus はユニットのステータス
type UnitStatus string

const (
	UnitStatusAvailable   UnitStatus = "available"
	UnitStatusOccupied    UnitStatus = "occupied"
	UnitStatusMaintenance UnitStatus = "maintenance"
)

// TableName はテーブル名を明示的に指定
func (Unit) TableName() string {
	return "units"
}

// IsAvailable はユニットが空室かどうか
func (u *Unit) IsAvailable() bool {
	return u.Status == UnitStatusAvailable
}

// DisplayLabel returns the label shown in calendar and ledger rows
func (u *Unit) DisplayLabel() string {
	if u.City != "" && u.District != "" {
		return u.City + " / " + u.District
	}
	if u.City != "" {
		return u.City
	}
	return u.District
}
