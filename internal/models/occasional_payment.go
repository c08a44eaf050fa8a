package models

import "time"

// OccasionalPayment is a non-rent charge against a unit (utility,
// maintenance, repair). Independent of Rent; the two streams are merged
// only for the ledger and revenue roll-up.
type OccasionalPayment struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UnitID int64 `gorm:"type:bigint;not null;index" json:"unit_id"`

	Category      PaymentCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	Amount        float64         `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(30)" json:"payment_method,omitempty"`
	PaymentDate   *string         `gorm:"type:varchar(10)" json:"payment_date,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// PaymentCategory classifies an occasional payment
type PaymentCategory string

const (
	PaymentCategoryWifi        PaymentCategory = "wifi"
	PaymentCategoryElectricity PaymentCategory = "electricity"
	PaymentCategoryWater       PaymentCategory = "water"
	PaymentCategoryCleaning    PaymentCategory = "cleaning"
	PaymentCategoryMaintenance PaymentCategory = "maintenance"
	PaymentCategoryRepair      PaymentCategory = "repair"
	PaymentCategoryOther       PaymentCategory = "other"
)

// TableName specifies the table name
func (OccasionalPayment) TableName() string {
	return "occasional_payments"
}
