package models

import "time"

// DateLayout is the wire format for all rent and payment dates
const DateLayout = "2006-01-02"

// Rent ties a unit to a tenant for a date range with payment terms.
// Dates are kept in the wire format ("2006-01-02" strings) because the
// aggregation layer must tolerate malformed values record by record
// instead of failing a whole fetch.
type Rent struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UnitID   int64 `gorm:"type:bigint;not null;index" json:"unit_id"`
	TenantID int64 `gorm:"type:bigint;not null;index" json:"tenant_id"`

	RentStart string `gorm:"type:varchar(10);not null" json:"rent_start"`
	RentEnd   string `gorm:"type:varchar(10);not null" json:"rent_end"`

	TotalAmount   float64       `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(30)" json:"payment_method,omitempty"`
	PaymentDate   *string       `gorm:"type:varchar(10)" json:"payment_date,omitempty"`
	Notes         string        `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index:idx_rents_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// PaymentStatus is the settlement state of a rent
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// PaymentMethod is how a payment was settled
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard    PaymentMethod = "credit_card"
	PaymentMethodOnlinePayment PaymentMethod = "online_payment"
)

// TableName specifies the table name
func (Rent) TableName() string {
	return "rents"
}

// IsPaid reports whether the rent has been settled
func (r *Rent) IsPaid() bool {
	return r.PaymentStatus == PaymentStatusPaid
}

// EndedBefore reports whether the rent period ended before the given day.
// Unparseable end dates never count as ended.
func (r *Rent) EndedBefore(day time.Time) bool {
	end, err := time.ParseInLocation(DateLayout, r.RentEnd, day.Location())
	if err != nil {
		return false
	}
	return end.Before(day.Truncate(24 * time.Hour))
}
