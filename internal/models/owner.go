package models

import "time"

// Owner is the landlord a unit belongs to; payouts are split by the
// unit's owner_percentage
type Owner struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone     string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	IBAN      string `gorm:"type:varchar(64)" json:"iban,omitempty"`
	Notes     string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Owner) TableName() string {
	return "owners"
}

// FullName returns the display name
func (o *Owner) FullName() string {
	return o.FirstName + " " + o.LastName
}
