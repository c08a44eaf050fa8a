package models

import "time"

// Tenant rents a unit for a period recorded as a Rent
type Tenant struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone     string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	IDNumber  string `gorm:"type:varchar(64)" json:"id_number,omitempty"`
	Notes     string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Tenant) TableName() string {
	return "tenants"
}

// FullName returns the display name
func (t *Tenant) FullName() string {
	return t.FirstName + " " + t.LastName
}
