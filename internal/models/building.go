package models

import "time"

// Building groups units under one physical address
type Building struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Address  string `gorm:"type:text" json:"address,omitempty"`
	City     string `gorm:"type:varchar(100);index" json:"city,omitempty"`
	District string `gorm:"type:varchar(100);index" json:"district,omitempty"`
	Floors   *int   `gorm:"type:int" json:"floors,omitempty"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Building) TableName() string {
	return "buildings"
}
