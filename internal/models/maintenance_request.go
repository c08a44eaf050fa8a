package models

import "time"

// MaintenanceRequest tracks reported issues against a unit
type MaintenanceRequest struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UnitID int64 `gorm:"type:bigint;not null;index" json:"unit_id"`

	Title       string              `gorm:"type:varchar(255);not null" json:"title"`
	Description string              `gorm:"type:text" json:"description,omitempty"`
	Priority    MaintenancePriority `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	Status      MaintenanceStatus   `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`

	ReportedAt time.Time  `gorm:"type:datetime;not null" json:"reported_at"`
	ResolvedAt *time.Time `gorm:"type:datetime" json:"resolved_at,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// MaintenancePriority ranks how urgent a request is
type MaintenancePriority string

const (
	MaintenancePriorityLow    MaintenancePriority = "low"
	MaintenancePriorityNormal MaintenancePriority = "normal"
	MaintenancePriorityHigh   MaintenancePriority = "high"
	MaintenancePriorityUrgent MaintenancePriority = "urgent"
)

// MaintenanceStatus is the lifecycle state of a request
type MaintenanceStatus string

const (
	MaintenanceStatusOpen       MaintenanceStatus = "open"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusResolved   MaintenanceStatus = "resolved"
)

// TableName specifies the table name
func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// Resolve marks the request as resolved now
func (m *MaintenanceRequest) Resolve() {
	m.Status = MaintenanceStatusResolved
	now := time.Now()
	m.ResolvedAt = &now
}
