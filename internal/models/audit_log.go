package models

import "time"

// AuditLog records mutations and cleanup deletions for the admin screens
type AuditLog struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Entity   string `gorm:"type:varchar(50);not null;index" json:"entity"`
	EntityID int64  `gorm:"type:bigint;not null;index" json:"entity_id"`
	Action   string `gorm:"type:varchar(50);not null" json:"action"`
	Detail   string `gorm:"type:text" json:"detail,omitempty"`

	RecordedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"recorded_at"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Action constants
const (
	AuditActionCreated = "created"
	AuditActionUpdated = "updated"
	AuditActionDeleted = "deleted"
	AuditActionPurged  = "snapshot_purged"
	AuditActionOverdue = "marked_overdue"
)
