package journal

import (
	"time"
)

// TableName is the journal table.
const TableName = "sync_journal"

// Record is one applied step of a push, pull or delete.
type Record struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	Kind        string    `json:"kind" gorm:"type:varchar(16);not null;index:idx_sync_journal_kind"`
	Operation   string    `json:"operation" gorm:"type:varchar(16);not null"`
	Action      string    `json:"action" gorm:"type:varchar(16);not null"`
	Environment string    `json:"env" gorm:"type:varchar(64);not null"`
	RemoteID    string    `json:"remote_id,omitempty" gorm:"type:varchar(128)"`
	ConfigPath  string    `json:"config,omitempty" gorm:"type:text"`
	Hash        string    `json:"hash,omitempty" gorm:"type:varchar(64)"`
	Error       string    `json:"error,omitempty" gorm:"type:text"`
}

// TableName implements gorm's tabler.
func (Record) TableName() string {
	return TableName
}

// Failed reports whether the step ended in an error.
func (r Record) Failed() bool {
	return r.Error != ""
}

// columns lists what a compatible table must have.
var columns = []string{
	"id", "created_at", "kind", "operation", "action",
	"environment", "remote_id", "config_path", "hash", "error",
}
