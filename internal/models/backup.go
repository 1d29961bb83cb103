package models

import "time"

// BackupTimestampFormat is the generation timestamp layout carried in a
// backup document.
const BackupTimestampFormat = "20060102_150405"

// BackupDocument is the full exportable snapshot of one user's data graph.
// It is the wire format for both push and pull.
type BackupDocument struct {
	UserID         int64           `json:"user_id"`
	User           *User           `json:"user"`
	Events         []Event         `json:"events"`
	ArchivedEvents []ArchivedEvent `json:"archived_events"`
	Tasks          []Task          `json:"tasks"`
	Guests         []Guest         `json:"guests"`
	Timestamp      string          `json:"timestamp"`
}

// NewBackupTimestamp returns the generation timestamp for a document built now.
func NewBackupTimestamp() string {
	return time.Now().Format(BackupTimestampFormat)
}

// StoredBackup describes a document held by the backup server.
type StoredBackup struct {
	BackupID   string `json:"backup_id" db:"backup_id"`
	UserID     int64  `json:"user_id" db:"user_id"`
	ReceivedAt string `json:"received_at" db:"received_at"`
}
