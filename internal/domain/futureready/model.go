package futureready

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BackupStatus tracks a backup run. Transitions only move forward:
// in_progress to completed or failed.
type BackupStatus string

const (
	BackupInProgress BackupStatus = "in_progress"
	BackupCompleted  BackupStatus = "completed"
	BackupFailed     BackupStatus = "failed"
)

// BackupFrequency is the automatic backup cadence.
type BackupFrequency string

const (
	FreqDaily   BackupFrequency = "daily"
	FreqWeekly  BackupFrequency = "weekly"
	FreqMonthly BackupFrequency = "monthly"
)

var validFrequencies = map[BackupFrequency]bool{
	FreqDaily: true, FreqWeekly: true, FreqMonthly: true,
}

func (f BackupFrequency) Valid() bool { return validFrequencies[f] }

// CloudStorage summarizes a user's cloud backup footprint.
type CloudStorage struct {
	UserID       string     `json:"user_id"`
	Provider     string     `json:"provider"`
	UsedBytes    int64      `json:"used_bytes"`
	QuotaBytes   int64      `json:"quota_bytes"`
	LastBackupAt *time.Time `json:"last_backup_at,omitempty"`
}

// BackupSettings is a user's backup preference block. Updates are a shallow
// merge of the requested changes.
type BackupSettings struct {
	UserID           string          `json:"user_id"`
	AutoBackup       bool            `json:"auto_backup"`
	Frequency        BackupFrequency `json:"frequency"`
	WifiOnly         bool            `json:"wifi_only"`
	IncludeDocuments bool            `json:"include_documents"`
	Encrypted        bool            `json:"encrypted"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// BackupSettingsChanges carries the fields of a merge update. Nil fields are
// left untouched.
type BackupSettingsChanges struct {
	AutoBackup       *bool            `json:"auto_backup,omitempty"`
	Frequency        *BackupFrequency `json:"frequency,omitempty"`
	WifiOnly         *bool            `json:"wifi_only,omitempty"`
	IncludeDocuments *bool            `json:"include_documents,omitempty"`
	Encrypted        *bool            `json:"encrypted,omitempty"`
}

func (c BackupSettingsChanges) Validate() error {
	if c.Frequency != nil && !c.Frequency.Valid() {
		return fmt.Errorf("invalid frequency: %s", *c.Frequency)
	}
	return nil
}

// BackupEntry is one backup run in a user's history.
type BackupEntry struct {
	ID          uuid.UUID    `json:"id"`
	UserID      string       `json:"user_id"`
	Status      BackupStatus `json:"status"`
	SizeBytes   *int64       `json:"size_bytes,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// Clone returns a deep copy.
func (b *BackupEntry) Clone() *BackupEntry {
	c := *b
	if b.SizeBytes != nil {
		v := *b.SizeBytes
		c.SizeBytes = &v
	}
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
