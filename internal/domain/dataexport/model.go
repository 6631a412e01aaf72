package dataexport

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExportFormat is the artifact format requested for an export job. Formats
// label the requested packaging only; artifact generation is owned by the
// remote API.
type ExportFormat string

const (
	FormatFHIR ExportFormat = "fhir" // structured health record bundle
	FormatPDF  ExportFormat = "pdf"  // printable document
	FormatCSV  ExportFormat = "csv"  // spreadsheet
	FormatJSON ExportFormat = "json" // raw data
)

var validFormats = map[ExportFormat]bool{
	FormatFHIR: true, FormatPDF: true, FormatCSV: true, FormatJSON: true,
}

func (f ExportFormat) Valid() bool { return validFormats[f] }

// FileExtension returns the download locator suffix for the format.
func (f ExportFormat) FileExtension() string {
	switch f {
	case FormatPDF:
		return ".pdf"
	case FormatCSV:
		return ".csv"
	default:
		return ".json"
	}
}

// ExportStatus is the lifecycle state of an export job. Transitions only move
// forward: processing → completed|failed, completed → expired.
type ExportStatus string

const (
	StatusPending    ExportStatus = "pending"
	StatusProcessing ExportStatus = "processing"
	StatusCompleted  ExportStatus = "completed"
	StatusFailed     ExportStatus = "failed"
	StatusExpired    ExportStatus = "expired"
)

// Record categories an export may cover. "all" supersedes every other
// selection.
const RecordTypeAll = "all"

var validRecordTypes = map[string]bool{
	RecordTypeAll: true, "prescriptions": true, "lab_results": true,
	"diagnoses": true, "vitals": true, "immunizations": true, "documents": true,
}

// NormalizeRecordTypes validates the requested categories and collapses any
// selection containing "all" to just ["all"]. An empty selection also means
// everything.
func NormalizeRecordTypes(types []string) ([]string, error) {
	if len(types) == 0 {
		return []string{RecordTypeAll}, nil
	}
	for _, t := range types {
		if !validRecordTypes[t] {
			return nil, fmt.Errorf("unknown record type: %s", t)
		}
		if t == RecordTypeAll {
			return []string{RecordTypeAll}, nil
		}
	}
	return types, nil
}

// DateRange bounds the records included in an export or report.
type DateRange struct {
	Start time.Time `db:"range_start" json:"start"`
	End   time.Time `db:"range_end" json:"end"`
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("date range start and end are required")
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("date range end %s precedes start %s",
			r.End.Format("2006-01-02"), r.Start.Format("2006-01-02"))
	}
	return nil
}

// ExportJob is a user-initiated request to package health records into a
// downloadable artifact. FileSize, DownloadURL and CompletedAt are populated
// only once the job reaches "completed"; ExpiresAt governs how long the
// completed artifact stays downloadable.
type ExportJob struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	Format        ExportFormat `db:"format" json:"format"`
	RecordTypes   []string     `db:"record_types" json:"record_types"`
	Range         DateRange    `json:"date_range"`
	Status        ExportStatus `db:"status" json:"status"`
	FileSize      *int64       `db:"file_size" json:"file_size,omitempty"`
	DownloadURL   *string      `db:"download_url" json:"download_url,omitempty"`
	FailureReason *string      `db:"failure_reason" json:"failure_reason,omitempty"`
	ExpiresAt     *time.Time   `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	CompletedAt   *time.Time   `db:"completed_at" json:"completed_at,omitempty"`
}

// Clone returns a deep copy so stored jobs are never mutated through a
// returned reference.
func (j *ExportJob) Clone() *ExportJob {
	clone := *j
	clone.RecordTypes = append([]string(nil), j.RecordTypes...)
	if j.FileSize != nil {
		v := *j.FileSize
		clone.FileSize = &v
	}
	if j.DownloadURL != nil {
		v := *j.DownloadURL
		clone.DownloadURL = &v
	}
	if j.FailureReason != nil {
		v := *j.FailureReason
		clone.FailureReason = &v
	}
	if j.ExpiresAt != nil {
		v := *j.ExpiresAt
		clone.ExpiresAt = &v
	}
	if j.CompletedAt != nil {
		v := *j.CompletedAt
		clone.CompletedAt = &v
	}
	return &clone
}

// ExpiredAt reports whether a completed job's artifact has aged out at the
// given instant.
func (j *ExportJob) ExpiredAt(now time.Time) bool {
	return j.Status == StatusCompleted && j.ExpiresAt != nil && now.After(*j.ExpiresAt)
}

// ShareLink wraps an export in an access URL with optional password, expiry
// and an access-count ceiling. A nil MaxAccessCount means unlimited.
type ShareLink struct {
	Token          uuid.UUID `db:"token" json:"token"`
	ExportID       uuid.UUID `db:"export_id" json:"export_id"`
	URL            string    `db:"url" json:"url"`
	Recipient      *string   `db:"recipient" json:"recipient,omitempty"`
	Password       *string   `db:"password" json:"-"`
	PasswordSet    bool      `db:"-" json:"password_protected"`
	MaxAccessCount *int      `db:"max_access_count" json:"max_access_count,omitempty"`
	AccessCount    int       `db:"access_count" json:"access_count"`
	ExpiresAt      time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

func (l *ShareLink) Clone() *ShareLink {
	clone := *l
	if l.Recipient != nil {
		v := *l.Recipient
		clone.Recipient = &v
	}
	if l.Password != nil {
		v := *l.Password
		clone.Password = &v
	}
	if l.MaxAccessCount != nil {
		v := *l.MaxAccessCount
		clone.MaxAccessCount = &v
	}
	return &clone
}

// Exhausted reports whether the access ceiling has been reached.
func (l *ShareLink) Exhausted() bool {
	return l.MaxAccessCount != nil && l.AccessCount >= *l.MaxAccessCount
}

// DownloadInfo is returned when a completed export (or a redeemed share link)
// is downloaded.
type DownloadInfo struct {
	ExportID  uuid.UUID `json:"export_id"`
	URL       string    `json:"url"`
	FileSize  int64     `json:"file_size"`
	ExpiresAt time.Time `json:"expires_at"`
}
