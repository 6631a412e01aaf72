package reports

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReportFormat is the rendering target for a generated report. Only the
// paginated document format carries a page-count estimate.
type ReportFormat string

const (
	FormatPDF  ReportFormat = "pdf"
	FormatHTML ReportFormat = "html"
)

var validFormats = map[ReportFormat]bool{FormatPDF: true, FormatHTML: true}

func (f ReportFormat) Valid() bool { return validFormats[f] }

// Paginated reports whether the format is page-oriented.
func (f ReportFormat) Paginated() bool { return f == FormatPDF }

// ReportSection is one block of a report template: a type tag, the data
// points it covers, an optional chart-rendering hint and whether it is
// included by default.
type ReportSection struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Type            string   `json:"type"`
	DataPoints      []string `json:"data_points"`
	ChartHint       string   `json:"chart_hint,omitempty"`
	DefaultIncluded bool     `json:"default_included"`
}

// ReportTemplate is a named, versioned grouping of sections. Templates are
// immutable catalog data: selected from, never created or mutated.
type ReportTemplate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Version     int             `json:"version"`
	Sections    []ReportSection `json:"sections"`
}

// Section returns the template section with the given id.
func (t *ReportTemplate) Section(id string) (ReportSection, bool) {
	for _, s := range t.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return ReportSection{}, false
}

// Period bounds the data covered by a generated report.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) Validate() error {
	if !p.Start.IsZero() && !p.End.IsZero() && p.End.Before(p.Start) {
		return fmt.Errorf("period end %s precedes start %s",
			p.End.Format("2006-01-02"), p.Start.Format("2006-01-02"))
	}
	return nil
}

// ReportMetadata is the derived summary block of a generated report.
// TotalPages is populated only for paginated formats.
type ReportMetadata struct {
	TotalPages   *int   `json:"total_pages,omitempty"`
	SectionCount int    `json:"section_count"`
	DataPoints   int    `json:"data_points"`
	Period       Period `json:"period"`
}

// GeneratedReport is produced once per generation request and never updated
// in place; regenerating yields a new entity.
type GeneratedReport struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	TemplateID     string          `db:"template_id" json:"template_id"`
	Title          string          `db:"title" json:"title"`
	Format         ReportFormat    `db:"format" json:"format"`
	IncludeCharts  bool            `db:"include_charts" json:"include_charts"`
	IncludeSummary bool            `db:"include_summary" json:"include_summary"`
	Sections       []ReportSection `json:"sections"`
	Metadata       ReportMetadata  `json:"metadata"`
	GeneratedAt    time.Time       `db:"generated_at" json:"generated_at"`
}
