package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reportRepoPG struct{ pool *pgxpool.Pool }

func NewReportRepoPG(pool *pgxpool.Pool) ReportRepository { return &reportRepoPG{pool: pool} }

const reportCols = `id, template_id, title, format, include_charts, include_summary,
	sections, total_pages, section_count, data_points, range_start, range_end, generated_at`

func scanReport(row pgx.Row) (*GeneratedReport, error) {
	var r GeneratedReport
	var sections []byte
	err := row.Scan(&r.ID, &r.TemplateID, &r.Title, &r.Format, &r.IncludeCharts, &r.IncludeSummary,
		&sections, &r.Metadata.TotalPages, &r.Metadata.SectionCount, &r.Metadata.DataPoints,
		&r.Metadata.Period.Start, &r.Metadata.Period.End, &r.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sections, &r.Sections); err != nil {
		return nil, fmt.Errorf("decode report sections: %w", err)
	}
	return &r, nil
}

func (repo *reportRepoPG) Create(ctx context.Context, r *GeneratedReport) error {
	sections, err := json.Marshal(r.Sections)
	if err != nil {
		return fmt.Errorf("encode report sections: %w", err)
	}
	_, err = repo.pool.Exec(ctx, `
		INSERT INTO generated_report (id, template_id, title, format, include_charts,
			include_summary, sections, total_pages, section_count, data_points,
			range_start, range_end, generated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		r.ID, r.TemplateID, r.Title, r.Format, r.IncludeCharts, r.IncludeSummary,
		sections, r.Metadata.TotalPages, r.Metadata.SectionCount, r.Metadata.DataPoints,
		r.Metadata.Period.Start, r.Metadata.Period.End, r.GeneratedAt)
	return err
}

func (repo *reportRepoPG) Get(ctx context.Context, id uuid.UUID) (*GeneratedReport, error) {
	return scanReport(repo.pool.QueryRow(ctx,
		`SELECT `+reportCols+` FROM generated_report WHERE id = $1`, id))
}

func (repo *reportRepoPG) List(ctx context.Context, limit, offset int) ([]*GeneratedReport, int, error) {
	var total int
	if err := repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM generated_report`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := repo.pool.Query(ctx,
		`SELECT `+reportCols+` FROM generated_report ORDER BY generated_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := []*GeneratedReport{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, r)
	}
	return result, total, rows.Err()
}
