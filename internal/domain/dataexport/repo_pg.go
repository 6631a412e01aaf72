package dataexport

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Export Job Repository ===========

type exportRepoPG struct{ pool *pgxpool.Pool }

func NewExportRepoPG(pool *pgxpool.Pool) ExportRepository { return &exportRepoPG{pool: pool} }

const exportCols = `id, format, record_types, range_start, range_end, status,
	file_size, download_url, failure_reason, expires_at, created_at, completed_at`

func scanExportJob(row pgx.Row) (*ExportJob, error) {
	var j ExportJob
	err := row.Scan(&j.ID, &j.Format, &j.RecordTypes, &j.Range.Start, &j.Range.End, &j.Status,
		&j.FileSize, &j.DownloadURL, &j.FailureReason, &j.ExpiresAt, &j.CreatedAt, &j.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &j, err
}

func (r *exportRepoPG) Create(ctx context.Context, j *ExportJob) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO export_job (id, format, record_types, range_start, range_end, status,
			file_size, download_url, failure_reason, expires_at, created_at, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		j.ID, j.Format, j.RecordTypes, j.Range.Start, j.Range.End, j.Status,
		j.FileSize, j.DownloadURL, j.FailureReason, j.ExpiresAt, j.CreatedAt, j.CompletedAt)
	return err
}

func (r *exportRepoPG) Get(ctx context.Context, id uuid.UUID) (*ExportJob, error) {
	return scanExportJob(r.pool.QueryRow(ctx,
		`SELECT `+exportCols+` FROM export_job WHERE id = $1`, id))
}

func (r *exportRepoPG) Update(ctx context.Context, j *ExportJob) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE export_job SET status = $2, file_size = $3, download_url = $4,
			failure_reason = $5, expires_at = $6, completed_at = $7
		WHERE id = $1`,
		j.ID, j.Status, j.FileSize, j.DownloadURL, j.FailureReason, j.ExpiresAt, j.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *exportRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM export_job WHERE id = $1`, id)
	return err
}

func (r *exportRepoPG) List(ctx context.Context, limit, offset int) ([]*ExportJob, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM export_job`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+exportCols+` FROM export_job ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := []*ExportJob{}
	for rows.Next() {
		j, err := scanExportJob(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, j)
	}
	return result, total, rows.Err()
}

func (r *exportRepoPG) ListByStatus(ctx context.Context, status ExportStatus) ([]*ExportJob, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+exportCols+` FROM export_job WHERE status = $1 ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ExportJob
	for rows.Next() {
		j, err := scanExportJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, j)
	}
	return result, rows.Err()
}

// =========== Share Link Repository ===========

type shareLinkRepoPG struct{ pool *pgxpool.Pool }

func NewShareLinkRepoPG(pool *pgxpool.Pool) ShareLinkRepository { return &shareLinkRepoPG{pool: pool} }

const shareCols = `token, export_id, url, recipient, password, max_access_count,
	access_count, expires_at, created_at`

func scanShareLink(row pgx.Row) (*ShareLink, error) {
	var l ShareLink
	err := row.Scan(&l.Token, &l.ExportID, &l.URL, &l.Recipient, &l.Password,
		&l.MaxAccessCount, &l.AccessCount, &l.ExpiresAt, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	l.PasswordSet = l.Password != nil
	return &l, err
}

func (r *shareLinkRepoPG) Create(ctx context.Context, l *ShareLink) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO share_link (token, export_id, url, recipient, password,
			max_access_count, access_count, expires_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		l.Token, l.ExportID, l.URL, l.Recipient, l.Password,
		l.MaxAccessCount, l.AccessCount, l.ExpiresAt, l.CreatedAt)
	return err
}

func (r *shareLinkRepoPG) Get(ctx context.Context, token uuid.UUID) (*ShareLink, error) {
	return scanShareLink(r.pool.QueryRow(ctx,
		`SELECT `+shareCols+` FROM share_link WHERE token = $1`, token))
}

// RecordAccess increments the counter only while below the ceiling, so the
// claim stays atomic across replicas sharing the database.
func (r *shareLinkRepoPG) RecordAccess(ctx context.Context, token uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE share_link SET access_count = access_count + 1
		WHERE token = $1
		  AND (max_access_count IS NULL OR access_count < max_access_count)`,
		token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.Get(ctx, token); err != nil {
		return err
	}
	return ErrShareExhausted
}
