// Package postgres implements registry.RecordStore on a pgx connection pool.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seabeam/echofetch/internal/errs"
	"github.com/seabeam/echofetch/internal/registry"
)

// Driver is a PostgreSQL registry backed by pgxpool. Safe for concurrent use.
type Driver struct {
	pool *pgxpool.Pool
}

var _ registry.RecordStore = (*Driver)(nil)

// New connects using cfg and validates the connection with a ping.
func New(ctx context.Context, cfg *registry.Config) (*Driver, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create connection pool", err)
	}

	d := &Driver{pool: pool}
	if err := d.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return d, nil
}

// --- registry.RecordStore implementation ---

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS file_records (
		ship              TEXT        NOT NULL,
		survey            TEXT        NOT NULL,
		echosounder       TEXT        NOT NULL,
		file_name         TEXT        NOT NULL,
		file_type         TEXT        NOT NULL,
		data_source       TEXT        NOT NULL,
		ices_code         TEXT        NOT NULL DEFAULT '',
		cache_uri         TEXT        NOT NULL,
		archive_uri       TEXT        NOT NULL DEFAULT '',
		size_bytes        BIGINT      NOT NULL DEFAULT 0,
		capture_time      TIMESTAMPTZ,
		uploaded_at       TIMESTAMPTZ NOT NULL,
		uploaded_by       TEXT        NOT NULL DEFAULT '',
		converter_version TEXT        NOT NULL DEFAULT '',
		library_version   TEXT        NOT NULL DEFAULT '',
		run_id            TEXT        NOT NULL DEFAULT '',
		PRIMARY KEY (ship, survey, echosounder, file_name)
	)`

// EnsureSchema creates the file_records table if it does not exist.
func (d *Driver) EnsureSchema(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, schemaSQL); err != nil {
		return mapError(err, "failed to create schema")
	}
	return nil
}

// SaveFileRecord upserts rec on its identity tuple.
func (d *Driver) SaveFileRecord(ctx context.Context, rec *registry.FileRecord) error {
	const q = `
		INSERT INTO file_records (
			ship, survey, echosounder, file_name, file_type, data_source,
			ices_code, cache_uri, archive_uri, size_bytes, capture_time,
			uploaded_at, uploaded_by, converter_version, library_version, run_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (ship, survey, echosounder, file_name) DO UPDATE SET
			file_type         = EXCLUDED.file_type,
			data_source       = EXCLUDED.data_source,
			ices_code         = EXCLUDED.ices_code,
			cache_uri         = EXCLUDED.cache_uri,
			archive_uri       = EXCLUDED.archive_uri,
			size_bytes        = EXCLUDED.size_bytes,
			capture_time      = EXCLUDED.capture_time,
			uploaded_at       = EXCLUDED.uploaded_at,
			uploaded_by       = EXCLUDED.uploaded_by,
			converter_version = EXCLUDED.converter_version,
			library_version   = EXCLUDED.library_version,
			run_id            = EXCLUDED.run_id`

	_, err := d.pool.Exec(ctx, q,
		rec.Ship, rec.Survey, rec.Echosounder, rec.FileName, rec.FileType,
		rec.DataSource, rec.ICESCode, rec.CacheURI, rec.ArchiveURI,
		rec.SizeBytes, nullableTime(rec.CaptureTime), rec.UploadedAt,
		rec.UploadedBy, rec.ConverterVersion, rec.LibraryVersion, rec.RunID)
	if err != nil {
		return mapError(err, "failed to save file record")
	}
	return nil
}

// GetFileRecord looks up one record by its identity tuple.
func (d *Driver) GetFileRecord(ctx context.Context, ship, survey, echosounder, fileName string) (*registry.FileRecord, error) {
	const q = selectColumns + `
		WHERE ship = $1 AND survey = $2 AND echosounder = $3 AND file_name = $4`

	rec, err := scanRecord(d.pool.QueryRow(ctx, q, ship, survey, echosounder, fileName))
	if err != nil {
		return nil, mapError(err, "failed to get file record")
	}
	return rec, nil
}

// ListSurveyRecords returns every record for ship+survey ordered by file name.
func (d *Driver) ListSurveyRecords(ctx context.Context, ship, survey string) ([]*registry.FileRecord, error) {
	const q = selectColumns + `
		WHERE ship = $1 AND survey = $2
		ORDER BY file_name`

	rows, err := d.pool.Query(ctx, q, ship, survey)
	if err != nil {
		return nil, mapError(err, "failed to list survey records")
	}
	defer rows.Close()

	var recs []*registry.FileRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan file record")
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating file records")
	}
	return recs, nil
}

// Ping verifies the database is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close drains the connection pool.
func (d *Driver) Close() {
	d.pool.Close()
}

const selectColumns = `
	SELECT ship, survey, echosounder, file_name, file_type, data_source,
	       ices_code, cache_uri, archive_uri, size_bytes, capture_time,
	       uploaded_at, uploaded_by, converter_version, library_version, run_id
	FROM file_records`
