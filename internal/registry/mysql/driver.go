// Package mysql implements registry.RecordStore on database/sql with the
// go-sql-driver backend.
package mysql

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"github.com/seabeam/echofetch/internal/errs"
	"github.com/seabeam/echofetch/internal/registry"
)

// Driver is a MySQL registry backed by database/sql. Safe for concurrent use.
type Driver struct {
	db *sql.DB
}

var _ registry.RecordStore = (*Driver)(nil)

// New opens a pooled connection using cfg and validates it with a ping.
// The DSN must include parseTime=true so DATETIME columns scan as time.Time.
func New(ctx context.Context, cfg *registry.Config) (*Driver, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	d := &Driver{db: db}
	if err := d.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// --- registry.RecordStore implementation ---

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS file_records (
		ship              VARCHAR(128) NOT NULL,
		survey            VARCHAR(128) NOT NULL,
		echosounder       VARCHAR(64)  NOT NULL,
		file_name         VARCHAR(255) NOT NULL,
		file_type         VARCHAR(32)  NOT NULL,
		data_source       VARCHAR(16)  NOT NULL,
		ices_code         VARCHAR(16)  NOT NULL DEFAULT '',
		cache_uri         TEXT         NOT NULL,
		archive_uri       TEXT         NOT NULL,
		size_bytes        BIGINT       NOT NULL DEFAULT 0,
		capture_time      DATETIME     NULL,
		uploaded_at       DATETIME     NOT NULL,
		uploaded_by       VARCHAR(128) NOT NULL DEFAULT '',
		converter_version VARCHAR(64)  NOT NULL DEFAULT '',
		library_version   VARCHAR(64)  NOT NULL DEFAULT '',
		run_id            VARCHAR(64)  NOT NULL DEFAULT '',
		PRIMARY KEY (ship, survey, echosounder, file_name)
	)`

// EnsureSchema creates the file_records table if it does not exist.
func (d *Driver) EnsureSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schemaSQL); err != nil {
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
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
			file_type         = VALUES(file_type),
			data_source       = VALUES(data_source),
			ices_code         = VALUES(ices_code),
			cache_uri         = VALUES(cache_uri),
			archive_uri       = VALUES(archive_uri),
			size_bytes        = VALUES(size_bytes),
			capture_time      = VALUES(capture_time),
			uploaded_at       = VALUES(uploaded_at),
			uploaded_by       = VALUES(uploaded_by),
			converter_version = VALUES(converter_version),
			library_version   = VALUES(library_version),
			run_id            = VALUES(run_id)`

	_, err := d.db.ExecContext(ctx, q,
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
		WHERE ship = ? AND survey = ? AND echosounder = ? AND file_name = ?`

	rec, err := scanRecord(d.db.QueryRowContext(ctx, q, ship, survey, echosounder, fileName))
	if err != nil {
		return nil, mapError(err, "failed to get file record")
	}
	return rec, nil
}

// ListSurveyRecords returns every record for ship+survey ordered by file name.
func (d *Driver) ListSurveyRecords(ctx context.Context, ship, survey string) ([]*registry.FileRecord, error) {
	const q = selectColumns + `
		WHERE ship = ? AND survey = ?
		ORDER BY file_name`

	rows, err := d.db.QueryContext(ctx, q, ship, survey)
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
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close drains the connection pool.
func (d *Driver) Close() {
	d.db.Close()
}

const selectColumns = `
	SELECT ship, survey, echosounder, file_name, file_type, data_source,
	       ices_code, cache_uri, archive_uri, size_bytes, capture_time,
	       uploaded_at, uploaded_by, converter_version, library_version, run_id
	FROM file_records`
