package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/seabeam/echofetch/internal/errs"
	"github.com/seabeam/echofetch/internal/registry"
)

// scanner covers pgx.Row and pgx.Rows for scanRecord.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one file_records row in selectColumns order.
func scanRecord(s scanner) (*registry.FileRecord, error) {
	var rec registry.FileRecord
	var capture sql.NullTime
	err := s.Scan(
		&rec.Ship, &rec.Survey, &rec.Echosounder, &rec.FileName,
		&rec.FileType, &rec.DataSource, &rec.ICESCode, &rec.CacheURI,
		&rec.ArchiveURI, &rec.SizeBytes, &capture, &rec.UploadedAt,
		&rec.UploadedBy, &rec.ConverterVersion, &rec.LibraryVersion,
		&rec.RunID)
	if err != nil {
		return nil, err
	}
	if capture.Valid {
		rec.CaptureTime = capture.Time
	}
	return &rec, nil
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// mapError translates pgx / pgconn native errors into *errs.Error.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := errs.ErrKindQueryFailed
		// Class 08 is connection errors.
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			kind = errs.ErrKindConnectionFailed
		}
		return errs.Wrap(kind, fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
