package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/seabeam/echofetch/internal/artifact"
	"github.com/seabeam/echofetch/internal/errs"
	"github.com/seabeam/echofetch/internal/registry"
	"github.com/seabeam/echofetch/internal/resolve"
	"github.com/seabeam/echofetch/internal/version"
)

// Sidecar is the JSON document written next to every uploaded payload, at
// the artifact's metadata key.
type Sidecar struct {
	FileName    string `json:"file_name"`
	FileType    string `json:"file_type"`
	ShipName    string `json:"ship_name"`
	SurveyName  string `json:"survey_name"`
	Echosounder string `json:"echosounder"`
	DataSource  string `json:"data_source"`
	ICESCode    string `json:"ices_code,omitempty"`

	CacheURI   string `json:"cache_uri"`
	ArchiveURI string `json:"archive_uri,omitempty"`

	SizeBytes    int64      `json:"size_bytes"`
	FileDatetime *time.Time `json:"file_datetime,omitempty"`

	DateCreated      time.Time `json:"date_created"`
	DeletionDatetime time.Time `json:"deletion_datetime"`
	UploadedBy       string    `json:"uploaded_by,omitempty"`
	ConverterVersion string    `json:"converter_version,omitempty"`
	LibraryVersion   string    `json:"library_version"`
	RunID            string    `json:"run_id"`
}

func (o *Orchestrator) buildSidecar(id *artifact.Identity, rf *resolve.RawFile, size int64, runID string) *Sidecar {
	now := time.Now().UTC()
	s := &Sidecar{
		FileName:    id.FileName,
		FileType:    id.FileType.String(),
		ShipName:    id.ShipName,
		SurveyName:  id.SurveyName,
		Echosounder: id.Echosounder,
		DataSource:  string(id.DataSource),
		ICESCode:    id.ICESCode,

		CacheURI: objectURI(o.Resolver.CacheBucket, rf.CacheKey),

		SizeBytes: size,

		DateCreated:      now,
		DeletionDatetime: now.Add(o.retention()),
		UploadedBy:       o.UploadedBy,
		LibraryVersion:   version.Version,
		RunID:            runID,
	}
	if rf.ArchiveKey != "" {
		s.ArchiveURI = objectURI(o.Resolver.ArchiveBucket, rf.ArchiveKey)
	}
	if !id.CaptureTime.IsZero() {
		t := id.CaptureTime
		s.FileDatetime = &t
	}
	if o.Converter != nil {
		s.ConverterVersion = o.Converter.Version(context.Background())
	}
	return s
}

// uploadSidecar marshals side and puts it at rf's metadata key. Sidecars
// always track the payload, so they are written unconditionally.
func (o *Orchestrator) uploadSidecar(ctx context.Context, rf *resolve.RawFile, side *Sidecar) error {
	if rf.MetadataKey == "" {
		return nil
	}
	raw, err := json.MarshalIndent(side, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "cannot marshal sidecar", err)
	}
	return o.Resolver.Cache.PutObject(ctx, o.Resolver.CacheBucket, rf.MetadataKey,
		bytes.NewReader(raw), int64(len(raw)), "application/json")
}

func (o *Orchestrator) buildRecord(id *artifact.Identity, rf *resolve.RawFile, side *Sidecar) *registry.FileRecord {
	return &registry.FileRecord{
		FileName:    id.FileName,
		FileType:    id.FileType.String(),
		Ship:        id.ShipName,
		Survey:      id.SurveyName,
		Echosounder: id.Echosounder,
		DataSource:  string(id.DataSource),
		ICESCode:    id.ICESCode,

		CacheURI:   side.CacheURI,
		ArchiveURI: side.ArchiveURI,

		SizeBytes:   side.SizeBytes,
		CaptureTime: id.CaptureTime,

		UploadedAt:       side.DateCreated,
		UploadedBy:       side.UploadedBy,
		ConverterVersion: side.ConverterVersion,
		LibraryVersion:   side.LibraryVersion,
		RunID:            side.RunID,
	}
}

func objectURI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
