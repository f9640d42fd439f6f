// Package fetch moves artifacts into the cache bucket: resolve where the
// payload lives, download it to the staging directory, convert raw
// recordings to netCDF when asked, and write the payload plus its JSON
// sidecar back to the cache.
package fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/seabeam/echofetch/internal/artifact"
	"github.com/seabeam/echofetch/internal/blobstore"
	"github.com/seabeam/echofetch/internal/convert"
	"github.com/seabeam/echofetch/internal/errs"
	"github.com/seabeam/echofetch/internal/logger"
	"github.com/seabeam/echofetch/internal/registry"
	"github.com/seabeam/echofetch/internal/resolve"
)

// State is one step of the per-artifact fetch pipeline. A Result carries the
// furthest state reached, so callers can tell a resolve failure from an
// upload failure.
type State int

const (
	StateStart State = iota
	StateResolved
	StateDownloading
	StateDownloaded
	StateConverting
	StateConverted
	StateUploading
	StateCached
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateResolved:
		return "resolved"
	case StateDownloading:
		return "downloading"
	case StateDownloaded:
		return "downloaded"
	case StateConverting:
		return "converting"
	case StateConverted:
		return "converted"
	case StateUploading:
		return "uploading"
	case StateCached:
		return "cached"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request asks for one artifact to be present in the cache.
type Request struct {
	ID *artifact.Identity

	// Overwrite replaces an existing cache object. When false (the
	// default) an occupied cache key fails with ErrKindAlreadyExists.
	Overwrite bool

	// ForceRefresh skips the cache probe and re-fetches from the
	// authoritative backends even when the cache already has the payload.
	ForceRefresh bool
}

// Result reports the outcome of one fetch.
type Result struct {
	State       State
	Source      resolve.Location
	CacheKey    string
	BytesCopied int64
	Converted   bool
	RunID       string
}

// Orchestrator wires the resolver, the converter and the optional registry
// into the fetch pipeline. Records and Local may be nil.
type Orchestrator struct {
	Resolver  *resolve.Resolver
	Converter convert.Converter
	Records   registry.RecordStore
	Log       *logger.Logger

	// StagingDir receives downloaded payloads; created on first use.
	StagingDir string
	// UploadedBy is recorded in sidecars and registry rows.
	UploadedBy string
	// Retention is how long cached payloads are kept before the sweeper
	// may delete them. Zero means the 90-day default.
	Retention time.Duration
}

const defaultRetention = 90 * 24 * time.Hour

// Fetch runs the pipeline for one payload artifact. It performs at most one
// payload write; there is no cross-process locking, so under Overwrite the
// last writer wins.
func (o *Orchestrator) Fetch(ctx context.Context, req Request) (*Result, error) {
	if req.ID == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "identity is required")
	}
	if req.ID.IsMetadata || req.ID.IsSurveyMetadata {
		return nil, errs.New(errs.ErrKindInvalidInput,
			"fetch moves payload artifacts, not metadata records")
	}

	rf, err := resolve.NewRawFile(req.ID)
	if err != nil {
		return nil, err
	}

	res := &Result{
		State:    StateStart,
		CacheKey: rf.CacheKey,
		RunID:    uuid.NewString(),
	}
	log := o.log().With().
		Str("run_id", res.RunID).
		Str("cache_key", rf.CacheKey).
		Logger()

	if err := o.run(ctx, req, rf, res, log); err != nil {
		log.With().Err(err).Str("state", res.State.String()).Logger().
			Error("fetch failed")
		res.State = StateFailed
		return res, err
	}
	res.State = StateDone
	return res, nil
}

func (o *Orchestrator) run(ctx context.Context, req Request, rf *resolve.RawFile, res *Result, log *logger.Logger) error {
	// Overwrite implies re-fetching from the authoritative backends, so
	// the cache probe is skipped in both modes.
	opts := resolve.Options{ForceRefresh: req.ForceRefresh || req.Overwrite}

	resolution, err := o.Resolver.Resolve(ctx, rf, opts)
	if err != nil {
		return err
	}
	res.State = StateResolved
	res.Source = resolution.FoundIn

	if resolution.FoundIn == resolve.LocationCache {
		// Cache hit without Overwrite: nothing to transfer.
		log.Debug("cache hit, nothing to do")
		return nil
	}

	// The payload to download. A netCDF request with no converted copy
	// anywhere falls back to the .raw recording plus a conversion step.
	srcRF, needsConvert := rf, false
	if resolution.FoundIn == resolve.LocationNone {
		if req.ID.FileType != artifact.TypeNetCDF {
			return errs.Newf(errs.ErrKindNotFound,
				"%s exists in no backend", rf.CacheKey)
		}
		rawRF, err := rf.Companion(artifact.TypeRaw)
		if err != nil {
			return err
		}
		rawResolution, err := o.Resolver.Resolve(ctx, rawRF, opts)
		if err != nil {
			return err
		}
		if rawResolution.FoundIn == resolve.LocationNone {
			return errs.Newf(errs.ErrKindNotFound,
				"neither %s nor its raw recording exists in any backend", rf.CacheKey)
		}
		srcRF, resolution, needsConvert = rawRF, rawResolution, true
		res.Source = resolution.FoundIn
	}

	res.State = StateDownloading
	stagePath := o.stagePath(srcRF)
	n, err := o.download(ctx, resolution, stagePath)
	if err != nil {
		return err
	}
	res.State = StateDownloaded
	res.BytesCopied += n
	log.With().Str("source", resolution.FoundIn.String()).Logger().
		Debugf("downloaded %d bytes to %s", n, stagePath)

	if needsConvert {
		res.State = StateConverting
		ncPath, err := o.Converter.Convert(ctx, convert.Request{
			RawPath:    stagePath,
			OutputDir:  filepath.Dir(stagePath),
			SonarModel: req.ID.Echosounder,
			Overwrite:  true,
		})
		if err != nil {
			return err
		}
		res.State = StateConverted
		res.Converted = true
		stagePath = ncPath
	}

	res.State = StateUploading
	if !req.Overwrite {
		exists, err := o.Resolver.ExistsInCache(ctx, rf)
		if err != nil {
			return err
		}
		if exists {
			return errs.Newf(errs.ErrKindAlreadyExists,
				"%s already exists in the cache; pass Overwrite to replace it", rf.CacheKey)
		}
	}

	size, err := o.upload(ctx, stagePath, rf.CacheKey, "application/octet-stream")
	if err != nil {
		return err
	}
	res.BytesCopied += size
	rf.MarkCached()
	res.State = StateCached

	side := o.buildSidecar(req.ID, rf, size, res.RunID)
	if err := o.uploadSidecar(ctx, rf, side); err != nil {
		return err
	}

	// Raw recordings pulled from the archive drag their .idx/.bot
	// companions along when present. Best effort: a missing or failing
	// companion never fails the fetch.
	if req.ID.FileType == artifact.TypeRaw && resolution.FoundIn == resolve.LocationArchive {
		o.fetchCompanions(ctx, rf, res, log)
	}

	if o.Records != nil {
		if err := o.Records.SaveFileRecord(ctx, o.buildRecord(req.ID, rf, side)); err != nil {
			log.With().Err(err).Logger().Warn("registry record not saved")
		}
	}
	return nil
}

// EnsureNetCDF fetches the converted form of a recording, converting from
// raw when no netCDF exists yet in any backend.
func (o *Orchestrator) EnsureNetCDF(ctx context.Context, req Request) (*Result, error) {
	if req.ID == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "identity is required")
	}
	if !req.ID.FileType.IsRawFamily() && !req.ID.FileType.IsConverted() {
		return nil, errs.Newf(errs.ErrKindInvalidInput,
			"%s artifacts have no converted form", req.ID.FileType)
	}
	if req.ID.FileType != artifact.TypeNetCDF {
		req.ID = req.ID.Companion(artifact.TypeNetCDF)
	}
	return o.Fetch(ctx, req)
}

// fetchCompanions copies the .idx and .bot siblings from the archive into
// the cache. Failures are logged and swallowed.
func (o *Orchestrator) fetchCompanions(ctx context.Context, rf *resolve.RawFile, res *Result, log *logger.Logger) {
	for _, t := range []artifact.FileType{artifact.TypeIndex, artifact.TypeBottom} {
		crf, err := rf.Companion(t)
		if err != nil {
			log.With().Err(err).Logger().Warn("companion key derivation failed")
			continue
		}
		resolution, err := o.Resolver.Resolve(ctx, crf, resolve.Options{})
		if err != nil {
			log.With().Err(err).Logger().Warn("companion resolve failed")
			continue
		}
		if resolution.FoundIn != resolve.LocationArchive {
			continue
		}

		stagePath := o.stagePath(crf)
		n, err := o.download(ctx, resolution, stagePath)
		if err != nil {
			log.With().Err(err).Logger().Warn("companion download failed")
			continue
		}
		size, err := o.upload(ctx, stagePath, crf.CacheKey, "application/octet-stream")
		if err != nil {
			log.With().Err(err).Logger().Warn("companion upload failed")
			continue
		}
		crf.MarkCached()
		res.BytesCopied += n + size
	}
}

// stagePath maps rf onto the staging directory using the on-prem layout,
// ship/survey/echosounder/file.
func (o *Orchestrator) stagePath(rf *resolve.RawFile) string {
	return filepath.Join(o.StagingDir, filepath.FromSlash(rf.LocalKey))
}

// download streams the resolved object into dest, creating parent
// directories as needed.
func (o *Orchestrator) download(ctx context.Context, resolution resolve.Resolution, dest string) (int64, error) {
	store := o.storeFor(resolution.FoundIn)
	if store == nil {
		return 0, errs.Newf(errs.ErrKindNotFound,
			"no backend holds %s", resolution.Key)
	}

	obj, err := store.GetObject(ctx, resolution.Bucket, resolution.Key)
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, errs.Wrap(errs.ErrKindInvalidInput, "cannot create staging directory", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return 0, errs.Wrap(errs.ErrKindInvalidInput, "cannot create staging file", err)
	}

	n, err := io.Copy(f, obj)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return 0, errs.Wrap(errs.ErrKindConnectionFailed, "download interrupted", err)
	}
	return n, nil
}

// upload streams the staged file to the cache bucket.
func (o *Orchestrator) upload(ctx context.Context, path, key, contentType string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errs.Wrap(errs.ErrKindInvalidInput, "cannot open staged file", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return 0, errs.Wrap(errs.ErrKindInvalidInput, "cannot stat staged file", err)
	}
	if err := o.Resolver.Cache.PutObject(ctx, o.Resolver.CacheBucket, key, f, st.Size(), contentType); err != nil {
		return 0, err
	}
	return st.Size(), nil
}

func (o *Orchestrator) storeFor(l resolve.Location) blobstore.Store {
	switch l {
	case resolve.LocationCache:
		return o.Resolver.Cache
	case resolve.LocationArchive:
		return o.Resolver.Archive
	case resolve.LocationLocal:
		return o.Resolver.Local
	default:
		return nil
	}
}

func (o *Orchestrator) log() *logger.Logger {
	if o.Log != nil {
		return o.Log
	}
	return logger.Nop()
}

func (o *Orchestrator) retention() time.Duration {
	if o.Retention > 0 {
		return o.Retention
	}
	return defaultRetention
}
