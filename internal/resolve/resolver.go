// Package resolve determines which backend, if any, currently holds a given
// artifact. Probes are read-only: one bounded stat per backend, cache first
// (cheap, same trust domain), then the authoritative archive, then the
// on-prem container.
package resolve

import (
	"context"

	"github.com/seabeam/echofetch/internal/blobstore"
	"github.com/seabeam/echofetch/internal/errs"
)

// Location tags the backend an artifact was found in.
type Location int

const (
	LocationNone Location = iota
	LocationCache
	LocationArchive
	LocationLocal
)

func (l Location) String() string {
	switch l {
	case LocationCache:
		return "cache"
	case LocationArchive:
		return "archive"
	case LocationLocal:
		return "local"
	default:
		return "none"
	}
}

// Resolution is the outcome of a resolve: where the artifact was found and
// under which key. FoundIn == LocationNone means it exists nowhere.
type Resolution struct {
	FoundIn Location
	Bucket  string
	Key     string
	Info    *blobstore.ObjectInfo
}

// Options tunes a single resolve call.
type Options struct {
	// ForceRefresh skips the cache probe, forcing resolution against the
	// authoritative backends.
	ForceRefresh bool
}

// Resolver probes the three backends for artifact existence. Local is
// optional: a nil store disables the on-prem probe.
type Resolver struct {
	Cache          blobstore.Store
	CacheBucket    string
	Archive        blobstore.Store
	ArchiveBucket  string
	Local          blobstore.Store
	LocalContainer string
}

// Resolve reports where rf currently lives. Existence flags are cached on rf
// after the first probe; ForceRefresh re-probes the cache. A NotFound from a
// backend is a negative answer, not an error; any other backend error aborts
// the resolve.
func (r *Resolver) Resolve(ctx context.Context, rf *RawFile, opts Options) (Resolution, error) {
	if opts.ForceRefresh {
		rf.inCache = nil
	}

	if !opts.ForceRefresh {
		found, info, err := r.probe(ctx, r.Cache, r.CacheBucket, rf.CacheKey, &rf.inCache)
		if err != nil {
			return Resolution{}, err
		}
		if found {
			return Resolution{FoundIn: LocationCache, Bucket: r.CacheBucket, Key: rf.CacheKey, Info: info}, nil
		}
	}

	if rf.ArchiveKey != "" && r.Archive != nil {
		found, info, err := r.probe(ctx, r.Archive, r.ArchiveBucket, rf.ArchiveKey, &rf.inArchive)
		if err != nil {
			return Resolution{}, err
		}
		if found {
			return Resolution{FoundIn: LocationArchive, Bucket: r.ArchiveBucket, Key: rf.ArchiveKey, Info: info}, nil
		}
	}

	if r.Local != nil {
		found, info, err := r.probe(ctx, r.Local, r.LocalContainer, rf.LocalKey, &rf.inLocal)
		if err != nil {
			return Resolution{}, err
		}
		if found {
			return Resolution{FoundIn: LocationLocal, Bucket: r.LocalContainer, Key: rf.LocalKey, Info: info}, nil
		}
	}

	return Resolution{FoundIn: LocationNone, Key: rf.CacheKey}, nil
}

// ExistsInCache probes only the cache backend.
func (r *Resolver) ExistsInCache(ctx context.Context, rf *RawFile) (bool, error) {
	found, _, err := r.probe(ctx, r.Cache, r.CacheBucket, rf.CacheKey, &rf.inCache)
	return found, err
}

// probe stats key on store, memoizing the boolean outcome in flag.
func (r *Resolver) probe(ctx context.Context, store blobstore.Store, bucket, key string, flag **bool) (bool, *blobstore.ObjectInfo, error) {
	if store == nil {
		return false, nil, nil
	}
	if *flag != nil {
		// Memoized answer; a later write-back flips the flag explicitly
		// rather than re-probing.
		return **flag, nil, nil
	}

	info, err := store.StatObject(ctx, bucket, key)
	if err != nil {
		if errs.IsNotFound(err) {
			f := false
			*flag = &f
			return false, nil, nil
		}
		return false, nil, err
	}
	f := true
	*flag = &f
	return true, info, nil
}

// MarkCached records that rf's payload now exists in the cache, so later
// resolves short-circuit without a probe. The orchestrator calls it after a
// successful write-back.
func (rf *RawFile) MarkCached() {
	f := true
	rf.inCache = &f
}
