package resolve

import (
	"github.com/seabeam/echofetch/internal/artifact"
	"github.com/seabeam/echofetch/internal/keys"
)

// RawFile wraps a validated identity together with every key derived from it
// and the lazily-populated per-backend existence flags. Identity fields and
// keys are immutable after construction; the flags are filled in by the
// Resolver on first probe and reused afterwards.
type RawFile struct {
	ID *artifact.Identity

	// CacheKey addresses the artifact in the cache bucket.
	CacheKey string
	// MetadataKey addresses the artifact's JSON sidecar in the cache bucket.
	MetadataKey string
	// ArchiveKey addresses the artifact in the public archive. Empty for
	// artifact types the archive does not hold (converted containers).
	ArchiveKey string
	// LocalKey addresses the artifact in the on-prem container.
	LocalKey string

	// Resolution caches. nil means "not probed yet".
	inCache   *bool
	inArchive *bool
	inLocal   *bool
}

// NewRawFile derives all storage keys for id.
func NewRawFile(id *artifact.Identity) (*RawFile, error) {
	cacheKey, err := keys.Cache(id)
	if err != nil {
		return nil, err
	}

	rf := &RawFile{
		ID:       id,
		CacheKey: cacheKey,
	}

	// Only payload artifacts get a JSON sidecar.
	if !id.IsMetadata && !id.IsSurveyMetadata &&
		(id.FileType.IsRawFamily() || id.FileType.IsConverted()) {
		meta := id.Companion(id.FileType)
		meta.IsMetadata = true
		metaKey, err := keys.Cache(meta)
		if err != nil {
			return nil, err
		}
		rf.MetadataKey = metaKey
	}

	if id.FileType.IsRawFamily() {
		archiveKey, err := keys.Archive(id)
		if err != nil {
			return nil, err
		}
		rf.ArchiveKey = archiveKey
	}

	localKey, err := keys.Local(id)
	if err != nil {
		return nil, err
	}
	rf.LocalKey = localKey

	return rf, nil
}

// Companion builds the RawFile for the same recording's companion artifact.
func (rf *RawFile) Companion(t artifact.FileType) (*RawFile, error) {
	return NewRawFile(rf.ID.Companion(t))
}

// InvalidateResolution clears the cached existence flags, forcing the next
// Resolve to probe the backends again.
func (rf *RawFile) InvalidateResolution() {
	rf.inCache = nil
	rf.inArchive = nil
	rf.inLocal = nil
}
