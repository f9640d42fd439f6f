// Package memstore provides an in-memory blobstore.Store used in tests.
//
// It records per-operation call counts so tests can assert things like "a
// cache hit performs zero archive downloads".
package memstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/seabeam/echofetch/internal/blobstore"
	"github.com/seabeam/echofetch/internal/errs"
)

// Counters tallies Store operations by name.
type Counters struct {
	List    int
	Stat    int
	Get     int
	Put     int
	Remove  int
	Presign int
}

type entry struct {
	data        []byte
	contentType string
	modified    time.Time
}

// Store is an in-memory blobstore.Store. The zero value is not usable; call
// New.
type Store struct {
	mu       sync.Mutex
	buckets  map[string]map[string]entry
	counters Counters
	readOnly bool
}

var _ blobstore.Store = (*Store)(nil)

// New returns an empty writable store.
func New() *Store {
	return &Store{buckets: map[string]map[string]entry{}}
}

// NewReadOnly returns a store that rejects writes, mimicking the archive and
// on-prem drivers.
func NewReadOnly() *Store {
	s := New()
	s.readOnly = true
	return s
}

// Seed inserts an object directly, bypassing counters and the read-only
// guard. Tests use it to arrange backend contents.
func (s *Store) Seed(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.buckets[bucket]
	if b == nil {
		b = map[string]entry{}
		s.buckets[bucket] = b
	}
	b[key] = entry{data: append([]byte(nil), data...), modified: time.Now()}
}

// Counts returns a snapshot of the operation counters.
func (s *Store) Counts() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}

// Bytes returns the stored content at bucket/key, or nil when absent.
func (s *Store) Bytes(bucket, key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.buckets[bucket][key]; ok {
		return append([]byte(nil), e.data...)
	}
	return nil
}

// --- blobstore.Store implementation ---

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) ListObjects(ctx context.Context, bucket string, opts blobstore.ListOptions) ([]blobstore.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.List++

	var keys []string
	for k := range s.buckets[bucket] {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var results []blobstore.ObjectInfo
	seenDirs := map[string]bool{}
	for _, k := range keys {
		if opts.Recursive {
			e := s.buckets[bucket][k]
			results = append(results, blobstore.ObjectInfo{
				Key: k, Size: int64(len(e.data)), LastModified: e.modified,
			})
		} else {
			rest := strings.TrimPrefix(k, opts.Prefix)
			if i := strings.IndexByte(rest, '/'); i >= 0 {
				dir := opts.Prefix + rest[:i+1]
				if seenDirs[dir] {
					continue
				}
				seenDirs[dir] = true
				results = append(results, blobstore.ObjectInfo{Key: dir, Size: -1, IsDir: true})
			} else {
				e := s.buckets[bucket][k]
				results = append(results, blobstore.ObjectInfo{
					Key: k, Size: int64(len(e.data)), LastModified: e.modified,
				})
			}
		}
		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
	}
	return results, nil
}

func (s *Store) StatObject(ctx context.Context, bucket, key string) (*blobstore.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.Stat++

	e, ok := s.buckets[bucket][key]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "no object at %s/%s", bucket, key)
	}
	return &blobstore.ObjectInfo{
		Key:          key,
		Size:         int64(len(e.data)),
		ContentType:  e.contentType,
		LastModified: e.modified,
	}, nil
}

func (s *Store) GetObject(ctx context.Context, bucket, key string) (blobstore.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.Get++

	e, ok := s.buckets[bucket][key]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "no object at %s/%s", bucket, key)
	}
	info := &blobstore.ObjectInfo{
		Key:          key,
		Size:         int64(len(e.data)),
		ContentType:  e.contentType,
		LastModified: e.modified,
	}
	return &object{Reader: bytes.NewReader(e.data), info: info}, nil
}

func (s *Store) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errs.Wrap(errs.ErrKindQueryFailed, "reading payload", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.Put++

	if s.readOnly {
		return errs.New(errs.ErrKindReadOnly, "store is read-only")
	}
	b := s.buckets[bucket]
	if b == nil {
		b = map[string]entry{}
		s.buckets[bucket] = b
	}
	b[key] = entry{data: data, contentType: contentType, modified: time.Now()}
	return nil
}

func (s *Store) RemoveObject(ctx context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.Remove++

	if s.readOnly {
		return errs.New(errs.ErrKindReadOnly, "store is read-only")
	}
	if _, ok := s.buckets[bucket][key]; !ok {
		return errs.Newf(errs.ErrKindNotFound, "no object at %s/%s", bucket, key)
	}
	delete(s.buckets[bucket], key)
	return nil
}

func (s *Store) PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.Presign++

	if _, ok := s.buckets[bucket][key]; !ok {
		return "", errs.Newf(errs.ErrKindNotFound, "no object at %s/%s", bucket, key)
	}
	return "memstore://" + bucket + "/" + key, nil
}

type object struct {
	*bytes.Reader
	info *blobstore.ObjectInfo
}

func (o *object) Close() error {
	return nil
}

func (o *object) Info() *blobstore.ObjectInfo {
	return o.info
}
