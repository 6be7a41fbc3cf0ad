package cache

import (
	"bytes"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"esologs_check/share"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Storage is a directory of JSON files addressed by a 128-bit hash.
// Entries older than ttl are treated as missing; a ttl of 0 keeps them forever.
type Storage struct {
	dir string
	ttl time.Duration

	savingLock sync.RWMutex
	saving     map[string]struct{}
}

// NewStorage opens dir, wiping it first when the fingerprint of sources differs from the
// one recorded by the previous run.
func NewStorage(dir string, ttl time.Duration, sources ...[]byte) (*Storage, error) {
	err := cleanUpWithHash(dir, sources...)
	if err != nil {
		return nil, err
	}

	return &Storage{
		dir:    dir,
		ttl:    ttl,
		saving: make(map[string]struct{}, 32),
	}, nil
}

func (s *Storage) lock(key string) bool {
	s.savingLock.Lock()
	defer s.savingLock.Unlock()

	_, ok := s.saving[key]
	if !ok {
		s.saving[key] = struct{}{}
	}
	return !ok
}
func (s *Storage) unlock(key string) {
	s.savingLock.Lock()
	defer s.savingLock.Unlock()

	delete(s.saving, key)
}
func (s *Storage) checkSkip(key string) bool {
	s.savingLock.RLock()
	defer s.savingLock.RUnlock()

	_, ok := s.saving[key]
	return ok
}

func (s *Storage) path(h hash.Hash) (string, string) {
	key := fmt.Sprintf("%x", h.Sum(nil))
	return key, filepath.Join(s.dir, key+".json")
}

func (s *Storage) open(h hash.Hash) (*os.File, bool) {
	key, path := s.path(h)
	if s.checkSkip(key) {
		return nil, false
	}

	fs, err := os.Open(path)
	if err != nil {
		return nil, false
	}

	if s.ttl > 0 {
		fi, err := fs.Stat()
		if err != nil || time.Since(fi.ModTime()) > s.ttl {
			fs.Close()
			os.Remove(path)
			return nil, false
		}
	}

	return fs, true
}

func (s *Storage) create(h hash.Hash, write func(w io.Writer) error) bool {
	key, path := s.path(h)
	if !s.lock(key) {
		return false
	}
	defer s.unlock(key)

	tmp := path + ".tmp"
	fs, err := os.Create(tmp)
	if err != nil {
		share.Capture(errors.WithStack(err), zap.String("path", tmp))
		return false
	}

	err = write(fs)
	if cerr := fs.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		share.Capture(errors.WithStack(err), zap.String("path", path))
		os.Remove(tmp)
		return false
	}

	return true
}

// Load decodes the entry for h into v.
func (s *Storage) Load(h hash.Hash, v interface{}) bool {
	fs, ok := s.open(h)
	if !ok {
		return false
	}
	defer fs.Close()

	err := jsoniter.NewDecoder(fs).Decode(v)
	if err != nil {
		share.Capture(errors.WithStack(err), zap.String("path", fs.Name()))
		return false
	}
	return true
}

// Save encodes v as the entry for h. A concurrent save of the same key is dropped.
func (s *Storage) Save(h hash.Hash, v interface{}) bool {
	return s.create(h, func(w io.Writer) error {
		return jsoniter.NewEncoder(w).Encode(v)
	})
}

// LoadRaw appends the stored bytes for h to buf.
func (s *Storage) LoadRaw(h hash.Hash, buf *bytes.Buffer) bool {
	fs, ok := s.open(h)
	if !ok {
		return false
	}
	defer fs.Close()

	l := buf.Len()
	_, err := buf.ReadFrom(fs)
	if err != nil {
		buf.Truncate(l)
		share.Capture(errors.WithStack(err), zap.String("path", fs.Name()))
		return false
	}
	return true
}

func (s *Storage) SaveRaw(h hash.Hash, data []byte) bool {
	return s.create(h, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
