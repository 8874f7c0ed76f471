package store

import (
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/soaringjerry/formdrop/internal/models"
)

// FileCleaner is the slice of the upload coordinator the store calls when
// records that reference stored files go away. The store never touches the
// upload directory itself.
type FileCleaner interface {
	Remove(path string)
	Sweep()
}

// Store owns the on-disk collection file: a single JSON array of responses in
// insertion order. Every mutation is a whole-file read-modify-write with no
// locking; concurrent cycles interleave last-writer-wins. The intended record
// count is small enough that rewriting the file is fine.
type Store struct {
	path   string
	files  FileCleaner
	logger *zap.Logger
}

// New builds a store over the collection file at path. files may be nil when
// no upload cleanup is wanted (tests mostly).
func New(path string, files FileCleaner, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, files: files, logger: logger}
}

// Init creates the collection file as an empty array if it does not exist
// yet, so a fresh deployment starts from valid JSON.
func (s *Store) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return s.writeAll(nil)
}

// LoadAll returns every record in insertion order. It never fails: a missing
// or unparseable collection file reads as empty.
func (s *Store) LoadAll() []models.Response {
	return s.readAll()
}

// Append adds rec at the end of the collection and rewrites the file.
func (s *Store) Append(rec models.Response) error {
	rs := s.readAll()
	rs = append(rs, rec)
	return s.writeAll(rs)
}

// DeleteByID removes the record with the given id, asking the cleaner to drop
// its uploaded file first when one is referenced. It reports whether a record
// matched; a miss leaves the collection untouched.
func (s *Store) DeleteByID(id string) (bool, error) {
	rs := s.readAll()
	for i, r := range rs {
		if r.ID != id {
			continue
		}
		if r.UploadedFile != "" && s.files != nil {
			s.files.Remove(r.UploadedFile)
		}
		rs = append(rs[:i], rs[i+1:]...)
		return true, s.writeAll(rs)
	}
	return false, nil
}

// ClearAll resets the collection to empty and sweeps the whole upload
// directory, referenced or not.
func (s *Store) ClearAll() error {
	if err := s.writeAll(nil); err != nil {
		return err
	}
	if s.files != nil {
		s.files.Sweep()
	}
	return nil
}

func (s *Store) readAll() []models.Response {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("read collection file", zap.String("path", s.path), zap.Error(err))
		}
		return []models.Response{}
	}
	rs, err := decodeResponses(data)
	if err != nil {
		s.logger.Warn("collection file is corrupt, treating as empty", zap.String("path", s.path), zap.Error(err))
		return []models.Response{}
	}
	return rs
}

func (s *Store) writeAll(rs []models.Response) error {
	data, err := encodeResponses(rs)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
