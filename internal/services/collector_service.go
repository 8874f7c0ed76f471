package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/formdrop/internal/models"
)

// timestampLayout is the human-readable creation time stored on records.
const timestampLayout = "2006-01-02 15:04:05"

// ResponseStore abstracts the persistence operations the collector needs.
type ResponseStore interface {
	LoadAll() []models.Response
	Append(rec models.Response) error
	DeleteByID(id string) (bool, error)
	ClearAll() error
}

// FileSaver abstracts the upload side of a submission.
type FileSaver interface {
	SaveFile(recordID, filename string, r io.Reader) (string, error)
}

// UploadedFile carries the optional file part of a submission.
type UploadedFile struct {
	Filename string
	Content  io.Reader
}

// Submission transports the parsed form input into the service layer.
type Submission struct {
	Question1       string
	Question2       string
	MultipleOption  string
	YesNo           string
	CheckboxAnswers []string
	File            *UploadedFile
}

// ErrNilStore flags a service wired without persistence.
var ErrNilStore = errors.New("collector service store is nil")

// CollectorService hosts the submission workflow without HTTP concerns.
// Validation is trimming only; a submission always succeeds unless the
// filesystem refuses the upload or the collection write.
type CollectorService struct {
	store       ResponseStore
	files       FileSaver
	now         func() time.Time
	idGenerator func() string
}

// NewCollectorService constructs a service bound to the given store and
// upload coordinator. files may be nil when uploads are disabled.
func NewCollectorService(store ResponseStore, files FileSaver) *CollectorService {
	return &CollectorService{
		store:       store,
		files:       files,
		now:         time.Now,
		idGenerator: uuid.NewString,
	}
}

// Submit persists one form entry and returns the stored record. The upload is
// written before the record so a failed file write never leaves a record
// pointing at a file that does not exist. The reverse window (file written,
// record write fails) leaves an orphaned file behind on purpose.
func (s *CollectorService) Submit(sub Submission) (*models.Response, error) {
	if s.store == nil {
		return nil, ErrNilStore
	}
	rec := models.Response{
		ID:              s.idGenerator(),
		Timestamp:       s.now().Format(timestampLayout),
		Question1:       strings.TrimSpace(sub.Question1),
		Question2:       strings.TrimSpace(sub.Question2),
		MultipleOption:  strings.TrimSpace(sub.MultipleOption),
		YesNo:           strings.TrimSpace(sub.YesNo),
		CheckboxAnswers: sub.CheckboxAnswers,
	}
	if rec.CheckboxAnswers == nil {
		rec.CheckboxAnswers = []string{}
	}
	if sub.File != nil && sub.File.Filename != "" && s.files != nil {
		path, err := s.files.SaveFile(rec.ID, sub.File.Filename, sub.File.Content)
		if err != nil {
			return nil, fmt.Errorf("store upload: %w", err)
		}
		rec.UploadedFile = path
		rec.OriginalFilename = sub.File.Filename
	}
	if err := s.store.Append(rec); err != nil {
		return nil, fmt.Errorf("append response: %w", err)
	}
	return &rec, nil
}

// ListAll returns every stored record in insertion order.
func (s *CollectorService) ListAll() []models.Response {
	if s.store == nil {
		return nil
	}
	return s.store.LoadAll()
}

// DeleteOne removes the record with the given id and its uploaded file if it
// had one. It reports whether a record matched.
func (s *CollectorService) DeleteOne(id string) (bool, error) {
	if s.store == nil {
		return false, ErrNilStore
	}
	return s.store.DeleteByID(id)
}

// Clear empties the collection and the upload directory.
func (s *CollectorService) Clear() error {
	if s.store == nil {
		return ErrNilStore
	}
	return s.store.ClearAll()
}
