package uploads

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// fallbackName is used when sanitizing leaves nothing of the client filename.
const fallbackName = "upload"

// Coordinator owns the flat upload directory. Stored files are named
// <recordID>_<sanitized original name>, which keeps two uploads with the same
// client-side filename from colliding.
type Coordinator struct {
	dir    string
	logger *zap.Logger
}

// NewCoordinator builds a coordinator over dir. The directory is created by
// EnsureDir, not here.
func NewCoordinator(dir string, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{dir: dir, logger: logger}
}

// EnsureDir creates the upload directory if needed.
func (c *Coordinator) EnsureDir() error {
	return os.MkdirAll(c.dir, 0o755)
}

// Dir returns the upload directory path.
func (c *Coordinator) Dir() string { return c.dir }

// SaveFile writes the uploaded content under the upload directory and returns
// the relative path to store on the record. An empty filename means no file
// was submitted and yields ("", nil).
func (c *Coordinator) SaveFile(recordID, filename string, r io.Reader) (string, error) {
	if filename == "" {
		return "", nil
	}
	name := recordID + "_" + SanitizeFilename(filename)
	path := filepath.Join(c.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	c.logger.Debug("stored uploaded file", zap.String("path", path))
	return filepath.ToSlash(path), nil
}

// Remove unlinks a stored upload, best effort. A missing file is fine; any
// other failure is logged and swallowed so cleanup never blocks the record
// mutation it belongs to. Paths outside the upload directory are refused.
func (c *Coordinator) Remove(path string) {
	if path == "" {
		return
	}
	p := filepath.FromSlash(path)
	if !c.contains(p) {
		c.logger.Warn("refusing to remove path outside upload dir", zap.String("path", path))
		return
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("remove uploaded file", zap.String("path", path), zap.Error(err))
	}
}

// Sweep deletes every regular file in the upload directory, whether or not a
// record still references it. Subdirectories are skipped, not recursed.
func (c *Coordinator) Sweep() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("sweep upload dir", zap.String("dir", c.dir), zap.Error(err))
		}
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(c.dir, e.Name())
		if err := os.Remove(p); err != nil {
			c.logger.Warn("sweep uploaded file", zap.String("path", p), zap.Error(err))
		}
	}
}

func (c *Coordinator) contains(path string) bool {
	rel, err := filepath.Rel(c.dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SanitizeFilename reduces a client-supplied filename to a filesystem-safe
// base name: path components are dropped, only ASCII letters, digits, dot,
// underscore and hyphen survive, spaces become underscores, and leading or
// trailing dots and underscores are trimmed. An empty result falls back to a
// constant name.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(filepath.FromSlash(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return fallbackName
	}
	return out
}
