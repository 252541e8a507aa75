// Package presets saves named filter sets, together with the source they were
// written against, as JSON files in a directory.
package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pivotline/app/fileloader"
)

// ErrNotFound is returned when no preset has the requested name.
var ErrNotFound = errors.New("preset not found")

// Logger interface for preset store logging
type Logger interface {
	Log(level, message string)
}

type nopLogger struct{}

func (nopLogger) Log(string, string) {}

// Preset is one saved filter set. Filters hold serialized clauses and
// InstanceID names the installation that saved it.
type Preset struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	FilePath   string    `json:"filePath"`
	FileHash   string    `json:"fileHash,omitempty"`
	InstanceID string    `json:"instanceId,omitempty"`
	Filters    []string  `json:"filters"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store keeps presets as <sanitized name>.json files under one directory.
type Store struct {
	dir        string
	logger     Logger
	now        func() time.Time
	instanceID string
}

// NewStore returns a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string, logger Logger) *Store {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Store{dir: dir, logger: logger, now: time.Now}
}

// SetInstanceID stamps presets saved from now on with id.
func (s *Store) SetInstanceID(id string) {
	s.instanceID = id
}

// Dir returns the directory holding the preset files.
func (s *Store) Dir() string {
	return s.dir
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// FileName returns the file a preset called name is stored in.
func FileName(name string) string {
	return unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_") + ".json"
}

// Save writes a preset for the given source and clauses, replacing any preset
// stored under the same file name. The source fingerprint is best effort: an
// unreadable source is saved without one.
func (s *Store) Save(name, filePath string, filters []string) (*Preset, error) {
	return s.SaveSource(name, filePath, fileloader.Options{}, filters)
}

// SaveSource is Save for a source that was loaded with options, so that a
// directory or glob is fingerprinted over the files the load actually read.
func (s *Store) SaveSource(name, filePath string, options fileloader.Options, filters []string) (*Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("preset name is empty")
	}

	p := &Preset{
		ID:         uuid.New().String(),
		Name:       name,
		FilePath:   filePath,
		InstanceID: s.instanceID,
		Filters:    append([]string{}, filters...),
		CreatedAt:  s.now().UTC().Truncate(time.Second),
	}
	if existing, err := s.Get(name); err == nil && existing.ID != "" {
		p.ID = existing.ID
	}
	if filePath != "" {
		hash, err := Fingerprint(filePath, options)
		if err != nil {
			s.logger.Log("warn", fmt.Sprintf("[PRESETS] cannot fingerprint %s: %v", filePath, err))
		}
		p.FileHash = hash
	}

	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create presets directory: %w", err)
	}
	path := filepath.Join(s.dir, FileName(name))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return nil, fmt.Errorf("write preset: %w", err)
	}
	s.logger.Log("info", fmt.Sprintf("[PRESETS] saved %q with %d filters to %s", name, len(p.Filters), path))
	return p, nil
}

// Get reads the preset stored for name.
func (s *Store) Get(name string) (*Preset, error) {
	p, err := s.read(filepath.Join(s.dir, FileName(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, err
}

// List returns every readable preset, newest first. Presets without a
// creation time sort last. Unreadable files are skipped with a warning.
func (s *Store) List() ([]*Preset, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []*Preset
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		p, err := s.read(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.logger.Log("warn", fmt.Sprintf("[PRESETS] skipping %s: %v", e.Name(), err))
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.After(b)
	})
	return out, nil
}

// Delete removes the preset stored for name.
func (s *Store) Delete(name string) error {
	err := os.Remove(filepath.Join(s.dir, FileName(name)))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err == nil {
		s.logger.Log("info", fmt.Sprintf("[PRESETS] deleted %q", name))
	}
	return err
}

func (s *Store) read(path string) (*Preset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Preset
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return &p, nil
}
