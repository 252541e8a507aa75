// Package app ties the engines together into an analysis session: one loaded
// table, the filter set narrowing it, and the crosstab, statistics,
// derivation and preset operations that run over it.
package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"pivotline/app/cache"
	"pivotline/app/crosstab"
	"pivotline/app/derive"
	"pivotline/app/fileloader"
	"pivotline/app/query"
	"pivotline/app/stats"
	"pivotline/app/table"
)

// ErrNoTable is returned by operations that need a loaded table.
var ErrNoTable = errors.New("no table loaded")

// Logger interface for session logging
type Logger interface {
	Log(level, message string)
}

type nopLogger struct{}

func (nopLogger) Log(string, string) {}

// Session owns one table and one filter set. Tables are never mutated once
// published: loading replaces the table and DeriveColumn swaps in an extended
// copy, so a snapshot taken under the read lock stays valid after the lock is
// released.
type Session struct {
	mu      sync.RWMutex
	logger  Logger
	path    string
	options fileloader.Options
	full    *table.Table
	filters *query.FilterSet

	// version counts changes to the table or filters. It is bumped while mu
	// is held for writing, so a reader holding mu sees a version that
	// matches the table and filters. Async results carry the version they
	// were computed at so callers can drop stale ones.
	version atomic.Int64

	// results memoizes crosstabs by version and request.
	results *cache.Cache[*crosstab.Result]
}

// NewSession returns an empty session whose filter set starts in mode.
func NewSession(mode query.Mode, logger Logger) *Session {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Session{
		logger:  logger,
		filters: query.NewFilterSet(mode),
		results: cache.New[*crosstab.Result](cache.DefaultCapacity, logger),
	}
}

// Log writes a message through the session logger.
func (s *Session) Log(level, message string) {
	s.logger.Log(level, message)
}

// Load reads path and makes it the session table. The filter set is kept, so
// clauses written for the previous source apply to the new one.
func (s *Session) Load(path string, options fileloader.Options) error {
	t, err := fileloader.NewLoader(s.logger).Load(path, options)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	s.mu.Lock()
	s.path = path
	s.options = options
	s.full = t
	v := s.version.Add(1)
	s.mu.Unlock()
	s.Log("info", fmt.Sprintf("[SESSION] loaded %s: %d columns, %d rows (version %d)", path, len(t.Header), t.Len(), v))
	return nil
}

// SetTable installs an already built table, e.g. for tests or piped input.
func (s *Session) SetTable(path string, t *table.Table) {
	s.mu.Lock()
	s.path = path
	s.options = fileloader.Options{}
	s.full = t.Clone()
	s.version.Add(1)
	s.mu.Unlock()
}

// Path returns the source the table was loaded from.
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Version returns the current change counter.
func (s *Session) Version() int64 {
	return s.version.Load()
}

// IsCurrent reports whether nothing changed since version was observed.
func (s *Session) IsCurrent(version int64) bool {
	return s.version.Load() == version
}

// Header returns a copy of the current header.
func (s *Session) Header() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.full == nil {
		return nil
	}
	return append([]string(nil), s.full.Header...)
}

// Table returns a copy of the unfiltered table.
func (s *Session) Table() (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.full == nil {
		return nil, ErrNoTable
	}
	return s.full.Clone(), nil
}

// snapshot returns the published table and the rows passing the filters.
// Callers must hold at least the read lock.
func (s *Session) snapshot() (full, filtered *table.Table, err error) {
	if s.full == nil {
		return nil, nil, ErrNoTable
	}
	return s.full, s.filters.Filter(s.full), nil
}

// Filtered returns the rows passing the current filter set as a new table.
func (s *Session) Filtered() (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, filtered, err := s.snapshot()
	return filtered, err
}

// AddFilter appends c unless an identical clause is already present.
func (s *Session) AddFilter(c query.Clause) bool {
	s.mu.Lock()
	added := s.filters.Add(c)
	if added {
		s.version.Add(1)
	}
	s.mu.Unlock()
	if added {
		s.Log("debug", fmt.Sprintf("[SESSION] filter added: %s", c))
	}
	return added
}

// AddFilterString parses line and adds the clause.
func (s *Session) AddFilterString(line string) (query.Clause, error) {
	c, err := query.ParseClause(line)
	if err != nil {
		return c, err
	}
	s.AddFilter(c)
	return c, nil
}

// RemoveFilter removes the clause equal to c.
func (s *Session) RemoveFilter(c query.Clause) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.filters.Remove(c)
	if removed {
		s.version.Add(1)
	}
	return removed
}

// ClearFilters drops every clause.
func (s *Session) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Clear()
	s.version.Add(1)
}

// SetMode switches between AND and OR combination.
func (s *Session) SetMode(mode query.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filters.Mode() != mode {
		s.filters.SetMode(mode)
		s.version.Add(1)
	}
}

// Mode returns the filter combination mode.
func (s *Session) Mode() query.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Mode()
}

// Filters returns the current clauses in insertion order.
func (s *Session) Filters() []query.Clause {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clauses()
}

// Count returns the number of rows passing the filters.
func (s *Session) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.full == nil {
		return 0, ErrNoTable
	}
	return stats.Count(s.full, s.filters), nil
}

// Statistics summarizes the numeric values of column over the filtered rows.
func (s *Session) Statistics(column string) (stats.Summary, error) {
	filtered, err := s.Filtered()
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.ColumnSummary(filtered, column)
}

// DistinctValues lists the distinct non-empty values of column in the
// filtered rows.
func (s *Session) DistinctValues(column string) ([]string, error) {
	filtered, err := s.Filtered()
	if err != nil {
		return nil, err
	}
	return stats.DistinctValues(filtered, column)
}

// DeriveColumn evaluates spec over every row of the unfiltered table and
// appends the result as column name. It returns the values and how many of
// them are "ERROR".
func (s *Session) DeriveColumn(name string, spec derive.Spec) ([]string, int, error) {
	s.mu.Lock()
	if s.full == nil {
		s.mu.Unlock()
		return nil, 0, ErrNoTable
	}
	values, err := derive.Column(s.full, spec)
	if err != nil {
		s.mu.Unlock()
		return nil, 0, err
	}
	next := s.full.Clone()
	if err := next.AddColumn(name, values); err != nil {
		s.mu.Unlock()
		return nil, 0, err
	}
	s.full = next
	s.version.Add(1)
	s.mu.Unlock()

	errs := derive.CountErrors(values)
	s.Log("info", fmt.Sprintf("[DERIVE] added column %q (%d rows, %d errors)", name, len(values), errs))
	return values, errs, nil
}
