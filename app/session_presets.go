package app

import (
	"fmt"

	"pivotline/app/presets"
)

// PresetApplied describes the outcome of ApplyPreset.
type PresetApplied struct {
	Preset *presets.Preset
	// Dropped counts stored clauses that no longer parse.
	Dropped int
	// SourceChanged is true when the preset has a fingerprint and the
	// session's source no longer matches it.
	SourceChanged bool
}

// SavePreset stores the current clauses and source path under name.
func (s *Session) SavePreset(store *presets.Store, name string) (*presets.Preset, error) {
	s.mu.RLock()
	path, options := s.path, s.options
	lines := s.filters.Strings()
	s.mu.RUnlock()
	return store.SaveSource(name, path, options, lines)
}

// ApplyPreset replaces the filter set with the preset's clauses. The mode is
// left unchanged.
func (s *Session) ApplyPreset(store *presets.Store, name string) (*PresetApplied, error) {
	p, err := store.Get(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	dropped := s.filters.Load(p.Filters, s.logger)
	active := s.filters.Len()
	path, options := s.path, s.options
	s.version.Add(1)
	s.mu.Unlock()

	applied := &PresetApplied{Preset: p, Dropped: dropped}
	if p.FileHash != "" && path != "" {
		current, err := presets.Fingerprint(path, options)
		if err != nil {
			s.Log("warn", fmt.Sprintf("[PRESETS] cannot fingerprint %s: %v", path, err))
		}
		applied.SourceChanged = current != p.FileHash
	}
	if applied.SourceChanged {
		s.Log("warn", fmt.Sprintf("[PRESETS] %q was saved against a different version of %s", p.Name, p.FilePath))
	}
	s.Log("info", fmt.Sprintf("[PRESETS] applied %q: %d clauses, %d dropped", p.Name, active, dropped))
	return applied, nil
}
