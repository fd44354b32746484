// Package store is the persistence gateway for the step log, screenshot
// gallery and recording state. All writes are serialized through a single
// mutex: the original extension's read-modify-write of a whole storage key
// raced across concurrent tabs, so this store makes single-writer explicit
// instead of inheriting that race.
//
// Writes are atomic at whole-log granularity (temp file + rename); there
// are no partial-document transactions.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/webtrail/webtrail-cli/internal/config"
	"github.com/webtrail/webtrail-cli/internal/model"
)

// ErrPersistence is returned when a write fails even after the one-shot
// eviction remediation. The caller keeps its in-memory session; only
// durability is lost.
var ErrPersistence = errors.New("persistence failed")

const (
	stepsFile  = "steps.json"
	shotsFile  = "screenshots.json"
	stateFile  = "state.json"
	reportFile = "report.json"
)

// Report kinds tracked for the auto-clear rule.
const (
	ReportFull  = "full"
	ReportShots = "shots"
)

// Store reads and writes the durable recorder state under one directory.
// Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	dir    string
	limits config.Limits

	// generated tracks which report kinds were produced this process
	// lifetime. Deliberately volatile: resets on restart, per the
	// auto-clear rule's semantics.
	generated map[string]bool
}

// Open creates the state directory if needed and returns a store over it.
func Open(dir string, limits config.Limits) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir %s: %w", dir, err)
	}
	return &Store{dir: dir, limits: limits, generated: make(map[string]bool)}, nil
}

// Append adds one step to the log unless the dedup policy suppresses it as
// a near-duplicate. Retention caps are enforced on every write. Returns
// true when the step was stored.
func (s *Store) Append(step model.Step) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps, err := s.loadSteps()
	if err != nil {
		return false, err
	}

	if isDuplicate(steps, step, s.limits) {
		return false, nil
	}

	steps = append(steps, step)
	steps = enforceCount(steps, s.limits.MaxSteps)

	if err := s.saveSteps(steps); err != nil {
		// One remediation attempt: evict the oldest fraction and retry.
		steps = dropOldestFraction(steps, remediationFraction)
		if retryErr := s.saveSteps(steps); retryErr != nil {
			return false, fmt.Errorf("%w: %v", ErrPersistence, retryErr)
		}
	}
	return true, nil
}

// Steps returns the full log in chronological order. Storage order is not
// assumed; concurrent appends may have landed out of order.
func (s *Store) Steps() ([]model.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps, err := s.loadSteps()
	if err != nil {
		return nil, err
	}
	model.SortByTime(steps)
	return steps, nil
}

// Clear removes every step. The screenshot gallery is untouched.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFile(stepsFile)
}

// AddScreenshot appends to the gallery, evicting oldest-first past the cap.
// Screenshots are exempt from dedup: repeated captures are legitimate.
func (s *Store) AddScreenshot(shot model.Screenshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shots, err := s.loadShots()
	if err != nil {
		return err
	}
	shots = append(shots, shot)
	if max := s.limits.MaxScreenshots; max > 0 && len(shots) > max {
		shots = shots[len(shots)-max:]
	}
	return s.writeJSON(shotsFile, shots)
}

// Screenshots returns the gallery in capture order.
func (s *Store) Screenshots() ([]model.Screenshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadShots()
}

// ClearScreenshots empties the gallery.
func (s *Store) ClearScreenshots() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFile(shotsFile)
}

// RecordingState loads the persisted state; a missing file means inactive.
func (s *Store) RecordingState() (model.RecordingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var state model.RecordingState
	if err := s.readJSON(stateFile, &state); err != nil {
		if os.IsNotExist(err) {
			return model.RecordingState{}, nil
		}
		return model.RecordingState{}, err
	}
	return state, nil
}

// SetRecordingState persists the state so a session survives restarts.
func (s *Store) SetRecordingState(state model.RecordingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(stateFile, state)
}

// SaveReportSnapshot stores the latest rendered report. Interim snapshots
// (pause/stop) use this alone; explicit report generation additionally
// calls MarkReportGenerated.
func (s *Store) SaveReportSnapshot(snap model.ReportSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(reportFile, snap)
}

// MarkReportGenerated records that a report kind was produced. Once both
// kinds (full document and screenshot-only document) have been generated,
// the log and gallery are cleared automatically: the user has extracted
// everything they need. The tracking is volatile and resets on restart.
func (s *Store) MarkReportGenerated(kind string) (cleared bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generated[kind] = true
	if !s.generated[ReportFull] || !s.generated[ReportShots] {
		return false, nil
	}
	s.generated = make(map[string]bool)
	if err := s.removeFile(stepsFile); err != nil {
		return false, err
	}
	if err := s.removeFile(shotsFile); err != nil {
		return false, err
	}
	return true, nil
}

// LastReport returns the most recent report snapshot, if any.
func (s *Store) LastReport() (model.ReportSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap model.ReportSnapshot
	if err := s.readJSON(reportFile, &snap); err != nil {
		if os.IsNotExist(err) {
			return model.ReportSnapshot{}, false, nil
		}
		return model.ReportSnapshot{}, false, err
	}
	return snap, true, nil
}

func (s *Store) loadSteps() ([]model.Step, error) {
	var steps []model.Step
	if err := s.readJSON(stepsFile, &steps); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return steps, nil
}

// saveSteps enforces the byte cap before writing: the serialized log must
// stay under MaxLogBytes, dropping the oldest fraction until it fits.
func (s *Store) saveSteps(steps []model.Step) error {
	data, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	for s.limits.MaxLogBytes > 0 && int64(len(data)) > s.limits.MaxLogBytes && len(steps) > 0 {
		steps = dropOldestFraction(steps, remediationFraction)
		if data, err = json.Marshal(steps); err != nil {
			return fmt.Errorf("marshal steps: %w", err)
		}
	}
	return s.writeFile(stepsFile, data)
}

func (s *Store) loadShots() ([]model.Screenshot, error) {
	var shots []model.Screenshot
	if err := s.readJSON(shotsFile, &shots); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return shots, nil
}

func (s *Store) readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return s.writeFile(name, data)
}

// writeFile writes via temp file + rename so readers never observe a
// partially written log.
func (s *Store) writeFile(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *Store) removeFile(name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
