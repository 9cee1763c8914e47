package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gnzdotmx/lessonflowai/internal/utils"
)

// Curriculum synthesizes the initial list of lessons when no plan exists yet
type Curriculum interface {
	GenerateCurriculum(ctx context.Context) ([]Lesson, error)
}

// PlanCorruptError is returned when the persisted plan is not a well-formed document.
// It is fatal for the run: a malformed plan is never partially recovered.
type PlanCorruptError struct {
	Path string
	Err  error
}

func (e *PlanCorruptError) Error() string {
	return fmt.Sprintf("content plan %s is corrupt: %v", e.Path, e.Err)
}

func (e *PlanCorruptError) Unwrap() error {
	return e.Err
}

// Store persists the content plan as a single JSON file
type Store struct {
	path       string
	curriculum Curriculum
}

// NewStore creates a store for the plan at path. curriculum may be nil when the caller
// never needs to create a plan.
func NewStore(path string, curriculum Curriculum) *Store {
	return &Store{
		path:       path,
		curriculum: curriculum,
	}
}

// Path returns the location of the persisted plan
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a plan has been persisted. Only a missing file means no plan; any
// other stat failure is returned.
func (s *Store) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check content plan %s: %w", s.path, err)
}

// LoadOrCreate returns the persisted plan. When none exists, the curriculum collaborator
// produces one, all lessons pending, which is saved before it is returned.
func (s *Store) LoadOrCreate(ctx context.Context) (*ContentPlan, error) {
	exists, err := s.Exists()
	if err != nil {
		return nil, err
	}
	if exists {
		return s.Load()
	}

	if s.curriculum == nil {
		return nil, fmt.Errorf("no content plan at %s and no curriculum generator configured", s.path)
	}

	utils.LogInfo("No content plan found at %s, generating a new curriculum", s.path)
	lessons, err := s.curriculum.GenerateCurriculum(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate curriculum: %w", err)
	}
	if len(lessons) == 0 {
		return nil, errors.New("curriculum generator returned no lessons")
	}

	plan := &ContentPlan{Lessons: make([]Lesson, 0, len(lessons))}
	for _, lesson := range lessons {
		lesson.Status = StatusPending
		lesson.YouTubeID = nil
		plan.Lessons = append(plan.Lessons, lesson)
	}
	if err := plan.validate(); err != nil {
		return nil, fmt.Errorf("curriculum generator returned an invalid plan: %w", err)
	}

	if err := s.Save(plan); err != nil {
		return nil, err
	}
	utils.LogSuccess("New curriculum with %d lessons saved to %s", len(plan.Lessons), s.path)
	return plan, nil
}

// Load reads and validates the persisted plan
func (s *Store) Load() (*ContentPlan, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content plan: %w", err)
	}

	plan, err := decode(data)
	if err != nil {
		return nil, &PlanCorruptError{Path: s.path, Err: err}
	}

	utils.LogDebug("Loaded content plan with %d lessons from %s", len(plan.Lessons), s.path)
	return plan, nil
}

// Save overwrites the persisted plan with the full in-memory plan. The file is replaced
// atomically, so a crash leaves either the previous or the new snapshot on disk.
func (s *Store) Save(plan *ContentPlan) error {
	if plan == nil {
		return errors.New("cannot save a nil content plan")
	}

	data, err := encode(plan)
	if err != nil {
		return fmt.Errorf("failed to encode content plan: %w", err)
	}

	if err := utils.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to save content plan: %w", err)
	}
	return nil
}

func encode(plan *ContentPlan) ([]byte, error) {
	out := *plan
	if out.Lessons == nil {
		out.Lessons = []Lesson{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*ContentPlan, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var plan ContentPlan
	if err := dec.Decode(&plan); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the plan document")
	}
	if err := plan.validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}
