// Package plan provides the content plan: the ordered list of lessons and their production status,
// persisted as a single JSON document between runs.
package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Status is the production status of a lesson
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusComplete
}

// Ident is a chapter or part identifier. The curriculum may emit numbers or strings;
// the original JSON form is kept so a load/save cycle does not rewrite it.
type Ident struct {
	raw json.RawMessage
}

// IntIdent builds a numeric identifier
func IntIdent(n int) Ident {
	return Ident{raw: json.RawMessage(strconv.Itoa(n))}
}

// StringIdent builds a string identifier
func StringIdent(s string) Ident {
	raw, _ := json.Marshal(s)
	return Ident{raw: raw}
}

// String returns the identifier without JSON quoting
func (i Ident) String() string {
	if len(i.raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(i.raw, &s); err == nil {
		return s
	}
	return string(i.raw)
}

// IsZero reports whether the identifier was never set
func (i Ident) IsZero() bool {
	return len(i.raw) == 0
}

// MarshalJSON implements json.Marshaler
func (i Ident) MarshalJSON() ([]byte, error) {
	if len(i.raw) == 0 {
		return []byte("null"), nil
	}
	return i.raw, nil
}

// UnmarshalJSON accepts a JSON string or number
func (i *Ident) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		i.raw = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		i.raw = append(json.RawMessage(nil), trimmed...)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		i.raw = append(json.RawMessage(nil), trimmed...)
		return nil
	}
	return fmt.Errorf("identifier must be a string or a number, got %s", string(trimmed))
}

// Lesson is one unit of curriculum content, producing one long-form and one short-form video
type Lesson struct {
	Chapter   Ident   `json:"chapter"`
	Part      Ident   `json:"part"`
	Title     string  `json:"title"`
	Status    Status  `json:"status"`
	YouTubeID *string `json:"youtube_id"`
}

// IsPending reports whether the lesson still needs to be produced
func (l Lesson) IsPending() bool {
	return l.Status == StatusPending
}

// PublishedID returns the long-form video id, or "" when the lesson is not published
func (l Lesson) PublishedID() string {
	if l.YouTubeID == nil {
		return ""
	}
	return *l.YouTubeID
}

// ContentPlan is the durable record of all lessons and their production status
type ContentPlan struct {
	Lessons []Lesson `json:"lessons"`
}

// PendingIndexes returns the positions of pending lessons in plan order
func (p *ContentPlan) PendingIndexes() []int {
	var idx []int
	for i, lesson := range p.Lessons {
		if lesson.IsPending() {
			idx = append(idx, i)
		}
	}
	return idx
}

// MarkComplete records a successful production of lesson i. A lesson completes at most once:
// completing an already complete lesson, or completing without a published id, is an error.
func (p *ContentPlan) MarkComplete(i int, youtubeID string) error {
	if i < 0 || i >= len(p.Lessons) {
		return fmt.Errorf("lesson index %d out of range (plan has %d lessons)", i, len(p.Lessons))
	}
	if youtubeID == "" {
		return fmt.Errorf("lesson %d: a published id is required to complete it", i)
	}
	lesson := &p.Lessons[i]
	if lesson.Status == StatusComplete {
		return fmt.Errorf("lesson %d (%s) is already complete", i, lesson.Title)
	}
	id := youtubeID
	lesson.Status = StatusComplete
	lesson.YouTubeID = &id
	return nil
}

// Counts returns how many lessons are pending and complete
func (p *ContentPlan) Counts() (pending, complete int) {
	for _, lesson := range p.Lessons {
		switch lesson.Status {
		case StatusPending:
			pending++
		case StatusComplete:
			complete++
		}
	}
	return pending, complete
}

// validate checks the invariants a loaded document must satisfy
func (p *ContentPlan) validate() error {
	if p.Lessons == nil {
		return fmt.Errorf(`missing "lessons" array`)
	}
	for i, lesson := range p.Lessons {
		if !lesson.Status.Valid() {
			return fmt.Errorf("lesson %d: unknown status %q", i, lesson.Status)
		}
		if lesson.Title == "" {
			return fmt.Errorf("lesson %d: empty title", i)
		}
		if lesson.Status == StatusComplete && lesson.PublishedID() == "" {
			return fmt.Errorf("lesson %d: complete without youtube_id", i)
		}
	}
	return nil
}
