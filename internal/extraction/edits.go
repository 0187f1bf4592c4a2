package extraction

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SuggestionRecord pairs the engine's suggestion for a field with the value a
// human reviewer settled on. Diagnostic telemetry only: nothing in the engine
// reads it back.
type SuggestionRecord struct {
	CycleID   uuid.UUID `json:"cycle_id"`
	Field     FieldKind `json:"field"`
	Suggested string    `json:"ai_suggestion"`
	Final     string    `json:"user_final"`
	Timestamp time.Time `json:"timestamp"`
}

// EditLog is a process-lifetime, append-only log of suggestion corrections.
// Safe for concurrent extraction cycles.
type EditLog struct {
	mu      sync.Mutex
	records []SuggestionRecord
	now     func() time.Time
}

func NewEditLog() *EditLog {
	return &EditLog{now: time.Now}
}

func (l *EditLog) append(rec SuggestionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec.Timestamp = l.now()
	l.records = append(l.records, rec)
}

// Records returns a snapshot copy of the log.
func (l *EditLog) Records() []SuggestionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]SuggestionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Cycle tracks first-edit observation for one extraction's auto-filled
// fields. Each processed image gets its own Cycle, so concurrent or
// back-to-back extractions cannot leak suggestions into each other.
type Cycle struct {
	id          uuid.UUID
	log         *EditLog
	mu          sync.Mutex
	suggestions map[FieldKind]string
	recorded    map[FieldKind]bool
}

// NewCycle binds the result's suggested values to a fresh cycle.
func (l *EditLog) NewCycle(res Result) *Cycle {
	suggestions := make(map[FieldKind]string, 4)
	for kind, f := range res.Fields() {
		suggestions[kind] = f.Value
	}
	return &Cycle{
		id:          uuid.New(),
		log:         l,
		suggestions: suggestions,
		recorded:    make(map[FieldKind]bool, 4),
	}
}

// ID identifies the cycle to callers that report edits asynchronously.
func (c *Cycle) ID() uuid.UUID { return c.id }

// RecordEdit observes the first change event on a field. Only the first call
// per field does anything; a first edit equal to the suggestion still
// consumes the one-shot but logs nothing.
func (c *Cycle) RecordEdit(field FieldKind, final string) {
	c.mu.Lock()
	if c.recorded[field] {
		c.mu.Unlock()
		return
	}
	c.recorded[field] = true
	suggested := c.suggestions[field]
	c.mu.Unlock()

	if final == suggested {
		return
	}
	c.log.append(SuggestionRecord{
		CycleID:   c.id,
		Field:     field,
		Suggested: suggested,
		Final:     final,
	})
}
