// Package domain holds the lead record model and the synthesis rules that
// turn extracted conversation data into a scored, persistable lead.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the synchronization state of a lead record.
type Status string

const (
	// StatusPendingSync marks a lead that has not yet been delivered to the CRM.
	StatusPendingSync Status = "pending_sync"
	// StatusSynced marks a lead the CRM accepted. Terminal.
	StatusSynced Status = "synced"
	// StatusSyncFailed marks a lead whose delivery exhausted all retries. Terminal.
	StatusSyncFailed Status = "sync_failed"
)

// IsTerminal reports whether a lead in this status can no longer transition.
func (s Status) IsTerminal() bool {
	return s == StatusSynced || s == StatusSyncFailed
}

// Source identifies the channel every lead in this system originates from.
const Source = "whatsapp"

// QualificationThreshold is the minimum score at which a lead is persisted
// and synchronized.
const QualificationThreshold = 80

// fieldWeight is the score contribution of each present detail field.
const fieldWeight = 20

// Details are the structured fields of a lead. Every field is optional;
// nil means the conversation never surfaced it.
type Details struct {
	Name     *string `json:"name"`
	Budget   *string `json:"budget"`
	Location *string `json:"location"`
	Type     *string `json:"type"`
	Timeline *string `json:"timeline"`
}

// Record is the canonical lead unit. The id is immutable once assigned and
// the score is computed once at creation.
type Record struct {
	ID            string    `json:"id"`
	Phone         string    `json:"phone"`
	Details       Details   `json:"details"`
	Score         int       `json:"score"`
	Summary       string    `json:"summary"`
	Source        string    `json:"source"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	LastSyncError *string   `json:"lastSyncError,omitempty"`
}

// Partial is an incomplete set of lead details from one extraction source.
// Two partials combine with Merge before scoring.
type Partial struct {
	Name     *string
	Budget   *string
	Location *string
	Type     *string
	Timeline *string
}

// Merge combines two partials. Fields present in override win; fields it
// leaves absent are filled from base. Blank strings count as absent.
func Merge(base, override Partial) Partial {
	return Partial{
		Name:     pick(base.Name, override.Name),
		Budget:   pick(base.Budget, override.Budget),
		Location: pick(base.Location, override.Location),
		Type:     pick(base.Type, override.Type),
		Timeline: pick(base.Timeline, override.Timeline),
	}
}

func pick(base, override *string) *string {
	if present(override) {
		return override
	}
	if present(base) {
		return base
	}
	return nil
}

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

// Score computes the qualification score of a partial: each of the five
// detail fields contributes a fixed weight when present. Range 0-100.
func Score(p Partial) int {
	score := 0
	for _, field := range []*string{p.Name, p.Budget, p.Location, p.Type, p.Timeline} {
		if present(field) {
			score += fieldWeight
		}
	}
	return score
}

// Synthesize merges the heuristic and model-derived partials, scores the
// result, and returns a new record when the score reaches the qualification
// threshold. Below the threshold it returns nil: no lead exists for this
// conversation yet.
func Synthesize(heuristic, model Partial, summary, sender string, now time.Time) *Record {
	merged := Merge(heuristic, model)
	score := Score(merged)
	if score < QualificationThreshold {
		return nil
	}

	return &Record{
		ID:    NewID(sender, now),
		Phone: sender,
		Details: Details{
			Name:     merged.Name,
			Budget:   merged.Budget,
			Location: merged.Location,
			Type:     merged.Type,
			Timeline: merged.Timeline,
		},
		Score:     score,
		Summary:   summary,
		Source:    Source,
		Status:    StatusPendingSync,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewID builds a lead id from the sender, a monotonic timestamp, and a short
// random suffix. Unique with overwhelming probability, no store coordination.
func NewID(sender string, now time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%d-%s", sender, now.UnixMilli(), suffix)
}
