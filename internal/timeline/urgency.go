package timeline

import (
	"fmt"
	"time"
)

// Urgency buckets how soon an event occurs relative to the reference
// date. There are exactly three buckets and no ordering beyond them.
type Urgency string

const (
	UrgencyImmediate Urgency = "Immediate"
	UrgencySoon      Urgency = "Soon"
	UrgencyNormal    Urgency = "Normal"
)

// Assessment is the per-source result of a timeliness classification.
type Assessment struct {
	SourceID    string  `json:"source_id"`
	Urgency     Urgency `json:"urgency"`
	Description string  `json:"description"`
}

// Classify maps an event date (hasDate reports whether one was
// resolved) and the reference date onto an urgency bucket plus a
// human-readable description. It is a total function of its inputs;
// relevance scores and source types play no part.
func Classify(eventDate time.Time, hasDate bool, reference time.Time) (Urgency, string) {
	if !hasDate {
		return UrgencyNormal, "No specific date found - treating as normal priority."
	}
	days := int(eventDate.Sub(reference).Hours() / 24)
	switch {
	case days == 0:
		return UrgencyImmediate, "This event is happening TODAY - immediate action required!"
	case days == 1:
		return UrgencySoon, "This event is happening TOMORROW - plan accordingly."
	case days > 1:
		return UrgencyNormal, fmt.Sprintf("This event is in %d days - normal priority.", days)
	default:
		return UrgencyNormal, "This event has already passed."
	}
}
