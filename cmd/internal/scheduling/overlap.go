package scheduling

import (
	"clientschedule/cmd/internal/domain/entity"
	"time"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether a stored interval conflicts with a candidate one.
// The stored interval conflicts when its start falls strictly inside the
// candidate, its end falls strictly inside the candidate, or it covers the
// candidate entirely (boundaries inclusive). Back-to-back intervals do not
// conflict. The repository query applies the same three clauses in SQL.
func Overlaps(stored, candidate Interval) bool {
	startInside := stored.Start.After(candidate.Start) && stored.Start.Before(candidate.End)
	endInside := stored.End.After(candidate.Start) && stored.End.Before(candidate.End)
	covers := !stored.Start.After(candidate.Start) && !stored.End.Before(candidate.End)
	return startInside || endInside || covers
}

func withoutID(appts []*entity.Appointment, id *int) []*entity.Appointment {
	if id == nil {
		return appts
	}
	kept := make([]*entity.Appointment, 0, len(appts))
	for _, appt := range appts {
		if appt.ID != *id {
			kept = append(kept, appt)
		}
	}
	return kept
}
