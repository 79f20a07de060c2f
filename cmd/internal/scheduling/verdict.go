package scheduling

import (
	"clientschedule/cmd/internal/domain/entity"
	"fmt"
	"time"
)

type Reason string

// Rejection reasons in the order they are checked.
const (
	FieldBlank              Reason = "FieldBlank"
	TimeFormatInvalid       Reason = "TimeFormatInvalid"
	EndBeforeStart          Reason = "EndBeforeStart"
	OutsideOfficeHours      Reason = "OutsideOfficeHours"
	ConflictingAppointments Reason = "ConflictingAppointments"
)

type Rejection struct {
	Reason    Reason
	Cause     error
	Conflicts []*entity.Appointment
}

func (r *Rejection) Error() string {
	switch {
	case r.Reason == ConflictingAppointments:
		return fmt.Sprintf("%s: %d conflicting appointment(s)", r.Reason, len(r.Conflicts))
	case r.Cause != nil:
		return fmt.Sprintf("%s: %v", r.Reason, r.Cause)
	default:
		return string(r.Reason)
	}
}

func (r *Rejection) Unwrap() error {
	return r.Cause
}

// Verdict is the outcome of validating a candidate appointment. A nil
// Rejection means the candidate was accepted and StartsAt/EndsAt hold the
// resolved instants.
type Verdict struct {
	Rejection *Rejection
	StartsAt  time.Time
	EndsAt    time.Time

	// Degraded is set when the conflict lookup failed and the candidate was
	// accepted without it.
	Degraded bool
}

func (v Verdict) Accepted() bool {
	return v.Rejection == nil
}

func reject(reason Reason, cause error, conflicts []*entity.Appointment) Verdict {
	return Verdict{Rejection: &Rejection{Reason: reason, Cause: cause, Conflicts: conflicts}}
}
