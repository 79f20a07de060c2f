package scheduling

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/utils"
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type OverlapFinder interface {
	FindOverlapping(ctx context.Context, startsAt, endsAt time.Time) ([]*entity.Appointment, error)
}

// Candidate holds the raw values entered for an appointment.
// Nil references mean nothing was selected.
type Candidate struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Location     string `json:"location" validate:"required"`
	Type         string `json:"type" validate:"required"`
	ContactID    *int   `json:"contact_id" validate:"required"`
	CustomerID   *int   `json:"customer_id" validate:"required"`
	UserID       *int   `json:"user_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
	StartsAtTime string `json:"starts_at_time" validate:"required"`
	EndsAtTime   string `json:"ends_at_time" validate:"required"`
}

type Validator struct {
	Finder OverlapFinder
	Fields *validator.Validate
	Policy Policy
}

func NewValidator(finder OverlapFinder, validate *validator.Validate, policy Policy) *Validator {
	return &Validator{Finder: finder, Fields: validate, Policy: policy}
}

// Validate decides whether the candidate may be stored. selfID identifies the
// appointment being edited so that it does not conflict with itself.
// Validate has no side effects.
func (v *Validator) Validate(ctx context.Context, candidate Candidate, selfID *int) Verdict {
	c := candidate
	utils.Sanitize(&c)
	if err := v.Fields.Struct(&c); err != nil {
		return reject(FieldBlank, err, nil)
	}

	date, err := ParseDate(c.Date)
	if err != nil {
		return reject(TimeFormatInvalid, err, nil)
	}
	startClock, err := ParseClock(c.StartsAtTime)
	if err != nil {
		return reject(TimeFormatInvalid, err, nil)
	}
	endClock, err := ParseClock(c.EndsAtTime)
	if err != nil {
		return reject(TimeFormatInvalid, err, nil)
	}

	start := v.Policy.pinned(date, startClock)
	end := v.Policy.pinned(date, endClock)

	if !start.Before(end) {
		return reject(EndBeforeStart, nil, nil)
	}

	if v.Policy.outsideOfficeHours(start) || v.Policy.outsideOfficeHours(end) {
		return reject(OutsideOfficeHours, nil, nil)
	}

	startsAt := v.Policy.resolve(date, startClock)
	endsAt := v.Policy.resolve(date, endClock)

	degraded := false
	conflicts, err := v.Finder.FindOverlapping(ctx, startsAt, endsAt)
	if err != nil {
		log.Warnf("conflict lookup for [%s - %s] failed, accepting without it: %v",
			startsAt.Format(time.RFC3339), endsAt.Format(time.RFC3339), err)
		conflicts = nil
		degraded = true
	}

	conflicts = withoutID(conflicts, selfID)
	if len(conflicts) > 0 {
		return reject(ConflictingAppointments, nil, conflicts)
	}

	return Verdict{StartsAt: startsAt, EndsAt: endsAt, Degraded: degraded}
}
