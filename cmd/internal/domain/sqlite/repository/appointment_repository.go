package repository

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/domain/sqlite"
	"clientschedule/cmd/internal/utils"
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// overlapClause matches stored appointments whose start or end lies strictly
// inside the range, or that cover the range entirely. Bound as (s, e, s, e, s, e).
const overlapClause = "(starts_at > ? AND starts_at < ?) OR (ends_at > ? AND ends_at < ?) OR (starts_at <= ? AND ends_at >= ?)"

type TypeCount struct {
	Period string
	Type   string
	Count  int64
}

type DefaultAppointmentRepository struct {
	db    *gorm.DB
	retry *sqlite.Retrier
}

func NewAppointmentRepository(db *gorm.DB, retry *sqlite.Retrier) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db, retry: retry}
}

func (a *DefaultAppointmentRepository) FindByID(ctx context.Context, id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.retry.Do(ctx, "find appointment", func(ctx context.Context) error {
		return a.db.WithContext(ctx).First(&appt, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (a *DefaultAppointmentRepository) FindAll(ctx context.Context) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.retry.Do(ctx, "find appointments", func(ctx context.Context) error {
		appts = nil
		return a.db.WithContext(ctx).Order("starts_at asc").Find(&appts).Error
	})
	return appts, err
}

func (a *DefaultAppointmentRepository) FindByContactID(ctx context.Context, contactID int) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.retry.Do(ctx, "find contact appointments", func(ctx context.Context) error {
		appts = nil
		return a.db.WithContext(ctx).
			Where("contact_id = ?", contactID).
			Order("starts_at asc").
			Find(&appts).Error
	})
	return appts, err
}

// FindStartingWithin returns appointments starting in [from, to], both ends inclusive.
func (a *DefaultAppointmentRepository) FindStartingWithin(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.retry.Do(ctx, "find appointments starting within range", func(ctx context.Context) error {
		appts = nil
		return a.db.WithContext(ctx).
			Where("starts_at BETWEEN ? AND ?", utils.ToMillis(from), utils.ToMillis(to)).
			Order("starts_at asc").
			Find(&appts).Error
	})
	return appts, err
}

func (a *DefaultAppointmentRepository) FindStartingWithinForUser(ctx context.Context, from, to time.Time, userID int) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.retry.Do(ctx, "find user appointments starting within range", func(ctx context.Context) error {
		appts = nil
		return a.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Where("starts_at BETWEEN ? AND ?", utils.ToMillis(from), utils.ToMillis(to)).
			Order("starts_at asc").
			Find(&appts).Error
	})
	return appts, err
}

// FindOverlapping returns every stored appointment conflicting with
// [startsAt, endsAt], ordered by start time. Reversed input is evaluated as given.
func (a *DefaultAppointmentRepository) FindOverlapping(ctx context.Context, startsAt, endsAt time.Time) ([]*entity.Appointment, error) {
	s, e := utils.ToMillis(startsAt), utils.ToMillis(endsAt)

	var appts []*entity.Appointment
	err := a.retry.Do(ctx, "find overlapping appointments", func(ctx context.Context) error {
		appts = nil
		return a.db.WithContext(ctx).
			Where(overlapClause, s, e, s, e, s, e).
			Order("starts_at asc").
			Find(&appts).Error
	})
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (a *DefaultAppointmentRepository) CountByMonthAndType(ctx context.Context) ([]*TypeCount, error) {
	rows, err := a.countBy(ctx, "%m")
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if n, err := strconv.Atoi(row.Period); err == nil {
			row.Period = time.Month(n).String()
		}
	}
	return rows, nil
}

func (a *DefaultAppointmentRepository) CountByWeekdayAndType(ctx context.Context) ([]*TypeCount, error) {
	rows, err := a.countBy(ctx, "%w")
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if n, err := strconv.Atoi(row.Period); err == nil {
			row.Period = time.Weekday(n).String()
		}
	}
	return rows, nil
}

// countBy groups appointments by a strftime bucket of their UTC start and by type.
func (a *DefaultAppointmentRepository) countBy(ctx context.Context, format string) ([]*TypeCount, error) {
	var rows []*TypeCount
	err := a.retry.Do(ctx, "count appointments", func(ctx context.Context) error {
		rows = nil
		return a.db.WithContext(ctx).
			Model(&entity.Appointment{}).
			Select("strftime(?, starts_at / 1000, 'unixepoch') AS period, type, COUNT(user_id) AS count", format).
			Group("period, type").
			Order("period asc, type asc").
			Scan(&rows).Error
	})
	return rows, err
}

func (a *DefaultAppointmentRepository) Save(ctx context.Context, appointment *entity.Appointment) error {
	return a.retry.Do(ctx, "save appointment", func(ctx context.Context) error {
		return a.db.WithContext(ctx).Save(appointment).Error
	})
}

func (a *DefaultAppointmentRepository) Delete(ctx context.Context, appointment *entity.Appointment) error {
	return a.retry.Do(ctx, "delete appointment", func(ctx context.Context) error {
		return a.db.WithContext(ctx).Delete(appointment).Error
	})
}
