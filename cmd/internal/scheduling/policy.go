package scheduling

import (
	"fmt"
	"time"
)

// Policy carries the zone and office-hours settings the validator works with.
type Policy struct {
	// Zone is where appointment dates and times are entered.
	Zone *time.Location

	// OfficeZone is a fixed-offset zone; office hours do not follow DST.
	OfficeZone  *time.Location
	OfficeOpen  time.Duration
	OfficeClose time.Duration

	// HistoricalOffsets makes the ordering and office-hours checks use the zone
	// offset of the appointment's date. When false they use the offset in
	// effect at validation time. Stored instants always use the date's own
	// offset.
	HistoricalOffsets bool

	Now func() time.Time
}

// OfficeZone returns a fixed zone hours away from UTC.
func OfficeZone(hours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*60*60)
}

func DefaultPolicy(zone *time.Location) Policy {
	return Policy{
		Zone:        zone,
		OfficeZone:  OfficeZone(-5),
		OfficeOpen:  8 * time.Hour,
		OfficeClose: 22 * time.Hour,
		Now:         time.Now,
	}
}

func (p Policy) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p Policy) zone() *time.Location {
	if p.Zone == nil {
		return time.Local
	}
	return p.Zone
}

// userOffset returns the UTC offset, in seconds, used to pin entered times.
func (p Policy) userOffset(date time.Time) int {
	if p.HistoricalOffsets {
		_, offset := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, p.zone()).Zone()
		return offset
	}
	_, offset := p.now().In(p.zone()).Zone()
	return offset
}

// pinned places clock on date at the offset from userOffset. The ordering and
// office-hours checks look at entered times through this instant.
func (p Policy) pinned(date time.Time, clock time.Duration) time.Time {
	zone := time.FixedZone("", p.userOffset(date))
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, zone).Add(clock)
}

// resolve returns the instant clock denotes on date in the user's zone, using
// whatever offset that zone has on that date.
func (p Policy) resolve(date time.Time, clock time.Duration) time.Time {
	h := clock / time.Hour
	m := clock % time.Hour / time.Minute
	s := clock % time.Minute / time.Second
	ns := clock % time.Second
	return time.Date(date.Year(), date.Month(), date.Day(), int(h), int(m), int(s), int(ns), p.zone())
}

func (p Policy) officeZone() *time.Location {
	if p.OfficeZone == nil {
		return OfficeZone(-5)
	}
	return p.OfficeZone
}

// outsideOfficeHours projects t into the office zone and reports whether its
// time of day is strictly before opening or strictly after closing.
func (p Policy) outsideOfficeHours(t time.Time) bool {
	local := t.In(p.officeZone())
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	sinceMidnight := local.Sub(midnight)
	return sinceMidnight < p.OfficeOpen || sinceMidnight > p.OfficeClose
}
