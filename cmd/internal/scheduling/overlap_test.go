package scheduling

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/utils"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intervalOf(appt *entity.Appointment) Interval {
	return Interval{Start: utils.FromMillis(appt.StartsAt), End: utils.FromMillis(appt.EndsAt)}
}

// filterOverlapping is the in-memory counterpart of the repository query.
func filterOverlapping(appts []*entity.Appointment, start, end time.Time) []*entity.Appointment {
	candidate := Interval{Start: start, End: end}
	var found []*entity.Appointment
	for _, appt := range appts {
		if Overlaps(intervalOf(appt), candidate) {
			found = append(found, appt)
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].StartsAt < found[j].StartsAt
	})
	return found
}

func clockInterval(start, end string) Interval {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	return Interval{Start: day.Add(s), End: day.Add(e)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name      string
		stored    Interval
		candidate Interval
		want      bool
	}{
		{"identical", clockInterval("10:00", "11:00"), clockInterval("10:00", "11:00"), true},
		{"stored starts inside", clockInterval("10:30", "12:00"), clockInterval("10:00", "11:00"), true},
		{"stored ends inside", clockInterval("09:00", "10:30"), clockInterval("10:00", "11:00"), true},
		{"stored covers candidate", clockInterval("09:00", "12:00"), clockInterval("10:00", "11:00"), true},
		{"candidate covers stored", clockInterval("10:15", "10:45"), clockInterval("10:00", "11:00"), true},
		{"stored right after", clockInterval("11:00", "12:00"), clockInterval("10:00", "11:00"), false},
		{"stored right before", clockInterval("09:00", "10:00"), clockInterval("10:00", "11:00"), false},
		{"disjoint", clockInterval("13:00", "14:00"), clockInterval("10:00", "11:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.stored, tt.candidate))
		})
	}
}

func TestOverlaps_ReversedCandidateIsEvaluatedAsGiven(t *testing.T) {
	reversed := Interval{Start: clockInterval("11:00", "11:00").Start, End: clockInterval("10:00", "10:00").Start}

	// Only the covering clause can hold for a reversed range.
	assert.True(t, Overlaps(clockInterval("10:30", "10:45"), reversed))
	assert.False(t, Overlaps(clockInterval("12:00", "13:00"), reversed))
}

func TestFilterOverlapping_OrdersByStart(t *testing.T) {
	appts := []*entity.Appointment{
		stored(3, "late", "2024-03-01", "11:30", "12:30"),
		stored(1, "early", "2024-03-01", "09:30", "10:30"),
		stored(2, "outside", "2024-03-01", "14:00", "15:00"),
	}
	window := clockInterval("10:00", "12:00")
	// stored() pins times at UTC-5; shift the window the same way.
	window.Start = window.Start.Add(5 * time.Hour)
	window.End = window.End.Add(5 * time.Hour)

	found := filterOverlapping(appts, window.Start, window.End)

	require.Len(t, found, 2)
	assert.Equal(t, 1, found[0].ID)
	assert.Equal(t, 3, found[1].ID)
}
