package planning_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/staffing-engine/planning"
)

// =============================================================================
// DATE TESTS
// =============================================================================

func TestParseDate_RoundTrip(t *testing.T) {
	d, err := planning.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := planning.ParseDate("29/02/2024")
	assert.Error(t, err)

	_, err = planning.ParseDate("")
	assert.Error(t, err)
}

func TestDate_ComparisonIgnoresTimeOfDay(t *testing.T) {
	// GIVEN: the same calendar day at different clock times
	morning := planning.DateOf(time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC))
	evening := planning.DateOf(time.Date(2024, time.March, 10, 22, 30, 0, 0, time.UTC))

	// THEN: they compare equal
	assert.True(t, morning.Equal(evening))
	assert.False(t, morning.Before(evening))
	assert.False(t, morning.After(evening))
}

func TestDaysBetween_AndInclusiveWindowLength(t *testing.T) {
	from := date(2024, time.February, 1)
	to := date(2024, time.February, 29)
	assert.Equal(t, 28, planning.DaysBetween(from, to))
	assert.Equal(t, 29, window(from, to).Days())
}

// =============================================================================
// WINDOW OVERLAP TESTS
// =============================================================================

func TestWindowOverlaps_Symmetric(t *testing.T) {
	// Overlap must not depend on argument order.
	cases := []struct {
		name string
		a, b planning.DateWindow
		want bool
	}{
		{
			name: "disjoint",
			a:    window(date(2024, time.January, 1), date(2024, time.January, 31)),
			b:    window(date(2024, time.March, 1), date(2024, time.March, 31)),
			want: false,
		},
		{
			name: "sharing a single boundary day",
			a:    window(date(2024, time.January, 1), date(2024, time.January, 31)),
			b:    window(date(2024, time.January, 31), date(2024, time.February, 15)),
			want: true,
		},
		{
			name: "nested",
			a:    window(date(2024, time.January, 1), date(2024, time.December, 31)),
			b:    window(date(2024, time.June, 1), date(2024, time.June, 30)),
			want: true,
		},
		{
			name: "identical",
			a:    window(date(2024, time.May, 1), date(2024, time.May, 31)),
			b:    window(date(2024, time.May, 1), date(2024, time.May, 31)),
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a))
		})
	}
}

func TestWindowIntersect(t *testing.T) {
	// GIVEN: two partially overlapping windows
	a := window(date(2024, time.January, 1), date(2024, time.June, 30))
	b := window(date(2024, time.June, 15), date(2024, time.August, 1))

	// WHEN: intersecting
	got, ok := a.Intersect(b)

	// THEN: the intersection is the later start through the earlier end
	require.True(t, ok)
	assert.Equal(t, "2024-06-15", got.Start.String())
	assert.Equal(t, "2024-06-30", got.End.String())
}

func TestWindowIntersect_Disjoint(t *testing.T) {
	a := window(date(2024, time.January, 1), date(2024, time.January, 31))
	b := window(date(2024, time.February, 1), date(2024, time.February, 29))

	_, ok := a.Intersect(b)
	assert.False(t, ok)
}

func TestWindowContains(t *testing.T) {
	w := window(date(2024, time.April, 1), date(2024, time.April, 30))

	assert.True(t, w.Contains(date(2024, time.April, 1)))
	assert.True(t, w.Contains(date(2024, time.April, 30)))
	assert.False(t, w.Contains(date(2024, time.May, 1)))
}

func TestWindowIsValid(t *testing.T) {
	assert.True(t, window(date(2024, time.January, 1), date(2024, time.January, 1)).IsValid())
	assert.False(t, window(date(2024, time.January, 2), date(2024, time.January, 1)).IsValid())
	assert.False(t, planning.DateWindow{}.IsValid())
}
