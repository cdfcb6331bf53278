package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9:00", 0, true},
		{"0900", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		got, err := ToMinutes(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func strPtr(s string) *string { return &s }

func TestIsWithinHalfOpen(t *testing.T) {
	// Start inclusive, end exclusive.
	within, err := IsWithin("09:00", strPtr("09:30"), "09:00")
	require.NoError(t, err)
	assert.True(t, within)

	within, err = IsWithin("09:00", strPtr("09:30"), "09:30")
	require.NoError(t, err)
	assert.False(t, within)

	within, err = IsWithin("09:00", strPtr("09:30"), "09:15")
	require.NoError(t, err)
	assert.True(t, within)

	within, err = IsWithin("09:00", strPtr("09:30"), "08:59")
	require.NoError(t, err)
	assert.False(t, within)
}

func TestIsWithinNoEnd(t *testing.T) {
	// Without an end only the exact start matches.
	within, err := IsWithin("09:00", nil, "09:00")
	require.NoError(t, err)
	assert.True(t, within)

	within, err = IsWithin("09:00", nil, "09:01")
	require.NoError(t, err)
	assert.False(t, within)
}

func TestOverlapsSymmetric(t *testing.T) {
	cfg := DefaultGridConfig()
	cases := [][4]string{
		{"09:00", "10:00", "09:30", "10:30"},
		{"09:00", "09:30", "09:30", "10:00"},
		{"08:00", "12:00", "09:00", "09:15"},
		{"09:00", "10:00", "11:00", "12:00"},
	}
	for _, c := range cases {
		ab, err := cfg.Overlaps(c[0], strPtr(c[1]), c[2], strPtr(c[3]))
		require.NoError(t, err)
		ba, err := cfg.Overlaps(c[2], strPtr(c[3]), c[0], strPtr(c[1]))
		require.NoError(t, err)
		assert.Equal(t, ab, ba, "overlaps must be symmetric for %v", c)
	}
}

func TestOverlapsBackToBack(t *testing.T) {
	cfg := DefaultGridConfig()
	overlap, err := cfg.Overlaps("09:00", strPtr("09:30"), "09:30", strPtr("10:00"))
	require.NoError(t, err)
	assert.False(t, overlap, "adjacent intervals do not overlap")
}

func TestOverlapsDefaultsMissingEnd(t *testing.T) {
	cfg := DefaultGridConfig()

	// A missing end is widened to the default slot, so 09:00 with no
	// end collides with 09:15-09:45.
	overlap, err := cfg.Overlaps("09:00", nil, "09:15", strPtr("09:45"))
	require.NoError(t, err)
	assert.True(t, overlap)

	overlap, err = cfg.Overlaps("09:00", nil, "09:30", strPtr("10:00"))
	require.NoError(t, err)
	assert.False(t, overlap)
}

func TestGenerateSlots(t *testing.T) {
	slots, err := GenerateSlots("09:00", "11:00", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, slots)

	// Half-open: day end is never a slot.
	slots, err = GenerateSlots("09:00", "09:30", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, slots)

	_, err = GenerateSlots("09:00", "10:00", 0)
	assert.Error(t, err)
}

func TestWeekdayMondayBased(t *testing.T) {
	// 2024-01-01 was a Monday, 2024-01-07 a Sunday.
	day, err := Weekday("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, day)

	day, err = Weekday("2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, 6, day)

	_, err = Weekday("01/01/2024")
	assert.Error(t, err)
}
