package scheduling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

func TestFitsSchedule(t *testing.T) {
	room := newRoom("Room 1", block(0, "09:00", "17:00", drIvanova.ID, true))
	snap := NewSnapshot(nil, []*model.Room{room}, []*model.Doctor{drIvanova})

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"exact block", "09:00", "17:00", true},
		{"inside block", "10:00", "10:30", true},
		{"starts before opening", "08:00", "10:00", false},
		{"runs past closing", "16:30", "17:30", false},
		{"entirely past closing", "18:00", "19:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fits, err := FitsSchedule(snap, room.ID, aMonday, tt.start, strPtr(tt.end))
			require.NoError(t, err)
			assert.Equal(t, tt.want, fits)
		})
	}
}

func TestFitsScheduleNoEnd(t *testing.T) {
	// Single-point bookings are never schedule violations.
	snap := NewSnapshot(nil, nil, nil)
	fits, err := FitsSchedule(snap, uuid.New(), aMonday, "03:00", nil)
	require.NoError(t, err)
	assert.True(t, fits)
}

func TestFitsScheduleNoBlock(t *testing.T) {
	room := newRoom("Room 1", block(0, "09:00", "17:00", drIvanova.ID, true))
	snap := NewSnapshot(nil, []*model.Room{room}, []*model.Doctor{drIvanova})

	fits, err := FitsSchedule(snap, room.ID, aSunday, "10:00", strPtr("10:30"))
	require.NoError(t, err)
	assert.False(t, fits, "no schedule on that weekday")

	fits, err = FitsSchedule(snap, uuid.New(), aMonday, "10:00", strPtr("10:30"))
	require.NoError(t, err)
	assert.False(t, fits, "unknown room")
}

func TestFitsScheduleInactiveBlock(t *testing.T) {
	room := newRoom("Room 1", block(0, "09:00", "17:00", drIvanova.ID, false))
	snap := NewSnapshot(nil, []*model.Room{room}, []*model.Doctor{drIvanova})

	fits, err := FitsSchedule(snap, room.ID, aMonday, "10:00", strPtr("10:30"))
	require.NoError(t, err)
	assert.False(t, fits)
}

func TestFitsScheduleForDoctor(t *testing.T) {
	room := newRoom("Room 1",
		block(0, "09:00", "13:00", drIvanova.ID, true),
		block(0, "13:00", "17:00", drPetrov.ID, true),
	)
	snap := NewSnapshot(nil, []*model.Room{room}, []*model.Doctor{drIvanova, drPetrov})

	fits, err := FitsScheduleForDoctor(snap, room.ID, aMonday, "13:00", strPtr("14:00"), drPetrov.ID)
	require.NoError(t, err)
	assert.True(t, fits)

	fits, err = FitsScheduleForDoctor(snap, room.ID, aMonday, "13:00", strPtr("14:00"), drIvanova.ID)
	require.NoError(t, err)
	assert.False(t, fits, "the afternoon block belongs to the other doctor")
}

func TestScheduleWindow(t *testing.T) {
	room := newRoom("Room 1", block(0, "09:00", "17:00", drIvanova.ID, true))
	snap := NewSnapshot(nil, []*model.Room{room}, []*model.Doctor{drIvanova})

	opens, closes, ok, err := ScheduleWindow(snap, room.ID, aMonday, "10:00")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "09:00", opens)
	assert.Equal(t, "17:00", closes)

	_, _, ok, err = ScheduleWindow(snap, room.ID, aSunday, "10:00")
	require.NoError(t, err)
	assert.False(t, ok)
}
