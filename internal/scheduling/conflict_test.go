package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

func TestFindConflictsBackToBack(t *testing.T) {
	cfg := DefaultGridConfig()
	room := newRoom("Room 1", block(0, "08:00", "20:00", drIvanova.ID, true))
	a := appt(drIvanova.ID, &room.ID, aMonday, "09:00", strPtr("09:30"))
	b := appt(drIvanova.ID, &room.ID, aMonday, "09:30", strPtr("10:00"))
	snap := NewSnapshot([]*model.Appointment{a, b}, []*model.Room{room}, []*model.Doctor{drIvanova})

	conflicts, err := FindConflicts(cfg, snap, ConflictQuery{
		RoomID: room.ID, Date: aMonday, Start: "09:30", End: strPtr("10:00"),
		Exclude: b.ID, RequireEnd: true,
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts, "back-to-back slots do not conflict with A")

	conflicts, err = FindConflicts(cfg, snap, ConflictQuery{
		RoomID: room.ID, Date: aMonday, Start: "09:15", End: strPtr("09:45"),
		RequireEnd: true,
	})
	require.NoError(t, err)
	assert.Len(t, conflicts, 2, "straddling candidate hits both")
}

func TestFindConflictsExclude(t *testing.T) {
	cfg := DefaultGridConfig()
	room := newRoom("Room 1")
	a := appt(drIvanova.ID, &room.ID, aMonday, "09:00", strPtr("10:00"))
	snap := NewSnapshot([]*model.Appointment{a}, []*model.Room{room}, []*model.Doctor{drIvanova})

	conflicts, err := FindConflicts(cfg, snap, ConflictQuery{
		RoomID: room.ID, Date: aMonday, Start: "09:00", End: strPtr("10:00"),
		Exclude: a.ID, RequireEnd: true,
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts, "an appointment never conflicts with itself when moving")
}

func TestFindConflictsLegacyRow(t *testing.T) {
	cfg := DefaultGridConfig()
	room := newRoom("Room 1", block(0, "09:00", "12:00", drIvanova.ID, true))
	legacy := appt(drIvanova.ID, nil, aMonday, "09:00", strPtr("09:30"))
	other := appt(drPetrov.ID, nil, aMonday, "09:00", strPtr("09:30"))
	snap := NewSnapshot([]*model.Appointment{legacy, other}, []*model.Room{room}, []*model.Doctor{drIvanova, drPetrov})

	conflicts, err := FindConflicts(cfg, snap, ConflictQuery{
		RoomID: room.ID, Date: aMonday, Start: "09:00", End: strPtr("09:30"),
		RequireEnd: true,
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1, "only the legacy row bound to this room's doctor conflicts")
	assert.Equal(t, legacy.ID, conflicts[0].ID)
}

func TestFindConflictsOtherRoomIgnored(t *testing.T) {
	cfg := DefaultGridConfig()
	room1 := newRoom("Room 1")
	room2 := newRoom("Room 2")
	a := appt(drIvanova.ID, &room2.ID, aMonday, "09:00", strPtr("10:00"))
	snap := NewSnapshot([]*model.Appointment{a}, []*model.Room{room1, room2}, []*model.Doctor{drIvanova})

	conflicts, err := FindConflicts(cfg, snap, ConflictQuery{
		RoomID: room1.ID, Date: aMonday, Start: "09:00", End: strPtr("10:00"),
		RequireEnd: true,
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsIgnoresCancelled(t *testing.T) {
	cfg := DefaultGridConfig()
	room := newRoom("Room 1")
	a := appt(drIvanova.ID, &room.ID, aMonday, "09:00", strPtr("10:00"))
	a.Status = model.AppointmentStatusCancelled
	snap := NewSnapshot([]*model.Appointment{a}, []*model.Room{room}, []*model.Doctor{drIvanova})

	conflicts, err := FindConflicts(cfg, snap, ConflictQuery{
		RoomID: room.ID, Date: aMonday, Start: "09:00", End: strPtr("10:00"),
		RequireEnd: true,
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsMissingEnd(t *testing.T) {
	cfg := DefaultGridConfig()
	room := newRoom("Room 1")
	snap := NewSnapshot(nil, []*model.Room{room}, nil)

	_, err := FindConflicts(cfg, snap, ConflictQuery{
		RoomID: room.ID, Date: aMonday, Start: "09:00",
		RequireEnd: true,
	})
	assert.ErrorIs(t, err, ErrEndRequired)

	conflicts, err := FindConflicts(cfg, snap, ConflictQuery{
		RoomID: room.ID, Date: aMonday, Start: "09:00",
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts, "tolerant mode: no end means no determinable conflicts")
}
