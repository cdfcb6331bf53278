package scheduling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

func appt(doctorID uuid.UUID, roomID *uuid.UUID, date, start string, end *string) *model.Appointment {
	return &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		DoctorID:  doctorID,
		RoomID:    roomID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    model.AppointmentStatusConfirmed,
	}
}

func TestFindOccupantByRoom(t *testing.T) {
	room := newRoom("Room 1", block(0, "09:00", "17:00", drIvanova.ID, true))
	apt := appt(drIvanova.ID, &room.ID, aMonday, "09:00", strPtr("10:00"))
	snap := NewSnapshot([]*model.Appointment{apt}, []*model.Room{room}, []*model.Doctor{drIvanova})

	got, err := FindOccupant(snap, room.ID, aMonday, "09:30")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, apt.ID, got.ID)

	got, err = FindOccupant(snap, room.ID, aMonday, "10:00")
	require.NoError(t, err)
	assert.Nil(t, got, "end time is exclusive")

	got, err = FindOccupant(snap, room.ID, aSunday, "09:30")
	require.NoError(t, err)
	assert.Nil(t, got, "different date")
}

func TestFindOccupantLegacyFallback(t *testing.T) {
	// A legacy row has no room; it lands in the room whose schedule
	// assigns its doctor at that moment.
	room := newRoom("Room 1", block(0, "09:00", "12:00", drIvanova.ID, true))
	legacy := appt(drIvanova.ID, nil, aMonday, "09:00", strPtr("09:30"))
	snap := NewSnapshot([]*model.Appointment{legacy}, []*model.Room{room}, []*model.Doctor{drIvanova})

	got, err := FindOccupant(snap, room.ID, aMonday, "09:00")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, legacy.ID, got.ID)
}

func TestFindOccupantLegacyRequiresDoctorMatch(t *testing.T) {
	room := newRoom("Room 1", block(0, "09:00", "12:00", drPetrov.ID, true))
	legacy := appt(drIvanova.ID, nil, aMonday, "09:00", strPtr("09:30"))
	snap := NewSnapshot([]*model.Appointment{legacy}, []*model.Room{room}, []*model.Doctor{drIvanova, drPetrov})

	got, err := FindOccupant(snap, room.ID, aMonday, "09:00")
	require.NoError(t, err)
	assert.Nil(t, got, "room is covered by a different doctor")
}

func TestFindOccupantPrefersExplicitRoom(t *testing.T) {
	room := newRoom("Room 1", block(0, "09:00", "12:00", drIvanova.ID, true))
	direct := appt(drPetrov.ID, &room.ID, aMonday, "09:00", strPtr("09:30"))
	legacy := appt(drIvanova.ID, nil, aMonday, "09:00", strPtr("09:30"))
	snap := NewSnapshot([]*model.Appointment{legacy, direct}, []*model.Room{room}, []*model.Doctor{drIvanova, drPetrov})

	got, err := FindOccupant(snap, room.ID, aMonday, "09:15")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, direct.ID, got.ID)
}

func TestFindDisplayOccupantFirstSlotOnly(t *testing.T) {
	room := newRoom("Room 1", block(0, "09:00", "17:00", drIvanova.ID, true))
	apt := appt(drIvanova.ID, &room.ID, aMonday, "09:00", strPtr("10:30"))
	snap := NewSnapshot([]*model.Appointment{apt}, []*model.Room{room}, []*model.Doctor{drIvanova})

	got, err := FindDisplayOccupant(snap, room.ID, aMonday, "09:00")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, apt.ID, got.ID)

	// The card spans 09:00-10:30 but is only drawn at its first slot.
	got, err = FindDisplayOccupant(snap, room.ID, aMonday, "09:30")
	require.NoError(t, err)
	assert.Nil(t, got)

	occ, err := FindOccupant(snap, room.ID, aMonday, "09:30")
	require.NoError(t, err)
	assert.NotNil(t, occ, "the cell itself is still occupied")
}
