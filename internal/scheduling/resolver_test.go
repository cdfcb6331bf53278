package scheduling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

// aMonday / aSunday are fixed dates used across the engine tests.
const (
	aMonday = "2024-01-01"
	aSunday = "2024-01-07"
)

var (
	drIvanova = &model.Doctor{Base: model.Base{ID: uuid.New()}, FullName: "Dr. Ivanova", Specialty: "Therapy"}
	drPetrov  = &model.Doctor{Base: model.Base{ID: uuid.New()}, FullName: "Dr. Petrov", Specialty: "Surgery"}
)

func newRoom(name string, blocks ...model.ScheduleBlock) *model.Room {
	room := &model.Room{Base: model.Base{ID: uuid.New()}, Name: name}
	for i := range blocks {
		blocks[i].ID = uuid.New()
		blocks[i].RoomID = room.ID
	}
	room.Schedule = blocks
	return room
}

func block(day int, start, end string, doctorID uuid.UUID, active bool) model.ScheduleBlock {
	return model.ScheduleBlock{DayOfWeek: day, StartTime: start, EndTime: end, DoctorID: doctorID, IsActive: active}
}

func TestResolveDoctorForSlot(t *testing.T) {
	room := newRoom("Room 1", block(0, "09:00", "17:00", drIvanova.ID, true))
	snap := NewSnapshot(nil, []*model.Room{room}, []*model.Doctor{drIvanova, drPetrov})

	doctor, err := ResolveDoctorForSlot(snap, room.ID, aMonday, "08:59")
	require.NoError(t, err)
	assert.Nil(t, doctor, "before opening")

	doctor, err = ResolveDoctorForSlot(snap, room.ID, aMonday, "09:00")
	require.NoError(t, err)
	require.NotNil(t, doctor)
	assert.Equal(t, drIvanova.ID, doctor.ID)

	doctor, err = ResolveDoctorForSlot(snap, room.ID, aMonday, "17:00")
	require.NoError(t, err)
	assert.Nil(t, doctor, "closing time is exclusive")

	doctor, err = ResolveDoctorForSlot(snap, room.ID, aSunday, "09:00")
	require.NoError(t, err)
	assert.Nil(t, doctor, "block is Monday only")
}

func TestResolveDoctorForSlotSkipsInactive(t *testing.T) {
	room := newRoom("Room 1",
		block(0, "09:00", "17:00", drIvanova.ID, false),
		block(0, "09:00", "17:00", drPetrov.ID, true),
	)
	snap := NewSnapshot(nil, []*model.Room{room}, []*model.Doctor{drIvanova, drPetrov})

	doctor, err := ResolveDoctorForSlot(snap, room.ID, aMonday, "10:00")
	require.NoError(t, err)
	require.NotNil(t, doctor)
	assert.Equal(t, drPetrov.ID, doctor.ID)
}

func TestResolveDoctorForSlotFirstMatchWins(t *testing.T) {
	// Overlapping active blocks are not rejected on write, so the
	// resolver's first-match order is load-bearing.
	room := newRoom("Room 1",
		block(0, "09:00", "17:00", drIvanova.ID, true),
		block(0, "09:00", "17:00", drPetrov.ID, true),
	)
	snap := NewSnapshot(nil, []*model.Room{room}, []*model.Doctor{drIvanova, drPetrov})

	doctor, err := ResolveDoctorForSlot(snap, room.ID, aMonday, "10:00")
	require.NoError(t, err)
	require.NotNil(t, doctor)
	assert.Equal(t, drIvanova.ID, doctor.ID)
}

func TestResolveDoctorForSlotUnknownRoom(t *testing.T) {
	snap := NewSnapshot(nil, nil, []*model.Doctor{drIvanova})

	doctor, err := ResolveDoctorForSlot(snap, uuid.New(), aMonday, "10:00")
	require.NoError(t, err)
	assert.Nil(t, doctor)
}
