package scheduling

import (
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

// Snapshot is a read-only view of the three collections the engine
// joins across. Callers load it once per query or gesture; the engine
// never mutates it.
type Snapshot struct {
	Appointments []*model.Appointment
	Rooms        []*model.Room
	Doctors      []*model.Doctor

	roomsByID   map[uuid.UUID]*model.Room
	doctorsByID map[uuid.UUID]*model.Doctor
	apptsByID   map[uuid.UUID]*model.Appointment
}

func NewSnapshot(appointments []*model.Appointment, rooms []*model.Room, doctors []*model.Doctor) *Snapshot {
	s := &Snapshot{
		Appointments: appointments,
		Rooms:        rooms,
		Doctors:      doctors,
		roomsByID:    make(map[uuid.UUID]*model.Room, len(rooms)),
		doctorsByID:  make(map[uuid.UUID]*model.Doctor, len(doctors)),
		apptsByID:    make(map[uuid.UUID]*model.Appointment, len(appointments)),
	}
	for _, r := range rooms {
		s.roomsByID[r.ID] = r
	}
	for _, d := range doctors {
		s.doctorsByID[d.ID] = d
	}
	for _, a := range appointments {
		s.apptsByID[a.ID] = a
	}
	return s
}

// Room returns the room with the given id, or nil.
func (s *Snapshot) Room(id uuid.UUID) *model.Room {
	return s.roomsByID[id]
}

// Doctor returns the doctor with the given id, or nil.
func (s *Snapshot) Doctor(id uuid.UUID) *model.Doctor {
	return s.doctorsByID[id]
}

// Appointment returns the appointment with the given id, or nil.
func (s *Snapshot) Appointment(id uuid.UUID) *model.Appointment {
	return s.apptsByID[id]
}
