package scheduling

import (
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

// FindOccupant resolves which appointment occupies the (room, date,
// time) cell. Rows with an explicit room assignment are checked first;
// legacy rows with no room are matched through the doctor that covers
// the room at that moment.
func FindOccupant(snap *Snapshot, roomID uuid.UUID, date, at string) (*model.Appointment, error) {
	return findOccupant(snap, roomID, date, at, false)
}

// FindDisplayOccupant is FindOccupant restricted to the appointment's
// first slot, so a card spanning several rows is drawn exactly once.
func FindDisplayOccupant(snap *Snapshot, roomID uuid.UUID, date, at string) (*model.Appointment, error) {
	return findOccupant(snap, roomID, date, at, true)
}

func findOccupant(snap *Snapshot, roomID uuid.UUID, date, at string, startOnly bool) (*model.Appointment, error) {
	for _, apt := range snap.Appointments {
		if apt.Date != date || apt.RoomID == nil || *apt.RoomID != roomID {
			continue
		}
		ok, err := occupies(apt, at, startOnly)
		if err != nil {
			return nil, err
		}
		if ok {
			return apt, nil
		}
	}

	// Legacy fallback: rows without a room belong to whichever room the
	// doctor is scheduled into at that time.
	for _, apt := range snap.Appointments {
		if apt.Date != date || apt.RoomID != nil {
			continue
		}
		ok, err := occupies(apt, at, startOnly)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		doctor, err := ResolveDoctorForSlot(snap, roomID, date, at)
		if err != nil {
			return nil, err
		}
		if doctor != nil && doctor.ID == apt.DoctorID {
			return apt, nil
		}
	}
	return nil, nil
}

func occupies(apt *model.Appointment, at string, startOnly bool) (bool, error) {
	if startOnly {
		return apt.StartTime == at, nil
	}
	return IsWithin(apt.StartTime, apt.EndTime, at)
}
