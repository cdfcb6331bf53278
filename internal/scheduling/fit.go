package scheduling

import (
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

// FitsSchedule reports whether [start, end) lies entirely inside one
// active schedule block of the room on that date. A nil end always
// fits: single-point bookings are never schedule violations.
//
// Block eligibility is gated only on start >= block.StartTime; a start
// past the block's closing still selects the block, and the containment
// check then rejects it.
func FitsSchedule(snap *Snapshot, roomID uuid.UUID, date, start string, end *string) (bool, error) {
	fits, _, err := fitsSchedule(snap, roomID, date, start, end, uuid.Nil)
	return fits, err
}

// FitsScheduleForDoctor is FitsSchedule restricted to blocks assigned
// to the given doctor, used to validate a doctor handover on drop.
func FitsScheduleForDoctor(snap *Snapshot, roomID uuid.UUID, date, start string, end *string, doctorID uuid.UUID) (bool, error) {
	fits, _, err := fitsSchedule(snap, roomID, date, start, end, doctorID)
	return fits, err
}

// ScheduleWindow returns the eligible block's open/close times for the
// candidate start, so rejection messages can name the available window.
func ScheduleWindow(snap *Snapshot, roomID uuid.UUID, date, start string) (string, string, bool, error) {
	block, err := eligibleBlock(snap.Room(roomID), date, start, uuid.Nil)
	if err != nil || block == nil {
		return "", "", false, err
	}
	return block.StartTime, block.EndTime, true, nil
}

func fitsSchedule(snap *Snapshot, roomID uuid.UUID, date, start string, end *string, doctorID uuid.UUID) (bool, *model.ScheduleBlock, error) {
	if end == nil {
		return true, nil, nil
	}
	block, err := eligibleBlock(snap.Room(roomID), date, start, doctorID)
	if err != nil || block == nil {
		return false, nil, err
	}

	s, err := ToMinutes(start)
	if err != nil {
		return false, nil, err
	}
	e, err := ToMinutes(*end)
	if err != nil {
		return false, nil, err
	}
	bs, err := ToMinutes(block.StartTime)
	if err != nil {
		return false, nil, err
	}
	be, err := ToMinutes(block.EndTime)
	if err != nil {
		return false, nil, err
	}
	return s >= bs && e <= be, block, nil
}

func eligibleBlock(room *model.Room, date, start string, doctorID uuid.UUID) (*model.ScheduleBlock, error) {
	if room == nil {
		return nil, nil
	}
	day, err := Weekday(date)
	if err != nil {
		return nil, err
	}
	s, err := ToMinutes(start)
	if err != nil {
		return nil, err
	}
	for i := range room.Schedule {
		b := &room.Schedule[i]
		if b.DayOfWeek != day || !b.IsActive {
			continue
		}
		if doctorID != uuid.Nil && b.DoctorID != doctorID {
			continue
		}
		bs, err := ToMinutes(b.StartTime)
		if err != nil {
			return nil, err
		}
		if s >= bs {
			return b, nil
		}
	}
	return nil, nil
}
