package scheduling

import (
	"github.com/google/uuid"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

// ResolveDoctorForSlot returns the doctor authorized to occupy the room
// at the given date and time, or nil if no active schedule block covers
// that moment. When several blocks cover the same moment the first one
// in schedule order wins; the schedule editor does not forbid overlaps,
// so first-match is the standing policy.
func ResolveDoctorForSlot(snap *Snapshot, roomID uuid.UUID, date, at string) (*model.Doctor, error) {
	block, err := activeBlockAt(snap.Room(roomID), date, at)
	if err != nil || block == nil {
		return nil, err
	}
	return snap.Doctor(block.DoctorID), nil
}

// activeBlockAt finds the first active schedule block of the room that
// contains the given moment on the date's weekday.
func activeBlockAt(room *model.Room, date, at string) (*model.ScheduleBlock, error) {
	if room == nil || len(room.Schedule) == 0 {
		return nil, nil
	}
	day, err := Weekday(date)
	if err != nil {
		return nil, err
	}
	for i := range room.Schedule {
		b := &room.Schedule[i]
		if b.DayOfWeek != day || !b.IsActive {
			continue
		}
		end := b.EndTime
		within, err := IsWithin(b.StartTime, &end, at)
		if err != nil {
			return nil, err
		}
		if within {
			return b, nil
		}
	}
	return nil, nil
}
