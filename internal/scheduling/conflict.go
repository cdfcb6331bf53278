package scheduling

import (
	"errors"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

// ErrEndRequired is returned by FindConflicts when the candidate has no
// end time and the query demands one.
var ErrEndRequired = errors.New("candidate end time required for conflict check")

// ConflictQuery describes a candidate (room, date, interval) to test
// against the existing bookings.
//
// RequireEnd resolves an old ambiguity: move and resize paths set it
// (an open-ended candidate is a caller bug there), while tolerant
// display paths leave it unset, in which case a missing end yields no
// conflicts rather than an error.
type ConflictQuery struct {
	RoomID     uuid.UUID
	Date       string
	Start      string
	End        *string
	Exclude    uuid.UUID // uuid.Nil excludes nothing
	RequireEnd bool
}

// FindConflicts returns every appointment whose interval overlaps the
// candidate, resolved through the same dual current/legacy rule as
// occupancy. All matches are returned so the caller can list them.
// Cancelled and no-show rows never conflict.
func FindConflicts(cfg GridConfig, snap *Snapshot, q ConflictQuery) ([]*model.Appointment, error) {
	if q.End == nil {
		if q.RequireEnd {
			return nil, ErrEndRequired
		}
		return nil, nil
	}

	var conflicts []*model.Appointment
	for _, apt := range snap.Appointments {
		if apt.Date != q.Date || apt.ID == q.Exclude {
			continue
		}
		if apt.Status == model.AppointmentStatusCancelled || apt.Status == model.AppointmentStatusNoShow {
			continue
		}

		switch {
		case apt.RoomID != nil && *apt.RoomID == q.RoomID:
			overlap, err := cfg.Overlaps(q.Start, q.End, apt.StartTime, apt.EndTime)
			if err != nil {
				return nil, err
			}
			if overlap {
				conflicts = append(conflicts, apt)
			}

		case apt.RoomID == nil:
			doctor, err := ResolveDoctorForSlot(snap, q.RoomID, q.Date, q.Start)
			if err != nil {
				return nil, err
			}
			if doctor == nil || doctor.ID != apt.DoctorID {
				continue
			}
			overlap, err := cfg.Overlaps(q.Start, q.End, apt.StartTime, apt.EndTime)
			if err != nil {
				return nil, err
			}
			if overlap {
				conflicts = append(conflicts, apt)
			}
		}
	}
	return conflicts, nil
}
