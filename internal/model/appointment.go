package model

import (
	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusUnconfirmed AppointmentStatus = "unconfirmed"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusArrived     AppointmentStatus = "arrived"
	AppointmentStatusInProgress  AppointmentStatus = "in_progress"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusNoShow      AppointmentStatus = "no_show"
)

// Appointment is a booking of one patient with one doctor on one date.
// Dates are calendar days ("2006-01-02") and times are wall-clock
// "HH:MM" strings, matching the slot grid the calendar works in.
//
// RoomID is nil on legacy rows imported from the old system: those are
// bound to a room transitively, through the doctor that covers the room
// at the appointment's time (see internal/scheduling).
type Appointment struct {
	Base
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	RoomID    *uuid.UUID        `db:"room_id" json:"room_id,omitempty"`
	Date      string            `db:"visit_date" json:"date"`
	StartTime string            `db:"start_time" json:"start_time"`
	EndTime   *string           `db:"end_time" json:"end_time,omitempty"`
	Status    AppointmentStatus `db:"status" json:"status"`
	Notes     string            `db:"notes" json:"notes,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID uuid.UUID  `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID  `json:"doctor_id" binding:"required"`
	RoomID    *uuid.UUID `json:"room_id"`
	Date      string     `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string     `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   *string    `json:"end_time" binding:"omitempty,datetime=15:04"`
	Notes     string     `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	Date      *string            `json:"date" binding:"omitempty,datetime=2006-01-02"`
	StartTime *string            `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime   *string            `json:"end_time" binding:"omitempty,datetime=15:04"`
	Status    *AppointmentStatus `json:"status"`
	Notes     *string            `json:"notes"`
}

// MoveAppointmentRequest carries a drag-and-drop relocation. The two
// confirm flags stand in for the interactive dialogs of the calendar:
// the first request usually arrives with both false, and the client
// retries with the relevant flag set after the user approves.
type MoveAppointmentRequest struct {
	AppointmentID   uuid.UUID `json:"appointment_id" binding:"required"`
	RoomID          uuid.UUID `json:"room_id" binding:"required"`
	Date            string    `json:"date" binding:"required,datetime=2006-01-02"`
	Time            string    `json:"time" binding:"required,datetime=15:04"`
	ConfirmConflict bool      `json:"confirm_conflicts"`
	ConfirmReassign bool      `json:"confirm_reassign"`
}

type AppointmentFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	RoomID    uuid.UUID
	Status    AppointmentStatus
	Date      string
}
