package model

import (
	"github.com/google/uuid"
)

// Room is a physical cabinet with a recurring weekly schedule. The
// schedule is owned by the room and replaced wholesale on edit.
type Room struct {
	Base
	Name     string          `db:"name" json:"name"`
	Schedule []ScheduleBlock `db:"-" json:"schedule"`
}

// ScheduleBlock binds one doctor to one room on one weekday.
// DayOfWeek is Monday-based: 0 = Monday .. 6 = Sunday.
type ScheduleBlock struct {
	ID        uuid.UUID `db:"id" json:"id"`
	RoomID    uuid.UUID `db:"room_id" json:"room_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	IsActive  bool      `db:"is_active" json:"is_active"`
}

type CreateRoomRequest struct {
	Name     string                 `json:"name" binding:"required,max=255"`
	Schedule []ScheduleBlockRequest `json:"schedule"`
}

type ScheduleBlockRequest struct {
	DayOfWeek int       `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string    `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string    `json:"end_time" binding:"required,datetime=15:04"`
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	IsActive  bool      `json:"is_active"`
}
