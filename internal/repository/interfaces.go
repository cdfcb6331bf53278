package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository handles appointment persistence. Move is
	// the drag-and-drop commit: one atomic write of doctor, room, date
	// and start time that leaves the end time untouched, recorded to
	// the outbox in the same transaction.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ListByDate(ctx context.Context, date string) ([]*model.Appointment, error)
		Move(ctx context.Context, id, doctorID, roomID uuid.UUID, date, startTime string) error
	}

	// RoomRepository owns rooms and their embedded weekly schedule;
	// the schedule is replaced wholesale on edit.
	RoomRepository interface {
		Create(ctx context.Context, room *model.Room) error
		Get(ctx context.Context, id uuid.UUID) (*model.Room, error)
		List(ctx context.Context) ([]*model.Room, error)
		ReplaceSchedule(ctx context.Context, roomID uuid.UUID, blocks []model.ScheduleBlock) error
	}

	DoctorRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string, retryAt *time.Time) error
	}
)
