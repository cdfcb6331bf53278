package appointment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduler-api/internal/model"
	"github.com/clinicdesk/scheduler-api/internal/repository"
	"github.com/clinicdesk/scheduler-api/internal/scheduling"
	"github.com/clinicdesk/scheduler-api/internal/service/schedule"
	apperrors "github.com/clinicdesk/scheduler-api/pkg/errors"
)

// Service owns the plain appointment mutations. The drag-and-drop move
// lives in the schedule service; everything here is the booking-form
// side of the same store.
type Service struct {
	repo     repository.AppointmentRepository
	outbox   repository.OutboxRepository
	schedule *schedule.Service
	logger   zerolog.Logger
}

func NewService(repo repository.AppointmentRepository, outbox repository.OutboxRepository, scheduleSvc *schedule.Service, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		outbox:   outbox,
		schedule: scheduleSvc,
		logger:   logger.With().Str("service", "appointment").Logger(),
	}
}

func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := validateInterval(req.StartTime, req.EndTime); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	// Booking creation is tolerant of open-ended requests: with no end
	// time there is no interval to conflict-check.
	if req.RoomID != nil {
		conflicts, err := s.schedule.Conflicts(ctx, scheduling.ConflictQuery{
			RoomID: *req.RoomID,
			Date:   req.Date,
			Start:  req.StartTime,
			End:    req.EndTime,
		})
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, apperrors.SchedulingConflict(fmt.Sprintf("time slot conflicts with %d existing appointment(s)", len(conflicts)))
		}
	}

	apt := &model.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		RoomID:    req.RoomID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.AppointmentStatusUnconfirmed,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.schedule.Invalidate(apt.Date)
	s.emit(ctx, model.EventAppointmentCreated, apt)
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// UpdateAppointment applies a partial update. The end time may be
// edited here; a move never touches it.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}

	oldDate := apt.Date
	if req.Date != nil {
		apt.Date = *req.Date
	}
	if req.StartTime != nil {
		apt.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		apt.EndTime = req.EndTime
	}
	if req.Status != nil {
		apt.Status = *req.Status
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := validateInterval(apt.StartTime, apt.EndTime); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.schedule.Invalidate(oldDate)
	s.schedule.Invalidate(apt.Date)
	s.emit(ctx, model.EventAppointmentUpdated, apt)
	return apt, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("appointment", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}

	s.schedule.Invalidate(apt.Date)
	s.emit(ctx, model.EventAppointmentDeleted, apt)
	return nil
}

func (s *Service) emit(ctx context.Context, eventType string, apt *model.Appointment) {
	payload, err := json.Marshal(apt)
	if err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal outbox payload")
		return
	}
	if err := s.outbox.Create(ctx, &model.OutboxEvent{EventType: eventType, Payload: payload}); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to write outbox event")
	}
}

func validateInterval(start string, end *string) error {
	startMin, err := scheduling.ToMinutes(start)
	if err != nil {
		return err
	}
	if end == nil {
		return nil
	}
	endMin, err := scheduling.ToMinutes(*end)
	if err != nil {
		return err
	}
	if endMin <= startMin {
		return fmt.Errorf("end time %s must be after start time %s", *end, start)
	}
	return nil
}
