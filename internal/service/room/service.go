package room

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduler-api/internal/model"
	"github.com/clinicdesk/scheduler-api/internal/repository"
	"github.com/clinicdesk/scheduler-api/internal/scheduling"
	apperrors "github.com/clinicdesk/scheduler-api/pkg/errors"
)

type Service struct {
	repo   repository.RoomRepository
	outbox repository.OutboxRepository
	logger zerolog.Logger
}

func NewService(repo repository.RoomRepository, outbox repository.OutboxRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		outbox: outbox,
		logger: logger.With().Str("service", "room").Logger(),
	}
}

func (s *Service) CreateRoom(ctx context.Context, req *model.CreateRoomRequest) (*model.Room, error) {
	blocks, err := toBlocks(req.Schedule)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	room := &model.Room{Name: req.Name, Schedule: blocks}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, apperrors.Internal(err)
	}
	return room, nil
}

func (s *Service) GetRoom(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	room, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("room", err)
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rooms, nil
}

// SetSchedule replaces the room's weekly schedule wholesale. Blocks are
// validated for well-formed times but overlapping blocks are accepted:
// the resolver's first-match order decides, and the editor has always
// allowed overlaps.
func (s *Service) SetSchedule(ctx context.Context, roomID uuid.UUID, reqs []model.ScheduleBlockRequest) error {
	blocks, err := toBlocks(reqs)
	if err != nil {
		return apperrors.BadRequest(err.Error(), err)
	}

	if err := s.repo.ReplaceSchedule(ctx, roomID, blocks); err != nil {
		return apperrors.Internal(err)
	}

	payload, err := json.Marshal(map[string]interface{}{"room_id": roomID})
	if err == nil {
		if err := s.outbox.Create(ctx, &model.OutboxEvent{EventType: model.EventRoomScheduleSet, Payload: payload}); err != nil {
			s.logger.Error().Err(err).Msg("failed to write outbox event")
		}
	}
	return nil
}

func toBlocks(reqs []model.ScheduleBlockRequest) ([]model.ScheduleBlock, error) {
	blocks := make([]model.ScheduleBlock, 0, len(reqs))
	for _, r := range reqs {
		start, err := scheduling.ToMinutes(r.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := scheduling.ToMinutes(r.EndTime)
		if err != nil {
			return nil, err
		}
		if end <= start {
			return nil, fmt.Errorf("block end %s must be after start %s", r.EndTime, r.StartTime)
		}
		blocks = append(blocks, model.ScheduleBlock{
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			DoctorID:  r.DoctorID,
			IsActive:  r.IsActive,
		})
	}
	return blocks, nil
}
