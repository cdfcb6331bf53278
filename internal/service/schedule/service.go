// Package schedule wires the scheduling engine to the store: it loads
// snapshots (with a short TTL cache), answers the grid queries the
// calendar renders from, and runs the drag-and-drop move flow.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduler-api/internal/model"
	"github.com/clinicdesk/scheduler-api/internal/repository"
	"github.com/clinicdesk/scheduler-api/internal/scheduling"
	"github.com/clinicdesk/scheduler-api/pkg/circuitbreaker"
	apperrors "github.com/clinicdesk/scheduler-api/pkg/errors"
	"github.com/clinicdesk/scheduler-api/pkg/metrics"
)

type Service struct {
	appointments repository.AppointmentRepository
	rooms        repository.RoomRepository
	doctors      repository.DoctorRepository

	cfg       scheduling.GridConfig
	snapshots *cache.Cache
	ttl       time.Duration
	breaker   *circuitbreaker.CircuitBreaker
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	// One drag gesture at a time: the controller holds per-gesture
	// state and gestureMu serializes gestures across requests.
	// gestureDate feeds the controller's snapshot source; it is only
	// written under gestureMu.
	ctrl        *scheduling.DragController
	gestureMu   sync.Mutex
	gestureDate string
}

func NewService(
	appointments repository.AppointmentRepository,
	rooms repository.RoomRepository,
	doctors repository.DoctorRepository,
	cfg scheduling.GridConfig,
	snapshotTTL time.Duration,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	s := &Service{
		appointments: appointments,
		rooms:        rooms,
		doctors:      doctors,
		cfg:          cfg,
		snapshots:    cache.New(snapshotTTL, 2*snapshotTTL),
		ttl:          snapshotTTL,
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "appointment-move",
			MaxFailures: 5,
			Timeout:     10 * time.Second,
		}),
		metrics: m,
		logger:  logger.With().Str("service", "schedule").Logger(),
	}
	return s
}

// Snapshot loads the three collections for one date, serving repeat
// reads from the TTL cache.
func (s *Service) Snapshot(ctx context.Context, date string) (*scheduling.Snapshot, error) {
	key := "snapshot:" + date
	if cached, ok := s.snapshots.Get(key); ok {
		if s.metrics != nil {
			s.metrics.SnapshotCacheHits.Inc()
		}
		return cached.(*scheduling.Snapshot), nil
	}

	snap, err := s.loadSnapshot(ctx, date)
	if err != nil {
		if s.metrics != nil {
			s.metrics.SnapshotLoadErrors.Inc()
		}
		return nil, err
	}
	s.snapshots.Set(key, snap, s.ttl)
	return snap, nil
}

// Invalidate drops the cached snapshot for a date after a mutation.
func (s *Service) Invalidate(date string) {
	s.snapshots.Delete("snapshot:" + date)
}

func (s *Service) loadSnapshot(ctx context.Context, date string) (*scheduling.Snapshot, error) {
	if s.metrics != nil {
		s.metrics.SnapshotLoads.Inc()
	}
	appointments, err := s.appointments.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load doctors: %w", err)
	}
	return scheduling.NewSnapshot(appointments, rooms, doctors), nil
}

// GridCell is one room/slot intersection of the calendar.
type GridCell struct {
	Time        string             `json:"time"`
	Doctor      *model.Doctor      `json:"doctor,omitempty"`
	Appointment *model.Appointment `json:"appointment,omitempty"`
	Occupied    bool               `json:"occupied"`
}

// GridColumn is one room's slots for the day.
type GridColumn struct {
	RoomID uuid.UUID  `json:"room_id"`
	Name   string     `json:"name"`
	Cells  []GridCell `json:"cells"`
}

// GridView is everything the calendar needs to paint one day.
type GridView struct {
	Date          string       `json:"date"`
	Slots         []string     `json:"slots"`
	Rooms         []GridColumn `json:"rooms"`
	RefreshFrozen bool         `json:"refresh_frozen"`
}

// Grid joins appointments, rooms and doctors into the rooms-by-slots
// view. Appointment cards appear only at their first slot; cells the
// card spans are marked occupied so the frontend can block drops.
func (s *Service) Grid(ctx context.Context, date string) (*GridView, error) {
	snap, err := s.Snapshot(ctx, date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	slots, err := s.cfg.Slots()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	view := &GridView{Date: date, Slots: slots, RefreshFrozen: s.UpdatesBlocked()}
	for _, room := range snap.Rooms {
		col := GridColumn{RoomID: room.ID, Name: room.Name, Cells: make([]GridCell, 0, len(slots))}
		for _, slot := range slots {
			doctor, err := scheduling.ResolveDoctorForSlot(snap, room.ID, date, slot)
			if err != nil {
				return nil, apperrors.BadRequest("invalid schedule data", err)
			}
			card, err := scheduling.FindDisplayOccupant(snap, room.ID, date, slot)
			if err != nil {
				return nil, apperrors.BadRequest("invalid appointment data", err)
			}
			occupant, err := scheduling.FindOccupant(snap, room.ID, date, slot)
			if err != nil {
				return nil, apperrors.BadRequest("invalid appointment data", err)
			}
			col.Cells = append(col.Cells, GridCell{
				Time:        slot,
				Doctor:      doctor,
				Appointment: card,
				Occupied:    occupant != nil,
			})
		}
		view.Rooms = append(view.Rooms, col)
	}
	return view, nil
}

// Slots returns the configured day window.
func (s *Service) Slots() ([]string, error) {
	return s.cfg.Slots()
}

// Conflicts runs the conflict detector as a read-only query.
func (s *Service) Conflicts(ctx context.Context, q scheduling.ConflictQuery) ([]*model.Appointment, error) {
	snap, err := s.Snapshot(ctx, q.Date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	conflicts, err := scheduling.FindConflicts(s.cfg, snap, q)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	return conflicts, nil
}

// UpdatesBlocked reports whether clients should hold off background
// refresh because a drag gesture is in flight or just settled.
func (s *Service) UpdatesBlocked() bool {
	s.gestureMu.Lock()
	ctrl := s.ctrl
	s.gestureMu.Unlock()
	return ctrl != nil && ctrl.UpdatesBlocked()
}

// Move runs one complete drag-and-drop gesture on behalf of the
// calendar client. The request's confirm flags answer the dialogs the
// interactive UI would show; when a needed confirmation is missing the
// move is rejected with a confirmation_required error carrying enough
// detail for the client to prompt and retry.
func (s *Service) Move(ctx context.Context, req *model.MoveAppointmentRequest) (*scheduling.DropOutcome, error) {
	if s.metrics != nil {
		s.metrics.MovesAttempted.Inc()
	}

	s.gestureMu.Lock()
	defer s.gestureMu.Unlock()

	s.gestureDate = req.Date
	if s.ctrl == nil {
		s.ctrl = scheduling.NewDragController(
			s.cfg,
			func(ctx context.Context) (*scheduling.Snapshot, error) {
				// Evaluate against fresh data, not a stale cache entry.
				return s.loadSnapshot(ctx, s.gestureDate)
			},
			moverFunc(s.commitMove),
			&flagConfirmer{},
			nil, // reconciliation is the Invalidate below; clients poll
			s.logger,
		)
	}
	confirmer := &flagConfirmer{conflicts: req.ConfirmConflict, reassign: req.ConfirmReassign}
	s.ctrl.SetConfirmer(confirmer)

	s.ctrl.OnDragStart(req.AppointmentID)
	out := s.ctrl.OnDrop(ctx, req.RoomID, req.Date, req.Time)
	s.ctrl.OnDragEnd()

	s.Invalidate(req.Date)

	if out.Committed {
		if s.metrics != nil {
			s.metrics.MovesCommitted.Inc()
		}
		return &out, nil
	}

	if s.metrics != nil {
		s.metrics.MovesRejected.WithLabelValues(string(out.Reason)).Inc()
	}
	return &out, s.outcomeError(out)
}

func (s *Service) commitMove(ctx context.Context, cmd scheduling.MoveCommand) error {
	start := time.Now()
	err := s.breaker.Execute(func() error {
		return s.appointments.Move(ctx, cmd.AppointmentID, cmd.DoctorID, cmd.RoomID, cmd.Date, cmd.Time)
	})
	if s.metrics != nil {
		s.metrics.CommitLatency.Observe(time.Since(start).Seconds())
	}
	return err
}

func (s *Service) outcomeError(out scheduling.DropOutcome) error {
	switch out.Reason {
	case scheduling.ReasonNotFound:
		return apperrors.NotFound("appointment", nil)
	case scheduling.ReasonScheduleViolation:
		return apperrors.ScheduleViolation(out.Message)
	case scheduling.ReasonNoCoverage:
		return apperrors.NoCoverage(out.Message)
	case scheduling.ReasonConflictDeclined, scheduling.ReasonReassignDeclined:
		return apperrors.ConfirmationRequired(out.Message)
	case scheduling.ReasonInvalidInput:
		return apperrors.BadRequest(out.Message, nil)
	case scheduling.ReasonCommitFailed:
		return apperrors.CommitFailed(fmt.Errorf("%s", out.Message))
	default:
		return apperrors.BadRequest(out.Message, nil)
	}
}

type moverFunc func(ctx context.Context, cmd scheduling.MoveCommand) error

func (f moverFunc) MoveAppointment(ctx context.Context, cmd scheduling.MoveCommand) error {
	return f(ctx, cmd)
}

// flagConfirmer answers the orchestrator's questions from the request
// flags instead of an interactive dialog.
type flagConfirmer struct {
	conflicts bool
	reassign  bool
}

func (c *flagConfirmer) ConfirmConflicts(context.Context, []*model.Appointment) bool {
	return c.conflicts
}

func (c *flagConfirmer) ConfirmReassign(context.Context, *model.Doctor, *model.Doctor) bool {
	return c.reassign
}
