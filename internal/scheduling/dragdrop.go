package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduler-api/internal/model"
)

// Phase is the drag gesture state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseEvaluating
	PhaseCommitting
)

// RejectReason classifies why a drop did not commit.
type RejectReason string

const (
	ReasonNone              RejectReason = ""
	ReasonNotDragging       RejectReason = "not_dragging"
	ReasonNotFound          RejectReason = "not_found"
	ReasonInvalidInput      RejectReason = "invalid_input"
	ReasonScheduleViolation RejectReason = "schedule_violation"
	ReasonConflictDeclined  RejectReason = "conflict_declined"
	ReasonNoCoverage        RejectReason = "no_coverage"
	ReasonReassignDeclined  RejectReason = "reassign_declined"
	ReasonCommitFailed      RejectReason = "commit_failed"
)

// MoveCommand is the single atomic write a successful drop produces.
// The end time is never part of it: the store keeps the original.
type MoveCommand struct {
	AppointmentID uuid.UUID
	DoctorID      uuid.UUID
	RoomID        uuid.UUID
	Date          string
	Time          string
}

// Mover commits a move to the external store. It owns the canonical
// list; the controller never mutates local state optimistically.
type Mover interface {
	MoveAppointment(ctx context.Context, cmd MoveCommand) error
}

// Confirmer answers the two interactive questions a drop can raise.
// Injected so the controller never reaches for an ambient dialog.
type Confirmer interface {
	ConfirmConflicts(ctx context.Context, conflicts []*model.Appointment) bool
	ConfirmReassign(ctx context.Context, from, to *model.Doctor) bool
}

// SnapshotFunc supplies the current read-only data snapshot.
type SnapshotFunc func(ctx context.Context) (*Snapshot, error)

// RefreshFunc asks the caller to re-read authoritative data, snapping
// any optimistic visuals back to reality.
type RefreshFunc func()

// DropOutcome reports how a drop resolved. Exactly one commit call is
// made when Committed is true; none otherwise.
type DropOutcome struct {
	Committed    bool                 `json:"committed"`
	Reason       RejectReason         `json:"reason,omitempty"`
	Message      string               `json:"message,omitempty"`
	Conflicts    []*model.Appointment `json:"conflicts,omitempty"`
	ReassignedTo *model.Doctor        `json:"reassigned_to,omitempty"`
}

// DragController sequences one drag-and-drop gesture: fit check,
// conflict check, doctor-reassignment confirmation, then a single
// commit. Every rejection path leaves the store untouched.
//
// It also owns the refresh freeze: background list refresh is
// suppressed from drag-start until a quiescence delay after drag-end,
// so an in-flight refresh cannot yank the dragged card out from under
// the pointer.
type DragController struct {
	cfg       GridConfig
	snapshot  SnapshotFunc
	mover     Mover
	confirmer Confirmer
	refresh   RefreshFunc
	logger    zerolog.Logger

	mu          sync.Mutex
	phase       Phase
	draggingID  uuid.UUID
	hoverRoomID uuid.UUID
	hoverTime   string

	blocked      bool
	unblockTimer *time.Timer
}

func NewDragController(cfg GridConfig, snapshot SnapshotFunc, mover Mover, confirmer Confirmer, refresh RefreshFunc, logger zerolog.Logger) *DragController {
	return &DragController{
		cfg:       cfg,
		snapshot:  snapshot,
		mover:     mover,
		confirmer: confirmer,
		refresh:   refresh,
		logger:    logger.With().Str("component", "drag_controller").Logger(),
	}
}

// SetConfirmer swaps the confirmation source. Callers that reuse one
// controller across gestures install the gesture's confirmer before
// OnDragStart.
func (c *DragController) SetConfirmer(confirmer Confirmer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmer = confirmer
}

// Phase returns the current gesture phase.
func (c *DragController) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// UpdatesBlocked reports whether background data refresh should be
// suppressed right now.
func (c *DragController) UpdatesBlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocked
}

// OnDragStart captures the appointment being dragged and freezes
// background refresh for the duration of the gesture.
func (c *DragController) OnDragStart(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unblockTimer != nil {
		c.unblockTimer.Stop()
		c.unblockTimer = nil
	}
	c.phase = PhaseDragging
	c.draggingID = id
	c.blocked = true
	c.logger.Debug().Str("appointment_id", id.String()).Msg("drag started")
}

// OnDragOverCell records the hovered cell. Visual only, no side effect.
func (c *DragController) OnDragOverCell(roomID uuid.UUID, at string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseDragging {
		return
	}
	c.hoverRoomID = roomID
	c.hoverTime = at
}

// OnDragEnd closes the gesture and arms the quiescence timer that
// re-enables background refresh once any in-flight commit has settled.
func (c *DragController) OnDragEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.phase = PhaseIdle
	c.draggingID = uuid.Nil
	c.hoverRoomID = uuid.Nil
	c.hoverTime = ""

	if c.unblockTimer != nil {
		c.unblockTimer.Stop()
	}
	c.unblockTimer = time.AfterFunc(c.cfg.RefreshQuiescence, func() {
		c.mu.Lock()
		c.blocked = false
		c.unblockTimer = nil
		c.mu.Unlock()
	})
}

// OnDrop evaluates the drop target and either commits the move or
// rejects it. All checks run before the one commit call; a rejection
// at any point performs zero writes.
func (c *DragController) OnDrop(ctx context.Context, roomID uuid.UUID, date, at string) DropOutcome {
	c.mu.Lock()
	if c.phase != PhaseDragging {
		c.mu.Unlock()
		return DropOutcome{Reason: ReasonNotDragging, Message: "no appointment is being dragged"}
	}
	id := c.draggingID
	c.phase = PhaseEvaluating
	c.mu.Unlock()

	outcome := c.evaluate(ctx, id, roomID, date, at)

	c.mu.Lock()
	c.phase = PhaseIdle
	c.draggingID = uuid.Nil
	c.mu.Unlock()

	if outcome.Committed {
		c.logger.Info().
			Str("appointment_id", id.String()).
			Str("room_id", roomID.String()).
			Str("date", date).
			Str("time", at).
			Msg("appointment moved")
	} else {
		c.logger.Info().
			Str("appointment_id", id.String()).
			Str("reason", string(outcome.Reason)).
			Msg("drop rejected")
	}
	return outcome
}

func (c *DragController) evaluate(ctx context.Context, id uuid.UUID, roomID uuid.UUID, date, at string) DropOutcome {
	snap, err := c.snapshot(ctx)
	if err != nil {
		return c.reject(ReasonCommitFailed, fmt.Sprintf("failed to load schedule data: %v", err))
	}

	apt := snap.Appointment(id)
	if apt == nil {
		return c.reject(ReasonNotFound, "appointment not found, refreshing the calendar")
	}

	fits, err := FitsSchedule(snap, roomID, date, at, apt.EndTime)
	if err != nil {
		return c.reject(ReasonInvalidInput, err.Error())
	}
	if !fits {
		return c.reject(ReasonScheduleViolation, c.fitMessage(snap, apt, roomID, date, at))
	}

	conflicts, err := FindConflicts(c.cfg, snap, ConflictQuery{
		RoomID:     roomID,
		Date:       date,
		Start:      at,
		End:        c.effectiveEnd(at, apt.EndTime),
		Exclude:    apt.ID,
		RequireEnd: true,
	})
	if err != nil {
		return c.reject(ReasonInvalidInput, err.Error())
	}
	if len(conflicts) > 0 {
		if !c.confirmer.ConfirmConflicts(ctx, conflicts) {
			out := c.reject(ReasonConflictDeclined, fmt.Sprintf("move cancelled: %d conflicting appointment(s)", len(conflicts)))
			out.Conflicts = conflicts
			return out
		}
	}

	available, err := ResolveDoctorForSlot(snap, roomID, date, at)
	if err != nil {
		return c.reject(ReasonInvalidInput, err.Error())
	}
	if available == nil {
		return c.reject(ReasonNoCoverage, "no doctor is available in this room at this time")
	}

	doctorID := apt.DoctorID
	var reassignedTo *model.Doctor
	if available.ID != apt.DoctorID {
		fits, err := FitsScheduleForDoctor(snap, roomID, date, at, apt.EndTime, available.ID)
		if err != nil {
			return c.reject(ReasonInvalidInput, err.Error())
		}
		if !fits {
			return c.reject(ReasonScheduleViolation, c.fitMessage(snap, apt, roomID, date, at))
		}
		from := snap.Doctor(apt.DoctorID)
		if !c.confirmer.ConfirmReassign(ctx, from, available) {
			return c.reject(ReasonReassignDeclined, fmt.Sprintf("move cancelled: reassignment to %s declined", available.FullName))
		}
		doctorID = available.ID
		reassignedTo = available
	}

	c.mu.Lock()
	c.phase = PhaseCommitting
	c.mu.Unlock()

	cmd := MoveCommand{
		AppointmentID: apt.ID,
		DoctorID:      doctorID,
		RoomID:        roomID,
		Date:          date,
		Time:          at,
	}
	if err := c.mover.MoveAppointment(ctx, cmd); err != nil {
		return c.reject(ReasonCommitFailed, fmt.Sprintf("failed to move appointment: %v", err))
	}

	// The store is canonical; re-read it rather than patching locally.
	if c.refresh != nil {
		c.refresh()
	}
	return DropOutcome{Committed: true, ReassignedTo: reassignedTo}
}

// reject builds a rejection outcome and triggers the reconciliation
// refresh so the card snaps back to authoritative data.
func (c *DragController) reject(reason RejectReason, message string) DropOutcome {
	if c.refresh != nil {
		c.refresh()
	}
	return DropOutcome{Reason: reason, Message: message}
}

func (c *DragController) fitMessage(snap *Snapshot, apt *model.Appointment, roomID uuid.UUID, date, at string) string {
	duration := c.cfg.DefaultSlotMinutes
	if apt.EndTime != nil {
		s, errS := ToMinutes(apt.StartTime)
		e, errE := ToMinutes(*apt.EndTime)
		if errS == nil && errE == nil && e > s {
			duration = e - s
		}
	}
	opens, closes, ok, err := ScheduleWindow(snap, roomID, date, at)
	if err != nil || !ok {
		return fmt.Sprintf("the room has no schedule covering %s", at)
	}
	return fmt.Sprintf("a %d minute appointment does not fit the room's %s-%s window", duration, opens, closes)
}

// effectiveEnd materializes the interval end used for conflict checks:
// the appointment keeps its original end time across a move, and a
// missing end gets the default slot width anchored at the drop time.
func (c *DragController) effectiveEnd(at string, end *string) *string {
	if end != nil {
		return end
	}
	s, err := ToMinutes(at)
	if err != nil {
		return nil
	}
	d := c.cfg.DefaultSlotMinutes
	if d <= 0 {
		d = DefaultSlotMinutes
	}
	e := minutesToTime(s + d)
	return &e
}
