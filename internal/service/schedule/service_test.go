package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduler-api/internal/model"
	"github.com/clinicdesk/scheduler-api/internal/scheduling"
	apperrors "github.com/clinicdesk/scheduler-api/pkg/errors"
)

const aMonday = "2024-01-01"

type fakeAppointments struct {
	byDate map[string][]*model.Appointment
	moves  []scheduling.MoveCommand
}

func (f *fakeAppointments) Create(context.Context, *model.Appointment) error { return nil }
func (f *fakeAppointments) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointments) Update(context.Context, *model.Appointment) error { return nil }
func (f *fakeAppointments) Delete(context.Context, uuid.UUID) error          { return nil }
func (f *fakeAppointments) List(context.Context, *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointments) ListByDate(_ context.Context, date string) ([]*model.Appointment, error) {
	return f.byDate[date], nil
}
func (f *fakeAppointments) Move(_ context.Context, id, doctorID, roomID uuid.UUID, date, startTime string) error {
	f.moves = append(f.moves, scheduling.MoveCommand{
		AppointmentID: id, DoctorID: doctorID, RoomID: roomID, Date: date, Time: startTime,
	})
	return nil
}

type fakeRooms struct{ rooms []*model.Room }

func (f *fakeRooms) Create(context.Context, *model.Room) error { return nil }
func (f *fakeRooms) Get(_ context.Context, id uuid.UUID) (*model.Room, error) {
	for _, r := range f.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}
func (f *fakeRooms) List(context.Context) ([]*model.Room, error) { return f.rooms, nil }
func (f *fakeRooms) ReplaceSchedule(context.Context, uuid.UUID, []model.ScheduleBlock) error {
	return nil
}

type fakeDoctors struct{ doctors []*model.Doctor }

func (f *fakeDoctors) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}
func (f *fakeDoctors) List(context.Context) ([]*model.Doctor, error) { return f.doctors, nil }

type fixture struct {
	svc    *Service
	appts  *fakeAppointments
	room   *model.Room
	doctor *model.Doctor
	apt    *model.Appointment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doctor := &model.Doctor{Base: model.Base{ID: uuid.New()}, FullName: "Dr. Ivanova"}
	room := &model.Room{
		Base: model.Base{ID: uuid.New()},
		Name: "Room 1",
		Schedule: []model.ScheduleBlock{{
			ID: uuid.New(), DayOfWeek: 0, StartTime: "09:00", EndTime: "17:00",
			DoctorID: doctor.ID, IsActive: true,
		}},
	}
	room.Schedule[0].RoomID = room.ID

	apt := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		DoctorID:  doctor.ID,
		RoomID:    &room.ID,
		Date:      aMonday,
		StartTime: "09:00",
		EndTime:   ptr("09:30"),
		Status:    model.AppointmentStatusConfirmed,
	}

	appts := &fakeAppointments{byDate: map[string][]*model.Appointment{aMonday: {apt}}}
	cfg := scheduling.DefaultGridConfig()
	cfg.DayStart, cfg.DayEnd = "09:00", "11:00"
	cfg.RefreshQuiescence = 50 * time.Millisecond

	svc := NewService(appts, &fakeRooms{rooms: []*model.Room{room}}, &fakeDoctors{doctors: []*model.Doctor{doctor}},
		cfg, time.Minute, nil, zerolog.Nop())

	return &fixture{svc: svc, appts: appts, room: room, doctor: doctor, apt: apt}
}

func ptr(s string) *string { return &s }

func TestGrid(t *testing.T) {
	f := newFixture(t)

	view, err := f.svc.Grid(context.Background(), aMonday)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, view.Slots)
	require.Len(t, view.Rooms, 1)
	col := view.Rooms[0]
	assert.Equal(t, f.room.ID, col.RoomID)
	require.Len(t, col.Cells, 4)

	first := col.Cells[0]
	require.NotNil(t, first.Appointment)
	assert.Equal(t, f.apt.ID, first.Appointment.ID)
	assert.True(t, first.Occupied)
	require.NotNil(t, first.Doctor)
	assert.Equal(t, f.doctor.ID, first.Doctor.ID)

	// Card only on the first slot, later cells free.
	assert.Nil(t, col.Cells[1].Appointment)
	assert.False(t, col.Cells[1].Occupied)
}

func TestMoveCommits(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.Move(context.Background(), &model.MoveAppointmentRequest{
		AppointmentID: f.apt.ID,
		RoomID:        f.room.ID,
		Date:          aMonday,
		Time:          "10:00",
	})
	require.NoError(t, err)
	assert.True(t, out.Committed)
	require.Len(t, f.appts.moves, 1)
	assert.Equal(t, "10:00", f.appts.moves[0].Time)
	assert.Equal(t, f.doctor.ID, f.appts.moves[0].DoctorID)
}

func TestMoveScheduleViolation(t *testing.T) {
	f := newFixture(t)

	// 2024-01-07 is a Sunday and the room only has a Monday block.
	f.appts.byDate["2024-01-07"] = f.appts.byDate[aMonday]
	out, err := f.svc.Move(context.Background(), &model.MoveAppointmentRequest{
		AppointmentID: f.apt.ID,
		RoomID:        f.room.ID,
		Date:          "2024-01-07",
		Time:          "10:00",
	})
	require.Error(t, err)
	assert.False(t, out.Committed)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrScheduleViolation, appErr.Code)
	assert.Empty(t, f.appts.moves, "no store write on rejection")
}

func TestMoveConflictNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	// Lands on 09:00, straddling the fixture appointment there.
	other := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: uuid.New(),
		DoctorID:  f.doctor.ID,
		RoomID:    &f.room.ID,
		Date:      aMonday,
		StartTime: "10:00",
		EndTime:   ptr("11:00"),
		Status:    model.AppointmentStatusConfirmed,
	}
	f.appts.byDate[aMonday] = append(f.appts.byDate[aMonday], other)

	req := &model.MoveAppointmentRequest{
		AppointmentID: other.ID,
		RoomID:        f.room.ID,
		Date:          aMonday,
		Time:          "09:00",
	}

	out, err := f.svc.Move(context.Background(), req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConfirmationRequired, appErr.Code)
	require.Len(t, out.Conflicts, 1)
	assert.Equal(t, f.apt.ID, out.Conflicts[0].ID)
	assert.Empty(t, f.appts.moves)

	// Client prompts the user and retries with the flag set.
	req.ConfirmConflict = true
	out, err = f.svc.Move(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, out.Committed)
	assert.Len(t, f.appts.moves, 1)
}

func TestMoveFreezesRefreshDuringGesture(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Move(context.Background(), &model.MoveAppointmentRequest{
		AppointmentID: f.apt.ID,
		RoomID:        f.room.ID,
		Date:          aMonday,
		Time:          "10:00",
	})
	require.NoError(t, err)

	assert.True(t, f.svc.UpdatesBlocked(), "quiescence window still open right after the move")
	assert.Eventually(t, func() bool { return !f.svc.UpdatesBlocked() },
		time.Second, time.Millisecond)
}
