package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicdesk/scheduler-api/internal/model"
	"github.com/clinicdesk/scheduler-api/internal/repository"
)

type roomRepository struct {
	BaseRepository
}

func NewRoomRepository(db *sqlx.DB) repository.RoomRepository {
	return &roomRepository{NewBaseRepository(db)}
}

func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO rooms (id, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
		`
		room.ID = uuid.New()
		room.CreatedAt = time.Now()
		room.UpdatedAt = time.Now()

		if _, err := tx.ExecContext(ctx, query, room.ID, room.Name, room.CreatedAt, room.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}
		return insertScheduleBlocksTx(ctx, tx, room.ID, room.Schedule)
	})
}

func (r *roomRepository) Get(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	query := `SELECT id, name, created_at, updated_at FROM rooms WHERE id = $1 AND deleted_at IS NULL`

	var room model.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	blocks, err := r.scheduleBlocks(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Schedule = blocks
	return &room, nil
}

func (r *roomRepository) List(ctx context.Context) ([]*model.Room, error) {
	query := `SELECT id, name, created_at, updated_at FROM rooms WHERE deleted_at IS NULL ORDER BY name ASC`

	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	// Attach schedules in one pass rather than per room.
	blockQuery := `
		SELECT id, room_id, day_of_week, start_time, end_time, doctor_id, is_active
		FROM room_schedule_blocks
		ORDER BY room_id, position ASC
	`
	var blocks []model.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, blockQuery); err != nil {
		return nil, fmt.Errorf("failed to list schedule blocks: %w", err)
	}

	byRoom := make(map[uuid.UUID][]model.ScheduleBlock, len(rooms))
	for _, b := range blocks {
		byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
	}
	for _, room := range rooms {
		room.Schedule = byRoom[room.ID]
	}
	return rooms, nil
}

// ReplaceSchedule swaps the room's weekly schedule wholesale; block
// order is persisted because the resolver's first-match rule depends
// on it.
func (r *roomRepository) ReplaceSchedule(ctx context.Context, roomID uuid.UUID, blocks []model.ScheduleBlock) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM room_schedule_blocks WHERE room_id = $1`, roomID); err != nil {
			return fmt.Errorf("failed to clear schedule: %w", err)
		}
		if err := insertScheduleBlocksTx(ctx, tx, roomID, blocks); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `UPDATE rooms SET updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`, time.Now(), roomID)
		if err != nil {
			return fmt.Errorf("failed to touch room: %w", err)
		}
		return requireRowsAffected(result, "room")
	})
}

func (r *roomRepository) scheduleBlocks(ctx context.Context, roomID uuid.UUID) ([]model.ScheduleBlock, error) {
	query := `
		SELECT id, room_id, day_of_week, start_time, end_time, doctor_id, is_active
		FROM room_schedule_blocks
		WHERE room_id = $1
		ORDER BY position ASC
	`
	var blocks []model.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query, roomID); err != nil {
		return nil, fmt.Errorf("failed to get schedule blocks: %w", err)
	}
	return blocks, nil
}

func insertScheduleBlocksTx(ctx context.Context, tx *sqlx.Tx, roomID uuid.UUID, blocks []model.ScheduleBlock) error {
	query := `
		INSERT INTO room_schedule_blocks (
			id, room_id, day_of_week, start_time, end_time, doctor_id, is_active, position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, b := range blocks {
		id := b.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, query, id, roomID, b.DayOfWeek, b.StartTime, b.EndTime, b.DoctorID, b.IsActive, i); err != nil {
			return fmt.Errorf("failed to insert schedule block: %w", err)
		}
	}
	return nil
}
