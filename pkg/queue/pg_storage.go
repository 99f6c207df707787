package queue

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/pkg/pg"
)

const (
	tasksTable = "queue_tasks"
	dlqTable   = "queue_dlq"
)

// moveToDLQ deletes the task and copies it into the dead letter table in one statement.
const moveToDLQ = `WITH moved AS (
	DELETE FROM queue_tasks WHERE id = $1 RETURNING *
)
INSERT INTO queue_dlq (id, task_id, queue, kind, name, payload, error, attempts, failed_at)
SELECT $2, id, queue, kind, name, payload, $3, attempts, now() FROM moved`

// PgStorage is a Storage over the queue_tasks and queue_dlq tables.
// Concurrent workers claim tasks with FOR UPDATE SKIP LOCKED.
type PgStorage struct {
	db   pg.DBTX
	psql sq.StatementBuilderType
}

// NewPgStorage creates a PgStorage.
func NewPgStorage(db pg.DBTX) *PgStorage {
	return &PgStorage{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (s *PgStorage) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return ErrPayloadNil
	}

	query, args, err := s.psql.Insert(tasksTable).
		SetMap(map[string]any{
			"id":           task.ID,
			"queue":        task.Queue,
			"kind":         string(task.Kind),
			"name":         task.Name,
			"payload":      task.Payload,
			"status":       string(task.Status),
			"attempts":     task.Attempts,
			"max_retries":  task.MaxRetries,
			"scheduled_at": task.ScheduledAt,
			"created_at":   task.CreatedAt,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("queue: build insert: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("queue: create task %q: %w", task.Name, err)
	}
	return nil
}

func (s *PgStorage) ClaimTask(ctx context.Context, workerID uuid.UUID, queues []string, lock time.Duration) (*Task, error) {
	now := time.Now()

	next := s.psql.Select("id").
		From(tasksTable).
		Where(sq.Eq{"queue": queues}).
		Where(sq.LtOrEq{"scheduled_at": now}).
		Where(sq.Or{
			sq.Eq{"status": string(StatusPending)},
			sq.And{
				sq.Eq{"status": string(StatusProcessing)},
				sq.Lt{"locked_until": now},
			},
		}).
		OrderBy("scheduled_at", "created_at").
		Limit(1).
		Suffix("FOR UPDATE SKIP LOCKED")

	query, args, err := s.psql.Update(tasksTable).
		Set("status", string(StatusProcessing)).
		Set("locked_until", now.Add(lock)).
		Set("locked_by", workerID).
		Set("attempts", sq.Expr("attempts + 1")).
		Where(sq.Expr("id = (?)", next)).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("queue: build claim: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("queue: claim task: %w", err)
	}
	task, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Task])
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNoTaskToClaim
		}
		return nil, fmt.Errorf("queue: claim task: %w", err)
	}
	return task, nil
}

func (s *PgStorage) CompleteTask(ctx context.Context, taskID uuid.UUID) error {
	return s.update(ctx, s.psql.Update(tasksTable).
		Set("status", string(StatusCompleted)).
		Set("processed_at", sq.Expr("now()")).
		Set("locked_until", nil).
		Set("locked_by", nil).
		Where(sq.Eq{"id": taskID}))
}

func (s *PgStorage) FailTask(ctx context.Context, taskID uuid.UUID, errMsg string) error {
	return s.update(ctx, s.psql.Update(tasksTable).
		Set("error", errMsg).
		Set("locked_until", nil).
		Set("locked_by", nil).
		Set("status", sq.Expr("CASE WHEN attempts > max_retries THEN ? ELSE ? END",
			string(StatusFailed), string(StatusPending))).
		Set("scheduled_at", sq.Expr(
			"CASE WHEN attempts > max_retries THEN scheduled_at "+
				"ELSE now() + power(LEAST(GREATEST(attempts, 1), 10), 2) * interval '1 second' END")).
		Where(sq.Eq{"id": taskID}))
}

func (s *PgStorage) MoveToDLQ(ctx context.Context, taskID uuid.UUID, errMsg string) error {
	tag, err := s.db.Exec(ctx, moveToDLQ, taskID, uuid.New(), errMsg)
	if err != nil {
		return fmt.Errorf("queue: move task %s to dlq: %w", taskID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *PgStorage) PendingByName(ctx context.Context, name string) (*Task, error) {
	query, args, err := s.psql.Select("*").
		From(tasksTable).
		Where(sq.Eq{
			"name":   name,
			"status": []string{string(StatusPending), string(StatusProcessing)},
		}).
		OrderBy("scheduled_at").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("queue: build select: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("queue: pending task %q: %w", name, err)
	}
	task, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Task])
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("queue: pending task %q: %w", name, err)
	}
	return task, nil
}

func (s *PgStorage) update(ctx context.Context, b sq.UpdateBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("queue: build update: %w", err)
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("queue: update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
