package task

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/a-bunting/daily-grind-sub000/internal/model"
)

// SQLiteRepo is the durable Repo. Tasks are stored as one JSON document
// per row; the schema is owned by the store package.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

func (r *SQLiteRepo) Create(t model.Task) (model.Task, error) {
	now := time.Now()
	t.ID = newID()
	t.CreatedAt = now
	t.UpdatedAt = now
	normalizeTask(&t)

	data, err := json.Marshal(t)
	if err != nil {
		return model.Task{}, fmt.Errorf("encode task: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO tasks (id, data, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		string(t.ID), string(data), now.UTC().Format(time.RFC3339Nano), now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepo) Get(id model.TaskID) (model.Task, error) {
	var data string
	err := r.db.QueryRow(`SELECT data FROM tasks WHERE id = ?`, string(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}
	return decodeTask(data)
}

func (r *SQLiteRepo) Update(id model.TaskID, p Patch) (model.Task, error) {
	return r.mutate(id, func(t *model.Task) { applyPatch(t, p) })
}

func (r *SQLiteRepo) Delete(id model.TaskID) error {
	res, err := r.db.Exec(`DELETE FROM tasks WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) List(filter ListFilter) ([]model.Task, error) {
	rows, err := r.db.Query(`SELECT data FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Task
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		t, err := decodeTask(data)
		if err != nil {
			return nil, err
		}
		if !filter.matches(t) {
			continue
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) SetProgress(id model.TaskID, dateKey string, rec model.Progress) (model.Task, error) {
	if !validDateKey(dateKey) {
		return model.Task{}, ErrBadDateKey
	}
	return r.mutate(id, func(t *model.Task) {
		if rec.IsZero() {
			delete(t.DailyProgress, dateKey)
			return
		}
		t.DailyProgress[dateKey] = rec
	})
}

func (r *SQLiteRepo) SkipDate(id model.TaskID, dateKey string) (model.Task, error) {
	if !validDateKey(dateKey) {
		return model.Task{}, ErrBadDateKey
	}
	return r.mutate(id, func(t *model.Task) { applySkip(t, dateKey) })
}

func (r *SQLiteRepo) AddOneOff(id model.TaskID, dateKey string) (model.Task, error) {
	if !validDateKey(dateKey) {
		return model.Task{}, ErrBadDateKey
	}
	return r.mutate(id, func(t *model.Task) { applyOneOff(t, dateKey) })
}

func (r *SQLiteRepo) StartTimer(id model.TaskID, dateKey string, now time.Time) (model.Task, error) {
	if !validDateKey(dateKey) {
		return model.Task{}, ErrBadDateKey
	}
	return r.mutate(id, func(t *model.Task) { applyStartTimer(t, dateKey, now) })
}

func (r *SQLiteRepo) StopTimer(id model.TaskID, dateKey string, now time.Time) (model.Task, error) {
	if !validDateKey(dateKey) {
		return model.Task{}, ErrBadDateKey
	}
	return r.mutate(id, func(t *model.Task) { applyStopTimer(t, dateKey, now) })
}

func (r *SQLiteRepo) mutate(id model.TaskID, fn func(*model.Task)) (model.Task, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return model.Task{}, err
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRow(`SELECT data FROM tasks WHERE id = ?`, string(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}

	t, err := decodeTask(data)
	if err != nil {
		return model.Task{}, err
	}
	fn(&t)
	t.UpdatedAt = time.Now()

	encoded, err := json.Marshal(t)
	if err != nil {
		return model.Task{}, fmt.Errorf("encode task: %w", err)
	}
	_, err = tx.Exec(
		`UPDATE tasks SET data = ?, updated_at = ? WHERE id = ?`,
		string(encoded), t.UpdatedAt.UTC().Format(time.RFC3339Nano), string(id),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func decodeTask(data string) (model.Task, error) {
	var t model.Task
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return model.Task{}, fmt.Errorf("decode task: %w", err)
	}
	normalizeTask(&t)
	return t, nil
}
