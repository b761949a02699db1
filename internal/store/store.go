// Package store is the durable home for goal, section and category
// records, plus the shared sqlite handle the task repository uses.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/a-bunting/daily-grind-sub000/internal/model"
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func sqliteDSN(path string) string {
	q := url.Values{}
	q.Set("_pragma", "journal_mode(WAL)")
	return "file:" + filepath.ToSlash(path) + "?" + q.Encode()
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the handle for the task repository, which shares this
// database.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS goals (
	id TEXT PRIMARY KEY,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sections (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS categories (
	id TEXT PRIMARY KEY,
	data TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) SaveGoal(g model.Goal) error {
	return s.upsert("goals", string(g.ID), g)
}

func (s *Store) DeleteGoal(id model.GoalID) error {
	return s.delete("goals", string(id))
}

func (s *Store) ListGoals() ([]model.Goal, error) {
	rows, err := s.db.Query(`SELECT data FROM goals ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Goal
	for rows.Next() {
		var g model.Goal
		if err := scanJSON(rows, &g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) SaveCategory(c model.Category) error {
	return s.upsert("categories", string(c.ID), c)
}

func (s *Store) DeleteCategory(id model.CategoryID) error {
	return s.delete("categories", string(id))
}

func (s *Store) ListCategories() ([]model.Category, error) {
	rows, err := s.db.Query(`SELECT data FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := scanJSON(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListSections returns sections in their resolution order.
func (s *Store) ListSections() ([]model.Section, error) {
	rows, err := s.db.Query(`SELECT data FROM sections ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Section
	for rows.Next() {
		var sec model.Section
		if err := scanJSON(rows, &sec); err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// SaveSections replaces the whole ordered section list. Section order is
// resolution priority, so partial writes would reorder matching; the
// list is swapped atomically instead.
func (s *Store) SaveSections(sections []model.Section) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sections`); err != nil {
		return err
	}
	for i, sec := range sections {
		data, err := json.Marshal(sec)
		if err != nil {
			return fmt.Errorf("encode section %s: %w", sec.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO sections (id, position, data) VALUES (?, ?, ?)`,
			string(sec.ID), i, string(data),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// MoveTask places a task into one section's taskOrder at the given
// position and removes it from every other section, keeping the
// at-most-one-manual-placement invariant.
func (s *Store) MoveTask(taskID model.TaskID, sectionID model.SectionID, position int) error {
	sections, err := s.ListSections()
	if err != nil {
		return err
	}

	found := false
	for i := range sections {
		order := make([]model.TaskID, 0, len(sections[i].TaskOrder))
		for _, id := range sections[i].TaskOrder {
			if id != taskID {
				order = append(order, id)
			}
		}
		if sections[i].ID == sectionID {
			found = true
			if position < 0 || position > len(order) {
				position = len(order)
			}
			order = append(order[:position], append([]model.TaskID{taskID}, order[position:]...)...)
		}
		sections[i].TaskOrder = order
	}
	if !found {
		return ErrNotFound
	}
	return s.SaveSections(sections)
}

func (s *Store) upsert(table, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", table, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO `+table+` (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		id, string(data),
	)
	return err
}

func (s *Store) delete(table, id string) error {
	res, err := s.db.Exec(`DELETE FROM `+table+` WHERE id = ?`, id)
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

func scanJSON(rows *sql.Rows, v any) error {
	var data string
	if err := rows.Scan(&data); err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), v)
}
