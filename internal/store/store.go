// Package store keeps a local log of submission attempts in a sqlite
// database next to the config file.
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const dbFile = "history.db"

// Submission statuses as stored in the status column.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Submission is one recorded driver outcome for a section.
type Submission struct {
	ID          int64
	Username    string
	CourseID    int64
	CourseName  string
	SectionID   int64
	SectionName string
	Attempts    int
	Score       int
	StudyTime   int
	Status      string
	CreatedAt   time.Time
}

// Store wraps the history database connection.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if necessary) the history database in dir.
func Open(dir string) (*Store, error) {
	conn, err := sql.Open("sqlite", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// WAL keeps concurrent readers cheap; the busy timeout covers the rare
	// overlap with another process.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	conn.Exec("PRAGMA synchronous=NORMAL")

	if _, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS submissions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			username     TEXT NOT NULL,
			course_id    INTEGER NOT NULL,
			course_name  TEXT NOT NULL,
			section_id   INTEGER NOT NULL,
			section_name TEXT NOT NULL,
			attempts     INTEGER NOT NULL,
			score        INTEGER NOT NULL,
			study_time   INTEGER NOT NULL,
			status       TEXT NOT NULL,
			created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create submissions table: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Record appends one submission outcome.
func (s *Store) Record(sub Submission) error {
	_, err := s.conn.Exec(`
		INSERT INTO submissions (username, course_id, course_name, section_id, section_name,
		                         attempts, score, study_time, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.Username, sub.CourseID, sub.CourseName, sub.SectionID, sub.SectionName,
		sub.Attempts, sub.Score, sub.StudyTime, sub.Status)
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// Tail returns the last limit submissions in chronological order.
func (s *Store) Tail(limit int) ([]Submission, error) {
	rows, err := s.conn.Query(`
		SELECT id, username, course_id, course_name, section_id, section_name,
		       attempts, score, study_time, status, created_at
		FROM submissions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		var ts string
		if err := rows.Scan(&sub.ID, &sub.Username, &sub.CourseID, &sub.CourseName,
			&sub.SectionID, &sub.SectionName, &sub.Attempts, &sub.Score,
			&sub.StudyTime, &sub.Status, &ts); err != nil {
			return nil, err
		}
		sub.CreatedAt = parseTimestamp(ts)
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(subs)-1; i < j; i, j = i+1, j-1 {
		subs[i], subs[j] = subs[j], subs[i]
	}
	return subs, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// parseTimestamp tries the timestamp formats sqlite emits; a zero time
// stands in for anything unparseable.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
