package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Score is one finished game's result.
type Score struct {
	ID        string
	Score     int
	Duration  float64
	CreatedAt time.Time
}

// ScoreRepository provides leaderboard operations over the scores table.
// It satisfies the engine's Leaderboard contract.
type ScoreRepository struct {
	db *sql.DB
}

// Scores returns the score repository for this store.
func (s *Store) Scores() *ScoreRepository {
	return &ScoreRepository{db: s.db}
}

// Record inserts a finished game's score and duration.
func (r *ScoreRepository) Record(score int, duration float64) error {
	_, err := r.db.Exec(
		`INSERT INTO scores (id, score, duration_seconds, created_at)
		 VALUES (?, ?, ?, ?)`,
		uuid.NewString(), score, duration, time.Now(),
	)
	return err
}

// Top returns the n best scores, highest first.
func (r *ScoreRepository) Top(n int) ([]int, error) {
	rows, err := r.db.Query(
		`SELECT score FROM scores ORDER BY score DESC, created_at ASC LIMIT ?`, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []int
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// TopEntries returns the n best games with their full rows, highest first.
func (r *ScoreRepository) TopEntries(n int) ([]Score, error) {
	rows, err := r.db.Query(
		`SELECT id, score, duration_seconds, created_at
		 FROM scores ORDER BY score DESC, created_at ASC LIMIT ?`, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Score
	for rows.Next() {
		var s Score
		if err := rows.Scan(&s.ID, &s.Score, &s.Duration, &s.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, s)
	}
	return entries, rows.Err()
}

// Best returns the single highest score, or ErrNotFound if no game has
// been recorded yet.
func (r *ScoreRepository) Best() (*Score, error) {
	s := &Score{}
	err := r.db.QueryRow(
		`SELECT id, score, duration_seconds, created_at
		 FROM scores ORDER BY score DESC, created_at ASC LIMIT 1`,
	).Scan(&s.ID, &s.Score, &s.Duration, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// Count returns the number of recorded games.
func (r *ScoreRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM scores`).Scan(&n)
	return n, err
}

// Prune deletes everything below the keep best rows. It bounds the table
// on long-running installations and is called at startup.
func (r *ScoreRepository) Prune(keep int) error {
	if keep < 1 {
		return nil
	}
	_, err := r.db.Exec(
		`DELETE FROM scores WHERE id NOT IN (
			SELECT id FROM scores ORDER BY score DESC, created_at ASC LIMIT ?
		)`, keep,
	)
	return err
}
