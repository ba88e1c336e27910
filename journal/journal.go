// Package journal stores games and the ordered events executed in them in SQLite.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("game not found")

// Game is the setup a game was started from. Replaying its events on that setup rebuilds the game.
type Game struct {
	ID        string    `db:"id"`
	Seed      int64     `db:"seed"`
	Scenario  string    `db:"scenario"`
	CreatedAt time.Time `db:"created_at"`
}

// Record is one executed event. Seq starts at 1 and has no gaps within a game.
type Record struct {
	GameID    string    `db:"game_id"`
	Seq       int       `db:"seq"`
	Kind      string    `db:"kind"`
	Payload   []byte    `db:"payload"`
	Host      bool      `db:"host"`
	CreatedAt time.Time `db:"created_at"`
}

type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the journal at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// sqlite allows a single writer
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		scenario TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		game_id TEXT NOT NULL REFERENCES games(id),
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		payload BLOB NOT NULL,
		host INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (game_id, seq)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *Store) CreateGame(ctx context.Context, g Game) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := s.conn.NamedExecContext(ctx,
		`INSERT INTO games (id, seed, scenario, created_at) VALUES (:id, :seed, :scenario, :created_at)`, g)
	if err != nil {
		return fmt.Errorf("create game %s: %w", g.ID, err)
	}
	return nil
}

func (s *Store) Game(ctx context.Context, id string) (Game, error) {
	var g Game
	err := s.conn.GetContext(ctx, &g, `SELECT id, seed, scenario, created_at FROM games WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Game{}, fmt.Errorf("load game %s: %w", id, err)
	}
	return g, nil
}

// Games lists every stored game, oldest first.
func (s *Store) Games(ctx context.Context) ([]Game, error) {
	var games []Game
	err := s.conn.SelectContext(ctx, &games, `SELECT id, seed, scenario, created_at FROM games ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// Append stores r. A record reusing the seq of a stored event is refused.
func (s *Store) Append(ctx context.Context, r Record) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var last int
	if err := tx.GetContext(ctx, &last, `SELECT COALESCE(MAX(seq), 0) FROM events WHERE game_id = ?`, r.GameID); err != nil {
		return fmt.Errorf("append to %s: %w", r.GameID, err)
	}
	if r.Seq != last+1 {
		return fmt.Errorf("append to %s: expected seq %d, got %d", r.GameID, last+1, r.Seq)
	}
	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO events (game_id, seq, kind, payload, host, created_at)
		VALUES (:game_id, :seq, :kind, :payload, :host, :created_at)`, r)
	if err != nil {
		return fmt.Errorf("append to %s: %w", r.GameID, err)
	}
	return tx.Commit()
}

// Events returns the records of a game in execution order.
func (s *Store) Events(ctx context.Context, gameID string) ([]Record, error) {
	var records []Record
	err := s.conn.SelectContext(ctx, &records,
		`SELECT game_id, seq, kind, payload, host, created_at FROM events WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("load events of %s: %w", gameID, err)
	}
	return records, nil
}
