package credstore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound means no credentials are stored for the game.
var ErrNotFound = errors.New("no stored credentials for game")

// Credentials is the identity pair a join returns. It is everything needed to
// resume the same seat after a restart.
type Credentials struct {
	GameID   string
	PlayerID string
	Username string
	JoinedAt time.Time
}

// Store persists join credentials in a local sqlite database.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS credentials (
			game_id   TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			username  TEXT NOT NULL,
			joined_at INTEGER NOT NULL
		);
	`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the credentials for a game; rejoining a game overwrites the
// previous identity.
func (s *Store) Save(ctx context.Context, creds Credentials) error {
	if creds.JoinedAt.IsZero() {
		creds.JoinedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (game_id, player_id, username, joined_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			player_id = excluded.player_id,
			username  = excluded.username,
			joined_at = excluded.joined_at;
	`, creds.GameID, creds.PlayerID, creds.Username, creds.JoinedAt.Unix())
	return err
}

func (s *Store) Lookup(ctx context.Context, gameID string) (Credentials, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT game_id, player_id, username, joined_at
		FROM credentials WHERE game_id = ?;
	`, gameID)

	var creds Credentials
	var joinedAt int64
	err := row.Scan(&creds.GameID, &creds.PlayerID, &creds.Username, &joinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		return Credentials{}, err
	}
	creds.JoinedAt = time.Unix(joinedAt, 0)
	return creds, nil
}

// Delete is called when the server rejects the identity; stale credentials
// must not be retried forever.
func (s *Store) Delete(ctx context.Context, gameID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE game_id = ?;`, gameID)
	return err
}
