package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/replaygen/replaygen/internal/domain"
	"github.com/replaygen/replaygen/internal/storage"
)

// Store is a SQLite implementation of storage.SessionStore. Event logs are
// stored as JSON payloads in append order; an autoincrement sequence column
// preserves arrival order across reads.
type Store struct {
	db *sql.DB
}

var _ storage.SessionStore = (*Store)(nil)

// New opens (or creates) the database at dbPath and initializes the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS interaction_events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS network_events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			test_source TEXT NOT NULL,
			mock_source TEXT NOT NULL,
			summary TEXT NOT NULL,
			warnings TEXT,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interaction_events_session ON interaction_events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_network_events_session ON network_events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_session ON artifacts(session_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

func (s *Store) CreateSession(ctx context.Context, sess *storage.Session) error {
	sess.CreatedAt = time.Now()
	sess.UpdatedAt = sess.CreatedAt

	query := `INSERT INTO sessions (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, sess.ID, sess.Name, sess.CreatedAt, sess.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*storage.Session, error) {
	query := `SELECT id, name, created_at, updated_at FROM sessions WHERE id = ?`

	var sess storage.Session
	err := s.db.QueryRowContext(ctx, query, id).Scan(&sess.ID, &sess.Name, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", id, storage.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	countQuery := `SELECT
		(SELECT COUNT(*) FROM interaction_events WHERE session_id = ?),
		(SELECT COUNT(*) FROM network_events WHERE session_id = ?)`
	if err := s.db.QueryRowContext(ctx, countQuery, id, id).Scan(&sess.InteractionCount, &sess.NetworkCount); err != nil {
		return nil, fmt.Errorf("failed to count session events: %w", err)
	}

	return &sess, nil
}

// sessionExists distinguishes a missing session from an empty log before
// appending or reading events.
func (s *Store) sessionExists(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("session %s: %w", id, storage.ErrSessionNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	return nil
}

func (s *Store) AppendInteractions(ctx context.Context, sessionID string, events []domain.InteractionEvent) error {
	return s.appendEvents(ctx, sessionID, "interaction_events", len(events), func(i int) (any, error) {
		return json.Marshal(events[i])
	})
}

func (s *Store) AppendNetworkEvents(ctx context.Context, sessionID string, events []domain.NetworkEvent) error {
	return s.appendEvents(ctx, sessionID, "network_events", len(events), func(i int) (any, error) {
		return json.Marshal(events[i])
	})
}

func (s *Store) appendEvents(ctx context.Context, sessionID, table string, n int, payload func(int) (any, error)) error {
	if err := s.sessionExists(ctx, sessionID); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	query := fmt.Sprintf(`INSERT INTO %s (session_id, payload, created_at) VALUES (?, ?, ?)`, table)
	for i := 0; i < n; i++ {
		data, err := payload(i)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, sessionID, data, now); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, now, sessionID); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return tx.Commit()
}

func (s *Store) Interactions(ctx context.Context, sessionID string) ([]domain.InteractionEvent, error) {
	payloads, err := s.eventPayloads(ctx, sessionID, "interaction_events")
	if err != nil {
		return nil, err
	}

	events := make([]domain.InteractionEvent, 0, len(payloads))
	for _, p := range payloads {
		var ev domain.InteractionEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interaction event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *Store) NetworkEvents(ctx context.Context, sessionID string) ([]domain.NetworkEvent, error) {
	payloads, err := s.eventPayloads(ctx, sessionID, "network_events")
	if err != nil {
		return nil, err
	}

	events := make([]domain.NetworkEvent, 0, len(payloads))
	for _, p := range payloads {
		var ev domain.NetworkEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			return nil, fmt.Errorf("failed to unmarshal network event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *Store) eventPayloads(ctx context.Context, sessionID, table string) ([][]byte, error) {
	if err := s.sessionExists(ctx, sessionID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT payload FROM %s WHERE session_id = ? ORDER BY seq ASC`, table)
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var payloads [][]byte
	for rows.Next() {
		var p []byte
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		payloads = append(payloads, p)
	}
	return payloads, rows.Err()
}

func (s *Store) SaveArtifact(ctx context.Context, rec *storage.ArtifactRecord) error {
	if err := s.sessionExists(ctx, rec.SessionID); err != nil {
		return err
	}

	rec.CreatedAt = time.Now()

	summary, err := json.Marshal(rec.Artifact.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	warnings, err := json.Marshal(rec.Artifact.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	query := `INSERT INTO artifacts (id, session_id, test_source, mock_source, summary, warnings, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.SessionID,
		rec.Artifact.TestSource, rec.Artifact.MockHandlerSource,
		string(summary), string(warnings), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
