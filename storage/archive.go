package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// TranscriptMessage is one archived chat message.
type TranscriptMessage struct {
	Role      string
	Content   string
	HasImage  bool
	Timestamp time.Time
}

// SessionRecord is lightweight per-session metadata for listing.
type SessionRecord struct {
	SessionID    string
	StartedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
}

// Archive persists conversation transcripts locally, keyed by session id.
type Archive struct {
	db *sql.DB
}

// NewArchive opens (and initializes if needed) the transcript database
// under dataDir.
func NewArchive(dataDir string) (*Archive, error) {
	dbPath := filepath.Join(dataDir, "transcripts.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	archive := &Archive{db: db}

	if err := archive.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return archive, nil
}

func (a *Archive) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		has_image INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id)
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq);
	`

	_, err := a.db.Exec(schema)
	return err
}

// SaveTranscript replaces the archived transcript for a session with the
// given messages. Saving an empty transcript removes the session entry.
func (a *Archive) SaveTranscript(sessionID string, messages []TranscriptMessage) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if len(messages) == 0 {
		if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
			return fmt.Errorf("clear messages: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return tx.Commit()
	}

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO sessions (session_id, started_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET updated_at = excluded.updated_at`,
		sessionID, messages[0].Timestamp, now)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO messages (session_id, seq, role, content, has_image, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range messages {
		hasImage := 0
		if msg.HasImage {
			hasImage = 1
		}
		if _, err := stmt.Exec(sessionID, i, msg.Role, msg.Content, hasImage, msg.Timestamp); err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadTranscript returns the archived transcript for a session in insertion
// order.
func (a *Archive) LoadTranscript(sessionID string) ([]TranscriptMessage, error) {
	rows, err := a.db.Query(`
		SELECT role, content, has_image, created_at
		FROM messages WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []TranscriptMessage
	for rows.Next() {
		var msg TranscriptMessage
		var hasImage int
		if err := rows.Scan(&msg.Role, &msg.Content, &hasImage, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.HasImage = hasImage != 0
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ListSessions returns per-session metadata, newest first.
func (a *Archive) ListSessions() ([]SessionRecord, error) {
	rows, err := a.db.Query(`
		SELECT s.session_id, s.started_at, s.updated_at, COUNT(m.id)
		FROM sessions s LEFT JOIN messages m ON m.session_id = s.session_id
		GROUP BY s.session_id
		ORDER BY s.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.SessionID, &rec.StartedAt, &rec.UpdatedAt, &rec.MessageCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteSession removes a session and its messages.
func (a *Archive) DeleteSession(sessionID string) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}
