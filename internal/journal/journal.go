package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pleimann/hookpad/internal/gesture"
	_ "modernc.org/sqlite"
)

// ErrClosed is returned when the journal has been closed
var ErrClosed = errors.New("journal closed")

// fixed width so timestamps sort lexically
const timeFormat = "2006-01-02 15:04:05.000000000"

const queueSize = 64

// Entry is one recorded gesture
type Entry struct {
	ID         string
	At         time.Time
	Kind       string
	Weight     int
	Command    string
	WasPlaying bool
}

// Journal appends resolved gestures to a SQLite history file
type Journal struct {
	db     *sql.DB
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	closed  bool
	entries chan Entry
	done    chan struct{}
}

// DefaultPath returns the history file under the XDG state directory
func DefaultPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "hookpad", "history.db"), nil
}

// Open opens or creates the history database at path
func Open(path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer; readers queue behind it
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS gestures (
			id          TEXT PRIMARY KEY,
			at          TEXT NOT NULL,
			kind        TEXT NOT NULL,
			weight      INTEGER NOT NULL,
			command     TEXT NOT NULL,
			was_playing INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS gestures_at ON gestures(at);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create gestures table: %w", err)
	}

	j := &Journal{
		db:      db,
		path:    path,
		logger:  logger,
		entries: make(chan Entry, queueSize),
		done:    make(chan struct{}),
	}
	go j.run()

	return j, nil
}

// Path returns the database file path
func (j *Journal) Path() string {
	return j.path
}

// Record queues a resolved gesture for writing. It never blocks; when the
// writer falls behind the entry is dropped.
func (j *Journal) Record(r gesture.Resolution) {
	at := r.At
	if at.IsZero() {
		at = time.Now()
	}
	e := Entry{
		ID:         uuid.NewString(),
		At:         at,
		Kind:       r.Kind.String(),
		Weight:     r.Weight,
		Command:    r.Command.String(),
		WasPlaying: r.WasPlaying,
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}

	select {
	case j.entries <- e:
	default:
		j.logger.Warn("Journal queue full, dropping gesture", "gesture", r.String())
	}
}

func (j *Journal) run() {
	defer close(j.done)
	for e := range j.entries {
		if err := j.insert(e); err != nil {
			j.logger.Warn("Failed to record gesture", "id", e.ID, "error", err)
		}
	}
}

func (j *Journal) insert(e Entry) error {
	playing := 0
	if e.WasPlaying {
		playing = 1
	}
	_, err := j.db.Exec(`
		INSERT INTO gestures (id, at, kind, weight, command, was_playing)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.At.UTC().Format(timeFormat), e.Kind, e.Weight, e.Command, playing,
	)
	return err
}

// Recent returns up to limit entries, newest first
func (j *Journal) Recent(limit int) ([]Entry, error) {
	j.mu.RLock()
	closed := j.closed
	j.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := j.db.Query(`
		SELECT id, at, kind, weight, command, was_playing
		FROM gestures
		ORDER BY at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query gestures: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at string
		var playing int
		if err := rows.Scan(&e.ID, &at, &e.Kind, &e.Weight, &e.Command, &playing); err != nil {
			return nil, fmt.Errorf("scan gesture: %w", err)
		}
		e.At, err = time.ParseInLocation(timeFormat, at, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse gesture time %q: %w", at, err)
		}
		e.WasPlaying = playing != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close flushes queued entries and closes the database
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.entries)
	j.mu.Unlock()

	<-j.done
	return j.db.Close()
}
