package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout is the persisted timestamp format. Local wall-clock time,
// no zone — lexical order matches chronological order, which keeps the
// reconciliation and due queries plain string comparisons in SQL.
const timeLayout = "2006-01-02 15:04:05"

// Store wraps a SQLite database holding reminder records.
type Store struct {
	db *sql.DB

	// now is swappable so tests can pin the reconciliation clock.
	now func() time.Time
}

// Open opens (or creates) the reminder database in dataDir and runs
// pending migrations. Pass ":memory:" as dataDir for an in-memory
// database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "reminders.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access (CLI vs. daemon) waits
	// briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Reminders ---

const reminderColumns = "id, message, scheduled_time, last_shown, status, snooze_until, duration, created_at"

// Create inserts a new active reminder and returns its assigned ID.
func (s *Store) Create(message string, scheduledTime time.Time, duration string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO reminders (message, scheduled_time, status, duration, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		message, formatTime(scheduledTime), StatusActive, duration, formatTime(s.now()),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAll returns every reminder ordered by scheduled time, after
// reconciling expired snoozes and legacy statuses.
func (s *Store) ListAll() ([]Reminder, error) {
	if err := s.reconcile(s.now()); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT ` + reminderColumns + ` FROM reminders ORDER BY scheduled_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

// GetByID returns a single reminder, post-reconciliation.
func (s *Store) GetByID(id int64) (Reminder, error) {
	if err := s.reconcile(s.now()); err != nil {
		return Reminder{}, err
	}

	row := s.db.QueryRow(`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	r, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return Reminder{}, ErrNotFound
	}
	if err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// Delete removes a reminder by ID. Returns ErrNotFound if no row matched.
func (s *Store) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM reminders WHERE id = ?`, id)
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

// SetStatus updates the status of a reminder.
func (s *Store) SetStatus(id int64, status string) error {
	res, err := s.db.Exec(`UPDATE reminders SET status = ? WHERE id = ?`, status, id)
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

// UpdateTimes applies a partial update of a reminder's timestamps.
// Only fields set in u are written; an empty update is a no-op error.
func (s *Store) UpdateTimes(id int64, u TimesUpdate) error {
	var fields []string
	var values []any

	if u.LastShown != nil {
		fields = append(fields, "last_shown = ?")
		values = append(values, formatTime(*u.LastShown))
	}
	if u.ScheduledTime != nil {
		fields = append(fields, "scheduled_time = ?")
		values = append(values, formatTime(*u.ScheduledTime))
	}
	if u.SnoozeUntil != nil {
		fields = append(fields, "snooze_until = ?")
		values = append(values, formatTime(*u.SnoozeUntil))
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}

	values = append(values, id)
	res, err := s.db.Exec(`UPDATE reminders SET `+strings.Join(fields, ", ")+` WHERE id = ?`, values...)
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

// DueNow returns the reminders eligible to fire at now: status active
// and scheduled time reached, after reconciliation.
func (s *Store) DueNow(now time.Time) ([]Reminder, error) {
	if err := s.reconcile(now); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT `+reminderColumns+` FROM reminders
		WHERE status = ? AND scheduled_time <= ?
		ORDER BY scheduled_time ASC`,
		StatusActive, formatTime(now),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

// reconcile lazily normalizes persisted state before serving a read:
// snoozed reminders whose snooze has expired go back to active with
// snooze_until cleared, and any legacy status (the retired "paused",
// or anything unrecognized) is treated as recoverable and reset to
// active. Both updates are idempotent, so a concurrent CLI and daemon
// racing to reconcile is benign.
func (s *Store) reconcile(now time.Time) error {
	if _, err := s.db.Exec(`
		UPDATE reminders
		SET status = ?, snooze_until = NULL
		WHERE status = ? AND snooze_until IS NOT NULL AND snooze_until <= ?`,
		StatusActive, StatusSnoozed, formatTime(now),
	); err != nil {
		return fmt.Errorf("reconciling expired snoozes: %w", err)
	}

	if _, err := s.db.Exec(`
		UPDATE reminders
		SET status = ?
		WHERE status NOT IN (?, ?)`,
		StatusActive, StatusActive, StatusSnoozed,
	); err != nil {
		return fmt.Errorf("reconciling legacy statuses: %w", err)
	}

	return nil
}

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var results []Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(row scanner) (Reminder, error) {
	var r Reminder
	var scheduled, createdAt string
	var lastShown, snoozeUntil sql.NullString

	if err := row.Scan(&r.ID, &r.Message, &scheduled, &lastShown, &r.Status, &snoozeUntil, &r.Duration, &createdAt); err != nil {
		return Reminder{}, err
	}

	var err error
	if r.ScheduledTime, err = parseTime(scheduled); err != nil {
		return Reminder{}, fmt.Errorf("parsing scheduled_time for reminder %d: %w", r.ID, err)
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return Reminder{}, fmt.Errorf("parsing created_at for reminder %d: %w", r.ID, err)
	}
	if lastShown.Valid {
		t, err := parseTime(lastShown.String)
		if err != nil {
			return Reminder{}, fmt.Errorf("parsing last_shown for reminder %d: %w", r.ID, err)
		}
		r.LastShown = &t
	}
	if snoozeUntil.Valid {
		t, err := parseTime(snoozeUntil.String)
		if err != nil {
			return Reminder{}, fmt.Errorf("parsing snooze_until for reminder %d: %w", r.ID, err)
		}
		r.SnoozeUntil = &t
	}

	return r, nil
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.Local)
}
