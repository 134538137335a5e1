package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/ports"
)

// sortableTime is fixed width so timestamps order lexically.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

// likeEscaper makes search needles match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SQLiteStore persists history in a SQLite database.
type SQLiteStore struct {
	db            *sql.DB
	path          string
	retentionDays int
	mu            sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string, retentionDays int) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, errors.Wrap(err, "create history directory")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite history")
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db, path: path, retentionDays: retentionDays}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init sqlite history")
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS lookups (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		city TEXT NOT NULL,
		outcome TEXT NOT NULL,
		status_code INTEGER,
		message TEXT,
		temperature REAL,
		condition TEXT,
		duration_ms INTEGER
	);
	CREATE INDEX IF NOT EXISTS lookups_timestamp ON lookups(timestamp);`)
	return err
}

// Save inserts a new record and applies the retention policy.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var temperature sql.NullFloat64
	if record.Temperature != nil {
		temperature = sql.NullFloat64{Float64: *record.Temperature, Valid: true}
	}
	_, err := s.db.Exec(`INSERT INTO lookups
		(id, timestamp, city, outcome, status_code, message, temperature, condition, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(sortableTime),
		record.City,
		string(record.Outcome),
		record.StatusCode,
		record.Message,
		temperature,
		record.Condition,
		record.DurationMS,
	)
	if err != nil {
		return errors.Wrap(err, "insert history record")
	}
	if s.retentionDays > 0 {
		return s.prune(s.retentionDays)
	}
	return nil
}

// Records returns history entries newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT id, timestamp, city, outcome, status_code, message, temperature, condition, duration_ms FROM lookups")
	var args []interface{}
	if needle := strings.TrimSpace(search); needle != "" {
		pattern := "%" + likeEscaper.Replace(needle) + "%"
		builder.WriteString(` WHERE city LIKE ? ESCAPE '\' OR message LIKE ? ESCAPE '\'`)
		args = append(args, pattern, pattern)
	}
	builder.WriteString(" ORDER BY timestamp DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.HistoryRecord
	for rows.Next() {
		var (
			rec         domain.HistoryRecord
			ts, outcome string
			message     sql.NullString
			condition   sql.NullString
			status      sql.NullInt64
			duration    sql.NullInt64
			temperature sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.City, &outcome, &status, &message, &temperature, &condition, &duration); err != nil {
			return nil, err
		}
		if t, err := time.Parse(sortableTime, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Outcome = domain.HistoryOutcome(outcome)
		rec.StatusCode = int(status.Int64)
		rec.Message = message.String
		rec.Condition = condition.String
		rec.DurationMS = duration.Int64
		if temperature.Valid {
			rec.Temperature = domain.Float(temperature.Float64)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM lookups")
	return err
}

// ExportJSON writes the lookups table to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	return writeJSONL(dest, records)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// PruneOlderThan removes entries older than N days.
func (s *SQLiteStore) PruneOlderThan(days int) error {
	if days <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prune(days)
}

func (s *SQLiteStore) prune(days int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(sortableTime)
	_, err := s.db.Exec("DELETE FROM lookups WHERE timestamp < ?", cutoff)
	return err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func writeJSONL(dest string, records []domain.HistoryRecord) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
