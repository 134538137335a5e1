package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/ports"
)

// FileStore appends history records to a jsonl file.
type FileStore struct {
	path          string
	retentionDays int
	mu            sync.Mutex
}

// NewFileStore creates a store backed by the jsonl file at path.
func NewFileStore(path string, retentionDays int) *FileStore {
	return &FileStore{path: path, retentionDays: retentionDays}
}

// Save implements ports.HistoryRepository. Entries past the retention window
// are dropped after the append.
func (f *FileStore) Save(record domain.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.appendRecord(record); err != nil {
		return err
	}
	if f.retentionDays > 0 {
		return f.prune(f.retentionDays)
	}
	return nil
}

func (f *FileStore) appendRecord(record domain.HistoryRecord) error {
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return errors.Wrap(err, "create history directory")
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.HistoryFilePermissions)
	if err != nil {
		return errors.Wrap(err, "open history file")
	}
	defer file.Close()
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := file.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "append history record")
	}
	return nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Clear removes the history file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Records returns entries newest first. Malformed lines are skipped.
func (f *FileStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	f.mu.Lock()
	all, err := f.readAll()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return filterRecords(all, limit, search), nil
}

func (f *FileStore) readAll() ([]domain.HistoryRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []domain.HistoryRecord
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec domain.HistoryRecord
		if err := json.Unmarshal(line, &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records, scanner.Err()
}

// ExportJSON copies the history file to dest.
func (f *FileStore) ExportJSON(dest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(dest, data, domain.HistoryFilePermissions)
}

// PruneOlderThan removes entries older than N days.
func (f *FileStore) PruneOlderThan(days int) error {
	if days <= 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prune(days)
}

// prune rewrites the file without expired entries. Callers hold f.mu.
func (f *FileStore) prune(days int) error {
	records, err := f.readAll()
	if err != nil {
		return err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var buf bytes.Buffer
	expired := 0
	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) {
			expired++
			continue
		}
		data, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if expired == 0 {
		return nil
	}
	return errors.Wrap(os.WriteFile(f.path, buf.Bytes(), domain.HistoryFilePermissions), "rewrite history file")
}

// filterRecords orders newest first, applies the case-insensitive search
// over city and message, then truncates to limit (0 means no limit).
func filterRecords(records []domain.HistoryRecord, limit int, search string) []domain.HistoryRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if needle != "" &&
			!strings.Contains(strings.ToLower(rec.City), needle) &&
			!strings.Contains(strings.ToLower(rec.Message), needle) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

var _ ports.HistoryRepository = (*FileStore)(nil)
