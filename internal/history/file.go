package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prosalmed/sstcheck/internal/inspection"
	"github.com/rs/zerolog/log"
)

// slotFileName mirrors the browser tool's localStorage key.
const slotFileName = "sst_hist.json"

// FileStore keeps the whole history list in a single JSON file under the data
// directory, rewritten on every change. Single-device usage; last writer wins
// across processes.
type FileStore struct {
	mu   sync.Mutex
	path string
	gen  idGenerator
}

// NewFileStore creates a file-backed store in dataDir. The directory is
// created if missing.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{
		path: filepath.Join(dataDir, slotFileName),
		gen:  idGenerator{now: time.Now},
	}, nil
}

// Load reads the slot file. A missing file or undecodable content yields an
// empty list: stored history is best-effort, never fatal.
func (s *FileStore) Load() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() []Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", s.path).Msg("Failed to read history slot, starting empty")
		}
		return nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn().Err(err).Str("file", s.path).Msg("History slot is corrupt, starting empty")
		return nil
	}
	return records
}

// Save writes the full list to the slot file via a temp-file rename so a
// crash mid-write cannot leave a truncated slot.
func (s *FileStore) Save(records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(records)
}

func (s *FileStore) saveLocked(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Append prepends a new record and persists the list.
func (s *FileStore) Append(client inspection.ClientData, state inspection.State) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := newRecord(&s.gen, client, state)
	if err != nil {
		return Record{}, err
	}
	records := append([]Record{record}, s.loadLocked()...)
	if err := s.saveLocked(records); err != nil {
		return Record{}, err
	}
	log.Info().Str("id", record.ID).Str("company", record.Company).Msg("Inspection saved to history")
	return record, nil
}

// Delete removes the record with the given id, preserving the order of the
// remaining records. Unknown ids are a no-op.
func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.loadLocked()
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.saveLocked(kept)
}

// Record returns the record with the given id.
func (s *FileStore) Record(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.loadLocked() {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, ErrRecordNotFound
}
