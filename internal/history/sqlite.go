package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/prosalmed/sstcheck/internal/inspection"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const sqliteFileName = "sst_hist.db"

// SQLiteStore is the archive backend: same contract as the JSON slot, but
// records survive in a queryable database. Each record keeps its full JSON
// payload so both backends share one wire format.
type SQLiteStore struct {
	db  *sql.DB
	gen idGenerator
}

// NewSQLiteStore opens (or creates) the history database under dataDir.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	// Pragmas in the DSN so every pool connection is configured.
	dsn := filepath.Join(dataDir, sqliteFileName) + "?" + url.Values{
		"_pragma": []string{
			"busy_timeout(30000)",
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
		},
	}.Encode()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// Single writer keeps SQLite happy.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db, gen: idGenerator{now: time.Now}}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}

	log.Info().Str("dir", dataDir).Msg("SQLite history store initialized")
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS inspections (
			id       TEXT PRIMARY KEY,
			fecha    TEXT NOT NULL,
			cliente  TEXT NOT NULL,
			payload  TEXT NOT NULL,
			position INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_inspections_position ON inspections(position);
	`)
	return err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns all records, most recent first. Read errors degrade to an
// empty list, matching the slot-file contract.
func (s *SQLiteStore) Load() []Record {
	rows, err := s.db.Query(`SELECT payload FROM inspections ORDER BY position DESC`)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read history database, starting empty")
		return nil
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			log.Warn().Err(err).Msg("Skipping unreadable history row")
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			log.Warn().Err(err).Msg("Skipping corrupt history row")
			continue
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		log.Warn().Err(err).Msg("History database iteration failed")
	}
	return records
}

// Save replaces the stored list verbatim. The first element gets the highest
// position so Load returns the same order back.
func (s *SQLiteStore) Save(records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM inspections`); err != nil {
		return err
	}
	n := len(records)
	for i, r := range records {
		payload, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO inspections (id, fecha, cliente, payload, position) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Date, r.Company, string(payload), n-i,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Append validates the client, snapshots the state and inserts it on top.
func (s *SQLiteStore) Append(client inspection.ClientData, state inspection.State) (Record, error) {
	record, err := newRecord(&s.gen, client, state)
	if err != nil {
		return Record{}, err
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return Record{}, err
	}
	if _, err := s.db.Exec(
		`INSERT INTO inspections (id, fecha, cliente, payload, position)
		 VALUES (?, ?, ?, ?, COALESCE((SELECT MAX(position) FROM inspections), 0) + 1)`,
		record.ID, record.Date, record.Company, string(payload),
	); err != nil {
		return Record{}, err
	}
	log.Info().Str("id", record.ID).Str("company", record.Company).Msg("Inspection saved to history")
	return record, nil
}

// Delete removes a record by id; unknown ids are a no-op.
func (s *SQLiteStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM inspections WHERE id = ?`, id)
	return err
}

// Record returns the record with the given id.
func (s *SQLiteStore) Record(id string) (Record, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM inspections WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return Record{}, fmt.Errorf("decode history record %s: %w", id, err)
	}
	return r, nil
}
