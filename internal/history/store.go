// Package history persists inspection snapshots. Records are kept as an
// ordered list, most recent first; every save appends a new record, there are
// no upserts. The JSON shape matches the browser tool's localStorage payload
// so old exports remain readable.
package history

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prosalmed/sstcheck/internal/inspection"
)

var (
	// ErrCompanyRequired is returned by Append when the client has no
	// company name. The save is aborted and the stored list is unchanged.
	ErrCompanyRequired = errors.New("company name is required")

	// ErrRecordNotFound is returned when a record id does not exist.
	ErrRecordNotFound = errors.New("history record not found")
)

// Record is an immutable snapshot of one inspection session. Fecha and
// Cliente are denormalized copies for listing without decoding State.
type Record struct {
	ID      string                `json:"id"`
	Date    string                `json:"fecha"`
	Company string                `json:"cliente"`
	Client  inspection.ClientData `json:"data"`
	State   inspection.State      `json:"state"`
}

// Store is the persistence contract shared by the JSON-file slot and the
// SQLite archive backend.
type Store interface {
	// Load returns all records, most recent first. Absent or corrupt
	// stored data yields an empty list, never an error.
	Load() []Record

	// Save overwrites the stored list with the given records verbatim.
	Save(records []Record) error

	// Append validates the client, snapshots the state into a new record
	// and prepends it to the stored list. Returns the new record.
	Append(client inspection.ClientData, state inspection.State) (Record, error)

	// Delete removes the record with the given id. Deleting an unknown id
	// is a no-op.
	Delete(id string) error

	// Record returns the record with the given id, or ErrRecordNotFound.
	Record(id string) (Record, error)
}

// idGenerator issues INS-<epochMillis> ids, bumping the millisecond count
// when two saves land inside the same one so ids stay unique per save.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func (g *idGenerator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("INS-%d", ms)
}

func newRecord(gen *idGenerator, client inspection.ClientData, state inspection.State) (Record, error) {
	if strings.TrimSpace(client.Company) == "" {
		return Record{}, ErrCompanyRequired
	}
	return Record{
		ID:      gen.next(),
		Date:    client.Date,
		Company: client.Company,
		Client:  client,
		State:   state.Clone(),
	}, nil
}
