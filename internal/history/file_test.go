package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosalmed/sstcheck/internal/inspection"
)

func testClient() inspection.ClientData {
	return inspection.ClientData{
		Date:      "15/03/2026",
		Company:   "Industrias ACME C.A.",
		Inspector: "C. Vera",
	}
}

func testState() inspection.State {
	return inspection.State{
		"s0q0": {
			Text:        "¿Pregunta uno?",
			Section:     "1. Documentación",
			Ref:         "Art. 1",
			Severity:    "leve",
			Status:      inspection.StatusNonCompliant,
			Observation: "hallazgo",
			Action:      "corregir",
			Priority:    inspection.PriorityHigh,
		},
		"s0q1": {
			Text:     "¿Pregunta dos?",
			Section:  "1. Documentación",
			Ref:      "Art. 2",
			Severity: "grave",
			Status:   inspection.StatusUnset,
			Priority: inspection.PriorityMedium,
		},
	}
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLoadMissingSlotIsEmpty(t *testing.T) {
	s := newTestFileStore(t)
	assert.Empty(t, s.Load())
}

func TestLoadCorruptSlotIsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, slotFileName), []byte("{not json"), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.Empty(t, s.Load())
}

func TestAppendAndRoundTrip(t *testing.T) {
	s := newTestFileStore(t)

	record, err := s.Append(testClient(), testState())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record.ID, "INS-"))
	assert.Equal(t, "Industrias ACME C.A.", record.Company)
	assert.Equal(t, "15/03/2026", record.Date)

	loaded, err := s.Record(record.ID)
	require.NoError(t, err)
	assert.Equal(t, testClient(), loaded.Client)
	assert.Equal(t, testState(), loaded.State)
}

func TestAppendRequiresCompany(t *testing.T) {
	s := newTestFileStore(t)

	client := testClient()
	client.Company = "   "
	_, err := s.Append(client, testState())
	assert.ErrorIs(t, err, ErrCompanyRequired)
	assert.Empty(t, s.Load())
}

func TestAppendPrependsNewest(t *testing.T) {
	s := newTestFileStore(t)

	first, err := s.Append(testClient(), testState())
	require.NoError(t, err)
	second, err := s.Append(testClient(), testState())
	require.NoError(t, err)

	records := s.Load()
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)
}

func TestRapidSavesGetUniqueIDs(t *testing.T) {
	s := newTestFileStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		r, err := s.Append(testClient(), testState())
		require.NoError(t, err)
		assert.Falsef(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestDeleteKeepsOrder(t *testing.T) {
	s := newTestFileStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		r, err := s.Append(testClient(), testState())
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	// Delete the middle record (ids are newest-first in Load).
	require.NoError(t, s.Delete(ids[1]))

	records := s.Load()
	require.Len(t, records, 2)
	assert.Equal(t, ids[2], records[0].ID)
	assert.Equal(t, ids[0], records[1].ID)
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	s := newTestFileStore(t)
	_, err := s.Append(testClient(), testState())
	require.NoError(t, err)

	require.NoError(t, s.Delete("INS-0"))
	assert.Len(t, s.Load(), 1)
}

func TestRecordNotFound(t *testing.T) {
	s := newTestFileStore(t)
	_, err := s.Record("INS-0")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestLoadLegacyBrowserPayload(t *testing.T) {
	// Payload written by the original browser tool: null statuses and the
	// Spanish field names.
	legacy := `[
	  {
	    "id": "INS-1714500000000",
	    "fecha": "30/04/2024",
	    "cliente": "Taller Legacy",
	    "data": {"fecha": "30/04/2024", "cliente": "Taller Legacy", "responsable": "", "cedula": "", "cargo": "", "inspector": "J. Pérez"},
	    "state": {
	      "s0q0": {"q": "¿Pregunta?", "sec": "1. Documentación Legal", "ref": "Art. 1", "s": "muy-grave", "status": null, "obs": "", "act": "", "prio": "Media"},
	      "s0q1": {"q": "¿Otra?", "sec": "1. Documentación Legal", "ref": "Art. 2", "s": "grave", "status": "No", "obs": "falla", "act": "", "prio": "Alta"}
	    }
	  }
	]`
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, slotFileName), []byte(legacy), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	records := s.Load()
	require.Len(t, records, 1)
	assert.Equal(t, "Taller Legacy", records[0].Company)
	assert.Equal(t, inspection.StatusUnset, records[0].State["s0q0"].Status)
	assert.Equal(t, inspection.StatusNonCompliant, records[0].State["s0q1"].Status)
	assert.Equal(t, inspection.PriorityHigh, records[0].State["s0q1"].Priority)
}

func TestIDGeneratorMonotonic(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	gen := idGenerator{now: func() time.Time { return fixed }}

	assert.Equal(t, "INS-1700000000000", gen.next())
	assert.Equal(t, "INS-1700000000001", gen.next())
	assert.Equal(t, "INS-1700000000002", gen.next())
}
