// Package inspection holds the state of one inspection session: the client
// being inspected, one item per catalog question, and the pure aggregations
// (tally and financial risk) derived from them.
package inspection

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prosalmed/sstcheck/internal/catalog"
)

var (
	// ErrItemNotFound is returned when an item key does not exist in the
	// session. Earlier versions silently ignored unknown keys; that masked
	// bugs, so lookups now fail explicitly.
	ErrItemNotFound = errors.New("inspection item not found")

	// ErrUnknownField is returned by SetDetail for a field name outside
	// obs/act/prio.
	ErrUnknownField = errors.New("unknown detail field")
)

// Status is the tri-state answer for an item. The empty value means the item
// has not been answered yet; on the wire it is encoded as JSON null to stay
// readable against records written by the original browser tool.
type Status string

const (
	StatusUnset        Status = ""
	StatusCompliant    Status = "Sí"
	StatusNonCompliant Status = "No"
	StatusNotApplies   Status = "NA"
)

// Valid reports whether s is an answerable status (unset excluded).
func (s Status) Valid() bool {
	switch s {
	case StatusCompliant, StatusNonCompliant, StatusNotApplies:
		return true
	}
	return false
}

// MarshalJSON encodes the unset status as null.
func (s Status) MarshalJSON() ([]byte, error) {
	if s == StatusUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON accepts null as the unset status.
func (s *Status) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = StatusUnset
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Status(v)
	return nil
}

// Priority is the closure priority assigned to a finding.
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Media"
	PriorityLow    Priority = "Baja"
)

// Item is one answerable unit: a copy of the catalog question plus the
// inspector's answer and notes. JSON tags match the persisted wire format.
type Item struct {
	Text        string           `json:"q"`
	Section     string           `json:"sec"`
	Ref         string           `json:"ref"`
	Severity    catalog.Severity `json:"s"`
	Status      Status           `json:"status"`
	Observation string           `json:"obs"`
	Action      string           `json:"act"`
	Priority    Priority         `json:"prio"`
}

// ClientData is the inspection metadata entered by the inspector. Free text;
// only Company is required before a save.
type ClientData struct {
	Date        string `json:"fecha"`
	Company     string `json:"cliente"`
	Responsible string `json:"responsable"`
	IDNumber    string `json:"cedula"`
	Position    string `json:"cargo"`
	Inspector   string `json:"inspector"`
}

// State maps item keys to items. It is the unit of persistence: the whole map
// is saved or restored together, items are never deleted individually.
type State map[string]Item

// Clone returns a deep copy of the state.
func (st State) Clone() State {
	out := make(State, len(st))
	for k, v := range st {
		out[k] = v
	}
	return out
}

// Session is one inspection in progress: client metadata plus the full item
// state, with the catalog's display order preserved. All mutation goes
// through the session so there is no ambient global state.
type Session struct {
	Client ClientData
	keys   []string
	items  State
}

// NewSession creates a session with one unset item per catalog question, in
// catalog order.
func NewSession(cat *catalog.Catalog) *Session {
	s := &Session{
		Client: ClientData{Date: time.Now().Format("02/01/2006")},
		items:  make(State),
	}
	for _, c := range cat.Categories() {
		for _, q := range c.Questions {
			s.keys = append(s.keys, q.Key)
			s.items[q.Key] = Item{
				Text:     q.Text,
				Section:  c.Name,
				Ref:      q.Ref,
				Severity: q.Severity,
				Status:   StatusUnset,
				Priority: PriorityMedium,
			}
		}
	}
	return s
}

// Keys returns the item keys in catalog order.
func (s *Session) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Item returns the item for the given key.
func (s *Session) Item(key string) (Item, error) {
	item, ok := s.items[key]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, key)
	}
	return item, nil
}

// State returns a deep copy of the full item state, suitable for persisting.
func (s *Session) State() State {
	return s.items.Clone()
}

// Restore replaces the session's client data and item state wholesale, e.g.
// when reopening a saved record. Restored keys that are not part of the
// current catalog are kept as-is so old records stay intact.
func (s *Session) Restore(client ClientData, state State) {
	s.Client = client
	s.items = state.Clone()
	s.keys = s.keys[:0]
	for k := range s.items {
		s.keys = append(s.keys, k)
	}
	sortKeys(s.keys)
}

// SetStatus sets the answer for one item. Observation, action and priority
// are left untouched, so toggling an answer away from "No" and back preserves
// the inspector's notes.
func (s *Session) SetStatus(key string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	item, ok := s.items[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, key)
	}
	item.Status = status
	s.items[key] = item
	return nil
}

// SetDetail updates one of the free-form finding fields ("obs", "act",
// "prio") on one item.
func (s *Session) SetDetail(key, field, value string) error {
	item, ok := s.items[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, key)
	}
	switch field {
	case "obs":
		item.Observation = value
	case "act":
		item.Action = value
	case "prio":
		item.Priority = Priority(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	s.items[key] = item
	return nil
}

// Findings returns the non-compliant items in catalog order.
func (s *Session) Findings() []Item {
	var out []Item
	for _, k := range s.keys {
		if item := s.items[k]; item.Status == StatusNonCompliant {
			out = append(out, item)
		}
	}
	return out
}

// Answered returns how many items have a status set.
func (s *Session) Answered() int {
	n := 0
	for _, item := range s.items {
		if item.Status != StatusUnset {
			n++
		}
	}
	return n
}

// sortKeys orders item keys in the historic s<section>q<question> scheme
// numerically, falling back to plain string order for foreign keys.
func sortKeys(keys []string) {
	slices.SortFunc(keys, func(a, b string) int {
		as, aq, aok := splitKey(a)
		bs, bq, bok := splitKey(b)
		if aok && bok {
			if as != bs {
				return as - bs
			}
			if aq != bq {
				return aq - bq
			}
		}
		return strings.Compare(a, b)
	})
}

func splitKey(key string) (section, question int, ok bool) {
	if !strings.HasPrefix(key, "s") {
		return 0, 0, false
	}
	rest := key[1:]
	i := strings.IndexByte(rest, 'q')
	if i <= 0 {
		return 0, 0, false
	}
	section, err := strconv.Atoi(rest[:i])
	if err != nil {
		return 0, 0, false
	}
	question, err = strconv.Atoi(rest[i+1:])
	if err != nil {
		return 0, 0, false
	}
	return section, question, true
}
