package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()

	require.Len(t, cat.Categories(), 8)
	assert.Equal(t, 21, cat.QuestionCount())

	// Keys are stable data, not positions: the first question of the first
	// category keeps its historic key.
	q, section, ok := cat.Lookup("s0q0")
	require.True(t, ok)
	assert.Equal(t, "1. Documentación Legal", section)
	assert.Equal(t, SeverityMinor, q.Severity)
	assert.Contains(t, q.Text, "RIF")

	q, section, ok = cat.Lookup("s7q0")
	require.True(t, ok)
	assert.Equal(t, "8. EPP", section)
	assert.Equal(t, SeverityVerySerious, q.Severity)
	assert.Equal(t, "s7q0", q.Key)
}

func TestLookupUnknownKey(t *testing.T) {
	cat := Default()
	_, _, ok := cat.Lookup("nope")
	assert.False(t, ok)
}

func TestAllSeveritiesValid(t *testing.T) {
	for _, c := range Default().Categories() {
		for _, q := range c.Questions {
			assert.Truef(t, q.Severity.Valid(), "question %s has invalid severity %q", q.Key, q.Severity)
			assert.NotEmpty(t, q.Ref, "question %s has no legal reference", q.Key)
		}
	}
}

func TestNewPanicsOnDuplicateKey(t *testing.T) {
	assert.Panics(t, func() {
		New([]Category{{
			Name: "dup",
			Questions: []Question{
				{Key: "k1", Text: "a", Severity: SeverityMinor},
				{Key: "k1", Text: "b", Severity: SeverityMinor},
			},
		}})
	})
}

func TestNewPanicsOnEmptyKey(t *testing.T) {
	assert.Panics(t, func() {
		New([]Category{{
			Name:      "empty",
			Questions: []Question{{Text: "a", Severity: SeverityMinor}},
		}})
	})
}
