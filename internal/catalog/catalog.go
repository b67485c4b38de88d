// Package catalog holds the fixed SST questionnaire: an ordered list of
// categories, each with an ordered list of questions. The catalog is the sole
// source of truth for inspection item identities.
package catalog

// Severity classifies a question's legal weight under the LOPCYMAT sanction
// tiers. The values are persisted verbatim, do not rename them.
type Severity string

const (
	SeverityMinor       Severity = "leve"
	SeveritySerious     Severity = "grave"
	SeverityVerySerious Severity = "muy-grave"
)

// Valid reports whether s is one of the three known tiers.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeveritySerious, SeverityVerySerious:
		return true
	}
	return false
}

// Question is a single answerable checklist entry. Key is the question's
// permanent identifier: it is assigned explicitly in the catalog data rather
// than derived from list position, so reordering categories or questions does
// not silently invalidate previously saved records.
type Question struct {
	Key      string   `json:"key"`
	Text     string   `json:"q"`
	Ref      string   `json:"ref"`
	Severity Severity `json:"s"`
}

// Category is a named, ordered group of questions.
type Category struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// Catalog is an ordered set of categories. Order is significant for display
// only; item identity comes from each question's Key.
type Catalog struct {
	categories []Category
	byKey      map[string]indexedQuestion
}

type indexedQuestion struct {
	question Question
	section  string
}

// New builds a catalog from the given categories. Duplicate or empty keys
// panic: the catalog is static program data and a bad key is a programming
// error, not a runtime condition.
func New(categories []Category) *Catalog {
	c := &Catalog{
		categories: categories,
		byKey:      make(map[string]indexedQuestion),
	}
	for _, cat := range categories {
		for _, q := range cat.Questions {
			if q.Key == "" {
				panic("catalog: question with empty key in " + cat.Name)
			}
			if _, dup := c.byKey[q.Key]; dup {
				panic("catalog: duplicate question key " + q.Key)
			}
			c.byKey[q.Key] = indexedQuestion{question: q, section: cat.Name}
		}
	}
	return c
}

// Categories returns the ordered category list.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Lookup returns the question with the given key and the name of its owning
// category.
func (c *Catalog) Lookup(key string) (Question, string, bool) {
	iq, ok := c.byKey[key]
	if !ok {
		return Question{}, "", false
	}
	return iq.question, iq.section, true
}

// QuestionCount returns the total number of questions across all categories.
func (c *Catalog) QuestionCount() int {
	return len(c.byKey)
}
