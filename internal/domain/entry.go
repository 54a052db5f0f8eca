// Package domain contains the core types shared across the medline fetcher.
package domain

import "sort"

// Field names used by the medline importer and the fetch pipeline.
// Entries are open field maps, so fields outside this list are legal;
// these constants name the ones the pipeline itself touches.
const (
	FieldTitle               = "title"
	FieldAuthor              = "author"
	FieldJournal             = "journal"
	FieldJournalAbbreviation = "journal-abbreviation"
	FieldStatus              = "status"
	FieldCopyright           = "copyright"
	FieldYear                = "year"
	FieldMonth               = "month"
	FieldVolume              = "volume"
	FieldIssue               = "issue"
	FieldPages               = "pages"
	FieldDOI                 = "doi"
	FieldPMID                = "pmid"
	FieldAbstract            = "abstract"
	FieldKeywords            = "keywords"
	FieldLanguage            = "language"
)

// Entry is a single bibliographic record: an open mapping of field name to
// value plus a tag naming the source format that produced it.
type Entry struct {
	// Format identifies the source format, e.g. "medline".
	Format string `json:"format"`

	// Fields holds the record's field values keyed by field name.
	Fields map[string]string `json:"fields"`
}

// NewEntry creates an empty entry tagged with the given source format.
func NewEntry(format string) *Entry {
	return &Entry{
		Format: format,
		Fields: make(map[string]string),
	}
}

// SetField sets a field value. Setting an empty value is a no-op so that
// importers can assign optional fields unconditionally.
func (e *Entry) SetField(name, value string) {
	if value == "" {
		return
	}
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[name] = value
}

// GetField returns the value of a field and whether it is present.
func (e *Entry) GetField(name string) (string, bool) {
	v, ok := e.Fields[name]
	return v, ok
}

// HasField reports whether the entry carries the named field.
func (e *Entry) HasField(name string) bool {
	_, ok := e.Fields[name]
	return ok
}

// ClearField removes a field. Clearing an absent field is not an error.
func (e *Entry) ClearField(name string) {
	delete(e.Fields, name)
}

// FieldNames returns the entry's field names in sorted order.
func (e *Entry) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
