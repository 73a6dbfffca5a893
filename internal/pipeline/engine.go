package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/a3tai/parsingtool/internal/extract"
	"github.com/a3tai/parsingtool/internal/schema"
)

// Document is what a profile's business rules see: the normalized text, its
// lines, the header fields matched by the profile's patterns and the batch
// blocks found by its segmenter.
type Document struct {
	Text    string
	Lines   []string
	Headers extract.Fields
	Blocks  []extract.Block
}

// Profile is the rule table for one document type.
type Profile struct {
	DocType DocType

	// Headers are applied once per document; every field is present in the
	// result, empty on a miss.
	Headers extract.PatternSet

	// Keep vetoes captured header values. Nil keeps everything.
	Keep func(field, value string) bool

	// Segment opens batch blocks. A nil anchor disables segmentation.
	Segment extract.SegmentConfig

	// Assemble applies the document type's business rules.
	Assemble func(doc Document) []schema.Table
}

// Result holds the tables produced for one document.
type Result struct {
	DocType DocType
	Tables  []schema.Table
}

// Table returns the table with the given schema name.
func (r Result) Table(name string) (schema.Table, bool) {
	for _, t := range r.Tables {
		if t.Schema.Name == name {
			return t, true
		}
	}
	return schema.Table{}, false
}

// Rows counts rows across every table.
func (r Result) Rows() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Len()
	}
	return n
}

// Engine resolves profiles by document type and runs them.
type Engine struct {
	profiles map[DocType]Profile
	logger   *slog.Logger
}

// NewEngine builds an engine with the built-in profiles. Header patterns in
// rules replace or extend the built-in ones per document type.
func NewEngine(rules extract.Rules, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		profiles: make(map[DocType]Profile),
		logger:   logger,
	}
	for _, p := range []Profile{DomesticProfile(), ExportProfile(), PackingListProfile()} {
		overrides, err := rules.Patterns(string(p.DocType))
		if err != nil {
			return nil, err
		}
		for _, override := range overrides {
			p.Headers = p.Headers.With(override)
		}
		e.profiles[p.DocType] = p
	}
	return e, nil
}

// Profile returns the registered profile for dt.
func (e *Engine) Profile(dt DocType) (Profile, error) {
	p, ok := e.profiles[dt]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownDocType, dt)
	}
	return p, nil
}

// Parse runs the profile for dt over raw document text.
func (e *Engine) Parse(dt DocType, text string) (Result, error) {
	p, err := e.Profile(dt)
	if err != nil {
		return Result{}, err
	}

	text = extract.NormalizeText(text)
	doc := Document{
		Text:    text,
		Lines:   extract.Lines(text),
		Headers: p.Headers.Apply(text, p.Keep),
	}
	if p.Segment.Anchor != nil {
		doc.Blocks = extract.Segment(doc.Lines, p.Segment)
	}

	res := Result{DocType: dt, Tables: p.Assemble(doc)}
	e.logger.Debug("document parsed",
		"doc_type", dt,
		"lines", len(doc.Lines),
		"blocks", len(doc.Blocks),
		"rows", res.Rows())
	return res, nil
}

// rowFrom copies the schema's columns out of fields.
func rowFrom(fields extract.Fields, s schema.Schema) schema.Row {
	row := make(schema.Row, len(s.Columns))
	for _, col := range s.Columns {
		row[col] = fields.Get(col)
	}
	return row
}
