// Package synth rebuilds a standalone HTML document for one page plan.
package synth

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/alnah/go-resumepdf/internal/layout"
)

// ErrTemplate is returned when the page shell cannot be parsed or executed.
var ErrTemplate = errors.New("page template error")

// DefaultTitle is the document title used when none is configured.
const DefaultTitle = "Resume"

// Synthesizer renders page plans through an html/template page shell.
type Synthesizer struct {
	tmpl    *template.Template
	css     template.CSS
	markers layout.Markers
	title   string
	lang    string
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithTitle sets the document title; the page number is appended to it.
func WithTitle(title string) Option {
	return func(s *Synthesizer) {
		if title != "" {
			s.title = title
		}
	}
}

// WithLang sets the html lang attribute.
func WithLang(lang string) Option {
	return func(s *Synthesizer) {
		if lang != "" {
			s.lang = lang
		}
	}
}

// WithMarkers overrides the marker classes written into the page.
func WithMarkers(m layout.Markers) Option {
	return func(s *Synthesizer) {
		s.markers = m
	}
}

// New parses the page shell source. The stylesheet is embedded into every
// page so each one renders identically to the original document.
func New(pageTemplate, css string, opts ...Option) (*Synthesizer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	s := &Synthesizer{
		tmpl:    tmpl,
		css:     template.CSS(css), // #nosec G203 -- stylesheet comes from trusted assets
		markers: layout.DefaultMarkers,
		title:   DefaultTitle,
		lang:    "en",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type pageData struct {
	Lang     string
	Title    string
	Number   int
	CSS      template.CSS
	Markers  layout.Markers
	Headers  []template.HTML
	Sections []sectionData
}

type sectionData struct {
	index int
	Title string
	Items []template.HTML
}

// Page returns the complete HTML document for plan. The header keeps its
// original markup, each run of blocks from one section gets its own
// section wrapper, and a section title is rewritten from its escaped
// text. A section continued from the previous page gets no title.
func (s *Synthesizer) Page(plan layout.PagePlan) (string, error) {
	data := pageData{
		Lang:    s.lang,
		Title:   s.title,
		Number:  plan.Index + 1,
		CSS:     s.css,
		Markers: s.markers,
	}

	for _, b := range plan.Blocks {
		if b.Kind == layout.KindHeader {
			data.Headers = append(data.Headers, template.HTML(b.Markup)) // #nosec G203 -- measured from the rendered document
			continue
		}
		n := len(data.Sections)
		if n == 0 || data.Sections[n-1].index != b.SectionIndex {
			data.Sections = append(data.Sections, sectionData{index: b.SectionIndex})
			n++
		}
		sec := &data.Sections[n-1]
		switch b.Kind {
		case layout.KindSectionTitle:
			sec.Title = b.SectionTitle
		case layout.KindItem:
			sec.Items = append(sec.Items, template.HTML(b.Markup)) // #nosec G203 -- measured from the rendered document
		default:
			return "", fmt.Errorf("page %d: unknown block kind %q", plan.Index+1, b.Kind)
		}
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: page %d: %v", ErrTemplate, plan.Index+1, err)
	}
	return buf.String(), nil
}
