package synth

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-resumepdf/internal/assets"
	"github.com/alnah/go-resumepdf/internal/layout"
)

const testCSS = ".resume-container{padding:40px}"

func newTestSynthesizer(t *testing.T, opts ...Option) *Synthesizer {
	t.Helper()
	tmpl, err := assets.NewEmbeddedLoader().LoadTemplate(assets.PageTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() unexpected error: %v", err)
	}
	s, err := New(tmpl, testCSS, opts...)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return s
}

func headerBlock() layout.Block {
	return layout.Block{Kind: layout.KindHeader, SectionIndex: layout.NoIndex, ItemIndex: layout.NoIndex,
		Markup: `<div class="header"><div class="name">Ada</div></div>`}
}

func titleBlock(section int, text string) layout.Block {
	return layout.Block{Kind: layout.KindSectionTitle, SectionIndex: section, ItemIndex: layout.NoIndex,
		Markup: `<div class="section-title">` + text + `</div>`, SectionTitle: text}
}

func itemBlock(section, idx int, markup string) layout.Block {
	return layout.Block{Kind: layout.KindItem, SectionIndex: section, ItemIndex: idx, Markup: markup}
}

func TestSynthesizer_Page(t *testing.T) {
	t.Parallel()

	s := newTestSynthesizer(t)

	tests := []struct {
		name         string
		plan         layout.PagePlan
		wantSections int
		wantTitles   int
		contains     []string
		excludes     []string
	}{
		{
			name: "header title and items",
			plan: layout.PagePlan{Index: 0, Blocks: []layout.Block{
				headerBlock(),
				titleBlock(0, "Experience"),
				itemBlock(0, 0, `<div class="item">Acme</div>`),
				itemBlock(0, 1, `<div class="item">Globex</div>`),
			}},
			wantSections: 1,
			wantTitles:   1,
			contains: []string{
				`<div class="header"><div class="name">Ada</div></div>`,
				`<div class="section-title">Experience</div>`,
				`<div class="item">Acme</div>`,
				`<div class="item">Globex</div>`,
			},
		},
		{
			name: "continuation has no title",
			plan: layout.PagePlan{Index: 1, Blocks: []layout.Block{
				itemBlock(0, 2, `<div class="item">Initech</div>`),
			}},
			wantSections: 1,
			wantTitles:   0,
			contains:     []string{`<div class="item">Initech</div>`},
			excludes:     []string{`class="header"`},
		},
		{
			name: "one wrapper per section",
			plan: layout.PagePlan{Index: 0, Blocks: []layout.Block{
				titleBlock(0, "Experience"),
				itemBlock(0, 0, `<div class="item">A</div>`),
				titleBlock(1, "Skills"),
				itemBlock(1, 0, `<div class="compact-grid">Go</div>`),
			}},
			wantSections: 2,
			wantTitles:   2,
			contains:     []string{`<div class="compact-grid">Go</div>`},
		},
		{
			name: "title only wrapper",
			plan: layout.PagePlan{Index: 0, Blocks: []layout.Block{
				titleBlock(3, "Awards"),
			}},
			wantSections: 1,
			wantTitles:   1,
			contains:     []string{`<div class="section-title">Awards</div>`},
		},
		{
			name: "title text is escaped",
			plan: layout.PagePlan{Index: 0, Blocks: []layout.Block{
				titleBlock(0, `R&D <script>alert(1)</script>`),
			}},
			wantSections: 1,
			wantTitles:   1,
			contains:     []string{`R&amp;D &lt;script&gt;alert(1)&lt;/script&gt;`},
			excludes:     []string{`<script>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.Page(tt.plan)
			if err != nil {
				t.Fatalf("Page() unexpected error: %v", err)
			}
			if n := strings.Count(got, `<div class="section">`); n != tt.wantSections {
				t.Errorf("Page() has %d section wrappers, want %d", n, tt.wantSections)
			}
			if n := strings.Count(got, `<div class="section-title">`); n != tt.wantTitles {
				t.Errorf("Page() has %d section titles, want %d", n, tt.wantTitles)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Page() missing %q", want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Page() unexpectedly contains %q", unwanted)
				}
			}
		})
	}
}

func TestSynthesizer_PageShell(t *testing.T) {
	t.Parallel()

	s := newTestSynthesizer(t, WithTitle("Ada Lovelace"), WithLang("zh-CN"))
	got, err := s.Page(layout.PagePlan{Index: 2, Blocks: []layout.Block{headerBlock()}})
	if err != nil {
		t.Fatalf("Page() unexpected error: %v", err)
	}

	for _, want := range []string{
		`<title>Ada Lovelace - 3</title>`,
		`<html lang="zh-CN">`,
		testCSS,
		`<div class="resume-container">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Page() missing %q", want)
		}
	}
}

func TestSynthesizer_SectionOrderFollowsBlocks(t *testing.T) {
	t.Parallel()

	s := newTestSynthesizer(t)
	got, err := s.Page(layout.PagePlan{Blocks: []layout.Block{
		itemBlock(0, 3, `<div class="item">first</div>`),
		titleBlock(1, "Second"),
		itemBlock(1, 0, `<div class="item">second</div>`),
	}})
	if err != nil {
		t.Fatalf("Page() unexpected error: %v", err)
	}
	if strings.Index(got, "first") > strings.Index(got, "second") {
		t.Error("Page() reordered sections")
	}
}

func TestNew_InvalidTemplate(t *testing.T) {
	t.Parallel()

	if _, err := New("{{.Broken", testCSS); !errors.Is(err, ErrTemplate) {
		t.Errorf("New() error = %v, want ErrTemplate", err)
	}
}

func TestSynthesizer_UnknownKind(t *testing.T) {
	t.Parallel()

	s := newTestSynthesizer(t)
	_, err := s.Page(layout.PagePlan{Blocks: []layout.Block{{Kind: "footer", SectionIndex: 0}}})
	if err == nil {
		t.Error("Page() expected error for unknown block kind")
	}
}
