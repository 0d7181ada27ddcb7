package layout

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
)

const testBudget = 982

func header(h float64) Block {
	return Block{Kind: KindHeader, SectionIndex: NoIndex, ItemIndex: NoIndex, Height: h, Markup: "<div class=\"header\"></div>"}
}

func title(section int, h float64) Block {
	return Block{Kind: KindSectionTitle, SectionIndex: section, ItemIndex: NoIndex, Height: h, SectionTitle: "Experience"}
}

func item(section, idx int, h float64) Block {
	return Block{Kind: KindItem, SectionIndex: section, ItemIndex: idx, Height: h, Markup: "<div class=\"item\"></div>", SectionTitle: "Experience"}
}

// pageShape renders plans as block identifiers per page for compact comparison.
func pageShape(plans []PagePlan) [][]string {
	out := make([][]string, len(plans))
	for i, p := range plans {
		for _, b := range p.Blocks {
			out[i] = append(out[i], b.String())
		}
	}
	return out
}

func TestPlan_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		blocks    []Block
		want      [][]string
		oversized []bool
	}{
		{
			name:   "three items overflow onto second page",
			blocks: []Block{header(150), title(0, 40), item(0, 0, 300), item(0, 1, 300), item(0, 2, 300)},
			want: [][]string{
				{"header", "section-title[0]", "item[0][0]", "item[0][1]"},
				{"item[0][2]"},
			},
			oversized: []bool{false, false},
		},
		{
			name:   "oversized item is placed alone",
			blocks: []Block{title(0, 40), item(0, 0, 100), item(0, 1, 1200), item(0, 2, 50)},
			want: [][]string{
				{"section-title[0]", "item[0][0]"},
				{"item[0][1]"},
				{"item[0][2]"},
			},
			oversized: []bool{false, true, false},
		},
		{
			name:   "title moves with its first item",
			blocks: []Block{header(900), title(0, 40), item(0, 0, 100)},
			want: [][]string{
				{"header"},
				{"section-title[0]", "item[0][0]"},
			},
			oversized: []bool{false, false},
		},
		{
			name:   "oversized title and first item share one page",
			blocks: []Block{title(0, 40), item(0, 0, 1000), item(0, 1, 100)},
			want: [][]string{
				{"section-title[0]", "item[0][0]"},
				{"item[0][1]"},
			},
			oversized: []bool{true, false},
		},
		{
			name:   "oversized pair after content breaks first",
			blocks: []Block{header(200), title(0, 40), item(0, 0, 1000)},
			want: [][]string{
				{"header"},
				{"section-title[0]", "item[0][0]"},
			},
			oversized: []bool{false, true},
		},
		{
			name:   "title without items is placed like any block",
			blocks: []Block{title(0, 40), title(1, 40), item(1, 0, 100)},
			want: [][]string{
				{"section-title[0]", "section-title[1]", "item[1][0]"},
			},
			oversized: []bool{false},
		},
		{
			name:   "exact fit stays on one page",
			blocks: []Block{header(482), title(0, 100), item(0, 0, 400)},
			want: [][]string{
				{"header", "section-title[0]", "item[0][0]"},
			},
			oversized: []bool{false},
		},
		{
			name:   "oversized header",
			blocks: []Block{header(2000), title(0, 40), item(0, 0, 100)},
			want: [][]string{
				{"header"},
				{"section-title[0]", "item[0][0]"},
			},
			oversized: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plans, err := Plan(tt.blocks, testBudget, nil)
			if err != nil {
				t.Fatalf("Plan() unexpected error: %v", err)
			}
			if got := pageShape(plans); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Plan() pages = %v, want %v", got, tt.want)
			}
			for i, p := range plans {
				if p.Index != i {
					t.Errorf("plans[%d].Index = %d, want %d", i, p.Index, i)
				}
				if i < len(tt.oversized) && p.Oversized != tt.oversized[i] {
					t.Errorf("plans[%d].Oversized = %v, want %v", i, p.Oversized, tt.oversized[i])
				}
			}
		})
	}
}

func TestPlan_Empty(t *testing.T) {
	t.Parallel()

	plans, err := Plan(nil, testBudget, nil)
	if err != nil {
		t.Fatalf("Plan(nil) unexpected error: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("Plan(nil) returned %d plans, want 0", len(plans))
	}
}

func TestPlan_InvalidBudget(t *testing.T) {
	t.Parallel()

	for _, budget := range []float64{0, -1} {
		_, err := Plan([]Block{header(10)}, budget, nil)
		if !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("Plan(budget=%v) error = %v, want ErrInvalidBudget", budget, err)
		}
	}
}

func TestPlan_UsedHeight(t *testing.T) {
	t.Parallel()

	plans, err := Plan([]Block{header(150), title(0, 40), item(0, 0, 300)}, testBudget, nil)
	if err != nil {
		t.Fatalf("Plan() unexpected error: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("Plan() returned %d plans, want 1", len(plans))
	}
	if plans[0].UsedHeight != 490 {
		t.Errorf("UsedHeight = %v, want 490", plans[0].UsedHeight)
	}
}

func TestPlan_LogsOversized(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if _, err := Plan([]Block{item(0, 0, 5000)}, testBudget, logger); err != nil {
		t.Fatalf("Plan() unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "planner: oversized block") {
		t.Errorf("log output %q missing oversized warning", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("log output %q not at warn level", out)
	}
}

// randomDocument builds a well-formed block sequence: optional header, then
// sections of a title followed by zero or more items.
func randomDocument(r *rand.Rand) []Block {
	var blocks []Block
	if r.IntN(2) == 0 {
		blocks = append(blocks, header(float64(50+r.IntN(300))))
	}
	sections := r.IntN(6)
	for s := 0; s < sections; s++ {
		blocks = append(blocks, title(s, float64(20+r.IntN(40))))
		items := r.IntN(5)
		for i := 0; i < items; i++ {
			h := float64(20 + r.IntN(500))
			if r.IntN(12) == 0 {
				h = float64(1000 + r.IntN(800))
			}
			blocks = append(blocks, item(s, i, h))
		}
	}
	return blocks
}

func TestPlan_Properties(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(7, 11))
	for run := 0; run < 500; run++ {
		blocks := randomDocument(r)
		plans, err := Plan(blocks, testBudget, nil)
		if err != nil {
			t.Fatalf("run %d: Plan() unexpected error: %v", run, err)
		}

		// Partition: concatenation reproduces the input exactly.
		var flat []Block
		for _, p := range plans {
			flat = append(flat, p.Blocks...)
		}
		if len(blocks) == 0 && len(flat) == 0 {
			continue
		}
		if !reflect.DeepEqual(flat, blocks) {
			t.Fatalf("run %d: plans do not partition the input", run)
		}

		for i, p := range plans {
			// Forward progress: no empty pages.
			if len(p.Blocks) == 0 {
				t.Fatalf("run %d: page %d is empty", run, i)
			}
			// Fit: only force-placed pages may exceed the budget.
			if !p.Oversized && p.UsedHeight > testBudget {
				t.Errorf("run %d: page %d uses %.0f > %d without Oversized", run, i, p.UsedHeight, testBudget)
			}
			if p.Oversized && len(p.Blocks) > 2 {
				t.Errorf("run %d: oversized page %d holds %d blocks", run, i, len(p.Blocks))
			}
			// Orphan title: a title with items never ends a page.
			last := p.Blocks[len(p.Blocks)-1]
			if last.Kind == KindSectionTitle && i < len(plans)-1 {
				next := plans[i+1].Blocks[0]
				if next.Kind == KindItem && next.SectionIndex == last.SectionIndex {
					t.Errorf("run %d: page %d ends with orphan %s", run, i, last)
				}
			}
		}

		// Idempotence.
		again, _ := Plan(blocks, testBudget, nil)
		if !reflect.DeepEqual(plans, again) {
			t.Fatalf("run %d: Plan() is not deterministic", run)
		}
	}
}
