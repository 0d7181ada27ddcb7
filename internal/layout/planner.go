package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidBudget is returned when the usable page height is not positive.
var ErrInvalidBudget = errors.New("page budget must be positive")

var discardLogger = slog.New(slog.DiscardHandler)

// Plan partitions blocks, in document order, into pages of at most budget
// pixels of measured height.
//
// A section title immediately followed by an item of the same section is
// only placed where the pair fits, so a title never ends a page. A block
// that cannot fit even an empty page is force-placed alone and the page is
// marked Oversized. When a title and its first item together exceed an
// empty page, both are force-placed on the same oversized page.
//
// Plan is pure: the same input always yields the same plans.
func Plan(blocks []Block, budget float64, logger *slog.Logger) ([]PagePlan, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: got %.1f", ErrInvalidBudget, budget)
	}
	if logger == nil {
		logger = discardLogger
	}

	p := &planner{budget: budget, logger: logger}
	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		if next, ok := firstItemOf(blocks, i); ok {
			if p.placePair(b, next) {
				i++ // item consumed together with its title
			}
			continue
		}
		p.place(b)
	}
	if !p.cur.empty() {
		p.closePage()
	}
	return p.pages, nil
}

type planner struct {
	budget float64
	logger *slog.Logger
	pages  []PagePlan
	cur    PagePlan
}

func (p *planner) fits(h float64) bool {
	return p.cur.UsedHeight+h <= p.budget
}

func (p *planner) closePage() {
	p.pages = append(p.pages, p.cur)
	p.cur = PagePlan{Index: len(p.pages)}
}

// place appends a single block, breaking the page first when needed.
func (p *planner) place(b Block) {
	if !p.fits(b.Height) && !p.cur.empty() {
		p.closePage()
	}
	if p.cur.empty() && b.Height > p.budget {
		p.logger.LogAttrs(context.Background(), slog.LevelWarn, "planner: oversized block",
			slog.String("block", b.String()),
			slog.Int("page", p.cur.Index+1),
			slog.Float64("height", b.Height),
			slog.Float64("budget", p.budget))
		p.cur.add(b)
		p.cur.Oversized = true
		p.closePage()
		return
	}
	p.cur.add(b)
}

// placePair places a section title so that its first item lands on the
// same page. It reports whether the item was placed as well.
func (p *planner) placePair(title, item Block) bool {
	pair := title.Height + item.Height
	if p.fits(pair) {
		p.cur.add(title)
		return false
	}
	if !p.cur.empty() {
		p.closePage()
	}
	if pair <= p.budget {
		p.cur.add(title)
		return false
	}
	p.logger.LogAttrs(context.Background(), slog.LevelWarn, "planner: oversized title and first item",
		slog.String("block", item.String()),
		slog.Int("page", p.cur.Index+1),
		slog.Float64("height", pair),
		slog.Float64("budget", p.budget))
	p.cur.add(title)
	p.cur.add(item)
	p.cur.Oversized = true
	p.closePage()
	return true
}

// firstItemOf returns the block after blocks[i] when blocks[i] is a
// section title directly followed by an item of the same section.
func firstItemOf(blocks []Block, i int) (Block, bool) {
	if blocks[i].Kind != KindSectionTitle || i+1 >= len(blocks) {
		return Block{}, false
	}
	next := blocks[i+1]
	if next.Kind != KindItem || next.SectionIndex != blocks[i].SectionIndex {
		return Block{}, false
	}
	return next, true
}
