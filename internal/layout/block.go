package layout

import (
	"errors"
	"fmt"
)

// Kind classifies a measured block.
type Kind string

const (
	KindHeader       Kind = "header"
	KindSectionTitle Kind = "section-title"
	KindItem         Kind = "item"
)

// NoIndex marks an index that does not apply: the header has no section,
// and a section title has no item position.
const NoIndex = -1

// ErrInvalidBlock is returned by Block.Validate.
var ErrInvalidBlock = errors.New("invalid block")

// Block is one measured, unsplittable unit of a rendered résumé.
type Block struct {
	Kind         Kind    `json:"kind"`
	SectionIndex int     `json:"sectionIndex"`
	ItemIndex    int     `json:"itemIndex"`
	Height       float64 `json:"height"`
	Markup       string  `json:"markup"`
	SectionTitle string  `json:"sectionTitle"`
}

// String identifies the block for logs, e.g. "item[2][0]".
func (b Block) String() string {
	switch b.Kind {
	case KindHeader:
		return "header"
	case KindSectionTitle:
		return fmt.Sprintf("section-title[%d]", b.SectionIndex)
	default:
		return fmt.Sprintf("%s[%d][%d]", b.Kind, b.SectionIndex, b.ItemIndex)
	}
}

// Validate checks that the index fields agree with the block kind.
func (b Block) Validate() error {
	if b.Height < 0 {
		return fmt.Errorf("%w: %s has negative height %.1f", ErrInvalidBlock, b, b.Height)
	}
	switch b.Kind {
	case KindHeader:
		if b.SectionIndex != NoIndex || b.ItemIndex != NoIndex {
			return fmt.Errorf("%w: header must not carry section or item index", ErrInvalidBlock)
		}
	case KindSectionTitle:
		if b.SectionIndex < 0 || b.ItemIndex != NoIndex {
			return fmt.Errorf("%w: %s has inconsistent indexes", ErrInvalidBlock, b)
		}
	case KindItem:
		if b.SectionIndex < 0 || b.ItemIndex < 0 {
			return fmt.Errorf("%w: %s has inconsistent indexes", ErrInvalidBlock, b)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidBlock, b.Kind)
	}
	return nil
}

// PagePlan is the ordered list of blocks assigned to one output page.
type PagePlan struct {
	Index      int
	Blocks     []Block
	UsedHeight float64
	// Oversized is set when a block (or a title with its first item)
	// could not fit an empty page and was placed anyway.
	Oversized bool
}

func (p *PagePlan) add(b Block) {
	p.Blocks = append(p.Blocks, b)
	p.UsedHeight += b.Height
}

func (p *PagePlan) empty() bool {
	return len(p.Blocks) == 0
}
