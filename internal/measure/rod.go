package measure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"

	"github.com/alnah/go-resumepdf/internal/browser"
	"github.com/alnah/go-resumepdf/internal/layout"
)

// measureScript walks the résumé container and reports every block with
// its offsetHeight and outer markup. A section without item children is
// reported as one item holding the section content minus its title.
const measureScript = `(m) => {
	const root = document.querySelector('.' + m.container);
	if (!root) return { found: false, blocks: [] };
	const blocks = [];
	const header = root.querySelector('.' + m.header);
	if (header) {
		blocks.push({ kind: 'header', sectionIndex: -1, itemIndex: -1,
			height: header.offsetHeight, markup: header.outerHTML, sectionTitle: '' });
	}
	root.querySelectorAll('.' + m.section).forEach((section, si) => {
		const title = section.querySelector('.' + m.sectionTitle);
		const text = (title && title.textContent.trim()) || ('Section ' + si);
		if (title) {
			blocks.push({ kind: 'section-title', sectionIndex: si, itemIndex: -1,
				height: title.offsetHeight, markup: title.outerHTML, sectionTitle: text });
		}
		const items = section.querySelectorAll(':scope > .' + m.item + ', :scope > .' + m.grid);
		items.forEach((item, ii) => {
			blocks.push({ kind: 'item', sectionIndex: si, itemIndex: ii,
				height: item.offsetHeight, markup: item.outerHTML, sectionTitle: text });
		});
		if (items.length === 0) {
			const height = section.offsetHeight - (title ? title.offsetHeight : 0);
			if (height > 0) {
				const clone = section.cloneNode(true);
				const cloneTitle = clone.querySelector('.' + m.sectionTitle);
				if (cloneTitle) cloneTitle.remove();
				blocks.push({ kind: 'item', sectionIndex: si, itemIndex: 0,
					height: height, markup: clone.innerHTML, sectionTitle: text });
			}
		}
	});
	return { found: true, blocks: blocks };
}`

type measurement struct {
	Found  bool           `json:"found"`
	Blocks []layout.Block `json:"blocks"`
}

// RodMeasurer measures documents in a live Chromium page sized to the
// target page.
type RodMeasurer struct {
	browser  *browser.Browser
	viewport browser.Viewport
	markers  layout.Markers
	logger   *slog.Logger
}

// NewRodMeasurer measures at the given viewport. A nil logger discards.
func NewRodMeasurer(b *browser.Browser, vp browser.Viewport, markers layout.Markers, logger *slog.Logger) *RodMeasurer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RodMeasurer{browser: b, viewport: vp, markers: markers, logger: logger}
}

// Measure loads doc and returns its blocks in document order.
func (m *RodMeasurer) Measure(ctx context.Context, doc string) ([]layout.Block, error) {
	var blocks []layout.Block
	err := m.browser.WithPage(ctx, func(page *rod.Page) error {
		if err := m.browser.Load(ctx, page, doc, m.viewport); err != nil {
			return err
		}
		res, err := page.Eval(measureScript, m.markers)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("evaluating measurement script: %w", err)
		}
		var out measurement
		if err := res.Value.Unmarshal(&out); err != nil {
			return fmt.Errorf("decoding measurements: %w", err)
		}
		if !out.Found {
			return fmt.Errorf("%w: no element matches %s", browser.ErrContainerNotFound, layout.Selector(m.markers.Container))
		}
		blocks = out.Blocks
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, ErrEmptyDocument
	}
	for _, b := range blocks {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}

	m.logger.Debug("measure: document measured", "blocks", len(blocks))
	return blocks, nil
}

// Compile-time interface check.
var _ Measurer = (*RodMeasurer)(nil)
