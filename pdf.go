package resumepdf

import (
	"context"
	"errors"

	"github.com/alnah/go-resumepdf/internal/assemble"
	"github.com/alnah/go-resumepdf/internal/layout"
	"github.com/alnah/go-resumepdf/internal/measure"
	"github.com/alnah/go-resumepdf/internal/synth"
)

const pdfCreator = "go-resumepdf"

// exportPDF measures the document, plans pages and renders them one by one.
// Any page failure aborts the export; no partial document is returned.
func (e *Exporter) exportPDF(ctx context.Context, p Payload) (*Result, error) {
	if err := measure.Preflight(p.HTML, e.markers); err != nil {
		return nil, err
	}

	blocks, err := e.measurer.Measure(ctx, p.HTML)
	if err != nil {
		return nil, err
	}

	budget := e.cfg.geometry.UsableHeight()
	plans, err := layout.Plan(blocks, budget, e.logger)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, ErrNoContent
	}
	e.logger.Debug("pdf: planned", "blocks", len(blocks), "pages", len(plans), "budget", budget)

	s, err := synth.New(e.pageTemplate, e.stylesheet(p),
		synth.WithTitle(p.Title),
		synth.WithLang(e.cfg.lang),
		synth.WithMarkers(e.markers),
	)
	if err != nil {
		return nil, err
	}

	doc := assemble.New(assemble.Metadata{
		Title:   p.Title,
		Author:  e.cfg.author,
		Creator: pdfCreator,
		Created: e.cfg.clock(),
	})

	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.renderPage(ctx, s, doc, plan); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && isContextError(err) {
				return nil, ctxErr
			}
			return nil, &PageError{Index: plan.Index, Err: err}
		}
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	return &Result{
		Format:      FormatPDF,
		Data:        data,
		Filename:    "resume" + FormatPDF.Extension(),
		ContentType: FormatPDF.ContentType(),
		Pages:       len(plans),
	}, nil
}

func (e *Exporter) renderPage(ctx context.Context, s *synth.Synthesizer, doc *assemble.Document, plan layout.PagePlan) error {
	html, err := s.Page(plan)
	if err != nil {
		return err
	}
	img, err := e.rasterizer.Rasterize(ctx, html)
	if err != nil {
		return err
	}
	if err := doc.AddPage(img); err != nil {
		return err
	}
	e.logger.Debug("pdf: page rendered",
		"page", plan.Index+1,
		"blocks", len(plan.Blocks),
		"height", plan.UsedHeight,
		"oversized", plan.Oversized,
	)
	return nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
