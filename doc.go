// Package resumepdf exports rendered résumés to an HTML snapshot or to a
// paginated A4 PDF using headless Chrome.
//
// # Quick Start
//
// Create an exporter, export, and close when done:
//
//	exp, err := resumepdf.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	res, err := exp.Export(ctx, resumepdf.FormatPDF, resumepdf.Payload{
//	    Resume: yamlBytes,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, res.Data, 0644)
//
// # Input Document
//
// Payload.HTML must follow a fixed class structure:
//
//	.resume-container
//	├── .header
//	└── .section
//	    ├── .section-title
//	    └── .item | .compact-grid   (repeated)
//
// Payload.Resume takes a YAML or JSON résumé (basics plus experience,
// generic and text sections) and renders it to that structure first.
//
// # PDF Pipeline
//
//  1. Preflight: static check that the container and content exist
//  2. Measure: load the document in Chrome and read each block's height
//  3. Plan: fill pages greedily, never leaving a section title alone at
//     the bottom of a page
//  4. For each page: rebuild a standalone HTML page, capture it as a JPEG
//     at 2x, append it to the PDF
//
// Pages are rendered one at a time. A failure on any page returns a
// *PageError and no document. A block taller than a page is placed alone
// and clipped at the bottom; this is logged, not an error.
//
// # Configuration
//
//	exp, err := resumepdf.NewExporter(
//	    resumepdf.WithTimeout(2 * time.Minute),
//	    resumepdf.WithStyle("compact"),
//	    resumepdf.WithAssetPath("/path/to/assets"),
//	    resumepdf.WithLogger(slog.Default()),
//	)
//
// # Parallel Processing
//
// Use ExporterPool to render several documents at once, one browser per
// exporter:
//
//	pool := resumepdf.NewExporterPool(resumepdf.ResolvePoolSize(0))
//	defer pool.Close()
//
//	exp, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(exp)
//
// # Browser Requirements
//
// The go-rod library downloads a managed Chromium on first run
// (~/.cache/rod/browser/). In containers and CI set ROD_NO_SANDBOX=1; use
// ROD_BROWSER_BIN to point at an installed Chromium.
package resumepdf
