// Package assets provides the résumé stylesheets and HTML templates.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles and templates (go:embed)
//	    ├── FilesystemLoader  - overrides from a directory on disk
//	    └── AssetResolver     - custom-first lookup with embedded fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css        # résumé stylesheet (classic, compact, ...)
//	└── templates/
//	    ├── page.html         # single-page shell used during pagination
//	    └── resume.html       # résumé document template
//
// Both templates are html/template sources. The page shell receives the
// stylesheet and the blocks of one page plan; the résumé template receives
// a rendered résumé view. Overriding a template must keep the marker
// classes (resume-container, header, section, section-title, item,
// compact-grid) or pagination cannot find the blocks.
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
