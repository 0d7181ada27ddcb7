package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/alnah/go-resumepdf/internal/pipeline"
)

// compactKeywords mark a generic section as a skills list, matched
// case-insensitively against its title.
var compactKeywords = []string{
	"技能", "技术", "专长", "技术栈", "工具",
	"skill", "technolog", "tool", "stack", "expertise",
}

const (
	compactMinItems       = 3   // more items than this may go compact
	compactMaxDescription = 100 // runes
)

// Renderer turns a Resume into a full HTML document.
type Renderer struct {
	tmpl   *template.Template
	css    template.CSS
	lang   string
	md     *pipeline.MarkdownConverter
	policy *bluemonday.Policy
}

// NewRenderer parses the résumé template. css is embedded in the output
// document.
func NewRenderer(resumeTemplate, css, lang string) (*Renderer, error) {
	tmpl, err := template.New("resume").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(resumeTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if lang == "" {
		lang = "en"
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowElements("mark")

	return &Renderer{
		tmpl:   tmpl,
		css:    template.CSS(css), // #nosec G203 -- stylesheet comes from trusted assets
		lang:   lang,
		md:     pipeline.NewMarkdownConverter(),
		policy: policy,
	}, nil
}

type documentView struct {
	Lang     string
	Name     string
	CSS      template.CSS
	Contact  []string
	Sections []sectionView
}

type sectionView struct {
	Title string
	Grid  bool
	Items []itemView
}

type itemView struct {
	Title    string
	Date     string
	Subtitle string
	Body     template.HTML
}

// Render produces the document. Plain fields are escaped by the template;
// markdown fields are rendered then sanitized.
func (r *Renderer) Render(ctx context.Context, res *Resume) (string, error) {
	if err := res.Validate(); err != nil {
		return "", err
	}

	view := documentView{
		Lang:    r.lang,
		Name:    res.Basics.Name,
		CSS:     r.css,
		Contact: nonEmpty(res.Basics.Phone, res.Basics.Email, res.Basics.Location),
	}

	for _, s := range res.Sections {
		sv, err := r.section(ctx, s)
		if err != nil {
			return "", err
		}
		view.Sections = append(view.Sections, sv)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.String(), nil
}

func (r *Renderer) section(ctx context.Context, s Section) (sectionView, error) {
	sv := sectionView{Title: s.Title}

	switch s.Type {
	case TypeExperience:
		for _, it := range s.Items {
			body, err := r.highlights(ctx, it.Highlights)
			if err != nil {
				return sv, err
			}
			sv.Items = append(sv.Items, itemView{
				Title:    joinNonEmpty(" - ", it.Organization, it.Title),
				Date:     joinNonEmpty(" - ", it.DateStart, it.DateEnd),
				Subtitle: it.Location,
				Body:     body,
			})
		}

	case TypeGeneric:
		sv.Grid = IsCompact(s)
		for _, it := range s.Items {
			iv := itemView{Title: it.Title, Subtitle: it.Subtitle}
			if !sv.Grid {
				body, err := r.markdown(ctx, it.Description)
				if err != nil {
					return sv, err
				}
				iv.Date = it.Date
				iv.Body = body
			}
			sv.Items = append(sv.Items, iv)
		}

	case TypeText:
		body, err := r.markdown(ctx, s.Content)
		if err != nil {
			return sv, err
		}
		sv.Items = []itemView{{Body: body}}
	}

	return sv, nil
}

func (r *Renderer) markdown(ctx context.Context, src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	out, err := r.md.ToHTML(ctx, src)
	if err != nil {
		return "", renderError(err)
	}
	return template.HTML(r.policy.Sanitize(out)), nil // #nosec G203 -- sanitized above
}

func (r *Renderer) highlights(ctx context.Context, list []string) (template.HTML, error) {
	if len(list) == 0 {
		return "", nil
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, h := range list {
		li, err := r.md.ToInlineHTML(ctx, h)
		if err != nil {
			return "", renderError(err)
		}
		b.WriteString("<li>")
		b.WriteString(li)
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return template.HTML(r.policy.Sanitize(b.String())), nil // #nosec G203 -- sanitized above
}

// renderError keeps cancellation distinguishable from a rendering fault.
func renderError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrRender, err)
}

// IsCompact reports whether a generic section renders as a compact grid:
// skill-like titles always do, otherwise more than three items with no
// long description.
func IsCompact(s Section) bool {
	title := strings.ToLower(s.Title)
	for _, kw := range compactKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	if len(s.Items) <= compactMinItems {
		return false
	}
	for _, it := range s.Items {
		if utf8.RuneCountInString(it.Description) > compactMaxDescription {
			return false
		}
	}
	return true
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinNonEmpty(sep string, values ...string) string {
	return strings.Join(nonEmpty(values...), sep)
}
