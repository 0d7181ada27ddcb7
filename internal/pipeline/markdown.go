package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdown indicates goldmark failed to render a fragment.
var ErrMarkdown = errors.New("markdown conversion failed")

// Private Use Area runes survive goldmark untouched; they carry ==mark==
// spans through conversion without enabling raw HTML.
const (
	markStart = "\uE000"
	markEnd   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.+?)==`)
)

// MarkdownConverter renders short markdown snippets (descriptions,
// highlights) to HTML fragments. Raw HTML in the input is not passed
// through.
type MarkdownConverter struct {
	md goldmark.Markdown
}

// NewMarkdownConverter enables GFM (tables, strikethrough, autolinks,
// task lists) and treats single newlines as line breaks.
func NewMarkdownConverter() *MarkdownConverter {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	return &MarkdownConverter{md: md}
}

// ToHTML converts content to an HTML fragment. Goldmark has no context
// support, so the conversion runs in a goroutine raced against ctx.
func (c *MarkdownConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(preprocess(content)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrMarkdown, err)}
			return
		}
		done <- result{html: restoreMarks(strings.TrimSpace(buf.String()))}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// ToInlineHTML is ToHTML without the wrapping paragraph when the content
// renders to exactly one.
func (c *MarkdownConverter) ToInlineHTML(ctx context.Context, content string) (string, error) {
	out, err := c.ToHTML(ctx, content)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out, nil
}

func preprocess(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = multipleBlankLines.ReplaceAllString(content, "\n\n")
	return highlightPattern.ReplaceAllString(content, markStart+"$1"+markEnd)
}

func restoreMarks(s string) string {
	return strings.NewReplacer(markStart, "<mark>", markEnd, "</mark>").Replace(s)
}
