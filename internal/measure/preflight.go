package measure

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-resumepdf/internal/browser"
	"github.com/alnah/go-resumepdf/internal/layout"
)

// Preflight checks the document structure without a browser: it needs a
// résumé container holding at least a header or a section.
func Preflight(doc string, markers layout.Markers) error {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	container := findClass(root, markers.Container)
	if container == nil {
		return fmt.Errorf("%w: no element matches %s", browser.ErrContainerNotFound, layout.Selector(markers.Container))
	}
	if findClass(container, markers.Header) == nil && findClass(container, markers.Section) == nil {
		return fmt.Errorf("%w: %s has no header or section", ErrEmptyDocument, layout.Selector(markers.Container))
	}
	return nil
}

// findClass returns the first element below n, in document order, whose
// class list contains class.
func findClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, class) {
			return c
		}
		if found := findClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
