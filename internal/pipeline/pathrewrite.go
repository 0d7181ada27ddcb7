package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rewritable lists the attributes that may reference local files the
// browser has to load while rendering a résumé: photos, logos, linked
// stylesheets and document links.
var rewritable = map[atom.Atom]string{
	atom.Img:  "src",
	atom.Link: "href",
	atom.A:    "href",
}

// RewriteRelativePaths turns relative resource references into absolute
// file:// URLs under sourceDir, so a document loaded from a temp file still
// finds its photo and stylesheets. References that would escape sourceDir,
// absolute paths, anchors and URLs are left alone. An empty sourceDir
// returns doc unchanged.
func RewriteRelativePaths(doc, sourceDir string) (string, error) {
	if sourceDir == "" {
		return doc, nil
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	root, fragment, err := parseHTML(doc)
	if err != nil {
		return "", err
	}
	rewriteNode(root, absDir)
	return renderHTML(root, fragment)
}

// parseHTML parses a full document as such and anything else as a body
// fragment, so rendering back does not add an html/body wrapper.
func parseHTML(content string) (*html.Node, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

func renderHTML(root *html.Node, fragment bool) (string, error) {
	var buf strings.Builder
	if !fragment {
		if err := html.Render(&buf, root); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, dir string) {
	if n.Type == html.ElementNode {
		if key, ok := rewritable[n.DataAtom]; ok {
			rewriteAttr(n, key, dir)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, dir)
	}
}

func rewriteAttr(n *html.Node, key, dir string) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativePath(attr.Val) {
			continue
		}
		abs := filepath.Join(dir, attr.Val)
		if !isPathUnderDir(abs, dir) {
			continue
		}
		n.Attr[i].Val = pathToFileURL(abs)
	}
}

func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false // http:, https:, file:, data:, mailto:, tel: ...
	}
	return !filepath.IsAbs(path)
}

func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
