package pipeline

import "strings"

// InjectCSS inserts css as a <style> block before </head>, after <body>
// when there is no head, or in front of the document otherwise. Closing
// tag sequences inside css are escaped so it cannot leave the block.
func InjectCSS(doc, css string) string {
	if strings.TrimSpace(css) == "" {
		return doc
	}

	style := "<style>" + sanitizeCSS(css) + "</style>"

	if idx := indexASCIIFold(doc, "</head>"); idx != -1 {
		return doc[:idx] + style + doc[idx:]
	}
	if idx := indexASCIIFold(doc, "<body"); idx != -1 {
		if end := strings.Index(doc[idx:], ">"); end != -1 {
			pos := idx + end + 1
			return doc[:pos] + style + doc[pos:]
		}
	}
	return style + doc
}

func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// indexASCIIFold is strings.Index ignoring ASCII case only. Offsets stay
// valid for s because no rune is case-mapped to a different byte length.
func indexASCIIFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		j := 0
		for j < n && lowerASCII(s[i+j]) == lowerASCII(substr[j]) {
			j++
		}
		if j == n {
			return i
		}
	}
	return -1
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
