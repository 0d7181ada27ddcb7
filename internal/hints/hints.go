// Package hints turns common export failures into one actionable line,
// appended to error messages as "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-resumepdf/internal/fileutil"
)

// IsInContainer reports whether we run inside Docker (/.dockerenv exists).
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect suggests the environment variables that usually fix a
// failed Chromium launch.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chromium")
	}
	hints = append(hints, "run 'resumepdf doctor' to check the setup")

	return formatHints(hints)
}

func ForTimeout() string {
	return format("long résumés or slow fonts may need a larger --timeout")
}

// ForConfigNotFound suggests --config, or creating the user-level file
// among the searched paths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), "go-resumepdf/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the built-in styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForContainerNotFound explains the markup the exporter expects.
func ForContainerNotFound(containerClass string) string {
	return format("wrap the résumé in an element with class=\"" + containerClass + "\"")
}

func ForEmptyDocument() string {
	return format("the document has no header, section titles or items to lay out")
}

func ForResumeData() string {
	return format("section types are experience, generic and text; see 'resumepdf help data'")
}

// slashed normalizes Windows separators for the user-dir match.
func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
