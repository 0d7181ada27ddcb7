package hints

// ForBrowserConnect tests do not call t.Parallel(): they use t.Setenv and
// swap the package-level IsInContainer.

import (
	"strings"
	"testing"
)

func stubContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		container   bool
		ci          string
		noSandbox   string
		browserBin  string
		wantSandbox bool
		wantBin     bool
	}{
		{"in CI", false, "true", "", "", true, true},
		{"in Docker", true, "", "", "", true, true},
		{"sandbox already disabled", true, "", "1", "", false, true},
		{"browser bin already set", false, "", "", "/usr/bin/chromium", false, false},
		{"all configured", true, "true", "1", "/usr/bin/chromium", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubContainer(t, tt.container)
			t.Setenv("CI", tt.ci)
			t.Setenv("GITHUB_ACTIONS", "")
			t.Setenv("GITLAB_CI", "")
			t.Setenv("JENKINS_URL", "")
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			hint := ForBrowserConnect()

			if !strings.HasPrefix(hint, "\n  hint: ") {
				t.Errorf("hint = %q, want hint prefix", hint)
			}
			if got := strings.Contains(hint, "ROD_NO_SANDBOX"); got != tt.wantSandbox {
				t.Errorf("mentions ROD_NO_SANDBOX = %v, want %v (%q)", got, tt.wantSandbox, hint)
			}
			if got := strings.Contains(hint, "ROD_BROWSER_BIN"); got != tt.wantBin {
				t.Errorf("mentions ROD_BROWSER_BIN = %v, want %v (%q)", got, tt.wantBin, hint)
			}
			if !strings.Contains(hint, "doctor") {
				t.Errorf("hint %q should point at doctor", hint)
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
		absent   string
	}{
		{"no paths", nil, "--config", "create"},
		{"unix user dir", []string{"work.yaml", "/home/j/.config/go-resumepdf/work.yaml"}, "create /home/j/.config/go-resumepdf/work.yaml", ""},
		{"windows user dir", []string{`C:\Users\j\AppData\Roaming\go-resumepdf\work.yaml`}, "create C:", ""},
		{"only cwd paths", []string{"work.yaml", "work.yml"}, "--config", "create"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("hint %q should contain %q", hint, tt.contains)
			}
			if tt.absent != "" && strings.Contains(hint, tt.absent) {
				t.Errorf("hint %q should not contain %q", hint, tt.absent)
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForStyleNotFound(nil); hint != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", hint)
	}
	if hint := ForStyleNotFound([]string{"classic", "compact"}); !strings.Contains(hint, "classic, compact") {
		t.Errorf("hint %q should list styles", hint)
	}
}

func TestForContainerNotFound(t *testing.T) {
	t.Parallel()

	hint := ForContainerNotFound("resume-container")
	if !strings.Contains(hint, `class="resume-container"`) {
		t.Errorf("hint %q should name the container class", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	for _, h := range []string{
		ForTimeout(),
		ForOutputDirectory(),
		ForContainerNotFound("x"),
		ForEmptyDocument(),
		ForResumeData(),
	} {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
	if !strings.Contains(ForTimeout(), "--timeout") {
		t.Error("ForTimeout should mention --timeout")
	}
	if format("") != "" || formatHints(nil) != "" {
		t.Error("empty hints should format to empty string")
	}
}
