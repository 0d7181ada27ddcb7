package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-resumepdf/internal/assets"
	"github.com/alnah/go-resumepdf/internal/config"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"`
	Browser  browserInfo `json:"browser"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Styles   []string    `json:"styles"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

type browserInfo struct {
	Found     bool   `json:"found"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
	Remote    string `json:"remote,omitempty"`
	Reachable bool   `json:"reachable,omitempty"`
	Sandbox   bool   `json:"sandbox"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool   `json:"temp_writable"`
	Config       string `json:"config,omitempty"`
}

// doctorDeps are the probes doctor runs, replaced in tests.
type doctorDeps struct {
	getenv     func(string) string
	lookPath   func() (string, bool)
	version    func(bin string) (string, error)
	resolveURL func(u string) (string, error)
	stat       func(string) (os.FileInfo, error)
	tempDir    func() string
}

func defaultDoctorDeps(env *Environment) doctorDeps {
	return doctorDeps{
		getenv:     env.Getenv,
		lookPath:   launcher.LookPath,
		version:    browserVersion,
		resolveURL: launcher.ResolveURL,
		stat:       os.Stat,
		tempDir:    os.TempDir,
	}
}

// runDoctorCmd prints diagnostics. Exit codes: 0 when ready or with
// warnings, 1 when errors were found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := newFlagSet("doctor")
	jsonOutput := fs.Bool("json", false, "print JSON")
	configName := fs.StringP("config", "c", "", "config file name or path to check")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printDoctorUsage(env.Stderr)
		return ExitUsage
	}

	result := runDoctor(defaultDoctorDeps(env), *configName)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(deps doctorDeps, configName string) *doctorResult {
	r := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  deps.getenv("ROD_NO_SANDBOX"),
			BrowserBin: deps.getenv("ROD_BROWSER_BIN"),
		},
		Styles: assets.StyleNames(),
	}

	checkEnvironment(r, deps)
	if remote := deps.getenv("RESUMEPDF_REMOTE_BROWSER"); remote != "" {
		checkRemoteBrowser(r, deps, remote)
	} else {
		checkBrowser(r, deps)
	}
	checkSystem(r, deps)
	checkConfig(r, configName)

	if len(r.Errors) > 0 {
		r.Status = statusErrors
	} else if len(r.Warnings) > 0 {
		r.Status = statusWarnings
	}
	return r
}

// checkBrowser locates Chromium via ROD_BROWSER_BIN or rod's lookup.
func checkBrowser(r *doctorResult, deps doctorDeps) {
	bin := r.Env.BrowserBin
	if bin == "" {
		var found bool
		if bin, found = deps.lookPath(); !found {
			r.Errors = append(r.Errors, "Chromium not found. Install Chrome/Chromium or set ROD_BROWSER_BIN")
			return
		}
	}
	if _, err := deps.stat(bin); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("Chromium not found at %s", bin))
		return
	}

	r.Browser.Found = true
	r.Browser.Path = bin
	r.Browser.Sandbox = r.Env.NoSandbox != "1"
	if v, err := deps.version(bin); err == nil {
		r.Browser.Version = v
	} else {
		r.Warnings = append(r.Warnings, fmt.Sprintf("could not get Chromium version: %v", err))
	}
}

// checkRemoteBrowser asks the DevTools endpoint for its websocket URL.
func checkRemoteBrowser(r *doctorResult, deps doctorDeps, remote string) {
	r.Browser.Remote = remote
	if _, err := deps.resolveURL(remote); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("remote browser %s not reachable: %v", remote, err))
		return
	}
	r.Browser.Found = true
	r.Browser.Reachable = true
}

func browserVersion(bin string) (string, error) {
	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- user-selected browser
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// checkEnvironment detects containers and CI, which usually need the
// sandbox disabled.
func checkEnvironment(r *doctorResult, deps doctorDeps) {
	r.Env.Container, r.Env.ContainerHint = detectContainer(deps)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if deps.getenv(v) != "" {
			r.Env.CI = true
			break
		}
	}

	if (r.Env.Container || r.Env.CI) && r.Env.NoSandbox != "1" {
		r.Warnings = append(r.Warnings, "container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// detectContainer returns whether we run in a container and which signal
// said so.
func detectContainer(deps doctorDeps) (bool, string) {
	if deps.getenv("RESUMEPDF_CONTAINER") == "1" {
		return true, "RESUMEPDF_CONTAINER=1"
	}
	if _, err := deps.stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := deps.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if deps.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory is writable; rod extracts its
// helpers there.
func checkSystem(r *doctorResult, deps doctorDeps) {
	dir := deps.tempDir()
	f, err := os.CreateTemp(dir, "resumepdf-doctor-*")
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("temp directory not writable: %s", dir))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	r.System.TempWritable = true
}

func checkConfig(r *doctorResult, name string) {
	if name == "" {
		return
	}
	if _, err := config.LoadConfig(name); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("config %s: %v", name, err))
		return
	}
	r.System.Config = name
}

// printDoctorResult outputs human-readable diagnostics.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "resumepdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	switch {
	case r.Browser.Remote != "" && r.Browser.Reachable:
		fmt.Fprintf(w, "  [OK] Remote: %s\n", r.Browser.Remote)
	case r.Browser.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Browser.Path)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
		if r.Browser.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	default:
		fmt.Fprintln(w, "  [ERROR] Not available")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.Config != "" {
		fmt.Fprintf(w, "  [OK] Config: %s\n", r.System.Config)
	}
	fmt.Fprintf(w, "  [OK] Styles: %s\n", strings.Join(r.Styles, ", "))
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: READY")
	case statusWarnings:
		fmt.Fprintln(w, "Status: READY (with warnings)")
	default:
		fmt.Fprintln(w, "Status: NOT READY")
	}
}
