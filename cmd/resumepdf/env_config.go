package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-resumepdf/internal/config"
)

const envPrefix = "RESUMEPDF_"

// envConfig holds overrides read from RESUMEPDF_* variables, so CI jobs
// and containers can configure exports without a YAML file.
type envConfig struct {
	ConfigPath    string        // RESUMEPDF_CONFIG
	Style         string        // RESUMEPDF_STYLE
	Timeout       time.Duration // RESUMEPDF_TIMEOUT
	Format        string        // RESUMEPDF_FORMAT
	InputDir      string        // RESUMEPDF_INPUT_DIR
	OutputDir     string        // RESUMEPDF_OUTPUT_DIR
	Author        string        // RESUMEPDF_AUTHOR
	Lang          string        // RESUMEPDF_LANG
	Workers       int           // RESUMEPDF_WORKERS
	Addr          string        // RESUMEPDF_ADDR
	RemoteBrowser string        // RESUMEPDF_REMOTE_BROWSER
}

// knownEnvVars lists valid RESUMEPDF_* variables, to catch typos.
var knownEnvVars = map[string]bool{
	"RESUMEPDF_CONFIG":         true,
	"RESUMEPDF_STYLE":          true,
	"RESUMEPDF_TIMEOUT":        true,
	"RESUMEPDF_FORMAT":         true,
	"RESUMEPDF_INPUT_DIR":      true,
	"RESUMEPDF_OUTPUT_DIR":     true,
	"RESUMEPDF_AUTHOR":         true,
	"RESUMEPDF_LANG":           true,
	"RESUMEPDF_WORKERS":        true,
	"RESUMEPDF_ADDR":           true,
	"RESUMEPDF_REMOTE_BROWSER": true,
	"RESUMEPDF_CONTAINER":      true, // read by doctor
}

// loadEnvConfig reads the recognized variables. Malformed numbers and
// durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:    getenv("RESUMEPDF_CONFIG"),
		Style:         getenv("RESUMEPDF_STYLE"),
		Format:        getenv("RESUMEPDF_FORMAT"),
		InputDir:      getenv("RESUMEPDF_INPUT_DIR"),
		OutputDir:     getenv("RESUMEPDF_OUTPUT_DIR"),
		Author:        getenv("RESUMEPDF_AUTHOR"),
		Lang:          getenv("RESUMEPDF_LANG"),
		Addr:          getenv("RESUMEPDF_ADDR"),
		RemoteBrowser: getenv("RESUMEPDF_REMOTE_BROWSER"),
	}

	if v := getenv("RESUMEPDF_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := getenv("RESUMEPDF_WORKERS"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	return cfg
}

// warnUnknownEnvVars reports RESUMEPDF_* names that are not recognized,
// e.g. RESUMEPDF_STLYE.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config values with set variables. Flags are
// merged afterwards, giving: flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Style.Name, env.Style)
	setString(&cfg.Output.Format, env.Format)
	setString(&cfg.Input.DefaultDir, env.InputDir)
	setString(&cfg.Output.DefaultDir, env.OutputDir)
	setString(&cfg.Document.Author, env.Author)
	setString(&cfg.Document.Lang, env.Lang)
	setString(&cfg.Server.Addr, env.Addr)
	setString(&cfg.Browser.RemoteURL, env.RemoteBrowser)
	if env.Timeout > 0 {
		cfg.Timeouts.Export = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Server.Workers = env.Workers
	}
}

// setString assigns v to dst when v is not empty.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
