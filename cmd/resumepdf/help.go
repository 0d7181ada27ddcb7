package main

import (
	"fmt"
	"io"
)

// runHelpCmd prints general usage or the help for one topic.
func runHelpCmd(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "data":
		printDataHelp(env.Stdout)
	case "env":
		printEnvHelp(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "unknown help topic %q\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumepdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export résumés to PDF or HTML (default)")
	fmt.Fprintln(w, "  serve      Run the HTTP export API")
	fmt.Fprintln(w, "  doctor     Check browser and environment setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command or topic")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Topics:")
	fmt.Fprintln(w, "  data       Résumé YAML/JSON schema")
	fmt.Fprintln(w, "  env        Environment variables")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'resumepdf help <command>' for details.")
}

func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumepdf export <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export résumé files to paginated PDF or self-contained HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .html/.htm document, .yaml/.yml/.json résumé, or a directory")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: pdf, html")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout per file (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	printSharedFlags(w)
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumepdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the export API:")
	fmt.Fprintln(w, "  GET  /health                liveness")
	fmt.Fprintln(w, "  GET  /api/styles            built-in style names")
	fmt.Fprintln(w, "  POST /api/export/{format}   body: text/html, application/json or application/yaml")
	fmt.Fprintln(w, "                              query: css, title")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent exports (0 = auto)")
	fmt.Fprintln(w, "      --max-body <bytes>    Request body limit (default 5 MiB)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout per request")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	printSharedFlags(w)
}

func printSharedFlags(w io.Writer) {
	fmt.Fprintln(w, "Style:")
	fmt.Fprintln(w, "      --style <name|path>   Style name or .css file (default classic)")
	fmt.Fprintln(w, "      --css <path>          Extra CSS appended to the style")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with styles/ and templates/ overrides")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Title (default: résumé name)")
	fmt.Fprintln(w, "      --author <s>          PDF author")
	fmt.Fprintln(w, "      --lang <s>            Document language (default en)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser-bin <path>  Chromium executable")
	fmt.Fprintln(w, "      --remote-browser <u>  DevTools URL of a running browser")
	fmt.Fprintln(w, "                            (local images are not visible to it; use http(s) or data: URLs)")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chromium sandbox")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: resumepdf doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chromium can be found or reached, detect containers and CI,")
	fmt.Fprintln(w, "and optionally validate a config file. Exits 1 when errors are found.")
}

func printDataHelp(w io.Writer) {
	fmt.Fprintln(w, "Résumé data (YAML or JSON):")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  basics:")
	fmt.Fprintln(w, "    name: Jane Doe")
	fmt.Fprintln(w, "    email: jane@example.com")
	fmt.Fprintln(w, "    phone: \"+1 555 0100\"")
	fmt.Fprintln(w, "    location: Berlin")
	fmt.Fprintln(w, "  sections:")
	fmt.Fprintln(w, "    - type: experience")
	fmt.Fprintln(w, "      title: Experience")
	fmt.Fprintln(w, "      items:")
	fmt.Fprintln(w, "        - organization: Acme")
	fmt.Fprintln(w, "          title: Engineer")
	fmt.Fprintln(w, "          date_start: 2020")
	fmt.Fprintln(w, "          date_end: present")
	fmt.Fprintln(w, "          location: Remote")
	fmt.Fprintln(w, "          highlights: [\"Shipped **v2**\"]")
	fmt.Fprintln(w, "    - type: generic")
	fmt.Fprintln(w, "      title: Skills")
	fmt.Fprintln(w, "      items:")
	fmt.Fprintln(w, "        - title: Go")
	fmt.Fprintln(w, "          subtitle: 6 years")
	fmt.Fprintln(w, "    - type: text")
	fmt.Fprintln(w, "      title: Summary")
	fmt.Fprintln(w, "      content: Markdown paragraph.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generic items also take date and description (Markdown). Skill-like")
	fmt.Fprintln(w, "sections, or more than 3 items without long descriptions, render as a grid.")
}

func printEnvHelp(w io.Writer) {
	fmt.Fprintln(w, "Environment variables (flags > env > config file > defaults):")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  RESUMEPDF_CONFIG          Config file name or path")
	fmt.Fprintln(w, "  RESUMEPDF_STYLE           Style name or .css path")
	fmt.Fprintln(w, "  RESUMEPDF_TIMEOUT         Export timeout (e.g. 2m)")
	fmt.Fprintln(w, "  RESUMEPDF_FORMAT          pdf or html")
	fmt.Fprintln(w, "  RESUMEPDF_INPUT_DIR       Default input directory")
	fmt.Fprintln(w, "  RESUMEPDF_OUTPUT_DIR      Default output directory")
	fmt.Fprintln(w, "  RESUMEPDF_AUTHOR          PDF author")
	fmt.Fprintln(w, "  RESUMEPDF_LANG            Document language")
	fmt.Fprintln(w, "  RESUMEPDF_WORKERS         Parallel exporters")
	fmt.Fprintln(w, "  RESUMEPDF_ADDR            serve listen address")
	fmt.Fprintln(w, "  RESUMEPDF_REMOTE_BROWSER  DevTools URL of a running browser")
	fmt.Fprintln(w, "  RESUMEPDF_CONTAINER=1     Tell doctor we run in a container")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Chromium executable")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1          Disable the Chromium sandbox (Docker/CI)")
}
