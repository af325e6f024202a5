package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/goccy/go-json"

	nb2html "github.com/alnah/go-nb2html"
	"github.com/alnah/go-nb2html/internal/assets"
	"github.com/alnah/go-nb2html/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult is the doctor report, also emitted as JSON.
type doctorResult struct {
	Status   string      `json:"status"`
	Browser  browserInfo `json:"browser"`
	Env      envInfo     `json:"environment"`
	TempDir  tempInfo    `json:"temp_dir"`
	Assets   assetsInfo  `json:"assets"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

type browserInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container string `json:"container,omitempty"` // detection signal, empty when none
	CI        string `json:"ci,omitempty"`        // CI variable seen, empty when none
	NoSandbox bool   `json:"rod_no_sandbox"`
}

type tempInfo struct {
	Path     string `json:"path"`
	Writable bool   `json:"writable"`
}

type assetsInfo struct {
	Source string   `json:"source"`
	Themes []string `json:"themes"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctorCmd runs the doctor command. It exits 1 only when PDF export
// cannot work; warnings still exit 0.
func runDoctorCmd(args []string, env *Environment) int {
	result := runDoctor(env.Getenv)

	for _, arg := range args {
		if arg == "--json" {
			enc := json.NewEncoder(env.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(result)
			return doctorExitCode(result)
		}
	}

	printDoctorResult(env.Stdout, result, env.Color)
	return doctorExitCode(result)
}

func doctorExitCode(r *doctorResult) int {
	if r.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs every check against the given environment.
func runDoctor(getenv func(string) string) *doctorResult {
	r := &doctorResult{
		Env: envInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			NoSandbox: getenv("ROD_NO_SANDBOX") == "1",
		},
	}

	checkBrowser(r, getenv("ROD_BROWSER_BIN"))
	checkEnvironment(r, getenv)
	checkTempDir(r, os.TempDir())
	checkAssets(r, getenv("NB2HTML_ASSETS"))

	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
	return r
}

// checkBrowser locates the browser --pdf prints with: bin when set,
// otherwise rod's own lookup.
func checkBrowser(r *doctorResult, bin string) {
	if bin == "" {
		var ok bool
		if bin, ok = launcher.LookPath(); !ok {
			r.fail("Chrome/Chromium not found (needed for --pdf). Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if _, err := os.Stat(bin); err != nil {
		r.fail("Chrome not found at %s", bin)
		return
	}

	r.Browser = browserInfo{Found: true, Path: bin, Sandbox: !r.Env.NoSandbox}

	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- browser path from rod lookup or ROD_BROWSER_BIN
	if err != nil {
		r.warn("Could not get Chrome version: %v", err)
		return
	}
	r.Browser.Version = strings.TrimSpace(string(out))
}

// checkEnvironment records container and CI signals. Chrome's sandbox
// usually fails in both, so running there without ROD_NO_SANDBOX=1 warns.
func checkEnvironment(r *doctorResult, getenv func(string) string) {
	r.Env.Container = hints.ContainerSignal(getenv)
	r.Env.CI = hints.CIVar(getenv)
	if (r.Env.Container != "" || r.Env.CI != "") && !r.Env.NoSandbox {
		r.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkTempDir verifies dir accepts new files; PDF export stages pages there.
func checkTempDir(r *doctorResult, dir string) {
	r.TempDir.Path = dir
	f, err := os.CreateTemp(dir, "nb2html-doctor-*")
	if err != nil {
		r.fail("Temp directory not writable: %s", dir)
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	r.TempDir.Writable = true
}

// checkAssets reports where themes come from and which ones --theme accepts.
func checkAssets(r *doctorResult, path string) {
	r.Assets = assetsInfo{Source: "embedded", Themes: nb2html.Themes()}
	if path == "" {
		return
	}

	src, err := assets.NewFilesystemLoader(path)
	if err != nil {
		r.fail("Asset directory unusable: %v", err)
		return
	}
	r.Assets.Source = src.String()

	custom, err := src.Themes()
	if err != nil {
		r.warn("Could not list custom themes: %v", err)
		return
	}
	for _, name := range custom {
		if !slices.Contains(r.Assets.Themes, name) {
			r.Assets.Themes = append(r.Assets.Themes, name)
		}
	}
}

// printDoctorResult writes the human-readable report.
func printDoctorResult(w io.Writer, r *doctorResult, colored bool) {
	ok := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgRed, color.Bold)
	for _, c := range []*color.Color{ok, warn, bad} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	line := func(c *color.Color, tag, format string, args ...any) {
		fmt.Fprintf(w, "  %s %s\n", c.Sprint(tag), fmt.Sprintf(format, args...))
	}

	fmt.Fprint(w, "nb2html doctor\n\n")

	fmt.Fprintln(w, "Browser (PDF export)")
	if b := r.Browser; b.Found {
		line(ok, "[OK]", "Found at %s", b.Path)
		if b.Version != "" {
			line(ok, "[OK]", "Version: %s", b.Version)
		}
		if b.Sandbox {
			line(ok, "[OK]", "Sandbox: enabled")
		} else {
			line(ok, "[OK]", "Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		line(bad, "[ERROR]", "Not found")
	}

	fmt.Fprintln(w, "\nEnvironment")
	line(ok, "[OK]", "Platform: %s/%s", r.Env.OS, r.Env.Arch)
	if r.Env.Container != "" {
		line(ok, "[OK]", "Container: detected (%s)", r.Env.Container)
	}
	if r.Env.CI != "" {
		line(ok, "[OK]", "CI: detected (%s)", r.Env.CI)
	}

	fmt.Fprintln(w, "\nTemp directory")
	if r.TempDir.Writable {
		line(ok, "[OK]", "%s: writable", r.TempDir.Path)
	} else {
		line(bad, "[ERROR]", "%s: not writable", r.TempDir.Path)
	}

	fmt.Fprintln(w, "\nAssets")
	line(ok, "[OK]", "Source: %s", r.Assets.Source)
	line(ok, "[OK]", "Themes: %s", strings.Join(r.Assets.Themes, ", "))

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, m := range r.Warnings {
			line(warn, "[WARN]", "%s", m)
		}
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, m := range r.Errors {
			line(bad, "[ERROR]", "%s", m)
		}
	}

	fmt.Fprintln(w)
	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
