// Package hints turns common failures into a short suggestion, rendered as
// "\n  hint: <text>" so it can follow an error message on stderr.
package hints

import (
	"os"
	"path/filepath"
	"strings"
)

// userConfigDir is the directory config files are searched in under the
// user config root.
const userConfigDir = "go-nb2html"

// ciVars are set by common CI providers.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// dockerMarker is created by Docker in every container.
var dockerMarker = "/.dockerenv"

// CIVar returns the first CI provider variable set, or "".
func CIVar(getenv func(string) string) string {
	for _, v := range ciVars {
		if getenv(v) != "" {
			return v
		}
	}
	return ""
}

// ContainerSignal names the first container marker found, or "".
// NB2HTML_CONTAINER=1 forces detection.
func ContainerSignal(getenv func(string) string) string {
	switch {
	case getenv("NB2HTML_CONTAINER") == "1":
		return "NB2HTML_CONTAINER=1"
	case getenv("container") != "":
		return "container=" + getenv("container")
	case getenv("KUBERNETES_SERVICE_HOST") != "":
		return "KUBERNETES_SERVICE_HOST"
	}
	if _, err := os.Stat(dockerMarker); err == nil {
		return dockerMarker
	}
	return ""
}

// BrowserConnect suggests fixes for a browser that failed to start.
func BrowserConnect(getenv func(string) string) string {
	var parts []string
	if getenv("ROD_NO_SANDBOX") != "1" && (CIVar(getenv) != "" || ContainerSignal(getenv) != "") {
		parts = append(parts, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	parts = append(parts, "run 'nb2html doctor'")
	return render(parts...)
}

// Timeout suggests a longer PDF deadline.
func Timeout() string {
	return render("large notebooks may need a longer --timeout")
}

// ConfigNotFound suggests --config, or creating the first candidate under
// the user config directory among searched.
func ConfigNotFound(searched []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(filepath.ToSlash(p), "/"+userConfigDir+"/") {
			hint += " or create " + p
			break
		}
	}
	return render(hint)
}

// OutputDirectory covers output files that could not be written.
func OutputDirectory() string {
	return render("check the output directory exists and is writable")
}

// ThemeNotFound lists the themes --theme accepts.
func ThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return render("available: " + strings.Join(available, ", "))
}

// NotebookParse covers inputs that did not decode as a notebook.
func NotebookParse() string {
	return render("expected a Jupyter notebook (nbformat 3 or 4 JSON); check the file is not truncated")
}

// AssetPath covers an unusable --assets directory.
func AssetPath() string {
	return render("--assets expects a directory holding themes/, templates/ and styles/")
}

// render joins the non-empty parts into one hint line.
func render(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return "\n  hint: " + strings.Join(kept, "; ")
}
