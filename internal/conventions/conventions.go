// Package conventions defines where minissr looks for the page template and
// which mount ids it accepts.
package conventions

import (
	"os"
	"path/filepath"
	"strings"
)

// TemplateCandidates are the project-relative paths searched, in order,
// when no template is configured.
var TemplateCandidates = []string{
	"public/index.html",
	"index.html",
}

// ResolveTemplate returns the template path to use for projectRoot.
// A configured path wins, resolved against projectRoot when relative.
// Otherwise the first existing TemplateCandidates entry is returned, or ""
// when there is none and the built-in template should be used.
//
// Examples:
//
//	("app", "layout.html")   → "app/layout.html"
//	("app", "/srv/x.html")   → "/srv/x.html"
//	("app", "")              → "app/public/index.html" (if it exists)
func ResolveTemplate(projectRoot, configured string) string {
	if configured != "" {
		if filepath.IsAbs(configured) {
			return configured
		}
		return filepath.Join(projectRoot, configured)
	}
	for _, c := range TemplateCandidates {
		path := filepath.Join(projectRoot, c)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// IsValidMountID reports whether id can be used verbatim inside the
// placeholder's id="..." attribute.
func IsValidMountID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.ContainsAny(id, " \t\r\n\f\"'<>&=`")
}
