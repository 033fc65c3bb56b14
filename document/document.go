// Package document holds the static HTML template a page is rendered into
// and the placeholder substitution that joins the two.
package document

import "strings"

// DefaultMountID is the id of the element rendered markup is mounted into.
const DefaultMountID = "root"

// Placeholder marks where rendered markup goes. The placeholder token is
// Open immediately followed by Close, e.g. `<div id="root"></div>`.
type Placeholder struct {
	Open  string
	Close string
}

// MountPoint returns the placeholder for an empty div with the given id.
func MountPoint(id string) Placeholder {
	return Placeholder{Open: `<div id="` + id + `">`, Close: "</div>"}
}

// Token returns the exact text searched for in a template.
func (p Placeholder) Token() string {
	return p.Open + p.Close
}

// Contains reports whether doc holds the placeholder token.
func Contains(doc string, p Placeholder) bool {
	return p.Token() != "" && strings.Contains(doc, p.Token())
}

// Inject puts markup between Open and Close at the first occurrence of the
// placeholder token. Markup is inserted verbatim. When the token is absent
// doc is returned unchanged.
func Inject(doc string, p Placeholder, markup string) string {
	token := p.Token()
	if token == "" {
		return doc
	}
	i := strings.Index(doc, token)
	if i < 0 {
		return doc
	}

	var b strings.Builder
	b.Grow(len(doc) + len(markup))
	b.WriteString(doc[:i])
	b.WriteString(p.Open)
	b.WriteString(markup)
	b.WriteString(p.Close)
	b.WriteString(doc[i+len(token):])
	return b.String()
}
