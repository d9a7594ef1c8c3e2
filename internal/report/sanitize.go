package report

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowedTags are kept; any other element is unwrapped to its children
var allowedTags = map[atom.Atom]bool{
	atom.P:      true,
	atom.Br:     true,
	atom.Strong: true,
	atom.B:      true,
	atom.Em:     true,
	atom.I:      true,
	atom.U:      true,
	atom.Ul:     true,
	atom.Ol:     true,
	atom.Li:     true,
	atom.Span:   true,
	atom.A:      true,
}

// droppedTags are removed together with their content
var droppedTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Math:     true,
	atom.Form:     true,
}

var allowedSchemes = map[string]bool{"http": true, "https": true, "mailto": true}

// Sanitize reduces an HTML fragment to a small set of formatting tags.
// Links keep only an http, https or mailto href.
func Sanitize(fragment string) string {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return html.EscapeString(fragment)
	}

	var b strings.Builder
	for _, n := range nodes {
		writeSanitized(&b, n)
	}
	return b.String()
}

// PlainText returns the text content of an HTML fragment
func PlainText(fragment string) string {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return fragment
	}

	var b strings.Builder
	for _, n := range nodes {
		writeText(&b, n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func parseFragment(fragment string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	return html.ParseFragment(strings.NewReader(fragment), context)
}

func writeSanitized(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
	default:
		return
	}

	if droppedTags[n.DataAtom] {
		return
	}
	if !allowedTags[n.DataAtom] {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeSanitized(b, c)
		}
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Data)
	if n.DataAtom == atom.A {
		if href, ok := safeHref(n); ok {
			b.WriteString(` href="`)
			b.WriteString(html.EscapeString(href))
			b.WriteString(`" rel="noopener noreferrer"`)
		}
	}
	b.WriteByte('>')

	if n.DataAtom == atom.Br {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeSanitized(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Data)
	b.WriteByte('>')
}

func safeHref(n *html.Node) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace != "" || attr.Key != "href" {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(attr.Val))
		if err != nil || !allowedSchemes[strings.ToLower(u.Scheme)] {
			return "", false
		}
		return u.String(), true
	}
	return "", false
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if droppedTags[n.DataAtom] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(b, c)
		}
		switch n.DataAtom {
		case atom.P, atom.Br, atom.Li:
			b.WriteByte(' ')
		}
	}
}
