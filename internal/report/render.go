package report

import (
	"html"
	"strings"

	"github.com/ppiankov/pmicheck/internal/model"
)

// Renderer writes a Document in the supported output formats
type Renderer struct {
	trustMessageHTML bool
}

// NewRenderer creates a renderer
func NewRenderer(cfg model.ReportConfig) *Renderer {
	return &Renderer{trustMessageHTML: cfg.TrustMessageHTML}
}

// Text renders for the terminal. Emphasis is dropped and the message is
// reduced to its text.
func (r *Renderer) Text(doc Document) string {
	var b strings.Builder
	b.WriteString(doc.Headline)
	b.WriteString("\n")
	if doc.Status != StatusReady {
		return b.String()
	}

	b.WriteString("\n")
	if msg := PlainText(doc.Message); msg != "" {
		b.WriteString(msg)
		b.WriteString("\n\n")
	}
	b.WriteString(Intro)
	b.WriteString("\n\n")
	for _, line := range doc.Bullets {
		b.WriteString("  • ")
		b.WriteString(line.String())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(doc.Closing.String())
	b.WriteString("\n")

	if doc.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(doc.Explanation)
		b.WriteString("\n")
	}
	return b.String()
}

// Markdown renders for the check command
func (r *Renderer) Markdown(doc Document) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(doc.Headline)
	b.WriteString("\n")
	if doc.Status != StatusReady {
		return b.String()
	}

	b.WriteString("\n")
	if msg := PlainText(doc.Message); msg != "" {
		b.WriteString("> ")
		b.WriteString(msg)
		b.WriteString("\n\n")
	}
	b.WriteString(Intro)
	b.WriteString("\n\n")
	for _, line := range doc.Bullets {
		b.WriteString("- ")
		writeMarkdownLine(&b, line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	writeMarkdownLine(&b, doc.Closing)
	b.WriteString("\n")

	if doc.Explanation != "" {
		b.WriteString("\n## In plain words\n\n")
		b.WriteString(doc.Explanation)
		b.WriteString("\n")
	}
	return b.String()
}

func writeMarkdownLine(b *strings.Builder, line Line) {
	for _, s := range line {
		if s.Strong && s.Text != "" {
			b.WriteString("**")
			b.WriteString(s.Text)
			b.WriteString("**")
			continue
		}
		b.WriteString(s.Text)
	}
}

// HTML renders the result block for the web page. The service message is
// sanitized unless the renderer was configured to trust it.
func (r *Renderer) HTML(doc Document) string {
	var b strings.Builder
	b.WriteString(`<h2 class="headline">`)
	b.WriteString(html.EscapeString(doc.Headline))
	b.WriteString("</h2>\n")
	if doc.Status != StatusReady {
		return b.String()
	}

	b.WriteString(`<div class="result">` + "\n")
	if doc.Message != "" {
		b.WriteString(`<div class="message">`)
		b.WriteString(r.MessageHTML(doc.Message))
		b.WriteString("</div>\n")
	}
	b.WriteString("<p>")
	b.WriteString(html.EscapeString(Intro))
	b.WriteString("</p>\n<ul>\n")
	for _, line := range doc.Bullets {
		b.WriteString("<li>")
		writeHTMLLine(&b, line)
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n<p>")
	writeHTMLLine(&b, doc.Closing)
	b.WriteString("</p>\n")

	if doc.Explanation != "" {
		b.WriteString(`<p class="explanation">`)
		b.WriteString(html.EscapeString(doc.Explanation))
		b.WriteString("</p>\n")
	}
	b.WriteString("</div>\n")
	return b.String()
}

// MessageHTML returns the service message ready to embed in a page
func (r *Renderer) MessageHTML(message string) string {
	if r.trustMessageHTML {
		return message
	}
	return Sanitize(message)
}

func writeHTMLLine(b *strings.Builder, line Line) {
	for _, s := range line {
		text := html.EscapeString(s.Text)
		if s.Strong {
			b.WriteString("<strong>")
			b.WriteString(text)
			b.WriteString("</strong>")
			continue
		}
		b.WriteString(text)
	}
}
