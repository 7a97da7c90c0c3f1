package content

import (
	"bytes"
	"html"
	"log"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown renderer configured with Goldmark and the GFM extension set.
// Raw HTML passthrough stays disabled so the output is safe to inject
// into a page.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks
		extension.Linkify, // linkify raw URLs
	),
)

var (
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
	mermaidBlock     = regexp.MustCompile(`(?s)<pre><code class="language-mermaid">(.*?)</code></pre>`)
)

// Render converts a markdown body into sanitized HTML. Runs of blank
// lines are collapsed first so hand-edited files don't accumulate
// vertical whitespace, and mermaid code fences are rewritten into the
// plain container the diagram library expects.
func Render(body string) string {
	body = strings.TrimSpace(excessBlankLines.ReplaceAllString(body, "\n\n"))

	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		log.Printf("Error rendering markdown: %v", err)
		return ""
	}

	return transformMermaid(buf.String())
}

// transformMermaid rewrites <pre><code class="language-mermaid"> blocks
// into <div class="mermaid"> containers. The diagram library parses raw
// source out of a plain container, so the entity escaping applied by
// the code renderer is undone.
func transformMermaid(rendered string) string {
	return mermaidBlock.ReplaceAllStringFunc(rendered, func(block string) string {
		source := mermaidBlock.FindStringSubmatch(block)[1]
		return `<div class="mermaid">` + html.UnescapeString(source) + `</div>`
	})
}
