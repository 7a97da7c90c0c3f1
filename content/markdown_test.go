package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Headers(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Header 1", "<h1>Header 1</h1>"},
		{"## Header 2", "<h2>Header 2</h2>"},
		{"### Header 3", "<h3>Header 3</h3>"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Render(tt.input)
			assert.Contains(t, result, tt.expected)
		})
	}
}

func TestRender_MermaidTransform(t *testing.T) {
	input := "```mermaid\ngraph TD; A-->B\n```"
	result := Render(input)

	assert.Contains(t, result, `<div class="mermaid">`)
	assert.Contains(t, result, "graph TD; A-->B")
	assert.NotContains(t, result, `<pre><code class="language-mermaid">`)
}

func TestRender_MermaidLeavesOtherFencesAlone(t *testing.T) {
	input := "```go\nfunc main() {}\n```"
	result := Render(input)

	assert.Contains(t, result, `<pre><code class="language-go">`)
	assert.NotContains(t, result, `<div class="mermaid">`)
}

func TestRender_WhitespaceNormalization(t *testing.T) {
	spread := "First paragraph.\n\n\n\n\nSecond paragraph."
	tight := "First paragraph.\n\nSecond paragraph."

	assert.Equal(t, Render(tight), Render(spread))
}

func TestRender_SingleNewlineIsNotABreak(t *testing.T) {
	input := "line one\nline two"
	result := Render(input)

	assert.NotContains(t, result, "<br")
	assert.Contains(t, result, "line one")
	assert.Contains(t, result, "line two")
}

func TestRender_GFMTable(t *testing.T) {
	input := "| a | b |\n|---|---|\n| 1 | 2 |"
	result := Render(input)

	assert.Contains(t, result, "<table>")
	assert.Contains(t, result, "<td>1</td>")
}

func TestRender_Strikethrough(t *testing.T) {
	result := Render("~~gone~~")
	assert.Contains(t, result, "<del>gone</del>")
}

func TestRender_RawHTMLIsNotPassedThrough(t *testing.T) {
	result := Render("before\n\n<script>alert(1)</script>\n\nafter")
	assert.NotContains(t, result, "<script>")
}

func TestRender_Autolink(t *testing.T) {
	result := Render("see https://example.com for details")
	assert.Contains(t, result, `<a href="https://example.com"`)
}
