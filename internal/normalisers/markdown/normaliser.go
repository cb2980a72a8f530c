package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
	"github.com/custodia-labs/clinirag/internal/normalisers"
	"github.com/custodia-labs/clinirag/internal/normalisers/plaintext"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles Markdown documents.
type Loader struct{}

// New creates a new Markdown loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Load reads the file, strips Markdown syntax and splits pages on form feeds.
// When the document has no title, the first H1 heading is used.
func (l *Loader) Load(_ context.Context, doc domain.SourceDocument) ([]domain.PageRecord, error) {
	data, err := normalisers.ReadSource(doc)
	if err != nil {
		return nil, err
	}

	content := string(data)
	if doc.Title == "" {
		doc.Title = extractMarkdownTitle(content)
	}

	pages := plaintext.SplitPages(content)
	for i := range pages {
		pages[i] = stripMarkdown(pages[i])
	}
	return normalisers.Pages(doc, pages), nil
}

// Pre-compiled regular expressions for Markdown stripping.
var (
	codeBlock     = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis      = regexp.MustCompile(`(\*\*|__|\*)`)
	blockquote    = regexp.MustCompile(`(?m)^>\s*`)
	horizontal    = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// extractMarkdownTitle returns the first H1 heading, or "" if there is none.
func extractMarkdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

// stripMarkdown removes common Markdown formatting.
// Code blocks are dropped; inline code keeps its text.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = horizontal.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
