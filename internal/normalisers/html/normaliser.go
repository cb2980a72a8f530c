package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
	"github.com/custodia-labs/clinirag/internal/normalisers"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles saved HTML pages. An HTML file is a single page.
type Loader struct{}

// New creates a new HTML loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Load reads the file and strips markup. When the document has no title,
// the <title> element is used.
func (l *Loader) Load(_ context.Context, doc domain.SourceDocument) ([]domain.PageRecord, error) {
	data, err := normalisers.ReadSource(doc)
	if err != nil {
		return nil, err
	}

	content := string(data)
	if doc.Title == "" {
		doc.Title = extractHTMLTitle(content)
	}
	return normalisers.Pages(doc, []string{stripHTML(content)}), nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag        = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockBoundary = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|tr|td|th|blockquote|pre|table|section|article)\b[^>]*>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
)

// extractHTMLTitle returns the decoded <title> text, or "".
func extractHTMLTitle(content string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(matches[1]))
}

// stripHTML removes non-content elements and tags and decodes entities.
// Block elements become line breaks so words in adjacent blocks never merge.
func stripHTML(content string) string {
	for _, re := range []*regexp.Regexp{scriptTag, styleTag, noscriptTag, headTag, svgTag, htmlComments} {
		content = re.ReplaceAllString(content, "")
	}
	content = blockBoundary.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
