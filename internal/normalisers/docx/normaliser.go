package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/clinirag/internal/core/domain"
	"github.com/custodia-labs/clinirag/internal/core/ports/driven"
	"github.com/custodia-labs/clinirag/internal/normalisers"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles Word (DOCX) documents.
// DOCX has no fixed pagination; explicit page breaks start a new page.
type Loader struct{}

// New creates a new DOCX loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".docx"}
}

// Load extracts text per explicit page from word/document.xml.
// When the document has no title, docProps/core.xml is consulted.
func (l *Loader) Load(_ context.Context, doc domain.SourceDocument) ([]domain.PageRecord, error) {
	if err := normalisers.CheckSource(doc); err != nil {
		return nil, err
	}

	reader, err := zip.OpenReader(doc.Path)
	if err != nil {
		return nil, normalisers.Unreadable(doc, err)
	}
	defer reader.Close()

	body, err := readEntry(&reader.Reader, "word/document.xml")
	if err != nil {
		return nil, normalisers.Unreadable(doc, err)
	}
	pages, err := parseDocumentXML(body)
	if err != nil {
		return nil, normalisers.Unreadable(doc, err)
	}

	if doc.Title == "" {
		if core, err := readEntry(&reader.Reader, "docProps/core.xml"); err == nil {
			doc.Title = parseCoreTitle(core)
		}
	}
	return normalisers.Pages(doc, pages), nil
}

var errEntryMissing = errors.New("entry missing")

func readEntry(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s: %w", name, errEntryMissing)
}

// parseDocumentXML walks the WordprocessingML body. Paragraphs become
// line breaks, tabs become spaces and <w:br w:type="page"/> starts a page.
func parseDocumentXML(content []byte) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(content)))

	var (
		pages  []string
		page   strings.Builder
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				page.WriteByte(' ')
			case "br":
				if attr(t, "type") == "page" {
					pages = append(pages, page.String())
					page.Reset()
				} else {
					page.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				page.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				page.Write(t)
			}
		}
	}
	return append(pages, page.String()), nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

type coreXML struct {
	Title string `xml:"title"`
}

func parseCoreTitle(content []byte) string {
	var core coreXML
	if err := xml.Unmarshal(content, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}
