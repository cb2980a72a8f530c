package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// UnknownSource is reported for provenance fields that are missing.
const UnknownSource = "Unknown"

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// ConversationTurn is one completed question/answer exchange.
type ConversationTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// RetrievalResult is a chunk returned by similarity search.
type RetrievalResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Rank is the 1-based position in the result list.
	Rank int

	// Similarity is the cosine similarity to the query.
	Similarity float64
}

// SourceRef is a citation as returned to clients.
// Page is a string so that missing values can be reported as UnknownSource.
type SourceRef struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	Page   string `json:"page"`
}

// NewSourceRef maps chunk provenance to a citation, substituting
// UnknownSource for empty fields.
func NewSourceRef(p Provenance) SourceRef {
	ref := SourceRef{
		Source: p.Source,
		Title:  p.Title,
		Page:   UnknownSource,
	}
	if ref.Source == "" {
		ref.Source = UnknownSource
	}
	if ref.Title == "" {
		ref.Title = UnknownSource
	}
	if p.Page > 0 {
		ref.Page = strconv.Itoa(p.Page)
	}
	return ref
}

// QueryResponse is the answer to one question.
type QueryResponse struct {
	Answer  string      `json:"response"`
	Sources []SourceRef `json:"sources"`
}

// AnswerSections is a generated answer split into its four headed parts.
type AnswerSections struct {
	Evaluation      string `json:"evaluation"`
	Diagnosis       string `json:"diagnosis"`
	Recommendations string `json:"recommendations"`
	Disclaimer      string `json:"disclaimer"`
}

// sectionHeading matches numbered bold headings such as "1. **Évaluation**".
var sectionHeading = regexp.MustCompile(`\d+\.\s+\*\*.+?\*\*`)

// ParseAnswerSections splits an answer on its numbered bold headings.
// Text before the first heading is discarded; missing parts are empty.
func ParseAnswerSections(answer string) AnswerSections {
	parts := sectionHeading.Split(answer, -1)
	if len(parts) > 0 {
		parts = parts[1:]
	}
	at := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(strings.TrimLeft(parts[i], " :"))
		}
		return ""
	}
	return AnswerSections{
		Evaluation:      at(0),
		Diagnosis:       at(1),
		Recommendations: at(2),
		Disclaimer:      at(3),
	}
}
