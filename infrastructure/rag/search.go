// Package rag provides an offline keyword-relevance search over a
// user-supplied knowledge document. It is a deliberately simple bag-of-words
// heuristic: no stemming, no TF-IDF, no embeddings.
package rag

import (
	"sort"
	"strings"
)

// Fixed soft-failure messages surfaced back into the workflow notes instead
// of being raised as errors.
const (
	MsgNoQueryOrContent = "No search query or knowledge document content was provided."
	MsgQueryTooGeneric  = "The search query was too generic to match against the knowledge document."
	MsgNoRelevantInfo   = "No relevant information was found in the knowledge document for this query."
)

const (
	minChunkLen    = 10
	minWordLen     = 3 // query words must be longer than 2 characters
	topChunks      = 3
	resultPreamble = "Relevant information found in the knowledge document:"
	chunkSeparator = "\n\n---\n\n"
)

// Search scores the document's blank-line-separated chunks against the query
// and returns the top matches joined with a separator, or one of the fixed
// fallback messages. Ties keep original chunk order.
func Search(query, content string) string {
	if strings.TrimSpace(query) == "" || strings.TrimSpace(content) == "" {
		return MsgNoQueryOrContent
	}

	chunks := splitChunks(content)

	words := queryWords(query)
	if len(words) == 0 {
		return MsgQueryTooGeneric
	}

	type scored struct {
		text  string
		score int
	}
	var matches []scored
	for _, chunk := range chunks {
		tokens := tokenSet(chunk)
		score := 0
		for w := range words {
			if tokens[w] {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{text: chunk, score: score})
		}
	}

	if len(matches) == 0 {
		return MsgNoRelevantInfo
	}

	// Stable: ties keep original chunk order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > topChunks {
		matches = matches[:topChunks]
	}

	parts := make([]string, 0, len(matches)+1)
	parts = append(parts, resultPreamble)
	for _, m := range matches {
		parts = append(parts, m.text)
	}
	return strings.Join(parts, chunkSeparator)
}

// splitChunks splits content on blank-line boundaries and drops chunks
// shorter than minChunkLen after trimming.
func splitChunks(content string) []string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	var chunks []string
	for _, raw := range strings.Split(normalized, "\n\n") {
		chunk := strings.TrimSpace(raw)
		if len(chunk) >= minChunkLen {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// queryWords lowercases the query and deduplicates words longer than two
// characters into a set.
func queryWords(query string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) >= minWordLen {
			words[w] = true
		}
	}
	return words
}

// tokenSet lowercases a chunk and splits it on whitespace into a set, so
// hits are counted on whole-word boundaries.
func tokenSet(chunk string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(chunk)) {
		tokens[tok] = true
	}
	return tokens
}
