package pipeline

import (
	"fmt"
	"strings"
)

// Delimiter terminates every summary in a batched model response.
const Delimiter = "@#$%"

const batchPreamble = `Summarize each of the following Reddit posts in 2-4 concise sentences.
Return the summaries in the same order as the posts.
End every summary with the delimiter ` + Delimiter + ` and do not use that delimiter anywhere else.`

type Fragment struct {
	Title   string
	Excerpt string
}

func formatFragment(f Fragment) string {
	return fmt.Sprintf("Title: %s\n\nBody/Comments: %s\n\n---", f.Title, f.Excerpt)
}

// BuildBatch joins the fragments of one subreddit into a single prompt.
// Fragment order is the only key correlating prompt and response.
func BuildBatch(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments)+1)
	parts = append(parts, batchPreamble)
	for _, f := range fragments {
		parts = append(parts, formatFragment(f))
	}
	return strings.Join(parts, "\n\n")
}

// SplitBatch splits a batched response into summaries. The count is expected
// to match the number of fragments but nothing guarantees it.
func SplitBatch(response string) []string {
	var summaries []string
	for _, piece := range strings.Split(response, Delimiter) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		summaries = append(summaries, piece)
	}
	return summaries
}
