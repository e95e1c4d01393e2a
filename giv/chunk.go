package giv

import (
	"context"
	"strings"

	"github.com/fwdslsh/toolkit"
)

// DefaultTokenBudget is the per-request token budget for diff content.
// Diffs above the budget are split on file boundaries and summarized
// chunk by chunk.
const DefaultTokenBudget = 24000

// FileDiff is one file's portion of a unified diff.
type FileDiff struct {
	Path    string
	Content string
}

// SplitDiff splits a unified diff on file boundaries.
// Content before the first "diff --git" header is dropped.
func SplitDiff(diff string) []FileDiff {
	var files []FileDiff

	for _, section := range strings.Split(diff, "\ndiff --git ") {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		if !strings.HasPrefix(section, "diff --git ") {
			if len(files) == 0 && !strings.HasPrefix(diff, "diff --git ") {
				// Preamble before the first file header.
				continue
			}
			section = "diff --git " + section
		}

		files = append(files, FileDiff{
			Path:    diffPath(section),
			Content: section,
		})
	}

	return files
}

// diffPath extracts the b-side path from a "diff --git a/x b/x" header.
func diffPath(section string) string {
	header, _, _ := strings.Cut(section, "\n")
	if idx := strings.LastIndex(header, " b/"); idx != -1 {
		return header[idx+3:]
	}
	return ""
}

// ChunkDiff splits a diff into chunks that each fit the token budget.
// Files are never split; a single file exceeding the budget becomes its
// own chunk. A diff already under budget is returned as one chunk.
func ChunkDiff(ctx context.Context, diff string, counter toolkit.TokenCounter, budget int) ([]string, error) {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}

	total, err := counter.CountTokens(ctx, diff)
	if err != nil {
		return nil, err
	}
	if total <= budget {
		return []string{diff}, nil
	}

	files := SplitDiff(diff)
	if len(files) == 0 {
		return []string{diff}, nil
	}

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentTokens = 0
		}
	}

	for _, file := range files {
		tokens, err := counter.CountTokens(ctx, file.Content)
		if err != nil {
			return nil, err
		}

		if currentTokens > 0 && currentTokens+tokens > budget {
			flush()
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(file.Content)
		currentTokens += tokens

		if currentTokens > budget {
			flush()
		}
	}
	flush()

	return chunks, nil
}
