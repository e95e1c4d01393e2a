package giv

import (
	"fmt"
	"strings"
)

// System prompts for the generation tasks.
const (
	commitSystemPrompt = "You are an expert developer writing git commit messages. " +
		"Write a Conventional Commits message for the staged changes: a type, " +
		"an optional scope, and an imperative subject line under 72 characters. " +
		"Add a body only when the change needs explanation. " +
		"Respond with the commit message only, no surrounding commentary."

	releaseNotesSystemPrompt = "You are a release manager writing release notes. " +
		"Write clear, user-facing Markdown release notes from the commit summary " +
		"and diff statistics provided. Group related changes, lead with the most " +
		"important ones, and omit internal chores unless notable. " +
		"Respond with the release notes only."

	summarySystemPrompt = "You are an expert developer summarizing code changes. " +
		"Describe what changed and why it matters in a few short paragraphs of " +
		"plain prose. Respond with the summary only."

	polishSystemPrompt = "You are an editor improving a changelog. Rewrite the " +
		"entries for clarity and consistency while preserving every item, the " +
		"section structure, and the Markdown format. Respond with the changelog only."
)

// BuildCommitPrompt builds the user prompt for commit message generation.
func BuildCommitPrompt(diff string, short bool) string {
	var b strings.Builder
	if short {
		b.WriteString("Write only the subject line, no body.\n\n")
	}
	b.WriteString("Staged diff:\n\n```diff\n")
	b.WriteString(diff)
	b.WriteString("\n```")
	return b.String()
}

// BuildChunkSummaryPrompt builds the prompt for summarizing one diff chunk.
func BuildChunkSummaryPrompt(chunk string, index, total int) string {
	return fmt.Sprintf("Summarize the changes in part %d of %d of a large diff. "+
		"List the modified files and what changed in each, in terse bullet points.\n\n```diff\n%s\n```",
		index, total, chunk)
}

// BuildCombinedPrompt builds the final prompt from per-chunk summaries.
func BuildCombinedPrompt(summaries []string) string {
	var b strings.Builder
	b.WriteString("The diff was too large to include directly. ")
	b.WriteString("These are summaries of its parts:\n")
	for i, s := range summaries {
		fmt.Fprintf(&b, "\nPart %d:\n%s\n", i+1, s)
	}
	return b.String()
}

// BuildReleaseNotesPrompt builds the user prompt for release notes.
func BuildReleaseNotesPrompt(version, changelog, diffStat string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write release notes for version %s.\n\n", version)
	b.WriteString("Commits grouped by type:\n\n")
	b.WriteString(changelog)
	if diffStat != "" {
		b.WriteString("\nDiff statistics:\n\n```\n")
		b.WriteString(diffStat)
		b.WriteString("\n```")
	}
	return b.String()
}

// BuildSummaryPrompt builds the user prompt for change summaries.
func BuildSummaryPrompt(diff string) string {
	return "Summarize these changes:\n\n```diff\n" + diff + "\n```"
}

// Sanitize cleans up a generated message: surrounding code fences and
// whitespace are removed. Models frequently wrap replies in fences even
// when told not to.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
		if idx := strings.LastIndex(s, "\n"); idx != -1 && strings.TrimSpace(s[idx:]) == "" {
			s = s[:idx]
		}
	}

	return strings.TrimSpace(s)
}
