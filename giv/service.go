// Package giv generates commit messages, changelogs, release notes, and
// change summaries from git history using an LLM provider.
package giv

import (
	"context"
	"time"

	"github.com/fwdslsh/toolkit"
)

// Service orchestrates the giv workflows. History and Generator are
// required; Tokens defaults to a byte-length estimator.
type Service struct {
	History     toolkit.HistoryService
	Generator   toolkit.Generator
	Tokens      toolkit.TokenCounter
	TokenBudget int

	// Model and Temperature are passed through to the provider.
	Model       string
	Temperature float32
}

// MessageOptions configures commit message generation.
type MessageOptions struct {
	// Short requests a subject line only.
	Short bool

	// Commit creates the commit with the generated message.
	Commit bool

	// Sign adds a Signed-off-by trailer when committing.
	Sign bool
}

// Message generates a commit message from the staged changes.
// When opts.Commit is set the commit is created before returning.
func (s *Service) Message(ctx context.Context, opts MessageOptions) (string, error) {
	if !s.History.IsRepository(ctx) {
		return "", toolkit.Errorf(toolkit.EINVALID, "Not a git repository.")
	}

	diff, err := s.History.StagedDiff(ctx)
	if err != nil {
		return "", err
	}

	message, err := s.generateFromDiff(ctx, diff, commitSystemPrompt, func(d string) string {
		return BuildCommitPrompt(d, opts.Short)
	})
	if err != nil {
		return "", err
	}

	if opts.Commit {
		if err := s.History.CreateCommit(ctx, message, toolkit.CommitOptions{Sign: opts.Sign}); err != nil {
			return "", err
		}
	}

	return message, nil
}

// ChangelogOptions configures changelog generation.
type ChangelogOptions struct {
	// From and To bound the commit range. An empty From falls back to
	// the latest tag, or the start of history when there are no tags.
	From string
	To   string

	// Version is the heading version; defaults to "Unreleased".
	Version string

	// AI polishes the rendered changelog through the Generator.
	AI bool
}

// Changelog renders the commits in range as a Keep a Changelog entry.
func (s *Service) Changelog(ctx context.Context, opts ChangelogOptions) (string, error) {
	if !s.History.IsRepository(ctx) {
		return "", toolkit.Errorf(toolkit.EINVALID, "Not a git repository.")
	}

	rng, err := s.resolveRange(ctx, opts.From, opts.To)
	if err != nil {
		return "", err
	}

	commits, err := s.History.CommitsInRange(ctx, rng)
	if err != nil {
		return "", err
	}
	if len(commits) == 0 {
		return "", toolkit.Errorf(toolkit.ENOTFOUND, "No commits found in range.")
	}

	version := opts.Version
	if version == "" {
		version = "Unreleased"
	}
	changelog := RenderChangelog(version, time.Now().Format("2006-01-02"), GroupCommits(commits))

	if !opts.AI {
		return changelog, nil
	}

	polished, err := s.generate(ctx, polishSystemPrompt, changelog)
	if err != nil {
		return "", err
	}
	return polished, nil
}

// ReleaseNotesOptions configures release notes generation.
type ReleaseNotesOptions struct {
	From    string
	To      string
	Version string
}

// ReleaseNotes generates narrative Markdown release notes for the range.
func (s *Service) ReleaseNotes(ctx context.Context, opts ReleaseNotesOptions) (string, error) {
	if !s.History.IsRepository(ctx) {
		return "", toolkit.Errorf(toolkit.EINVALID, "Not a git repository.")
	}

	rng, err := s.resolveRange(ctx, opts.From, opts.To)
	if err != nil {
		return "", err
	}

	commits, err := s.History.CommitsInRange(ctx, rng)
	if err != nil {
		return "", err
	}
	if len(commits) == 0 {
		return "", toolkit.Errorf(toolkit.ENOTFOUND, "No commits found in range.")
	}

	version := opts.Version
	if version == "" {
		version = "Unreleased"
	}
	changelog := RenderChangelog(version, "", GroupCommits(commits))

	// The stat is advisory; release notes still work without it.
	stat, err := s.History.DiffStat(ctx, rng)
	if err != nil {
		stat = ""
	}

	return s.generate(ctx, releaseNotesSystemPrompt, BuildReleaseNotesPrompt(version, changelog, stat))
}

// SummaryOptions configures change summaries.
type SummaryOptions struct {
	// From and To bound the diff. Both empty summarizes the working
	// tree against HEAD.
	From string
	To   string
}

// Summary generates a natural language summary of a diff.
func (s *Service) Summary(ctx context.Context, opts SummaryOptions) (string, error) {
	if !s.History.IsRepository(ctx) {
		return "", toolkit.Errorf(toolkit.EINVALID, "Not a git repository.")
	}

	diff, err := s.History.DiffRange(ctx, toolkit.RevisionRange{From: opts.From, To: opts.To})
	if err != nil {
		return "", err
	}
	if diff == "" {
		return "", toolkit.Errorf(toolkit.ENOTFOUND, "No changes to summarize.")
	}

	return s.generateFromDiff(ctx, diff, summarySystemPrompt, BuildSummaryPrompt)
}

// resolveRange fills an empty From with the latest tag. A repository
// without tags uses the full history.
func (s *Service) resolveRange(ctx context.Context, from, to string) (toolkit.RevisionRange, error) {
	if from == "" {
		tag, err := s.History.LatestTag(ctx)
		switch {
		case err == nil:
			from = tag
		case toolkit.ErrorCode(err) == toolkit.ENOTFOUND:
			// No tags; keep the full history.
		default:
			return toolkit.RevisionRange{}, err
		}
	}
	return toolkit.RevisionRange{From: from, To: to}, nil
}

// generateFromDiff runs the chunked generation flow: a diff under the
// token budget goes straight to the provider, a larger one is split on
// file boundaries, each chunk summarized, and the summaries combined in
// a final pass.
func (s *Service) generateFromDiff(ctx context.Context, diff, system string, buildPrompt func(string) string) (string, error) {
	counter := s.Tokens
	if counter == nil {
		counter = &toolkit.TokenEstimator{}
	}

	chunks, err := ChunkDiff(ctx, diff, counter, s.TokenBudget)
	if err != nil {
		return "", err
	}

	if len(chunks) == 1 {
		return s.generate(ctx, system, buildPrompt(chunks[0]))
	}

	summaries := make([]string, len(chunks))
	for i, chunk := range chunks {
		summary, err := s.generate(ctx, system, BuildChunkSummaryPrompt(chunk, i+1, len(chunks)))
		if err != nil {
			return "", err
		}
		summaries[i] = summary
	}

	return s.generate(ctx, system, buildPrompt(BuildCombinedPrompt(summaries)))
}

// generate calls the provider and sanitizes the reply.
func (s *Service) generate(ctx context.Context, system, prompt string) (string, error) {
	out, err := s.Generator.Generate(ctx, toolkit.GenerateRequest{
		System:      system,
		Prompt:      prompt,
		Model:       s.Model,
		Temperature: s.Temperature,
	})
	if err != nil {
		return "", err
	}
	return Sanitize(out), nil
}
