// Package git implements toolkit.HistoryService by shelling out to the
// git binary. Log output is parsed from a NUL-delimited custom format to
// avoid ambiguity with commit messages containing newlines.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fwdslsh/toolkit"
)

// fieldSep and recordSep delimit fields and commits in git log output.
// NUL and SOH cannot appear in commit metadata.
const (
	fieldSep  = "\x00"
	recordSep = "\x01"
)

// logFormat selects hash, short hash, author name, author email,
// author date (ISO 8601), subject and body.
const logFormat = "%H" + fieldSep + "%h" + fieldSep + "%an" + fieldSep + "%ae" + fieldSep + "%aI" + fieldSep + "%s" + fieldSep + "%b" + recordSep

// Compile-time interface verification.
var _ toolkit.HistoryService = (*HistoryService)(nil)

// HistoryService reads and writes git history for the repository
// containing Dir. An empty Dir uses the current working directory.
type HistoryService struct {
	Dir string
}

// NewHistoryService creates a HistoryService for the given directory.
func NewHistoryService(dir string) *HistoryService {
	return &HistoryService{Dir: dir}
}

func (s *HistoryService) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if s.Dir != "" {
		cmd.Dir = s.Dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return stdout.String(), nil
}

// IsRepository reports whether Dir is inside a git work tree.
func (s *HistoryService) IsRepository(ctx context.Context) bool {
	out, err := s.git(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// StagedDiff returns the diff of staged changes.
func (s *HistoryService) StagedDiff(ctx context.Context) (string, error) {
	out, err := s.git(ctx, "diff", "--cached")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", toolkit.Errorf(toolkit.ENOTFOUND, "No staged changes found. Stage changes with 'git add' first.")
	}
	return out, nil
}

// DiffRange returns the diff between two revisions.
func (s *HistoryService) DiffRange(ctx context.Context, rng toolkit.RevisionRange) (string, error) {
	return s.git(ctx, "diff", revSpec(rng))
}

// DiffStat returns the summary stat between two revisions.
func (s *HistoryService) DiffStat(ctx context.Context, rng toolkit.RevisionRange) (string, error) {
	out, err := s.git(ctx, "diff", "--stat", revSpec(rng))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// CommitsInRange returns the commits between two revisions, oldest first.
func (s *HistoryService) CommitsInRange(ctx context.Context, rng toolkit.RevisionRange) ([]*toolkit.Commit, error) {
	out, err := s.git(ctx, "log", "--reverse", "--pretty=format:"+logFormat, revSpec(rng))
	if err != nil {
		return nil, err
	}
	return parseLog(out)
}

// LatestTag returns the most recent tag reachable from HEAD.
func (s *HistoryService) LatestTag(ctx context.Context) (string, error) {
	out, err := s.git(ctx, "describe", "--tags", "--abbrev=0")
	if err != nil {
		return "", toolkit.Errorf(toolkit.ENOTFOUND, "No tags found in repository.")
	}
	return strings.TrimSpace(out), nil
}

// CurrentBranch returns the name of the checked out branch.
func (s *HistoryService) CurrentBranch(ctx context.Context) (string, error) {
	out, err := s.git(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CreateCommit creates a commit from the staged changes. The message is
// passed through a temporary file so multi-line messages survive intact.
func (s *HistoryService) CreateCommit(ctx context.Context, message string, opts toolkit.CommitOptions) error {
	if strings.TrimSpace(message) == "" {
		return toolkit.Errorf(toolkit.EINVALID, "Commit message must not be empty.")
	}

	f, err := os.CreateTemp("", "commit-msg-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(message); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	args := []string{"commit", "-F", f.Name()}
	if opts.Sign {
		args = append(args, "-s")
	}
	_, err = s.git(ctx, args...)
	return err
}

// revSpec builds the git revision range argument. Empty endpoints default
// to the start of history and HEAD respectively.
func revSpec(rng toolkit.RevisionRange) string {
	to := rng.To
	if to == "" {
		to = "HEAD"
	}
	if rng.From == "" {
		return to
	}
	return rng.From + ".." + to
}

// parseLog parses NUL-delimited git log output into commits.
func parseLog(out string) ([]*toolkit.Commit, error) {
	var commits []*toolkit.Commit

	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}

		fields := strings.Split(record, fieldSep)
		if len(fields) != 7 {
			return nil, fmt.Errorf("malformed log record: %d fields", len(fields))
		}

		date, err := time.Parse(time.RFC3339, fields[4])
		if err != nil {
			return nil, fmt.Errorf("parsing commit date: %w", err)
		}

		body := strings.TrimRight(fields[6], "\n")
		commits = append(commits, &toolkit.Commit{
			Hash:      fields[0],
			ShortHash: fields[1],
			Author:    fields[2],
			Email:     fields[3],
			Date:      date,
			Subject:   fields[5],
			Body:      body,
			Trailers:  parseTrailers(body),
		})
	}

	return commits, nil
}

// parseTrailers extracts "Key: value" trailer lines from the final
// paragraph of a commit body.
func parseTrailers(body string) map[string]string {
	paragraphs := strings.Split(strings.TrimSpace(body), "\n\n")
	if len(paragraphs) == 0 {
		return nil
	}

	var trailers map[string]string
	for _, line := range strings.Split(paragraphs[len(paragraphs)-1], "\n") {
		key, value, ok := strings.Cut(line, ": ")
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil
		}
		if trailers == nil {
			trailers = make(map[string]string)
		}
		trailers[key] = strings.TrimSpace(value)
	}
	return trailers
}
