package toolkit

import (
	"context"
	"time"
)

// Commit represents a single commit in a git repository's history.
type Commit struct {
	Hash      string            `json:"hash"`
	ShortHash string            `json:"shortHash"`
	Author    string            `json:"author"`
	Email     string            `json:"email"`
	Date      time.Time         `json:"date"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Trailers  map[string]string `json:"trailers,omitempty"`
}

// Validate returns an error if the commit contains invalid fields.
func (c *Commit) Validate() error {
	if c.Hash == "" {
		return Errorf(EINVALID, "commit hash required")
	}
	if c.Subject == "" {
		return Errorf(EINVALID, "commit subject required")
	}
	return nil
}

// RevisionRange identifies a span of git history.
// An empty From means the beginning of history; an empty To means HEAD.
type RevisionRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CommitOptions controls commit creation.
type CommitOptions struct {
	// Sign adds a Signed-off-by trailer (git commit -s).
	Sign bool
}

// HistoryService provides access to a git repository's history and
// working tree state.
type HistoryService interface {
	// IsRepository reports whether the working directory is inside a git
	// work tree.
	IsRepository(ctx context.Context) bool

	// StagedDiff returns the diff of staged changes (git diff --cached).
	// Returns ENOTFOUND if nothing is staged.
	StagedDiff(ctx context.Context) (string, error)

	// DiffRange returns the diff between two revisions.
	DiffRange(ctx context.Context, rng RevisionRange) (string, error)

	// DiffStat returns the summary stat between two revisions.
	DiffStat(ctx context.Context, rng RevisionRange) (string, error)

	// CommitsInRange returns the commits between two revisions, oldest first.
	CommitsInRange(ctx context.Context, rng RevisionRange) ([]*Commit, error)

	// LatestTag returns the most recent tag reachable from HEAD.
	// Returns ENOTFOUND if the repository has no tags.
	LatestTag(ctx context.Context) (string, error)

	// CurrentBranch returns the name of the checked out branch.
	CurrentBranch(ctx context.Context) (string, error)

	// CreateCommit creates a commit from the staged changes with the
	// given message.
	CreateCommit(ctx context.Context, message string, opts CommitOptions) error
}
