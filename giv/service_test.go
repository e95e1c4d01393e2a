package giv_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/giv"
	"github.com/fwdslsh/toolkit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repoHistory() *mock.HistoryService {
	return &mock.HistoryService{
		IsRepositoryFn: func(context.Context) bool { return true },
	}
}

func TestService_Message(t *testing.T) {
	t.Parallel()

	t.Run("generates message from staged diff", func(t *testing.T) {
		t.Parallel()

		history := repoHistory()
		history.StagedDiffFn = func(context.Context) (string, error) {
			return fileDiff("a.go", 3), nil
		}

		var gotReq toolkit.GenerateRequest
		svc := &giv.Service{
			History: history,
			Generator: &mock.Generator{
				GenerateFn: func(_ context.Context, req toolkit.GenerateRequest) (string, error) {
					gotReq = req
					return "```\nfeat: add a\n```", nil
				},
			},
		}

		message, err := svc.Message(context.Background(), giv.MessageOptions{})

		require.NoError(t, err)
		assert.Equal(t, "feat: add a", message)
		assert.Contains(t, gotReq.Prompt, "a.go")
		assert.NotEmpty(t, gotReq.System)
	})

	t.Run("not a repository returns EINVALID", func(t *testing.T) {
		t.Parallel()

		svc := &giv.Service{
			History: &mock.HistoryService{
				IsRepositoryFn: func(context.Context) bool { return false },
			},
		}

		_, err := svc.Message(context.Background(), giv.MessageOptions{})

		assert.Equal(t, toolkit.EINVALID, toolkit.ErrorCode(err))
	})

	t.Run("nothing staged propagates ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		history := repoHistory()
		history.StagedDiffFn = func(context.Context) (string, error) {
			return "", toolkit.Errorf(toolkit.ENOTFOUND, "No staged changes found.")
		}

		svc := &giv.Service{History: history}

		_, err := svc.Message(context.Background(), giv.MessageOptions{})

		assert.Equal(t, toolkit.ENOTFOUND, toolkit.ErrorCode(err))
	})

	t.Run("commit option creates the commit", func(t *testing.T) {
		t.Parallel()

		var committed string
		var signed bool
		history := repoHistory()
		history.StagedDiffFn = func(context.Context) (string, error) {
			return fileDiff("a.go", 3), nil
		}
		history.CreateCommitFn = func(_ context.Context, message string, opts toolkit.CommitOptions) error {
			committed = message
			signed = opts.Sign
			return nil
		}

		svc := &giv.Service{
			History: history,
			Generator: &mock.Generator{
				GenerateFn: func(context.Context, toolkit.GenerateRequest) (string, error) {
					return "feat: add a", nil
				},
			},
		}

		_, err := svc.Message(context.Background(), giv.MessageOptions{Commit: true, Sign: true})

		require.NoError(t, err)
		assert.Equal(t, "feat: add a", committed)
		assert.True(t, signed)
	})

	t.Run("large diff is chunked and combined", func(t *testing.T) {
		t.Parallel()

		history := repoHistory()
		history.StagedDiffFn = func(context.Context) (string, error) {
			return fileDiff("a.go", 100) + fileDiff("b.go", 100), nil
		}

		var prompts []string
		svc := &giv.Service{
			History:     history,
			TokenBudget: 100,
			Generator: &mock.Generator{
				GenerateFn: func(_ context.Context, req toolkit.GenerateRequest) (string, error) {
					prompts = append(prompts, req.Prompt)
					return "summary", nil
				},
			},
		}

		_, err := svc.Message(context.Background(), giv.MessageOptions{})

		require.NoError(t, err)
		// Two chunk summaries plus the combining call.
		require.Len(t, prompts, 3)
		assert.Contains(t, prompts[0], "part 1 of 2")
		assert.Contains(t, prompts[1], "part 2 of 2")
		assert.Contains(t, prompts[2], "summaries of its parts")
	})
}

func TestService_Changelog(t *testing.T) {
	t.Parallel()

	commits := []*toolkit.Commit{
		{Subject: "feat: add crawler", ShortHash: "aaa1111"},
		{Subject: "fix: retry fetches", ShortHash: "bbb2222"},
	}

	t.Run("renders grouped commits since latest tag", func(t *testing.T) {
		t.Parallel()

		var gotRange toolkit.RevisionRange
		history := repoHistory()
		history.LatestTagFn = func(context.Context) (string, error) { return "v1.0.0", nil }
		history.CommitsInRangeFn = func(_ context.Context, rng toolkit.RevisionRange) ([]*toolkit.Commit, error) {
			gotRange = rng
			return commits, nil
		}

		svc := &giv.Service{History: history}

		out, err := svc.Changelog(context.Background(), giv.ChangelogOptions{Version: "1.1.0"})

		require.NoError(t, err)
		assert.Equal(t, "v1.0.0", gotRange.From)
		assert.Contains(t, out, "## [1.1.0]")
		assert.Contains(t, out, "### Added")
		assert.Contains(t, out, "add crawler (aaa1111)")
	})

	t.Run("no tags uses full history", func(t *testing.T) {
		t.Parallel()

		history := repoHistory()
		history.LatestTagFn = func(context.Context) (string, error) {
			return "", toolkit.Errorf(toolkit.ENOTFOUND, "no tags")
		}
		history.CommitsInRangeFn = func(_ context.Context, rng toolkit.RevisionRange) ([]*toolkit.Commit, error) {
			assert.Empty(t, rng.From)
			return commits, nil
		}

		svc := &giv.Service{History: history}

		_, err := svc.Changelog(context.Background(), giv.ChangelogOptions{})

		require.NoError(t, err)
	})

	t.Run("empty range returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		history := repoHistory()
		history.LatestTagFn = func(context.Context) (string, error) { return "v1.0.0", nil }
		history.CommitsInRangeFn = func(context.Context, toolkit.RevisionRange) ([]*toolkit.Commit, error) {
			return nil, nil
		}

		svc := &giv.Service{History: history}

		_, err := svc.Changelog(context.Background(), giv.ChangelogOptions{})

		assert.Equal(t, toolkit.ENOTFOUND, toolkit.ErrorCode(err))
	})

	t.Run("ai polish passes changelog through generator", func(t *testing.T) {
		t.Parallel()

		history := repoHistory()
		history.LatestTagFn = func(context.Context) (string, error) { return "v1.0.0", nil }
		history.CommitsInRangeFn = func(context.Context, toolkit.RevisionRange) ([]*toolkit.Commit, error) {
			return commits, nil
		}

		svc := &giv.Service{
			History: history,
			Generator: &mock.Generator{
				GenerateFn: func(_ context.Context, req toolkit.GenerateRequest) (string, error) {
					assert.Contains(t, req.Prompt, "### Added")
					return "polished changelog", nil
				},
			},
		}

		out, err := svc.Changelog(context.Background(), giv.ChangelogOptions{AI: true})

		require.NoError(t, err)
		assert.Equal(t, "polished changelog", out)
	})
}

func TestService_ReleaseNotes(t *testing.T) {
	t.Parallel()

	history := repoHistory()
	history.LatestTagFn = func(context.Context) (string, error) { return "v1.0.0", nil }
	history.CommitsInRangeFn = func(context.Context, toolkit.RevisionRange) ([]*toolkit.Commit, error) {
		return []*toolkit.Commit{{Subject: "feat: big feature"}}, nil
	}
	history.DiffStatFn = func(context.Context, toolkit.RevisionRange) (string, error) {
		return " 3 files changed, 42 insertions(+)", nil
	}

	svc := &giv.Service{
		History: history,
		Generator: &mock.Generator{
			GenerateFn: func(_ context.Context, req toolkit.GenerateRequest) (string, error) {
				assert.Contains(t, req.Prompt, "big feature")
				assert.Contains(t, req.Prompt, "42 insertions")
				return "## Release 1.1.0\n\nNotes.", nil
			},
		},
	}

	out, err := svc.ReleaseNotes(context.Background(), giv.ReleaseNotesOptions{Version: "1.1.0"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "## Release 1.1.0"))
}

func TestService_Summary(t *testing.T) {
	t.Parallel()

	t.Run("summarizes diff range", func(t *testing.T) {
		t.Parallel()

		history := repoHistory()
		history.DiffRangeFn = func(_ context.Context, rng toolkit.RevisionRange) (string, error) {
			assert.Equal(t, "v1", rng.From)
			return fileDiff("a.go", 3), nil
		}

		svc := &giv.Service{
			History: history,
			Generator: &mock.Generator{
				GenerateFn: func(context.Context, toolkit.GenerateRequest) (string, error) {
					return "The change adds a.go.", nil
				},
			},
		}

		out, err := svc.Summary(context.Background(), giv.SummaryOptions{From: "v1"})

		require.NoError(t, err)
		assert.Equal(t, "The change adds a.go.", out)
	})

	t.Run("empty diff returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		history := repoHistory()
		history.DiffRangeFn = func(context.Context, toolkit.RevisionRange) (string, error) {
			return "", nil
		}

		svc := &giv.Service{History: history}

		_, err := svc.Summary(context.Background(), giv.SummaryOptions{})

		assert.Equal(t, toolkit.ENOTFOUND, toolkit.ErrorCode(err))
	})
}
