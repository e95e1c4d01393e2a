package giv

import (
	"regexp"
	"strings"

	"github.com/fwdslsh/toolkit"
)

// conventionalRe matches "type(scope)!: description" subjects.
var conventionalRe = regexp.MustCompile(`^([a-zA-Z]+)(\(([^)]*)\))?(!)?:\s*(.+)$`)

// ConventionalCommit is a commit subject parsed per the Conventional
// Commits convention. Subjects that do not follow the convention parse
// with an empty Type and the whole subject as Description.
type ConventionalCommit struct {
	Type        string
	Scope       string
	Breaking    bool
	Description string
	Commit      *toolkit.Commit
}

// ParseConventional parses a commit into its conventional parts.
// A BREAKING CHANGE trailer marks the commit breaking regardless of
// the subject.
func ParseConventional(commit *toolkit.Commit) ConventionalCommit {
	cc := ConventionalCommit{
		Description: commit.Subject,
		Commit:      commit,
	}

	if m := conventionalRe.FindStringSubmatch(commit.Subject); m != nil {
		cc.Type = strings.ToLower(m[1])
		cc.Scope = m[3]
		cc.Breaking = m[4] == "!"
		cc.Description = m[5]
	}

	if _, ok := commit.Trailers["BREAKING CHANGE"]; ok {
		cc.Breaking = true
	}
	if _, ok := commit.Trailers["BREAKING-CHANGE"]; ok {
		cc.Breaking = true
	}

	return cc
}

// Changelog section titles, in Keep a Changelog order. Breaking changes
// are surfaced first, unclassified commits last.
const (
	SectionBreaking   = "Breaking Changes"
	SectionAdded      = "Added"
	SectionChanged    = "Changed"
	SectionDeprecated = "Deprecated"
	SectionRemoved    = "Removed"
	SectionFixed      = "Fixed"
	SectionSecurity   = "Security"
	SectionDocs       = "Documentation"
	SectionOther      = "Other"
)

// sectionOrder fixes the rendering order of changelog sections.
var sectionOrder = []string{
	SectionBreaking,
	SectionAdded,
	SectionChanged,
	SectionDeprecated,
	SectionRemoved,
	SectionFixed,
	SectionSecurity,
	SectionDocs,
	SectionOther,
}

// typeSections maps conventional commit types to changelog sections.
var typeSections = map[string]string{
	"feat":      SectionAdded,
	"fix":       SectionFixed,
	"perf":      SectionChanged,
	"refactor":  SectionChanged,
	"style":     SectionChanged,
	"revert":    SectionRemoved,
	"deprecate": SectionDeprecated,
	"security":  SectionSecurity,
	"docs":      SectionDocs,
}

// GroupCommits groups parsed commits into changelog sections.
// The returned map keys are section titles; iterate with SectionOrder
// for stable output.
func GroupCommits(commits []*toolkit.Commit) map[string][]ConventionalCommit {
	groups := make(map[string][]ConventionalCommit)
	for _, commit := range commits {
		cc := ParseConventional(commit)

		section := SectionOther
		if cc.Breaking {
			section = SectionBreaking
		} else if s, ok := typeSections[cc.Type]; ok {
			section = s
		}

		groups[section] = append(groups[section], cc)
	}
	return groups
}

// SectionOrder returns the changelog section titles in rendering order.
func SectionOrder() []string {
	return sectionOrder
}

// RenderChangelog renders grouped commits as a Keep a Changelog entry.
// The heading is "## [version] - date"; empty sections are omitted.
func RenderChangelog(version, date string, groups map[string][]ConventionalCommit) string {
	var b strings.Builder

	b.WriteString("## [")
	b.WriteString(version)
	b.WriteString("]")
	if date != "" {
		b.WriteString(" - ")
		b.WriteString(date)
	}
	b.WriteString("\n")

	for _, section := range sectionOrder {
		entries := groups[section]
		if len(entries) == 0 {
			continue
		}

		b.WriteString("\n### ")
		b.WriteString(section)
		b.WriteString("\n\n")
		for _, cc := range entries {
			b.WriteString("- ")
			if cc.Scope != "" {
				b.WriteString("**")
				b.WriteString(cc.Scope)
				b.WriteString(":** ")
			}
			b.WriteString(cc.Description)
			if cc.Commit != nil && cc.Commit.ShortHash != "" {
				b.WriteString(" (")
				b.WriteString(cc.Commit.ShortHash)
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
