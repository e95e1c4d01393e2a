package giv

import (
	"os"
	"strings"

	"github.com/google/renameio/v2"
)

// changelogHeader starts a fresh CHANGELOG.md.
const changelogHeader = "# Changelog\n\n" +
	"All notable changes to this project will be documented in this file.\n"

// PrependChangelog inserts a changelog entry at the top of the file's
// entries, after the introductory header, creating the file if needed.
// The write is atomic so a crash never leaves a truncated changelog.
func PrependChangelog(path, entry string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	content := string(existing)
	if content == "" {
		content = changelogHeader
	}

	entry = strings.TrimRight(entry, "\n")

	// Insert before the first version heading, or append when there
	// are no entries yet.
	var updated string
	if idx := strings.Index(content, "\n## "); idx != -1 {
		updated = content[:idx+1] + entry + "\n\n" + content[idx+1:]
	} else {
		updated = strings.TrimRight(content, "\n") + "\n\n" + entry + "\n"
	}

	return renameio.WriteFile(path, []byte(updated), 0644)
}
