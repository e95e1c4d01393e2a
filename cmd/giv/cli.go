package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/config"
	"github.com/fwdslsh/toolkit/giv"
)

// Dependencies holds the wired services for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Service    *giv.Service
	Config     config.Giv
	ConfigPath string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	ConfigFile string `name:"config" default:".giv.yaml" help:"Config file path"`

	Message      MessageCmd      `cmd:"" help:"Generate a commit message from the staged changes"`
	Changelog    ChangelogCmd    `cmd:"" help:"Generate a changelog entry from commit history"`
	ReleaseNotes ReleaseNotesCmd `cmd:"" name:"release-notes" help:"Generate narrative release notes for a release"`
	Summary      SummaryCmd      `cmd:"" help:"Summarize the changes in a revision range"`
	Config       ConfigCmd       `cmd:"" help:"Get, set, or list configuration values"`
	Init         InitCmd         `cmd:"" help:"Write a starter .giv.yaml"`
}

// MessageCmd is the "message" subcommand.
type MessageCmd struct {
	Short  bool `short:"s" help:"Subject line only, no body"`
	Commit bool `short:"c" help:"Create the commit with the generated message"`
	Sign   bool `help:"Add a Signed-off-by trailer when committing"`
}

// Run executes the message command.
func (c *MessageCmd) Run(deps *Dependencies) error {
	message, err := deps.Service.Message(deps.Ctx, giv.MessageOptions{
		Short:  c.Short,
		Commit: c.Commit,
		Sign:   c.Sign,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, message)
	if c.Commit {
		fmt.Fprintln(deps.Stderr, "Committed.")
	}
	return nil
}

// ChangelogCmd is the "changelog" subcommand.
type ChangelogCmd struct {
	From    string `help:"Start of the commit range (defaults to the latest tag)"`
	To      string `help:"End of the commit range (defaults to HEAD)"`
	Version string `help:"Version heading for the entry (defaults to Unreleased)"`
	AI      bool   `help:"Polish the entry with the configured provider"`
	Write   bool   `short:"w" help:"Prepend the entry to the changelog file"`
	File    string `default:"CHANGELOG.md" help:"Changelog file used with --write"`
}

// Run executes the changelog command.
func (c *ChangelogCmd) Run(deps *Dependencies) error {
	entry, err := deps.Service.Changelog(deps.Ctx, giv.ChangelogOptions{
		From:    c.From,
		To:      c.To,
		Version: c.Version,
		AI:      c.AI,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	if c.Write {
		if err := giv.PrependChangelog(c.File, entry); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Updated %s\n", c.File)
		return nil
	}

	fmt.Fprintln(deps.Stdout, entry)
	return nil
}

// ReleaseNotesCmd is the "release-notes" subcommand.
type ReleaseNotesCmd struct {
	From    string `help:"Start of the commit range (defaults to the latest tag)"`
	To      string `help:"End of the commit range (defaults to HEAD)"`
	Version string `help:"Version the notes describe"`
}

// Run executes the release-notes command.
func (c *ReleaseNotesCmd) Run(deps *Dependencies) error {
	notes, err := deps.Service.ReleaseNotes(deps.Ctx, giv.ReleaseNotesOptions{
		From:    c.From,
		To:      c.To,
		Version: c.Version,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, notes)
	return nil
}

// SummaryCmd is the "summary" subcommand.
type SummaryCmd struct {
	From string `help:"Start of the diff range"`
	To   string `help:"End of the diff range"`
}

// Run executes the summary command.
func (c *SummaryCmd) Run(deps *Dependencies) error {
	summary, err := deps.Service.Summary(deps.Ctx, giv.SummaryOptions{
		From: c.From,
		To:   c.To,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, summary)
	return nil
}

// ConfigCmd is the "config" subcommand.
type ConfigCmd struct {
	Get  ConfigGetCmd  `cmd:"" help:"Print a configuration value"`
	Set  ConfigSetCmd  `cmd:"" help:"Set a configuration value"`
	List ConfigListCmd `cmd:"" default:"1" help:"List all configuration values"`
}

// ConfigGetCmd is the "config get" subcommand.
type ConfigGetCmd struct {
	Key string `arg:"" help:"Configuration key"`
}

// Run executes the config get command.
func (c *ConfigGetCmd) Run(deps *Dependencies) error {
	value, err := deps.Config.Get(c.Key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, value)
	return nil
}

// ConfigSetCmd is the "config set" subcommand.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Configuration key"`
	Value string `arg:"" help:"New value"`
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	if err := deps.Config.Set(c.Key, c.Value); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}
	if err := config.SaveGiv(deps.ConfigPath, deps.Config); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s=%s\n", c.Key, c.Value)
	return nil
}

// ConfigListCmd is the "config list" subcommand.
type ConfigListCmd struct{}

// Run executes the config list command.
func (c *ConfigListCmd) Run(deps *Dependencies) error {
	for _, line := range deps.Config.List() {
		fmt.Fprintln(deps.Stdout, line)
	}
	return nil
}

// InitCmd is the "init" subcommand.
type InitCmd struct {
	Force bool `short:"f" help:"Overwrite an existing config file"`
}

// Run executes the init command.
func (c *InitCmd) Run(deps *Dependencies) error {
	if err := config.InitGiv(deps.ConfigPath, c.Force); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", toolkit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s\n", deps.ConfigPath)
	return nil
}
