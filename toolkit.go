// Package toolkit provides the shared domain model for the fwdslsh
// command-line tools: inform (a documentation crawler that extracts page
// content as markdown), giv (an AI-assisted git commit message and changelog
// generator), and unify (a static site generator with SSI-style templating).
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package toolkit
