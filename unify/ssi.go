// Package unify builds static sites from HTML and Markdown sources with
// Apache SSI flavored directives, layouts, and asset copying.
package unify

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/fwdslsh/toolkit"
)

// directiveRe matches SSI comment directives like <!--#include virtual="/a" -->.
var directiveRe = regexp.MustCompile(`<!--#\s*(include|set|echo|if|elif|else|endif)\b([^>]*?)-->`)

// attrRe matches key="value" attribute pairs inside a directive. Single
// quotes are accepted so expressions can contain double-quoted literals.
var attrRe = regexp.MustCompile(`(\w+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// Expander processes SSI directives in page content. Virtual include paths
// resolve against Root, file include paths against the including file.
type Expander struct {
	Root string

	// Warnf receives non-fatal problems such as unknown echo variables.
	// A nil Warnf discards them.
	Warnf func(format string, args ...any)
}

func (e *Expander) warnf(format string, args ...any) {
	if e.Warnf != nil {
		e.Warnf(format, args...)
	}
}

// ExpandFile reads path and expands its directives. Vars are page scoped
// and shared with included files.
func (e *Expander) ExpandFile(path string, vars map[string]string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return e.expand(string(data), path, vars, []string{cleanPath(path)})
}

// Expand expands directives in content. The path names the page in error
// messages and anchors relative file includes.
func (e *Expander) Expand(content, path string, vars map[string]string) (string, error) {
	return e.expand(content, path, vars, []string{cleanPath(path)})
}

// condFrame tracks one if/elif/else block during expansion.
type condFrame struct {
	// taken is set once a branch in the block has matched.
	taken bool

	// emitting is whether the current branch produces output.
	emitting bool
}

func (e *Expander) expand(content, pagePath string, vars map[string]string, stack []string) (string, error) {
	var out strings.Builder
	var conds []condFrame

	emitting := func() bool {
		for _, f := range conds {
			if !f.emitting {
				return false
			}
		}
		return true
	}

	matches := directiveRe.FindAllStringSubmatchIndex(content, -1)
	pos := 0

	for _, m := range matches {
		if emitting() {
			out.WriteString(content[pos:m[0]])
		}
		pos = m[1]

		name := content[m[2]:m[3]]
		attrs := parseAttrs(content[m[4]:m[5]])

		switch name {
		case "if":
			parent := emitting()
			ok := false
			if parent {
				var err error
				ok, err = evalExpr(attrs["expr"], vars)
				if err != nil {
					return "", toolkit.Errorf(toolkit.EINVALID, "Invalid expression in %s: %s", pagePath, err)
				}
			}
			conds = append(conds, condFrame{taken: ok, emitting: ok})

		case "elif":
			if len(conds) == 0 {
				return "", toolkit.Errorf(toolkit.EINVALID, "Unexpected elif in %s.", pagePath)
			}
			frame := &conds[len(conds)-1]
			if frame.taken {
				frame.emitting = false
				break
			}
			parent := true
			for _, f := range conds[:len(conds)-1] {
				parent = parent && f.emitting
			}
			ok := false
			if parent {
				var err error
				ok, err = evalExpr(attrs["expr"], vars)
				if err != nil {
					return "", toolkit.Errorf(toolkit.EINVALID, "Invalid expression in %s: %s", pagePath, err)
				}
			}
			frame.taken = ok
			frame.emitting = ok

		case "else":
			if len(conds) == 0 {
				return "", toolkit.Errorf(toolkit.EINVALID, "Unexpected else in %s.", pagePath)
			}
			frame := &conds[len(conds)-1]
			frame.emitting = !frame.taken
			frame.taken = true

		case "endif":
			if len(conds) == 0 {
				return "", toolkit.Errorf(toolkit.EINVALID, "Unexpected endif in %s.", pagePath)
			}
			conds = conds[:len(conds)-1]

		case "set":
			if emitting() {
				vars[attrs["var"]] = attrs["value"]
			}

		case "echo":
			if !emitting() {
				break
			}
			value, ok := vars[attrs["var"]]
			if !ok {
				e.warnf("unknown variable %q in %s", attrs["var"], pagePath)
			}
			out.WriteString(value)

		case "include":
			if !emitting() {
				break
			}
			expanded, err := e.include(attrs, pagePath, vars, stack)
			if err != nil {
				return "", err
			}
			out.WriteString(expanded)
		}
	}

	if len(conds) > 0 {
		return "", toolkit.Errorf(toolkit.EINVALID, "Unclosed if block in %s.", pagePath)
	}

	if emitting() {
		out.WriteString(content[pos:])
	}
	return out.String(), nil
}

// include resolves and expands one include directive.
func (e *Expander) include(attrs map[string]string, pagePath string, vars map[string]string, stack []string) (string, error) {
	var target string
	switch {
	case attrs["virtual"] != "":
		target = filepath.Join(e.Root, filepath.FromSlash(strings.TrimPrefix(attrs["virtual"], "/")))
	case attrs["file"] != "":
		target = filepath.Join(filepath.Dir(pagePath), filepath.FromSlash(attrs["file"]))
	default:
		return "", toolkit.Errorf(toolkit.EINVALID, "Include in %s needs a virtual or file attribute.", pagePath)
	}

	target = cleanPath(target)
	if slices.Contains(stack, target) {
		return "", toolkit.Errorf(toolkit.EINVALID, "Include cycle detected: %s -> %s", strings.Join(stack, " -> "), target)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return "", toolkit.Errorf(toolkit.EINVALID, "Missing include %q referenced from %s.", attrs["virtual"]+attrs["file"], pagePath)
	}

	return e.expand(string(data), target, vars, append(stack, target))
}

// evalExpr evaluates a conditional expression: a bare variable (truthy when
// non-empty), var == "lit", var != "lit", or any of those negated with !.
func evalExpr(expr string, vars map[string]string) (bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false, toolkit.Errorf(toolkit.EINVALID, "empty expression")
	}

	if rest, ok := strings.CutPrefix(expr, "!"); ok {
		v, err := evalExpr(rest, vars)
		return !v, err
	}

	for _, op := range []string{"==", "!="} {
		name, lit, found := strings.Cut(expr, op)
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		lit = strings.TrimSpace(lit)
		lit, ok := cutQuotes(lit)
		if !ok || name == "" {
			return false, toolkit.Errorf(toolkit.EINVALID, "malformed comparison %q", expr)
		}
		if op == "==" {
			return vars[name] == lit, nil
		}
		return vars[name] != lit, nil
	}

	return vars[expr] != "", nil
}

func cutQuotes(s string) (string, bool) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	return s[1 : len(s)-1], true
}

func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		attrs[m[1]] = value
	}
	return attrs
}

func cleanPath(p string) string {
	return filepath.Clean(p)
}
