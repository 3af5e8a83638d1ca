package fxmanifest

import "strings"

// A renderable part of the document.
type section interface {
	lines() []string
}

// Line comments. Line breaks inside an entry are folded into spaces so each
// entry stays a single comment line.
type comments []string

func (c comments) lines() []string {
	out := make([]string, len(c))
	for i, line := range c {
		out[i] = "-- " + oneLine(line)
	}
	return out
}

// Joins the physical lines of s with single spaces.
func oneLine(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r'
	}), " ")
}

// A single "key value" statement.
type directive struct {
	key   string
	value string // Already converted to Lua.
}

// Consecutive directives.
type directives []directive

func (d directives) lines() []string {
	out := make([]string, len(d))
	for i, dir := range d {
		out[i] = dir.key + " " + dir.value
	}
	return out
}

// A brace-delimited list of quoted strings.
type block struct {
	name    string
	entries []string
}

func (b block) lines() []string {
	out := make([]string, 0, len(b.entries)+2)
	out = append(out, b.name+" {")
	for _, e := range b.entries {
		out = append(out, "  "+quote(e)+",")
	}
	return append(out, "}")
}

// Ordered sections of a runtime manifest.
type document struct {
	sections []section
}

// Appends a section. Sections rendering no lines are dropped.
func (d *document) add(s section) {
	if len(s.lines()) == 0 {
		return
	}
	d.sections = append(d.sections, s)
}

// Renders the sections separated by blank lines, ending with a newline.
func (d *document) String() string {
	var b strings.Builder
	for i, s := range d.sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, line := range s.lines() {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
