// Package stashtag encodes and decodes the structured messages gmux embeds
// in stash entries.
//
// A tagged stash message looks like:
//
//	gmux(feature/login@1717171717000000000):latest
//
// The branch and discriminator identify which branch the stash belongs to
// and which invocation created it; the role distinguishes the single
// current "latest" stash for a branch from superseded "archived" ones.
// Stashes without this shape are user stashes and are never touched.
package stashtag

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrefix is the marker identifying gmux-created stashes.
const DefaultPrefix = "gmux"

// Role marks whether a tagged stash is the current one for its branch.
type Role string

const (
	// RoleLatest marks the most recent gmux stash for a branch.
	RoleLatest Role = "latest"
	// RoleArchived marks a gmux stash superseded by a newer one.
	RoleArchived Role = "archived"
)

// Entry is a parsed, gmux-tagged stash list entry. Index is positional and
// only valid until the next stash mutation.
type Entry struct {
	Index         int
	Branch        string
	Discriminator string
	Role          Role
}

// Protocol encodes and decodes tagged stash messages for one marker prefix.
type Protocol struct {
	prefix string
}

// New returns a Protocol using the given marker prefix.
// An empty prefix falls back to DefaultPrefix.
func New(prefix string) Protocol {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Protocol{prefix: prefix}
}

// Default is the protocol with the standard gmux marker.
var Default = New(DefaultPrefix)

// Tag produces a latest-tagged stash message for branch and discriminator.
func (p Protocol) Tag(branch, discriminator string) string {
	return fmt.Sprintf("%s(%s@%s):%s", p.prefix, branch, discriminator, RoleLatest)
}

// Archive rewrites a latest-tagged message as archived, preserving branch
// and discriminator. Messages not produced by this protocol are returned
// unchanged.
func (p Protocol) Archive(message string) string {
	branch, disc, _, ok := p.ParseMessage(message)
	if !ok {
		return message
	}
	return fmt.Sprintf("%s(%s@%s):%s", p.prefix, branch, disc, RoleArchived)
}

// ParseMessage decodes a stash message. ok is false for user stashes.
func (p Protocol) ParseMessage(message string) (branch, discriminator string, role Role, ok bool) {
	open := p.prefix + "("
	if !strings.HasPrefix(message, open) {
		return "", "", "", false
	}
	rest := message[len(open):]

	close := strings.LastIndex(rest, "):")
	if close < 0 {
		return "", "", "", false
	}
	inner := rest[:close]

	switch Role(rest[close+2:]) {
	case RoleLatest:
		role = RoleLatest
	case RoleArchived:
		role = RoleArchived
	default:
		return "", "", "", false
	}

	// Branch names may contain '@' (e.g. refs like "v2@patch"), so split on
	// the last one; discriminators never contain '@'.
	at := strings.LastIndex(inner, "@")
	if at <= 0 {
		return "", "", "", false
	}

	return inner[:at], inner[at+1:], role, true
}

// Parse decodes a full `git stash list` line such as
//
//	stash@{2}: On main: gmux(main@1717171717000000000):latest
//
// ok is false for lines that are not gmux-tagged.
func (p Protocol) Parse(line string) (Entry, bool) {
	const refOpen = "stash@{"
	if !strings.HasPrefix(line, refOpen) {
		return Entry{}, false
	}
	end := strings.Index(line, "}: ")
	if end < 0 {
		return Entry{}, false
	}
	index, err := strconv.Atoi(line[len(refOpen):end])
	if err != nil {
		return Entry{}, false
	}

	// The remainder is "<context>: <message>" where context is "On <branch>"
	// or "WIP on <branch>" and never contains a colon itself.
	rest := line[end+len("}: "):]
	sep := strings.Index(rest, ": ")
	if sep < 0 {
		return Entry{}, false
	}
	message := rest[sep+len(": "):]

	branch, disc, role, ok := p.ParseMessage(message)
	if !ok {
		return Entry{}, false
	}

	return Entry{
		Index:         index,
		Branch:        branch,
		Discriminator: disc,
		Role:          role,
	}, true
}

// ParseList decodes all gmux-tagged entries from `git stash list` output
// lines, preserving list order. User stashes are skipped.
func (p Protocol) ParseList(lines []string) []Entry {
	var entries []Entry
	for _, line := range lines {
		if e, ok := p.Parse(line); ok {
			entries = append(entries, e)
		}
	}
	return entries
}
