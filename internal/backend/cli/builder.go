// Package cli implements the executable backend of the delegation server:
// building command invocations, running them, and parsing their text output
// into typed records. The text formats handled here are the only contract
// this backend offers, so every pattern is pinned by a test fixture.
package cli

import "strings"

// Fixed flags prepended to every invocation: disable the interactive pause
// and suppress the banner.
const (
	flagNoCR   = "/NOCR"
	flagNoLogo = "/NOLOGO"
	flagMaster = "/MASTER"
)

// Arg is one keyed argument, rendered as KEY:value. Order is preserved.
type Arg struct {
	Key   string
	Value string
}

// Builder assembles argument vectors for the executable backend. Server
// targeting is fixed at construction: an empty server name targets the
// primary (/MASTER), otherwise /SERVER:<name> is used.
type Builder struct {
	server string
}

// NewBuilder creates a Builder targeting the primary server when server is
// empty, or the named server otherwise.
func NewBuilder(server string) *Builder {
	return &Builder{server: server}
}

// Command is one assembled invocation.
type Command struct {
	tokens []string
}

// Build assembles the token vector for a verb. Positional tokens come first,
// then keyed arguments in order, then boolean flags (rendered as bare tokens;
// false flags are simply not passed in).
func (b *Builder) Build(verb string, positional []string, keyed []Arg, flags ...string) *Command {
	tokens := []string{flagNoCR, flagNoLogo}
	if b.server == "" {
		tokens = append(tokens, flagMaster)
	} else {
		tokens = append(tokens, "/SERVER:"+b.server)
	}
	tokens = append(tokens, verb)
	tokens = append(tokens, positional...)
	for _, a := range keyed {
		tokens = append(tokens, a.Key+":"+a.Value)
	}
	tokens = append(tokens, flags...)
	return &Command{tokens: tokens}
}

// Args returns the raw token vector.
func (c *Command) Args() []string {
	return c.tokens
}

// CommandLine renders the single command-line string the backend parses. A
// token is wrapped in double quotes iff it contains whitespace; no other
// escaping is applied — the backend itself supports nothing more, so this
// must be preserved bit-for-bit.
func (c *Command) CommandLine() string {
	quoted := make([]string, len(c.tokens))
	for i, tok := range c.tokens {
		if strings.ContainsAny(tok, " \t") {
			quoted[i] = `"` + tok + `"`
		} else {
			quoted[i] = tok
		}
	}
	return strings.Join(quoted, " ")
}
