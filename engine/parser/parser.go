// Package parser converts one raw command line into a (verb, object) pair.
// Intentionally dumb: word tables and joins, no NLP.
package parser

import (
	"errors"
	"strings"

	"github.com/fardog/advtxt/types"
)

// ErrCompound is returned for compound statements ("take key and go
// east"). They are rejected outright; nothing is partially executed.
var ErrCompound = errors.New("parser: compound commands are not supported")

// ErrEmpty is returned when the line contains no usable tokens.
var ErrEmpty = errors.New("parser: empty command")

// Lexicon holds the word tables for one language. It is plain
// configuration passed into New, never package-level mutable state.
type Lexicon struct {
	// Commands is the canonical verb set.
	Commands map[string]bool
	// Aliases maps non-canonical verbs to canonical ones.
	Aliases map[string]string
	// Prepositions are discarded when they appear directly after the
	// verb in a command of three or more tokens ("pick up the key").
	Prepositions map[string]bool
	// Linkers join compound statements and cause a parse failure.
	Linkers map[string]bool
	// Fillers are dropped before any other processing.
	Fillers map[string]bool
}

// English returns the default English lexicon.
func English() Lexicon {
	return Lexicon{
		Commands: map[string]bool{
			types.VerbGo:    true,
			types.VerbGet:   true,
			types.VerbReset: true,
			types.VerbLook:  true,
			types.VerbExits: true,
		},
		Aliases: map[string]string{
			"walk": types.VerbGo,
			"move": types.VerbGo,
			"head": types.VerbGo,
			"grab": types.VerbGet,
			"take": types.VerbGet,
			"pick": types.VerbGet,
			"see":  types.VerbLook,
			"peep": types.VerbLook,
		},
		Prepositions: map[string]bool{
			"in": true, "on": true, "up": true, "if": true,
		},
		Linkers: map[string]bool{
			"and": true, "or": true, "then": true,
		},
		Fillers: map[string]bool{
			"the": true,
		},
	}
}

// Parsed is the normalized form of one command line.
type Parsed struct {
	Original     string
	Verb         string
	Object       string
	OriginalVerb string // set when an alias was resolved
}

// Parser tokenizes and normalizes command lines against a lexicon.
type Parser struct {
	lex Lexicon
}

// New creates a Parser for the given lexicon.
func New(lex Lexicon) *Parser {
	return &Parser{lex: lex}
}

// Parse normalizes one raw command line. It is pure and synchronous.
//
// Multi-word objects are joined with underscores so they form a single
// atomic identifier ("get rusty key" → object "rusty_key"). Unrecognized
// verbs pass through unchanged; they fail attribute matching downstream,
// not parsing.
func (p *Parser) Parse(raw string) (Parsed, error) {
	tokens := strings.Fields(strings.ToLower(raw))

	// Drop filler words before anything else.
	kept := tokens[:0:0]
	for _, tok := range tokens {
		if !p.lex.Fillers[tok] {
			kept = append(kept, tok)
		}
	}
	tokens = kept

	if len(tokens) == 0 {
		return Parsed{Original: raw}, ErrEmpty
	}

	for _, tok := range tokens {
		if p.lex.Linkers[tok] {
			return Parsed{Original: raw}, ErrCompound
		}
	}

	parsed := Parsed{Original: raw}

	// A preposition directly after the verb is discarded when there is
	// still an object after it ("pick up key" → "pick key").
	if len(tokens) > 2 && p.lex.Prepositions[tokens[1]] {
		parsed.Object = strings.Join(tokens[2:], "_")
	} else {
		parsed.Object = strings.Join(tokens[1:], "_")
	}

	verb := tokens[0]
	if canonical, ok := p.lex.Aliases[verb]; ok {
		parsed.OriginalVerb = verb
		parsed.Verb = canonical
	} else if p.lex.Commands[verb] {
		parsed.Verb = verb
	} else {
		// Pass through unrecognized verbs unchanged.
		parsed.Verb = verb
	}

	return parsed, nil
}
