package parser

import (
	"fmt"
	"strings"
)

type tokenKind uint8

const (
	tokWord   tokenKind = iota + 1 // keyword, identifier or bare literal
	tokString                      // quoted literal, quotes kept
	tokSymbol                      // ( ) , * and comparison operators
)

type token struct {
	kind tokenKind
	text string
}

func (t token) is(kw string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, kw)
}

const symbolChars = "(),*=<>!"

// tokenize splits a statement into tokens. Quoted strings may use ' or " and
// keep their quotes so later stages can tell 'abc' from abc.
func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated string starting at %d", ErrSyntax, i)
			}
			toks = append(toks, token{kind: tokString, text: s[i : i+end+2]})
			i += end + 2
		case c == '!' || c == '<' || c == '>':
			if i+1 < len(s) && (s[i+1] == '=' || (c == '<' && s[i+1] == '>')) {
				toks = append(toks, token{kind: tokSymbol, text: s[i : i+2]})
				i += 2
				continue
			}
			if c == '!' {
				return nil, fmt.Errorf("%w: unexpected '!' at %d", ErrSyntax, i)
			}
			toks = append(toks, token{kind: tokSymbol, text: string(c)})
			i++
		case strings.IndexByte(symbolChars, c) >= 0:
			toks = append(toks, token{kind: tokSymbol, text: string(c)})
			i++
		default:
			j := i
			for j < len(s) && !isBreak(s[j]) {
				j++
			}
			toks = append(toks, token{kind: tokWord, text: s[i:j]})
			i = j
		}
	}
	return toks, nil
}

func isBreak(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' ||
		c == '\'' || c == '"' || strings.IndexByte(symbolChars, c) >= 0
}
