// Package lexer tokenizes report search filter expressions.
package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

type Error struct {
	message string
}

func NewLexerError(format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	return e.message
}

type handler func(lex *lexer, regex *regexp.Regexp)

type pattern struct {
	regex   *regexp.Regexp
	handler handler
}

type lexer struct {
	patterns []pattern
	Tokens   []Token
	source   string
	pos      int
}

func Tokenize(source string) ([]Token, error) {
	lex := newLexer(source)

	for !lex.atEOF() {
		matched := false

		for _, pattern := range lex.patterns {
			loc := pattern.regex.FindStringIndex(lex.remainder())
			if loc != nil && loc[0] == 0 {
				pattern.handler(lex, pattern.regex)
				matched = true

				break
			}
		}

		if !matched {
			return lex.Tokens, NewLexerError("unrecognized token near %q", lex.remainder())
		}
	}

	lex.push(newToken(EOF, "EOF"))

	return lex.Tokens, nil
}

func (lex *lexer) advanceN(n int) {
	lex.pos += n
}

func (lex *lexer) remainder() string {
	return lex.source[lex.pos:]
}

func (lex *lexer) push(token Token) {
	lex.Tokens = append(lex.Tokens, token)
}

func (lex *lexer) atEOF() bool {
	return lex.pos >= len(lex.source)
}

func newLexer(source string) *lexer {
	return &lexer{
		source: source,
		Tokens: make([]Token, 0),
		patterns: []pattern{
			{regexp.MustCompile(`\s+`), skipHandler},
			{regexp.MustCompile(`"[^"]*"`), stringHandler},
			{regexp.MustCompile(`'[^']*'`), stringHandler},
			{regexp.MustCompile("`[^`]*`"), stringHandler},
			{regexp.MustCompile(`[0-9]+(\.[0-9]+)?`), numberHandler},
			{regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`), symbolHandler},
			{regexp.MustCompile(`\(`), simpleHandler(OpenParen, "(")},
			{regexp.MustCompile(`\)`), simpleHandler(CloseParen, ")")},
			{regexp.MustCompile(`!=`), simpleHandler(NotEquals, "!=")},
			{regexp.MustCompile(`=`), simpleHandler(Equals, "=")},
			{regexp.MustCompile(`<=`), simpleHandler(LessEquals, "<=")},
			{regexp.MustCompile(`<`), simpleHandler(Less, "<")},
			{regexp.MustCompile(`>=`), simpleHandler(GreaterEquals, ">=")},
			{regexp.MustCompile(`>`), simpleHandler(Greater, ">")},
			{regexp.MustCompile(`\.`), simpleHandler(Dot, ".")},
			{regexp.MustCompile(`,`), simpleHandler(Comma, ",")},
		},
	}
}

func simpleHandler(kind TokenKind, value string) handler {
	return func(lex *lexer, _ *regexp.Regexp) {
		lex.push(newToken(kind, value))
		lex.advanceN(len(value))
	}
}

func stringHandler(lex *lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	lex.push(newToken(String, match))
	lex.advanceN(len(match))
}

func numberHandler(lex *lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	lex.push(newToken(Number, match))
	lex.advanceN(len(match))
}

func symbolHandler(lex *lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())

	if kind, found := reservedLu[strings.ToUpper(match)]; found {
		lex.push(newToken(kind, match))
	} else {
		lex.push(newToken(Identifier, match))
	}

	lex.advanceN(len(match))
}

func skipHandler(lex *lexer, regex *regexp.Regexp) {
	match := regex.FindStringIndex(lex.remainder())
	lex.advanceN(match[1])
}
